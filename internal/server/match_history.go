package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchStore records finished games in Postgres. It is history only: live
// rooms never touch the database, and the server runs fine without a store
// at all (nil when DATABASE_URL is unset).
type MatchStore struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID          int64
	RoomCode    string
	WinnerName  string
	PlayerCount int
	FinishedAt  time.Time
}

func NewMatchStore(ctx context.Context, databaseURL string) (*MatchStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &MatchStore{pool: pool}
	if err := store.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// Init creates the matches table if it doesn't exist yet.
func (ms *MatchStore) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS matches (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			room_code TEXT NOT NULL,
			winner_name TEXT NOT NULL,
			player_count INT NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := ms.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create matches table: %w", err)
	}

	return nil
}

func (ms *MatchStore) RecordMatch(ctx context.Context, roomCode, winnerName string, playerCount int) error {
	query := `
		INSERT INTO matches (room_code, winner_name, player_count)
		VALUES ($1, $2, $3)
	`

	if _, err := ms.pool.Exec(ctx, query, roomCode, winnerName, playerCount); err != nil {
		return fmt.Errorf("failed to record match for room %s: %w", roomCode, err)
	}

	return nil
}

// RecentMatches returns the latest finished games, newest first.
func (ms *MatchStore) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	query := `
		SELECT id, room_code, winner_name, player_count, finished_at
		FROM matches
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := ms.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.WinnerName, &m.PlayerCount, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}

	return matches, nil
}

// CleanupOlderThan deletes match rows older than the given age and reports
// how many went away. Keeps the table from growing forever.
func (ms *MatchStore) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)

	tag, err := ms.pool.Exec(ctx, `DELETE FROM matches WHERE finished_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old matches: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func (ms *MatchStore) Close() {
	ms.pool.Close()
}
