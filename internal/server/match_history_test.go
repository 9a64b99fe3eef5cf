package server_test

import (
	"context"
	"testing"
	"time"
	"virus-server/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupMatchStore spins up a throwaway Postgres for the test. Skips when no
// container runtime is available, e.g. in minimal CI environments.
func setupMatchStore(t *testing.T) *server.MatchStore {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("virus_test"),
		postgres.WithUsername("virus"),
		postgres.WithPassword("virus"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("Skipping: could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := server.NewMatchStore(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return store
}

func TestMatchStoreRecordAndList(t *testing.T) {
	store := setupMatchStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordMatch(ctx, "ABCDE", "Alice", 3))
	require.NoError(t, store.RecordMatch(ctx, "FGHJK", "Bob", 2))

	matches, err := store.RecentMatches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Newest first.
	assert.Equal(t, "FGHJK", matches[0].RoomCode)
	assert.Equal(t, "Bob", matches[0].WinnerName)
	assert.Equal(t, 2, matches[0].PlayerCount)
	assert.Equal(t, "ABCDE", matches[1].RoomCode)
	assert.WithinDuration(t, time.Now(), matches[0].FinishedAt, time.Minute)
}

func TestMatchStoreRecentMatchesLimit(t *testing.T) {
	store := setupMatchStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordMatch(ctx, "ABCDE", "Alice", 2))
	}

	matches, err := store.RecentMatches(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestMatchStoreCleanup(t *testing.T) {
	store := setupMatchStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordMatch(ctx, "ABCDE", "Alice", 2))

	// Nothing is old enough to delete.
	deleted, err := store.CleanupOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	// With a negative age the cutoff is in the future, so everything goes.
	deleted, err = store.CleanupOlderThan(ctx, -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	matches, err := store.RecentMatches(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchStoreInitIsIdempotent(t *testing.T) {
	store := setupMatchStore(t)

	assert.NoError(t, store.Init(context.Background()))
}
