package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Server struct {
	port              int
	connectionManager *ConnectionManager
	roomManager       *RoomManager
	rateLimiter       *RateLimiter
	connectionHealth  *ConnectionHealth
	matchStore        *MatchStore
}

func NewServer() (*Server, *http.Server) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 3000
	}

	srv := &Server{
		port:              port,
		connectionManager: NewConnectionManager(),
		roomManager:       NewRoomManager(),
		rateLimiter:       NewRateLimiter(20, time.Second),
		connectionHealth:  NewConnectionHealth(),
	}

	// Match history is optional: without DATABASE_URL the server simply
	// keeps no record of finished games.
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		store, err := NewMatchStore(context.Background(), databaseURL)
		if err != nil {
			log.Printf("Warning: match history disabled: %v", err)
		} else {
			srv.matchStore = store
			go srv.historyCleanupTask()
		}
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv, httpServer
}

// recordMatch writes a finished game to the history store, if there is one.
func (s *Server) recordMatch(roomCode, winnerName string, playerCount int) {
	if s.matchStore == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.matchStore.RecordMatch(ctx, roomCode, winnerName, playerCount); err != nil {
		log.Printf("Failed to record match for room %s: %v", roomCode, err)
	}
}

// historyCleanupTask runs daily and deletes match records older than 30
// days, so the history table doesn't grow without bound.
func (s *Server) historyCleanupTask() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		deleted, err := s.matchStore.CleanupOlderThan(ctx, 30*24*time.Hour)
		cancel()
		if err != nil {
			log.Printf("History cleanup failed: %v", err)
			continue
		}

		if deleted > 0 {
			log.Printf("History cleanup: deleted %d old matches", deleted)
		}
	}
}

// Shutdown releases server-owned resources during graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.matchStore != nil {
		s.matchStore.Close()
	}
	return nil
}
