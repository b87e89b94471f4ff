package interfaces

import (
	"context"

	"go-session-feed/internal/models"
)

//go:generate mockgen -package=mock -source=session_store.go -destination=mock/session_store.go

// SessionStore defines the backend query contract the feed depends on
type SessionStore interface {
	// ListOpenSessions returns one page of open sessions ordered by
	// session date ascending, plus the total number of matching rows
	ListOpenSessions(ctx context.Context, q models.SessionQuery) ([]models.Session, int64, error)

	// ListSports returns the full sports reference list
	ListSports(ctx context.Context) ([]models.Sport, error)

	// Ping tests connectivity
	Ping(ctx context.Context) error

	// Close releases the underlying pool
	Close()
}
