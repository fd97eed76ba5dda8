package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	Create(ctx context.Context, name string) (*Session, error)
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// WithSession runs fn with the session locked, so read-modify-write
	// sequences on its base are atomic. Touches LastActiveAt.
	WithSession(ctx context.Context, id uuid.UUID, fn func(*Session) error) error
	// DeleteIdle removes sessions whose LastActiveAt predates cutoff and
	// returns how many were dropped.
	DeleteIdle(ctx context.Context, cutoff time.Time) (int, error)
}
