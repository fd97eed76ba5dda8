package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is an independently owned belief base with lifecycle metadata.
// Bases in different sessions share nothing.
type Session struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Base         *BeliefBase `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActiveAt time.Time   `json:"last_active_at"`
}
