package domain

import (
	"time"

	"github.com/Harshitk-cp/doxa/internal/logic"
	"github.com/google/uuid"
)

// DefaultEntrenchment is assumed when an operation does not name one.
const DefaultEntrenchment = 50

// Belief is a stored formula with its clause form and an entrenchment
// expressing resistance to removal; lower values are given up first under
// contraction. Beliefs are immutable once stored: updating one replaces the
// record at its position.
type Belief struct {
	ID           uuid.UUID     `json:"id"`
	Formula      logic.Formula `json:"-"`
	Clauses      logic.CNF     `json:"-"`
	Entrenchment int           `json:"entrenchment"`
	Position     int           `json:"position"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewBelief normalizes the formula and wraps it as a belief. The position
// is assigned by the base on insertion.
func NewBelief(f logic.Formula, entrenchment int) (Belief, error) {
	cnf, err := logic.ToCNF(f)
	if err != nil {
		return Belief{}, err
	}
	return Belief{
		ID:           uuid.New(),
		Formula:      f,
		Clauses:      cnf,
		Entrenchment: entrenchment,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
