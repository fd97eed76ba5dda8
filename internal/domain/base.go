package domain

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/doxa/internal/logic"
	"github.com/google/uuid"
)

var ErrBeliefNotFound = errors.New("belief not found")

// BeliefBase is an insertion-ordered collection of beliefs. Expansion is
// consistency-blind and nothing deduplicates: the base stores exactly what
// it was given. Mutating methods either fully apply or leave the base
// untouched. The base is not safe for concurrent use; callers serialize
// access.
type BeliefBase struct {
	beliefs []Belief
	nextPos int
}

func NewBeliefBase() *BeliefBase {
	return &BeliefBase{}
}

// Expand appends a belief for the formula. No entailment or consistency
// check is made, even if the formula contradicts the base.
func (b *BeliefBase) Expand(f logic.Formula, entrenchment int) (Belief, error) {
	belief, err := NewBelief(f, entrenchment)
	if err != nil {
		return Belief{}, err
	}
	belief.Position = b.nextPos
	b.nextPos++
	b.beliefs = append(b.beliefs, belief)
	return belief, nil
}

// Remove deletes the first belief whose formula is structurally equal to f.
// One record per call: duplicates stay until removed again.
func (b *BeliefBase) Remove(f logic.Formula) (Belief, error) {
	for i, belief := range b.beliefs {
		if logic.Equal(belief.Formula, f) {
			b.beliefs = append(b.beliefs[:i], b.beliefs[i+1:]...)
			return belief, nil
		}
	}
	return Belief{}, ErrBeliefNotFound
}

// RemoveByID deletes the belief with the given ID, reporting whether it was
// present.
func (b *BeliefBase) RemoveByID(id uuid.UUID) bool {
	for i, belief := range b.beliefs {
		if belief.ID == id {
			b.beliefs = append(b.beliefs[:i], b.beliefs[i+1:]...)
			return true
		}
	}
	return false
}

// Entrenchment returns the entrenchment of the first belief matching f.
func (b *BeliefBase) Entrenchment(f logic.Formula) (int, error) {
	for _, belief := range b.beliefs {
		if logic.Equal(belief.Formula, f) {
			return belief.Entrenchment, nil
		}
	}
	return 0, ErrBeliefNotFound
}

// Update replaces the first belief matching old with a new record for the
// given formula, keeping the slot and its insertion position.
func (b *BeliefBase) Update(old, updated logic.Formula, entrenchment int) (Belief, error) {
	for i, belief := range b.beliefs {
		if logic.Equal(belief.Formula, old) {
			replacement, err := NewBelief(updated, entrenchment)
			if err != nil {
				return Belief{}, err
			}
			replacement.Position = belief.Position
			b.beliefs[i] = replacement
			return replacement, nil
		}
	}
	return Belief{}, ErrBeliefNotFound
}

// Beliefs returns a snapshot of the base in insertion order.
func (b *BeliefBase) Beliefs() []Belief {
	out := make([]Belief, len(b.beliefs))
	copy(out, b.beliefs)
	return out
}

func (b *BeliefBase) Len() int { return len(b.beliefs) }

// Clear drops every belief.
func (b *BeliefBase) Clear() {
	b.beliefs = nil
}

// Clauses returns the union of the stored clause sets.
func (b *BeliefBase) Clauses() []logic.Clause {
	var out []logic.Clause
	for _, belief := range b.beliefs {
		out = append(out, belief.Clauses...)
	}
	return out
}

// Entails reports whether the stored beliefs jointly entail f.
func (b *BeliefBase) Entails(ctx context.Context, f logic.Formula) (bool, error) {
	return logic.Entails(ctx, b.Clauses(), f)
}

// Weakest returns the belief with the lowest entrenchment, ties going to
// the earliest insertion, and false on an empty base.
func (b *BeliefBase) Weakest() (Belief, bool) {
	if len(b.beliefs) == 0 {
		return Belief{}, false
	}
	weakest := b.beliefs[0]
	for _, belief := range b.beliefs[1:] {
		if belief.Entrenchment < weakest.Entrenchment ||
			(belief.Entrenchment == weakest.Entrenchment && belief.Position < weakest.Position) {
			weakest = belief
		}
	}
	return weakest, true
}

// Clone returns an independent copy of the base. Belief values are shared;
// they are immutable, so the copies cannot interfere.
func (b *BeliefBase) Clone() *BeliefBase {
	return &BeliefBase{beliefs: b.Beliefs(), nextPos: b.nextPos}
}
