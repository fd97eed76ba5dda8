package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/Harshitk-cp/doxa/internal/logic"
	"go.uber.org/zap"
)

var (
	ErrVacuousTarget = errors.New("cannot contract a tautology")
)

// RevisionService implements belief change over a BeliefBase: expansion,
// contraction and revision, plus the query operations the API and shell
// expose. Contraction is greedy: it retracts the least entrenched belief
// until the target is no longer entailed, which can remove more beliefs
// than logically necessary but never too few.
type RevisionService struct {
	logger *zap.Logger
}

func NewRevisionService(logger *zap.Logger) *RevisionService {
	return &RevisionService{
		logger: logger,
	}
}

// Expand adds f to the base unconditionally. No consistency check is
// performed; an expansion can leave the base contradictory on purpose.
func (s *RevisionService) Expand(ctx context.Context, base *domain.BeliefBase, f logic.Formula, entrenchment int) (domain.Belief, error) {
	belief, err := base.Expand(f, entrenchment)
	if err != nil {
		return domain.Belief{}, fmt.Errorf("failed to expand base: %w", err)
	}

	s.logger.Debug("expanded belief base",
		zap.String("formula", belief.Formula.String()),
		zap.Int("entrenchment", belief.Entrenchment))

	return belief, nil
}

// Remove retracts the first belief whose formula is structurally equal to f.
// Unlike Contract it does not touch any other belief, so f may still be
// derivable from what remains.
func (s *RevisionService) Remove(ctx context.Context, base *domain.BeliefBase, f logic.Formula) (domain.Belief, error) {
	belief, err := base.Remove(f)
	if err != nil {
		return domain.Belief{}, err
	}

	s.logger.Debug("removed belief",
		zap.String("formula", belief.Formula.String()))

	return belief, nil
}

// Update replaces the belief old with updated at the given entrenchment,
// keeping the old belief's position in the base.
func (s *RevisionService) Update(ctx context.Context, base *domain.BeliefBase, old, updated logic.Formula, entrenchment int) (domain.Belief, error) {
	belief, err := base.Update(old, updated, entrenchment)
	if err != nil {
		return domain.Belief{}, err
	}

	s.logger.Debug("updated belief",
		zap.String("old", old.String()),
		zap.String("new", belief.Formula.String()),
		zap.Int("entrenchment", belief.Entrenchment))

	return belief, nil
}

// Entrenchment reports the entrenchment of the belief structurally equal
// to f.
func (s *RevisionService) Entrenchment(ctx context.Context, base *domain.BeliefBase, f logic.Formula) (int, error) {
	return base.Entrenchment(f)
}

// Entails reports whether the base's clauses entail f by resolution.
func (s *RevisionService) Entails(ctx context.Context, base *domain.BeliefBase, f logic.Formula) (bool, error) {
	return base.Entails(ctx, f)
}

// Contract retracts beliefs until the base no longer entails f, always
// sacrificing the least entrenched belief first (ties broken by age,
// oldest first). Returns the retracted beliefs in retraction order.
//
// Contracting a formula the base does not entail is a no-op. Contracting a
// tautology is impossible, since even the empty base entails it, and
// returns ErrVacuousTarget. The base is only mutated once the whole
// contraction has succeeded.
func (s *RevisionService) Contract(ctx context.Context, base *domain.BeliefBase, f logic.Formula) ([]domain.Belief, error) {
	entailed, err := base.Entails(ctx, f)
	if err != nil {
		return nil, err
	}
	if !entailed {
		return nil, nil
	}

	tautology, err := logic.Entails(ctx, nil, f)
	if err != nil {
		return nil, err
	}
	if tautology {
		return nil, fmt.Errorf("%w: %s", ErrVacuousTarget, f)
	}

	working := base.Clone()
	var removed []domain.Belief
	for {
		entailed, err := working.Entails(ctx, f)
		if err != nil {
			return nil, err
		}
		if !entailed {
			break
		}

		victim, ok := working.Weakest()
		if !ok {
			// Unreachable: an empty base only entails tautologies,
			// and those were rejected above.
			return nil, fmt.Errorf("%w: %s", ErrVacuousTarget, f)
		}
		working.RemoveByID(victim.ID)
		removed = append(removed, victim)

		s.logger.Debug("retracting belief",
			zap.String("formula", victim.Formula.String()),
			zap.Int("entrenchment", victim.Entrenchment),
			zap.String("target", f.String()))
	}

	for _, b := range removed {
		base.RemoveByID(b.ID)
	}

	s.logger.Info("contracted belief base",
		zap.String("target", f.String()),
		zap.Int("removed", len(removed)))

	return removed, nil
}

// Revise incorporates f into the base while keeping it consistent where
// possible: the base is first contracted with ~f to make room, then
// expanded with f at the given entrenchment. When f is unsatisfiable the
// contraction target ~f is a tautology and the contraction is skipped;
// accepting the new belief wins over staying consistent.
func (s *RevisionService) Revise(ctx context.Context, base *domain.BeliefBase, f logic.Formula, entrenchment int) ([]domain.Belief, domain.Belief, error) {
	if f == nil {
		return nil, domain.Belief{}, fmt.Errorf("%w: nil formula", logic.ErrMalformedFormula)
	}

	removed, err := s.Contract(ctx, base, logic.Not(f))
	if err != nil {
		if !errors.Is(err, ErrVacuousTarget) {
			return nil, domain.Belief{}, err
		}
		s.logger.Warn("revision target is unsatisfiable, expanding anyway",
			zap.String("formula", f.String()))
		removed = nil
	}

	added, err := s.Expand(ctx, base, f, entrenchment)
	if err != nil {
		return nil, domain.Belief{}, err
	}

	return removed, added, nil
}
