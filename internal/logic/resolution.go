package logic

import (
	"context"
	"fmt"
)

// Entails reports whether the clause set entails goal, by refutation: the
// negated goal joins the premises and the set is saturated under
// resolution. Deriving the empty clause proves entailment; a saturation
// pass that adds nothing disproves it. The clause space over a fixed atom
// vocabulary is finite, so the loop terminates. The context is checked
// between passes so callers can bound pathological inputs; cancellation is
// the only failure mode besides a nil goal.
func Entails(ctx context.Context, premises []Clause, goal Formula) (bool, error) {
	if goal == nil {
		return false, fmt.Errorf("%w: nil goal", ErrMalformedFormula)
	}
	negated, err := ToCNF(Not(goal))
	if err != nil {
		return false, err
	}

	seen := make(map[string]bool)
	working := make([]Clause, 0, len(premises)+len(negated))
	add := func(c Clause) {
		if k := c.Key(); !seen[k] {
			seen[k] = true
			working = append(working, c)
		}
	}
	for _, c := range premises {
		if c.IsEmpty() {
			// A contradictory premise set entails everything.
			return true, nil
		}
		add(c)
	}
	for _, c := range negated {
		add(c)
	}

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		var fresh []Clause
		for i := 0; i < len(working); i++ {
			for j := i + 1; j < len(working); j++ {
				for _, r := range working[i].Resolvents(working[j]) {
					if r.IsTautology() {
						continue
					}
					if r.IsEmpty() {
						return true, nil
					}
					if k := r.Key(); !seen[k] {
						seen[k] = true
						fresh = append(fresh, r)
					}
				}
			}
		}
		if len(fresh) == 0 {
			return false, nil
		}
		working = append(working, fresh...)
	}
}
