package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/Harshitk-cp/doxa/internal/logic"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func mustParse(t *testing.T, input string) logic.Formula {
	t.Helper()
	f, err := logic.Parse(input)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", input, err)
	}
	return f
}

type entry struct {
	formula      string
	entrenchment int
}

func buildBase(t *testing.T, entries ...entry) *domain.BeliefBase {
	t.Helper()
	base := domain.NewBeliefBase()
	for _, e := range entries {
		if _, err := base.Expand(mustParse(t, e.formula), e.entrenchment); err != nil {
			t.Fatalf("failed to expand with %q: %v", e.formula, err)
		}
	}
	return base
}

func formulas(base *domain.BeliefBase) []string {
	out := []string{}
	for _, b := range base.Beliefs() {
		out = append(out, b.Formula.String())
	}
	return out
}

func removedFormulas(removed []domain.Belief) []string {
	out := []string{}
	for _, b := range removed {
		out = append(out, b.Formula.String())
	}
	return out
}

func entailsOrFail(t *testing.T, base *domain.BeliefBase, input string) bool {
	t.Helper()
	ok, err := base.Entails(context.Background(), mustParse(t, input))
	if err != nil {
		t.Fatalf("entailment check for %q failed: %v", input, err)
	}
	return ok
}

func TestContractNoOpWhenNotEntailed(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50}, entry{"q", 50})

	removed, err := svc.Contract(context.Background(), base, mustParse(t, "r"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removedFormulas(removed))
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"p", "q"}) {
		t.Fatalf("expected base unchanged, got %v", got)
	}
}

func TestContractBreaksEntailment(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 20}, entry{"p >> q", 40})

	if !entailsOrFail(t, base, "q") {
		t.Fatalf("expected base to entail q before contraction")
	}

	removed, err := svc.Contract(context.Background(), base, mustParse(t, "q"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := removedFormulas(removed); !reflect.DeepEqual(got, []string{"p"}) {
		t.Fatalf("expected only p removed, got %v", got)
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"p >> q"}) {
		t.Fatalf("expected base to keep the implication, got %v", got)
	}
	if entailsOrFail(t, base, "q") {
		t.Fatalf("expected base to no longer entail q")
	}
}

func TestContractRemovesUntilUnderivable(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 20}, entry{"p >> q", 40}, entry{"q", 60})

	removed, err := svc.Contract(context.Background(), base, mustParse(t, "q"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Greedy retraction climbs the entrenchment order until q is gone:
	// dropping p alone still leaves q itself in the base.
	want := []string{"p", "p >> q", "q"}
	if got := removedFormulas(removed); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected removals %v, got %v", want, got)
	}
	if base.Len() != 0 {
		t.Fatalf("expected empty base, got %v", formulas(base))
	}
}

func TestContractPrefersLowestEntrenchment(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p >> q", 80}, entry{"p", 10})

	removed, err := svc.Contract(context.Background(), base, mustParse(t, "q"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := removedFormulas(removed); !reflect.DeepEqual(got, []string{"p"}) {
		t.Fatalf("expected the weaker belief p removed, got %v", got)
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"p >> q"}) {
		t.Fatalf("expected the entrenched implication to survive, got %v", got)
	}
}

func TestContractTieBreakByAge(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t,
		entry{"x", 10},
		entry{"y", 10},
		entry{"x >> g", 50},
		entry{"y >> g", 50},
	)

	removed, err := svc.Contract(context.Background(), base, mustParse(t, "g"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Equal entrenchment: the older belief goes first.
	if got := removedFormulas(removed); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("expected [x y] removed in age order, got %v", got)
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"x >> g", "y >> g"}) {
		t.Fatalf("expected both implications to survive, got %v", got)
	}
}

func TestContractTautology(t *testing.T) {
	svc := NewRevisionService(testLogger())

	for _, input := range []string{"q | ~q", "p >> p", "(p & q) >> p"} {
		base := buildBase(t, entry{"p", 50})

		_, err := svc.Contract(context.Background(), base, mustParse(t, input))
		if !errors.Is(err, ErrVacuousTarget) {
			t.Fatalf("contract %q: expected ErrVacuousTarget, got %v", input, err)
		}
		if got := formulas(base); !reflect.DeepEqual(got, []string{"p"}) {
			t.Fatalf("contract %q: expected base unchanged, got %v", input, got)
		}
	}
}

func TestContractTautologyOnEmptyBase(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := domain.NewBeliefBase()

	_, err := svc.Contract(context.Background(), base, mustParse(t, "p | ~p"))
	if !errors.Is(err, ErrVacuousTarget) {
		t.Fatalf("expected ErrVacuousTarget, got %v", err)
	}
}

func TestContractOnInconsistentBase(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 30}, entry{"~p", 40})

	// An inconsistent base entails everything, so contracting an unrelated
	// atom forces it back to consistency.
	removed, err := svc.Contract(context.Background(), base, mustParse(t, "q"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := removedFormulas(removed); !reflect.DeepEqual(got, []string{"p"}) {
		t.Fatalf("expected p removed, got %v", got)
	}
	if entailsOrFail(t, base, "q") {
		t.Fatalf("expected base to stop entailing q")
	}
}

func TestContractNilFormula(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50})

	_, err := svc.Contract(context.Background(), base, nil)
	if !errors.Is(err, logic.ErrMalformedFormula) {
		t.Fatalf("expected ErrMalformedFormula, got %v", err)
	}
	if base.Len() != 1 {
		t.Fatalf("expected base unchanged, got %v", formulas(base))
	}
}

func TestContractCancelledContext(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Contract(ctx, base, mustParse(t, "p"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if base.Len() != 1 {
		t.Fatalf("expected base unchanged after cancellation, got %v", formulas(base))
	}
}

func TestReviseAcceptsNewBelief(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50})

	removed, added, err := svc.Revise(context.Background(), base, mustParse(t, "~p"), 60)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := removedFormulas(removed); !reflect.DeepEqual(got, []string{"p"}) {
		t.Fatalf("expected p removed, got %v", got)
	}
	if added.Formula.String() != "~p" || added.Entrenchment != 60 {
		t.Fatalf("unexpected added belief: %s at %d", added.Formula, added.Entrenchment)
	}
	if !entailsOrFail(t, base, "~p") {
		t.Fatalf("expected revised base to entail ~p")
	}
	if entailsOrFail(t, base, "p") {
		t.Fatalf("expected revised base not to entail p")
	}
}

func TestReviseVacuous(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50})

	// Nothing contradicts q, so revision degenerates to plain expansion.
	removed, _, err := svc.Revise(context.Background(), base, mustParse(t, "q"), 30)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removedFormulas(removed))
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"p", "q"}) {
		t.Fatalf("expected base [p q], got %v", got)
	}
}

func TestReviseKeepsConsistency(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"b >> f", 60}, entry{"b", 40})

	if !entailsOrFail(t, base, "f") {
		t.Fatalf("expected base to entail f before revision")
	}

	removed, _, err := svc.Revise(context.Background(), base, mustParse(t, "~f"), 70)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := removedFormulas(removed); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("expected the weaker premise b removed, got %v", got)
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"b >> f", "~f"}) {
		t.Fatalf("expected base [b >> f, ~f], got %v", got)
	}

	// The revised base is satisfiable, so it must not entail both g and ~g.
	if entailsOrFail(t, base, "b & ~b") {
		t.Fatalf("expected revised base to be consistent")
	}
}

func TestReviseUnsatisfiableFormula(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50})

	// ~(q & ~q) is a tautology, so the contraction step cannot succeed.
	// Acceptance wins: the contradiction goes in and the base explodes.
	removed, added, err := svc.Revise(context.Background(), base, mustParse(t, "q & ~q"), 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removedFormulas(removed))
	}
	if added.Formula.String() != "q & ~q" {
		t.Fatalf("unexpected added belief %s", added.Formula)
	}
	if base.Len() != 2 {
		t.Fatalf("expected 2 beliefs, got %v", formulas(base))
	}
	if !entailsOrFail(t, base, "r") {
		t.Fatalf("expected inconsistent base to entail an arbitrary atom")
	}
}

func TestReviseTautologyOnInconsistentBase(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 30}, entry{"~p", 40})

	// The inconsistent base entails everything, including the negation of
	// q | ~q. Contracting that negation drags the base back to consistency
	// before the tautology goes in.
	removed, added, err := svc.Revise(context.Background(), base, mustParse(t, "q | ~q"), 50)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := removedFormulas(removed); !reflect.DeepEqual(got, []string{"p"}) {
		t.Fatalf("expected p removed, got %v", got)
	}
	if added.Formula.String() != "q | ~q" {
		t.Fatalf("unexpected added belief %s", added.Formula)
	}
	if entailsOrFail(t, base, "r") {
		t.Fatalf("expected revised base to stop entailing arbitrary atoms")
	}
	if !entailsOrFail(t, base, "~p") {
		t.Fatalf("expected the stronger belief ~p to survive")
	}
}

func TestReviseExtensionality(t *testing.T) {
	svc := NewRevisionService(testLogger())

	left := buildBase(t, entry{"p", 50}, entry{"r", 20})
	right := buildBase(t, entry{"p", 50}, entry{"r", 20})

	// p >> q and ~p | q are logically equivalent, so revising with either
	// must leave bases that entail exactly the same formulas.
	if _, _, err := svc.Revise(context.Background(), left, mustParse(t, "p >> q"), 40); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, _, err := svc.Revise(context.Background(), right, mustParse(t, "~p | q"), 40); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, probe := range []string{"p", "q", "r", "~p", "p & q", "q | ~r", "~q"} {
		lhs := entailsOrFail(t, left, probe)
		rhs := entailsOrFail(t, right, probe)
		if lhs != rhs {
			t.Fatalf("probe %q: entailment diverged (%v vs %v)", probe, lhs, rhs)
		}
	}
}

func TestReviseNilFormula(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50})

	_, _, err := svc.Revise(context.Background(), base, nil, 50)
	if !errors.Is(err, logic.ErrMalformedFormula) {
		t.Fatalf("expected ErrMalformedFormula, got %v", err)
	}
	if base.Len() != 1 {
		t.Fatalf("expected base unchanged, got %v", formulas(base))
	}
}

func TestExpandIgnoresContradictions(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 50})

	// Expansion is consistency-blind: ~p goes straight in.
	belief, err := svc.Expand(context.Background(), base, mustParse(t, "~p"), 30)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if belief.Entrenchment != 30 {
		t.Fatalf("expected entrenchment 30, got %d", belief.Entrenchment)
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"p", "~p"}) {
		t.Fatalf("expected base [p ~p], got %v", got)
	}
}

func TestRemoveIsStructural(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p >> q", 50})

	// ~p | q is equivalent but not syntactically equal.
	if _, err := svc.Remove(context.Background(), base, mustParse(t, "~p | q")); !errors.Is(err, domain.ErrBeliefNotFound) {
		t.Fatalf("expected ErrBeliefNotFound, got %v", err)
	}

	removed, err := svc.Remove(context.Background(), base, mustParse(t, "p >> q"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if removed.Formula.String() != "p >> q" {
		t.Fatalf("unexpected removed belief %s", removed.Formula)
	}
	if base.Len() != 0 {
		t.Fatalf("expected empty base, got %v", formulas(base))
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	svc := NewRevisionService(testLogger())
	base := buildBase(t, entry{"p", 30}, entry{"q", 40})

	updated, err := svc.Update(context.Background(), base, mustParse(t, "p"), mustParse(t, "p | r"), 60)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Entrenchment != 60 {
		t.Fatalf("expected entrenchment 60, got %d", updated.Entrenchment)
	}
	if got := formulas(base); !reflect.DeepEqual(got, []string{"p | r", "q"}) {
		t.Fatalf("expected update to keep its slot, got %v", got)
	}

	got, err := svc.Entrenchment(context.Background(), base, mustParse(t, "p | r"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 60 {
		t.Fatalf("expected entrenchment 60, got %d", got)
	}

	if _, err := svc.Update(context.Background(), base, mustParse(t, "z"), mustParse(t, "y"), 10); !errors.Is(err, domain.ErrBeliefNotFound) {
		t.Fatalf("expected ErrBeliefNotFound, got %v", err)
	}
}
