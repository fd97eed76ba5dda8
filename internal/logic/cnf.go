package logic

import (
	"fmt"
	"sort"
	"strings"
)

// A Literal is an atom or its negation.
type Literal struct {
	Atom    string
	Negated bool
}

// Complement returns the literal with opposite polarity.
func (l Literal) Complement() Literal { return Literal{Atom: l.Atom, Negated: !l.Negated} }

func (l Literal) String() string {
	if l.Negated {
		return "~" + l.Atom
	}
	return l.Atom
}

func (l Literal) less(m Literal) bool {
	if l.Atom != m.Atom {
		return l.Atom < m.Atom
	}
	return !l.Negated && m.Negated
}

// A Clause is a disjunction of literals, stored sorted and deduplicated.
// The empty clause is the contradiction. Clauses are treated as values:
// operations return new clauses and never mutate their receivers.
type Clause []Literal

// NewClause builds a normalized clause from the given literals.
func NewClause(lits ...Literal) Clause {
	c := make(Clause, len(lits))
	copy(c, lits)
	sort.Slice(c, func(i, j int) bool { return c[i].less(c[j]) })
	out := c[:0]
	for i, l := range c {
		if i == 0 || l != c[i-1] {
			out = append(out, l)
		}
	}
	return out
}

// Contains reports whether the clause holds the exact literal.
func (c Clause) Contains(l Literal) bool {
	for _, m := range c {
		if m == l {
			return true
		}
	}
	return false
}

// IsEmpty reports whether this is the empty clause, i.e. the contradiction.
func (c Clause) IsEmpty() bool { return len(c) == 0 }

// IsTautology reports whether the clause holds an atom in both polarities,
// making it trivially true.
func (c Clause) IsTautology() bool {
	for i := 1; i < len(c); i++ {
		if c[i].Atom == c[i-1].Atom && c[i].Negated != c[i-1].Negated {
			return true
		}
	}
	return false
}

// Key returns a canonical representation of the clause, usable as a set key.
func (c Clause) Key() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}
	return strings.Join(parts, " ")
}

func (c Clause) String() string {
	if len(c) == 0 {
		return "⊥"
	}
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}
	return strings.Join(parts, " | ")
}

// Resolvents returns every clause obtained by resolving c with d on a
// complementary pair of literals. Tautological resolvents are included;
// callers filter them.
func (c Clause) Resolvents(d Clause) []Clause {
	var out []Clause
	for _, l := range c {
		comp := l.Complement()
		if !d.Contains(comp) {
			continue
		}
		merged := make([]Literal, 0, len(c)+len(d)-2)
		for _, m := range c {
			if m != l {
				merged = append(merged, m)
			}
		}
		for _, m := range d {
			if m != comp {
				merged = append(merged, m)
			}
		}
		out = append(out, NewClause(merged...))
	}
	return out
}

// A CNF is a conjunction of clauses. The empty CNF is the tautology.
type CNF []Clause

// ToCNF converts a formula into an equivalent conjunction of clauses:
// equivalences and implications are rewritten, negations pushed down to the
// literals, then disjunctions distributed over conjunctions. No satisfiable
// structure is lost or invented, so the result entails exactly what the
// input does. Tautological clauses are kept; Simplify drops them.
func ToCNF(f Formula) (CNF, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil formula", ErrMalformedFormula)
	}
	return dedupe(distribute(f.nnf())), nil
}

func distribute(f Formula) CNF {
	switch f := f.(type) {
	case lit:
		return CNF{NewClause(Literal{Atom: f.name, Negated: f.negated})}
	case and:
		return append(distribute(f.l), distribute(f.r)...)
	case or:
		left, right := distribute(f.l), distribute(f.r)
		out := make(CNF, 0, len(left)*len(right))
		for _, lc := range left {
			for _, rc := range right {
				merged := make([]Literal, 0, len(lc)+len(rc))
				merged = append(merged, lc...)
				merged = append(merged, rc...)
				out = append(out, NewClause(merged...))
			}
		}
		return out
	default:
		panic(fmt.Sprintf("unexpected %T in negation normal form", f))
	}
}

func dedupe(f CNF) CNF {
	seen := make(map[string]bool, len(f))
	out := f[:0]
	for _, c := range f {
		k := c.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// Simplify returns the CNF without its tautological clauses.
func (f CNF) Simplify() CNF {
	out := make(CNF, 0, len(f))
	for _, c := range f {
		if !c.IsTautology() {
			out = append(out, c)
		}
	}
	return out
}

// Atoms returns the sorted atom vocabulary of the CNF.
func (f CNF) Atoms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range f {
		for _, l := range c {
			if !seen[l.Atom] {
				seen[l.Atom] = true
				out = append(out, l.Atom)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (f CNF) String() string {
	if len(f) == 0 {
		return "⊤"
	}
	parts := make([]string, len(f))
	for i, c := range f {
		if len(c) > 1 {
			parts[i] = "(" + c.String() + ")"
		} else {
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, " & ")
}
