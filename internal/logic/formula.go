package logic

import (
	"errors"
	"fmt"
)

// ErrMalformedFormula reports input that cannot become a formula: an empty
// or unparseable string, or a nil tree handed to the normalizer.
var ErrMalformedFormula = errors.New("malformed formula")

// Connective precedence, loosest binding first. Conjunction and disjunction
// share a level and associate left to right, like every binary connective.
const (
	precIff = iota + 1
	precImplies
	precAndOr
	precNot
	precAtom
)

// A Formula is a propositional formula over named atoms. Formulas are
// immutable and built only through the package constructors, so the set of
// node kinds is closed and conversions can match on it exhaustively.
type Formula interface {
	// Eval reports the truth value under the given assignment. It panics
	// if the assignment lacks a binding for one of the formula's atoms.
	Eval(model map[string]bool) bool
	// String renders the surface syntax with minimal parentheses. Parsing
	// the result yields a structurally equal formula.
	String() string

	nnf() Formula
	prec() int
}

// Atom returns a formula consisting of the single named atom.
func Atom(name string) Formula { return atom(name) }

// Not returns the negation of f.
func Not(f Formula) Formula { return not{f} }

// And returns the conjunction of l and r.
func And(l, r Formula) Formula { return and{l, r} }

// Or returns the disjunction of l and r.
func Or(l, r Formula) Formula { return or{l, r} }

// Implies returns the implication from l to r.
func Implies(l, r Formula) Formula { return implies{l, r} }

// Iff returns the equivalence of l and r.
func Iff(l, r Formula) Formula { return iff{l, r} }

// Equal reports whether two formulas are structurally identical.
// Associativity is not normalized: (a & b) & c and a & (b & c) differ.
func Equal(a, b Formula) bool {
	switch x := a.(type) {
	case atom:
		y, ok := b.(atom)
		return ok && x == y
	case lit:
		y, ok := b.(lit)
		return ok && x == y
	case not:
		y, ok := b.(not)
		return ok && Equal(x.f, y.f)
	case and:
		y, ok := b.(and)
		return ok && Equal(x.l, y.l) && Equal(x.r, y.r)
	case or:
		y, ok := b.(or)
		return ok && Equal(x.l, y.l) && Equal(x.r, y.r)
	case implies:
		y, ok := b.(implies)
		return ok && Equal(x.l, y.l) && Equal(x.r, y.r)
	case iff:
		y, ok := b.(iff)
		return ok && Equal(x.l, y.l) && Equal(x.r, y.r)
	}
	return false
}

type atom string

func (a atom) Eval(model map[string]bool) bool {
	v, ok := model[string(a)]
	if !ok {
		panic(fmt.Sprintf("model lacks binding for atom %q", string(a)))
	}
	return v
}

func (a atom) String() string { return string(a) }
func (a atom) nnf() Formula   { return lit{name: string(a)} }
func (a atom) prec() int      { return precAtom }

// lit is an atom with a polarity. It appears only in negation normal form
// trees produced by nnf, never in parsed formulas.
type lit struct {
	name    string
	negated bool
}

func (l lit) Eval(model map[string]bool) bool {
	v, ok := model[l.name]
	if !ok {
		panic(fmt.Sprintf("model lacks binding for atom %q", l.name))
	}
	return v != l.negated
}

func (l lit) String() string {
	if l.negated {
		return "~" + l.name
	}
	return l.name
}

func (l lit) nnf() Formula { return l }
func (l lit) prec() int    { return precAtom }

type not struct{ f Formula }

func (n not) Eval(model map[string]bool) bool { return !n.f.Eval(model) }

func (n not) String() string {
	if n.f.prec() < precNot {
		return "~(" + n.f.String() + ")"
	}
	return "~" + n.f.String()
}

func (n not) nnf() Formula {
	switch f := n.f.(type) {
	case atom:
		return lit{name: string(f), negated: true}
	case lit:
		return lit{name: f.name, negated: !f.negated}
	case not:
		return f.f.nnf()
	case and:
		return or{not{f.l}, not{f.r}}.nnf()
	case or:
		return and{not{f.l}, not{f.r}}.nnf()
	case implies:
		// ~(a >> b) is a & ~b.
		return and{f.l, not{f.r}}.nnf()
	case iff:
		// ~(a <<>> b) is exclusive or.
		return or{and{f.l, not{f.r}}, and{not{f.l}, f.r}}.nnf()
	default:
		panic(fmt.Sprintf("unknown formula variant %T", f))
	}
}

func (n not) prec() int { return precNot }

type and struct{ l, r Formula }

func (x and) Eval(model map[string]bool) bool { return x.l.Eval(model) && x.r.Eval(model) }
func (x and) String() string                  { return binString(x.l, "&", x.r, precAndOr) }
func (x and) nnf() Formula                    { return and{x.l.nnf(), x.r.nnf()} }
func (x and) prec() int                       { return precAndOr }

type or struct{ l, r Formula }

func (x or) Eval(model map[string]bool) bool { return x.l.Eval(model) || x.r.Eval(model) }
func (x or) String() string                  { return binString(x.l, "|", x.r, precAndOr) }
func (x or) nnf() Formula                    { return or{x.l.nnf(), x.r.nnf()} }
func (x or) prec() int                       { return precAndOr }

type implies struct{ l, r Formula }

func (x implies) Eval(model map[string]bool) bool { return !x.l.Eval(model) || x.r.Eval(model) }
func (x implies) String() string                  { return binString(x.l, ">>", x.r, precImplies) }
func (x implies) nnf() Formula                    { return or{not{x.l}, x.r}.nnf() }
func (x implies) prec() int                       { return precImplies }

type iff struct{ l, r Formula }

func (x iff) Eval(model map[string]bool) bool { return x.l.Eval(model) == x.r.Eval(model) }
func (x iff) String() string                  { return binString(x.l, "<<>>", x.r, precIff) }
func (x iff) nnf() Formula {
	return and{implies{x.l, x.r}, implies{x.r, x.l}}.nnf()
}
func (x iff) prec() int { return precIff }

// binString renders a left-associative binary connective: the right operand
// is parenthesized at equal precedence, the left operand only below it.
func binString(l Formula, op string, r Formula, prec int) string {
	ls := l.String()
	if l.prec() < prec {
		ls = "(" + ls + ")"
	}
	rs := r.String()
	if r.prec() <= prec {
		rs = "(" + rs + ")"
	}
	return ls + " " + op + " " + rs
}
