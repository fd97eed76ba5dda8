package logic

import (
	"fmt"
	"strings"
	"text/scanner"
)

type parser struct {
	s    scanner.Scanner
	eof  bool
	tok  rune
	text string
}

// Parse parses a formula in surface syntax. Atoms are identifiers; the
// connectives, loosest binding first, are:
//
//	<<>>  equivalence
//	>>    implication
//	& |   conjunction and disjunction (one shared level)
//	~     negation
//
// Binary connectives associate left to right; parentheses group. Empty
// input, trailing input and operator misuse all return an error wrapping
// ErrMalformedFormula.
func Parse(input string) (Formula, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedFormula)
	}
	p := &parser{}
	p.s.Init(strings.NewReader(input))
	p.s.Mode = scanner.ScanIdents
	p.s.Error = func(*scanner.Scanner, string) {}
	p.scan()
	f, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if !p.eof {
		return nil, fmt.Errorf("%w: unexpected %q at %v", ErrMalformedFormula, p.text, p.s.Pos())
	}
	return f, nil
}

// MustParse is like Parse but panics on error. For fixtures and
// hand-written formulas.
func MustParse(input string) Formula {
	f, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return f
}

func (p *parser) scan() {
	p.tok = p.s.Scan()
	p.eof = p.tok == scanner.EOF
	p.text = p.s.TokenText()
}

// expect consumes the remaining runes of a multi-rune operator.
func (p *parser) expect(op string, rest ...string) error {
	for _, want := range rest {
		if p.eof || p.text != want {
			return fmt.Errorf("%w: expected %q at %v", ErrMalformedFormula, op, p.s.Pos())
		}
		p.scan()
	}
	return nil
}

func (p *parser) parseIff() (Formula, error) {
	f, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for !p.eof && p.text == "<" {
		p.scan()
		if err := p.expect("<<>>", "<", ">", ">"); err != nil {
			return nil, err
		}
		g, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		f = Iff(f, g)
	}
	return f, nil
}

func (p *parser) parseImplies() (Formula, error) {
	f, err := p.parseBinary()
	if err != nil {
		return nil, err
	}
	for !p.eof && p.text == ">" {
		p.scan()
		if err := p.expect(">>", ">"); err != nil {
			return nil, err
		}
		g, err := p.parseBinary()
		if err != nil {
			return nil, err
		}
		f = Implies(f, g)
	}
	return f, nil
}

func (p *parser) parseBinary() (Formula, error) {
	f, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for !p.eof && (p.text == "&" || p.text == "|") {
		op := p.text
		p.scan()
		g, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "&" {
			f = And(f, g)
		} else {
			f = Or(f, g)
		}
	}
	return f, nil
}

func (p *parser) parseUnary() (Formula, error) {
	if p.eof {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformedFormula)
	}
	if p.text == "~" {
		p.scan()
		f, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(f), nil
	}
	return p.parseOperand()
}

func (p *parser) parseOperand() (Formula, error) {
	switch {
	case p.eof:
		return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformedFormula)
	case p.text == "(":
		p.scan()
		f, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if p.eof || p.text != ")" {
			return nil, fmt.Errorf("%w: missing closing parenthesis at %v", ErrMalformedFormula, p.s.Pos())
		}
		p.scan()
		return f, nil
	case p.tok == scanner.Ident:
		f := Atom(p.text)
		p.scan()
		return f, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q at %v", ErrMalformedFormula, p.text, p.s.Pos())
	}
}
