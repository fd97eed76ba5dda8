package logic

import (
	"errors"
	"testing"
)

// parseCases maps inputs to the expected minimal-parenthesis rendering of
// the parsed tree.
var parseCases = map[string]string{
	"p":                    "p",
	"  p  ":                "p",
	"(p)":                  "p",
	"~p":                   "~p",
	"~~p":                  "~~p",
	"~(p)":                 "~p",
	"p & q":                "p & q",
	"p | q":                "p | q",
	"p >> q":               "p >> q",
	"p <<>> q":             "p <<>> q",
	"~(p & q)":             "~(p & q)",
	"~p & ~q":              "~p & ~q",
	"p & q & r":            "p & q & r",
	"(p & q) & r":          "p & q & r",
	"p & (q & r)":          "p & (q & r)",
	"a & b | c":            "a & b | c",
	"a | b & c":            "a | b & c",
	"a | (b & c)":          "a | (b & c)",
	"p >> q >> r":          "p >> q >> r",
	"p >> (q >> r)":        "p >> (q >> r)",
	"p & q >> r | s":       "p & q >> r | s",
	"(p >> q) & r":         "(p >> q) & r",
	"p <<>> q <<>> r":      "p <<>> q <<>> r",
	"(p <<>> q) >> r":      "(p <<>> q) >> r",
	"~a | b <<>> a >> b":   "~a | b <<>> a >> b",
	"rain >> wet":          "rain >> wet",
	"p1 & p2":              "p1 & p2",
	"~ ( a | b ) & c":      "~(a | b) & c",
	"((a) & ((b | (c))))":  "a & (b | c)",
	"~(p <<>> q)":          "~(p <<>> q)",
	"~p >> ~q":             "~p >> ~q",
}

func TestParse(t *testing.T) {
	for input, want := range parseCases {
		f, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", input, err)
			continue
		}
		if got := f.String(); got != want {
			t.Errorf("Parse(%q).String() = %q, want %q", input, got, want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for input := range parseCases {
		f, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		g, err := Parse(f.String())
		if err != nil {
			t.Fatalf("reparse of %q (from %q): %v", f.String(), input, err)
		}
		if !Equal(f, g) {
			t.Errorf("round trip of %q changed the tree: %q", input, g.String())
		}
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"p &",
		"& p",
		"p q",
		"(p",
		"p)",
		"()",
		"~",
		"p ~ q",
		"p >",
		"p > q",
		"p >> >> q",
		"p < q",
		"p << q",
		"p <<> q",
		"p <<>> ",
		"p ? q",
		"p && q |",
		"42",
		"p & 7",
	}
	for _, input := range inputs {
		if _, err := Parse(input); !errors.Is(err, ErrMalformedFormula) {
			t.Errorf("Parse(%q) = %v, want ErrMalformedFormula", input, err)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustParse on bad input did not panic")
		}
	}()
	MustParse("p &&& q &")
}
