package expr

import (
	"fmt"
	"io"
)

// SumTerm is one signed addend of a Sum.
type SumTerm struct {
	Negative bool
	Term     Node
}

// Sum is the ordered sum of zero or more signed terms.
type Sum struct {
	Terms []SumTerm
}

// NewSum returns a new Sum over the given terms.
func NewSum(terms ...SumTerm) *Sum {
	return &Sum{Terms: terms}
}

// Eval adds (or subtracts) every term's value in order.
func (s *Sum) Eval() (float64, error) {
	total := 0.0
	for _, t := range s.Terms {
		v, err := t.Term.Eval()
		if err != nil {
			return 0, err
		}
		if t.Negative {
			total -= v
		} else {
			total += v
		}
	}
	return total, nil
}

// Clone returns a deep copy of the node.
func (s *Sum) Clone() Node {
	terms := make([]SumTerm, len(s.Terms))
	for i, t := range s.Terms {
		terms[i] = SumTerm{Negative: t.Negative, Term: t.Term.Clone()}
	}
	return &Sum{Terms: terms}
}

// Simplify simplifies every term, folds constant terms into a single
// Number placed after the non-constant terms, and preserves non-constant
// terms in order. A Sum that reduces to a single positive term returns that
// term directly rather than wrapping it.
func (s *Sum) Simplify(vars *VariableRegister) Node {
	constant := 0.0
	var rest []SumTerm
	for _, t := range s.Terms {
		simplified := t.Term.Simplify(vars)
		if num, ok := simplified.(*Number); ok {
			if t.Negative {
				constant -= num.Value
			} else {
				constant += num.Value
			}
			continue
		}
		rest = append(rest, SumTerm{Negative: t.Negative, Term: simplified})
	}
	if len(rest) == 0 {
		return NewNumber(constant)
	}
	if constant != 0 {
		rest = append(rest, SumTerm{Negative: constant < 0, Term: NewNumber(absFloat(constant))})
	}
	if len(rest) == 1 && !rest[0].Negative {
		return rest[0].Term
	}
	return &Sum{Terms: rest}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// PrintCmdl writes "t0 + t1 - t2 ..." in CMDL syntax.
func (s *Sum) PrintCmdl(w io.Writer, needsParens bool) {
	if needsParens {
		fmt.Fprint(w, "(")
	}
	for i, t := range s.Terms {
		if i == 0 {
			if t.Negative {
				fmt.Fprint(w, "-")
			}
		} else if t.Negative {
			fmt.Fprint(w, " - ")
		} else {
			fmt.Fprint(w, " + ")
		}
		t.Term.PrintCmdl(w, sumChildNeedsParens(t.Term))
	}
	if needsParens {
		fmt.Fprint(w, ")")
	}
}

// sumChildNeedsParens reports whether a term nested inside a Sum must be
// parenthesised to preserve its grouping: anything at Sum precedence or
// lower (another Sum, a Conditional, a Comparison) does.
func sumChildNeedsParens(n Node) bool {
	switch n.(type) {
	case *Sum, *Conditional, *Comparison, *Not:
		return true
	default:
		return false
	}
}

// Bind resolves every term's variables.
func (s *Sum) Bind(bindings *BindingRegister) {
	for _, t := range s.Terms {
		t.Term.Bind(bindings)
	}
}
