package expr

import (
	"fmt"
	"io"
)

// ProductFactor is one factor of a Product; Invert selects division.
type ProductFactor struct {
	Invert bool
	Factor Node
}

// Product is the ordered product (and quotient) of zero or more factors.
type Product struct {
	Factors []ProductFactor
}

// NewProduct returns a new Product over the given factors.
func NewProduct(factors ...ProductFactor) *Product {
	return &Product{Factors: factors}
}

// Eval multiplies (or divides) every factor's value in order. Fails with
// ErrDivisionByZero if any divisor is exactly zero.
func (p *Product) Eval() (float64, error) {
	result := 1.0
	for _, f := range p.Factors {
		v, err := f.Factor.Eval()
		if err != nil {
			return 0, err
		}
		if f.Invert {
			if v == 0 {
				return 0, ErrDivisionByZero
			}
			result /= v
		} else {
			result *= v
		}
	}
	return result, nil
}

// Clone returns a deep copy of the node.
func (p *Product) Clone() Node {
	factors := make([]ProductFactor, len(p.Factors))
	for i, f := range p.Factors {
		factors[i] = ProductFactor{Invert: f.Invert, Factor: f.Factor.Clone()}
	}
	return &Product{Factors: factors}
}

// Simplify simplifies every factor, folds constant factors into a single
// Number, and preserves non-constant factors in order. A Product that
// reduces to a single non-inverted factor returns that factor directly.
func (p *Product) Simplify(vars *VariableRegister) Node {
	constant := 1.0
	constantSeen := false
	var rest []ProductFactor
	for _, f := range p.Factors {
		simplified := f.Factor.Simplify(vars)
		if num, ok := simplified.(*Number); ok {
			constantSeen = true
			if f.Invert {
				constant /= num.Value
			} else {
				constant *= num.Value
			}
			continue
		}
		rest = append(rest, ProductFactor{Invert: f.Invert, Factor: simplified})
	}
	if len(rest) == 0 {
		return NewNumber(constant)
	}
	if constantSeen && constant != 1 {
		rest = append([]ProductFactor{{Invert: false, Factor: NewNumber(constant)}}, rest...)
	}
	if len(rest) == 1 && !rest[0].Invert {
		return rest[0].Factor
	}
	return &Product{Factors: rest}
}

// PrintCmdl writes "f0 * f1 / f2 ..." in CMDL syntax.
func (p *Product) PrintCmdl(w io.Writer, needsParens bool) {
	if needsParens {
		fmt.Fprint(w, "(")
	}
	for i, f := range p.Factors {
		if i > 0 {
			if f.Invert {
				fmt.Fprint(w, " / ")
			} else {
				fmt.Fprint(w, " * ")
			}
		}
		f.Factor.PrintCmdl(w, productChildNeedsParens(f.Factor))
	}
	if needsParens {
		fmt.Fprint(w, ")")
	}
}

// productChildNeedsParens reports whether a factor nested inside a Product
// must be parenthesised: a Sum, Conditional, or Comparison always needs
// parens to preserve grouping, and so does another Product, since division
// does not distribute over an unparenthesised chain of factors.
func productChildNeedsParens(n Node) bool {
	switch n.(type) {
	case *Sum, *Product, *Conditional, *Comparison, *Not:
		return true
	default:
		return false
	}
}

// Bind resolves every factor's variables.
func (p *Product) Bind(bindings *BindingRegister) {
	for _, f := range p.Factors {
		f.Factor.Bind(bindings)
	}
}
