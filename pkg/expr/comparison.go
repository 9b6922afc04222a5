package expr

import (
	"fmt"
	"io"
)

// CompareOp identifies a relational or logical binary operator. These
// tokens are reserved by the CMDL grammar (spec.md §6) for use inside
// conditional expressions.
type CompareOp int

// Relational and logical operators. Results are always 1.0 (true) or 0.0
// (false).
const (
	OpLess CompareOp = iota
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
)

var compareOpSymbols = map[CompareOp]string{
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpAnd:          "&&",
	OpOr:           "||",
}

// Comparison applies a relational or logical operator to two operands,
// producing 1.0 or 0.0.
type Comparison struct {
	Op    CompareOp
	Left  Node
	Right Node
}

// NewComparison returns a new Comparison node.
func NewComparison(op CompareOp, left, right Node) *Comparison {
	return &Comparison{Op: op, Left: left, Right: right}
}

// Eval evaluates both operands and applies the operator.
func (c *Comparison) Eval() (float64, error) {
	l, err := c.Left.Eval()
	if err != nil {
		return 0, err
	}
	r, err := c.Right.Eval()
	if err != nil {
		return 0, err
	}
	return boolToNumber(c.apply(l, r)), nil
}

func (c *Comparison) apply(l, r float64) bool {
	switch c.Op {
	case OpLess:
		return l < r
	case OpLessEqual:
		return l <= r
	case OpGreater:
		return l > r
	case OpGreaterEqual:
		return l >= r
	case OpEqual:
		return l == r
	case OpNotEqual:
		return l != r
	case OpAnd:
		return truthy(l) && truthy(r)
	case OpOr:
		return truthy(l) || truthy(r)
	default:
		return false
	}
}

// Clone returns a deep copy of the node.
func (c *Comparison) Clone() Node {
	return &Comparison{Op: c.Op, Left: c.Left.Clone(), Right: c.Right.Clone()}
}

// Simplify simplifies both operands; if both collapse to Numbers the
// comparison itself is folded to a Number.
func (c *Comparison) Simplify(vars *VariableRegister) Node {
	left := c.Left.Simplify(vars)
	right := c.Right.Simplify(vars)
	lnum, lok := left.(*Number)
	rnum, rok := right.(*Number)
	if lok && rok {
		return NewNumber(boolToNumber((&Comparison{Op: c.Op}).apply(lnum.Value, rnum.Value)))
	}
	return &Comparison{Op: c.Op, Left: left, Right: right}
}

// PrintCmdl writes "left OP right" in CMDL syntax.
func (c *Comparison) PrintCmdl(w io.Writer, needsParens bool) {
	if needsParens {
		fmt.Fprint(w, "(")
	}
	c.Left.PrintCmdl(w, comparisonChildNeedsParens(c.Left))
	fmt.Fprintf(w, " %s ", compareOpSymbols[c.Op])
	c.Right.PrintCmdl(w, comparisonChildNeedsParens(c.Right))
	if needsParens {
		fmt.Fprint(w, ")")
	}
}

func comparisonChildNeedsParens(n Node) bool {
	switch n.(type) {
	case *Conditional, *Comparison, *Not:
		return true
	default:
		return false
	}
}

// Bind resolves both operands' variables.
func (c *Comparison) Bind(bindings *BindingRegister) {
	c.Left.Bind(bindings)
	c.Right.Bind(bindings)
}
