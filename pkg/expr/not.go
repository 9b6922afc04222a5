package expr

import (
	"fmt"
	"io"
)

// Not represents the unary logical negation "!arg", producing 1.0 or 0.0.
type Not struct {
	Arg Node
}

// NewNot returns a new Not node.
func NewNot(arg Node) *Not {
	return &Not{Arg: arg}
}

// Eval evaluates the argument and negates its truthiness.
func (n *Not) Eval() (float64, error) {
	v, err := n.Arg.Eval()
	if err != nil {
		return 0, err
	}
	return boolToNumber(!truthy(v)), nil
}

// Clone returns a deep copy of the node.
func (n *Not) Clone() Node {
	return &Not{Arg: n.Arg.Clone()}
}

// Simplify simplifies the argument, folding to a Number when possible.
func (n *Not) Simplify(vars *VariableRegister) Node {
	arg := n.Arg.Simplify(vars)
	if num, ok := arg.(*Number); ok {
		return NewNumber(boolToNumber(!truthy(num.Value)))
	}
	return &Not{Arg: arg}
}

// PrintCmdl writes "!arg" in CMDL syntax.
func (n *Not) PrintCmdl(w io.Writer, needsParens bool) {
	if needsParens {
		fmt.Fprint(w, "(")
	}
	fmt.Fprint(w, "!")
	n.Arg.PrintCmdl(w, !isAtomic(n.Arg))
	if needsParens {
		fmt.Fprint(w, ")")
	}
}

// Bind resolves the argument's variables.
func (n *Not) Bind(bindings *BindingRegister) {
	n.Arg.Bind(bindings)
}
