// Package expr implements the expression engine: a small arithmetic AST
// supporting evaluation against live bindings, symbolic simplification
// against a variable register, deep cloning, and CMDL-syntax printing.
package expr

import (
	"fmt"
	"io"
)

// Node represents a single expression in the tree. Every subtree is owned
// exclusively by its parent; sharing is forbidden and Clone always produces
// a deep, independent copy.
type Node interface {
	// Eval returns the numeric value of the expression. It fails with
	// ErrUnboundVariable if any referenced name has no binding, or
	// ErrDivisionByZero when a divisor evaluates to exactly zero.
	Eval() (float64, error)
	// Clone returns a deep, independent copy of the node.
	Clone() Node
	// Simplify returns a new tree with every subtree that depends only on
	// variables present in vars collapsed to a Number. Variables absent
	// from vars are preserved unchanged.
	Simplify(vars *VariableRegister) Node
	// PrintCmdl writes the CMDL textual form of the node to w. If
	// needsParens is set, non-atomic nodes wrap themselves in parentheses.
	PrintCmdl(w io.Writer, needsParens bool)
	// Bind resolves every Variable in the subtree against bindings. It is
	// idempotent; re-binding replaces any prior binding.
	Bind(bindings *BindingRegister)
}

func isAtomic(n Node) bool {
	switch n.(type) {
	case *Number, *Variable:
		return true
	default:
		return false
	}
}

// ============================================================================
// Number
// ============================================================================

// Number is a literal numeric value.
type Number struct {
	Value float64
}

// NewNumber returns a new Number node wrapping value.
func NewNumber(value float64) *Number {
	return &Number{Value: value}
}

// Eval returns the literal value.
func (n *Number) Eval() (float64, error) {
	return n.Value, nil
}

// Clone returns a copy of the node.
func (n *Number) Clone() Node {
	return &Number{Value: n.Value}
}

// Simplify returns a copy of the node; numbers are already fully reduced.
func (n *Number) Simplify(_ *VariableRegister) Node {
	return n.Clone()
}

// PrintCmdl writes the literal value. Numbers are atomic and are never
// parenthesised.
func (n *Number) PrintCmdl(w io.Writer, _ bool) {
	fmt.Fprintf(w, "%s", formatNumber(n.Value))
}

// Bind is a no-op for Number, which has no variables to resolve.
func (n *Number) Bind(_ *BindingRegister) {}

// formatNumber renders a float64 using the shortest round-trippable decimal
// form, locale-independent.
func formatNumber(v float64) string {
	return trimFloat(v)
}

// ============================================================================
// Variable
// ============================================================================

// Variable is a named reference resolved via a BindingRegister at Bind time
// and invoked at Eval time.
type Variable struct {
	Name    string
	binding BindingFunc
}

// NewVariable returns a new, unbound Variable node referencing name.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

// Eval invokes the resolved binding. It fails with ErrUnboundVariable if the
// variable has not been bound.
func (v *Variable) Eval() (float64, error) {
	if v.binding == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnboundVariable, v.Name)
	}
	return v.binding(), nil
}

// Clone returns a copy of the node. The cloned node shares no state with the
// original; any existing binding is dropped and must be re-established with
// Bind.
func (v *Variable) Clone() Node {
	return &Variable{Name: v.Name}
}

// Simplify substitutes the variable's current value from vars if present,
// returning a Number; otherwise the Variable is preserved unchanged.
func (v *Variable) Simplify(vars *VariableRegister) Node {
	if value, ok := vars.Lookup(v.Name); ok {
		return NewNumber(value)
	}
	return v.Clone()
}

// PrintCmdl writes the variable's name. Variables are atomic and are never
// parenthesised.
func (v *Variable) PrintCmdl(w io.Writer, _ bool) {
	fmt.Fprint(w, v.Name)
}

// Bind resolves the variable's lookup function against bindings. If the
// name is absent from bindings the variable is left unbound (the failure is
// deferred to Eval, per the contract).
func (v *Variable) Bind(bindings *BindingRegister) {
	if fn, ok := bindings.Lookup(v.Name); ok {
		v.binding = fn
	} else {
		v.binding = nil
	}
}
