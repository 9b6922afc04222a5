package expr

import "errors"

// ErrUnboundVariable is returned by Eval when a Variable node has no
// resolved binding.
var ErrUnboundVariable = errors.New("unbound variable")

// ErrDivisionByZero is returned by Eval when a Product factor's divisor
// evaluates to exactly zero.
var ErrDivisionByZero = errors.New("division by zero")
