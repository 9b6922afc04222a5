package cmdl

import "github.com/knut0815/stochsim/pkg/expr"

// Model is the parse tree produced by Parse: an ordered sequence of
// statements in source order. Statements are applied to a Resolver in
// order, so later assignments may reference earlier ones.
type Model struct {
	Statements []Statement
}

// Statement is either an Assignment or a Reaction.
type Statement interface {
	isStatement()
}

// Assignment represents "IDENT = expression ;" (Immediate is true; Expr is
// stored as parsed and the Resolver reduces it to a constant against its
// variable register) or "IDENT = [ expression ] ;" (Immediate is false; Expr
// is stored unevaluated for later binding).
type Assignment struct {
	Name      string
	Expr      expr.Node
	Immediate bool
	Ln        int
}

func (*Assignment) isStatement() {}

// ReactionTerm is one "(coefficient, species)" pair appearing on a
// reaction side. A bare identifier parses to coefficient 1.
type ReactionTerm struct {
	Coefficient int
	Species     string
}

// Reaction represents "reactants -> products , rate ;" (Immediate true) or
// "reactants -> products , [ rate ] ;" (Immediate false, rate expression
// re-evaluated at every propensity computation).
type Reaction struct {
	Reactants []ReactionTerm
	Products  []ReactionTerm
	Rate      expr.Node
	Immediate bool
	Ln        int
}

func (*Reaction) isStatement() {}
