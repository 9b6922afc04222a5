package cmdl

import "github.com/knut0815/stochsim/pkg/expr"

// reactionSideTerms converts a reaction side already parsed as a general
// expression (grammar production "reactionSide ::= sum | expression | ε")
// into an explicit list of (coefficient, species) pairs. side is nil for
// an empty reaction side.
func reactionSideTerms(side expr.Node) ([]ReactionTerm, error) {
	if side == nil {
		return nil, nil
	}
	var terms []ReactionTerm
	for _, part := range flattenSum(side) {
		term, err := reactionTermFromNode(part)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// flattenSum splits a (possibly trivial) Sum into its positive addends. A
// reaction side has no subtraction, so a negated term is itself an error
// caught by reactionTermFromNode via its coefficient sign check.
func flattenSum(n expr.Node) []sumAddend {
	sum, ok := n.(*expr.Sum)
	if !ok {
		return []sumAddend{{negative: false, node: n}}
	}
	addends := make([]sumAddend, len(sum.Terms))
	for i, t := range sum.Terms {
		addends[i] = sumAddend{negative: t.Negative, node: t.Term}
	}
	return addends
}

type sumAddend struct {
	negative bool
	node     expr.Node
}

func reactionTermFromNode(part sumAddend) (ReactionTerm, error) {
	coeff := 1
	var species string
	switch n := part.node.(type) {
	case *expr.Variable:
		species = n.Name
	case *expr.Product:
		var num *expr.Number
		var variable *expr.Variable
		for _, f := range n.Factors {
			if f.Invert {
				return ReactionTerm{}, newError(SemanticError, 0, "reaction side term cannot contain division")
			}
			switch fn := f.Factor.(type) {
			case *expr.Number:
				if num != nil {
					return ReactionTerm{}, newError(SemanticError, 0, "reaction side term has more than one numeric coefficient")
				}
				num = fn
			case *expr.Variable:
				if variable != nil {
					return ReactionTerm{}, newError(SemanticError, 0, "reaction side term has more than one species")
				}
				variable = fn
			default:
				return ReactionTerm{}, newError(SemanticError, 0, "reaction side term must be a coefficient times a species")
			}
		}
		if variable == nil {
			return ReactionTerm{}, newError(SemanticError, 0, "reaction side term has no species")
		}
		species = variable.Name
		if num != nil {
			coeff = int(num.Value)
			if float64(coeff) != num.Value {
				return ReactionTerm{}, newError(SemanticError, 0, "reaction coefficient %v is not an integer", num.Value)
			}
		}
	default:
		return ReactionTerm{}, newError(SemanticError, 0, "reaction side term must be a coefficient times a species")
	}
	if part.negative {
		coeff = -coeff
	}
	if coeff <= 0 {
		return ReactionTerm{}, newError(SemanticError, 0, "reaction coefficient must be positive, got %d", coeff)
	}
	return ReactionTerm{Coefficient: coeff, Species: species}, nil
}
