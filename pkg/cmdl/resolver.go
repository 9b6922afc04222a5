package cmdl

import (
	"fmt"

	"github.com/knut0815/stochsim/pkg/expr"
	"github.com/knut0815/stochsim/pkg/sim"
	"github.com/knut0815/stochsim/pkg/state"
)

// Resolver materialises a Model into a running Simulation: it tracks the
// variable register used for immediate ("IDENT = expr ;") assignments, the
// binding register used for late-bound ("IDENT = [expr] ;") assignments
// and reaction rates, and auto-declares a Simple state the first time a
// species name is used on either side of a reaction.
type Resolver struct {
	sim       *sim.Simulation
	vars      *expr.VariableRegister
	bindings  *expr.BindingRegister
	declared  map[string]bool
	species   map[string]*state.Simple
	lateExprs map[string]expr.Node
}

// NewResolver returns a Resolver that registers states and reactions with
// s as statements are applied.
func NewResolver(s *sim.Simulation) *Resolver {
	return &Resolver{
		sim:       s,
		vars:      expr.NewVariableRegister(),
		bindings:  expr.NewBindingRegister(),
		declared:  make(map[string]bool),
		species:   make(map[string]*state.Simple),
		lateExprs: make(map[string]expr.Node),
	}
}

// SetInitialCondition overrides the initial population of a species,
// auto-declaring it if this is its first mention. Used by host code to
// seed a model's initial state; the grammar itself has no initial-
// condition syntax.
func (r *Resolver) SetInitialCondition(species string, n int) error {
	st, err := r.stateFor(species)
	if err != nil {
		return err
	}
	st.SetInitialCondition(n)
	return nil
}

// Apply walks every statement of m in order, registering variables and
// reactions with the underlying Simulation. It returns the first error
// encountered, matching the abort-on-first-error contract of Parse.
func (r *Resolver) Apply(m *Model) error {
	for _, stmt := range m.Statements {
		var err error
		switch s := stmt.(type) {
		case *Assignment:
			err = r.applyAssignment(s)
		case *Reaction:
			err = r.applyReaction(s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) applyAssignment(a *Assignment) error {
	if r.declared[a.Name] || r.species[a.Name] != nil {
		return newError(RedefinedIdentifier, a.Ln, "%q is already defined", a.Name)
	}
	r.declared[a.Name] = true
	if a.Immediate {
		simplified := a.Expr.Simplify(r.vars)
		num, ok := simplified.(*expr.Number)
		if !ok {
			return newError(SemanticError, a.Ln, "%q is not fully determined by previously defined variables", a.Name)
		}
		r.vars.Set(a.Name, num.Value)
		value := num.Value
		r.bindings.Bind(a.Name, func() float64 { return value })
		return nil
	}
	bound := a.Expr.Clone()
	bound.Bind(r.bindings)
	r.lateExprs[a.Name] = bound
	r.bindings.Bind(a.Name, func() float64 {
		v, _ := bound.Eval()
		return v
	})
	return nil
}

func (r *Resolver) applyReaction(rx *Reaction) error {
	reactants, err := r.stoichiometry(rx.Reactants)
	if err != nil {
		return err
	}
	products, err := r.stoichiometry(rx.Products)
	if err != nil {
		return err
	}

	rate := rx.Rate
	if rx.Immediate {
		simplified := rate.Simplify(r.vars)
		num, ok := simplified.(*expr.Number)
		if !ok {
			return newError(SemanticError, rx.Ln, "reaction rate is not fully determined by previously defined variables")
		}
		rate = expr.NewNumber(num.Value)
	} else {
		rate = rate.Clone()
		rate.Bind(r.bindings)
	}

	name := fmt.Sprintf("reaction@%d", rx.Ln)
	reaction := sim.NewBasicReaction(name, rate, reactants, products)
	if err := r.sim.AddPropensityReaction(reaction); err != nil {
		return err
	}
	return nil
}

func (r *Resolver) stoichiometry(terms []ReactionTerm) ([]sim.StoichiometryTerm, error) {
	out := make([]sim.StoichiometryTerm, 0, len(terms))
	for _, t := range terms {
		st, err := r.stateFor(t.Species)
		if err != nil {
			return nil, err
		}
		out = append(out, sim.StoichiometryTerm{State: st, Count: t.Coefficient})
	}
	return out, nil
}

// stateFor returns the Simple state for species, auto-declaring it (with
// an initial population of 0) on first use and registering a binding
// register entry so rate expressions can reference its live population.
func (r *Resolver) stateFor(species string) (*state.Simple, error) {
	if st, ok := r.species[species]; ok {
		return st, nil
	}
	if r.declared[species] {
		return nil, newError(RedefinedIdentifier, 0, "%q is already defined as a variable", species)
	}
	st := state.NewSimple(species, 0)
	r.species[species] = st
	r.bindings.Bind(species, func() float64 { return float64(st.Num()) })
	if err := r.sim.AddState(st); err != nil {
		return nil, err
	}
	return st, nil
}

// States returns every species state declared while resolving the model,
// keyed by name.
func (r *Resolver) States() map[string]*state.Simple {
	return r.species
}

// LateExpr returns the bound, unevaluated expression stored under name by
// an "IDENT = [expr] ;" assignment, for diagnostics such as printing the
// resolved model back out in CMDL form.
func (r *Resolver) LateExpr(name string) (expr.Node, bool) {
	e, ok := r.lateExprs[name]
	return e, ok
}
