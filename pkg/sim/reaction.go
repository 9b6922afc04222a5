package sim

import (
	"fmt"
	"math"

	"github.com/knut0815/stochsim/pkg/expr"
	"github.com/knut0815/stochsim/pkg/state"
)

// PropensityReaction is a reaction selected by the direct method in
// proportion to its instantaneous rate.
type PropensityReaction interface {
	// Name identifies the reaction for diagnostics.
	Name() string
	// ComputeRate evaluates the reaction's current propensity. A
	// negative result is a fatal NegativeRate error.
	ComputeRate() (float64, error)
	// Fire applies the reaction's stoichiometry: reactants are removed,
	// products are added.
	Fire(simInfo SimInfo) error
}

// DelayedReaction is a reaction scheduled to fire at an exact future time
// rather than sampled from a propensity.
type DelayedReaction interface {
	// Name identifies the reaction for diagnostics.
	Name() string
	// NextReactionTime returns the simulation time at which this
	// reaction will next fire, or +Inf if it has nothing scheduled.
	NextReactionTime() float64
	// Fire applies the reaction's effect.
	Fire(simInfo SimInfo) error
}

// StoichiometryTerm pairs a state with how many of its molecules
// participate as a reactant or product in a single firing.
type StoichiometryTerm struct {
	State state.State
	Count int
}

// BasicReaction is a PropensityReaction whose rate is a bound expression
// and whose effect is a fixed reactant/product stoichiometry. Grounded on
// the reference PropensityReaction contract (stochsim_common.h, consumed
// by Simulation.cpp's Run).
type BasicReaction struct {
	name      string
	rate      expr.Node
	reactants []StoichiometryTerm
	products  []StoichiometryTerm
}

// NewBasicReaction returns a BasicReaction. rate must already be Bind-ed
// to the model's live state counts.
func NewBasicReaction(name string, rate expr.Node, reactants, products []StoichiometryTerm) *BasicReaction {
	return &BasicReaction{name: name, rate: rate, reactants: reactants, products: products}
}

// Name returns the reaction's diagnostic name.
func (r *BasicReaction) Name() string { return r.name }

// ComputeRate evaluates the bound rate expression against current state.
func (r *BasicReaction) ComputeRate() (float64, error) {
	v, err := r.rate.Eval()
	if err != nil {
		return 0, fmt.Errorf("reaction %q: computing rate: %w", r.name, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("reaction %q: rate %v: %w", r.name, v, ErrNegativeRate)
	}
	return v, nil
}

// Fire removes each reactant's stoichiometric count and adds each
// product's.
func (r *BasicReaction) Fire(simInfo SimInfo) error {
	for _, term := range r.reactants {
		for i := 0; i < term.Count; i++ {
			if err := term.State.Remove(simInfo); err != nil {
				return fmt.Errorf("reaction %q: removing from %q: %w", r.name, term.State.Name(), err)
			}
		}
	}
	for _, term := range r.products {
		for i := 0; i < term.Count; i++ {
			term.State.Add(simInfo, nil)
		}
	}
	return nil
}

// ComplexDelayedReaction fires a fixed time after the oldest molecule of a
// Complex state was created, applying an arbitrary action to that molecule
// (typically removing it and creating a molecule of another species). The
// reaction itself does not remove the molecule; the action does. Grounded
// on ComplexDelayedReaction.h.
type ComplexDelayedReaction struct {
	name   string
	source *state.Complex
	delay  func(m *state.Molecule) float64
	fire   func(m *state.Molecule, simInfo SimInfo) error
}

// NewComplexDelayedReaction returns a ComplexDelayedReaction firing on the
// oldest molecule of source. delay computes the time-from-creation at
// which that molecule's reaction fires; fire applies the reaction's effect
// and is responsible for removing the molecule from source if consumed.
func NewComplexDelayedReaction(name string, source *state.Complex, delay func(m *state.Molecule) float64, fire func(m *state.Molecule, simInfo SimInfo) error) *ComplexDelayedReaction {
	return &ComplexDelayedReaction{name: name, source: source, delay: delay, fire: fire}
}

// Name returns the reaction's diagnostic name.
func (r *ComplexDelayedReaction) Name() string { return r.name }

// NextReactionTime returns the oldest molecule's creation time plus its
// configured delay, or +Inf if source is empty.
func (r *ComplexDelayedReaction) NextReactionTime() float64 {
	m, ok := r.source.Peek()
	if !ok {
		return math.Inf(1)
	}
	return m.CreatedAt + r.delay(m)
}

// Fire applies the reaction's effect to the oldest molecule.
func (r *ComplexDelayedReaction) Fire(simInfo SimInfo) error {
	m, ok := r.source.Peek()
	if !ok {
		return fmt.Errorf("reaction %q: fired with no molecule pending", r.name)
	}
	return r.fire(m, simInfo)
}
