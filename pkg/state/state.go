// Package state implements the containers that hold a species' population
// during a run: an unordered count (Simple) and an ordered multiset of
// timestamped, field-carrying molecules (Complex).
package state

import "fmt"

// SimInfo is the minimal context a state needs to read the current
// simulation time when stamping newly created molecules. It is satisfied
// by sim.SimInfo; declared locally to avoid a state -> sim import cycle.
type SimInfo interface {
	SimTime() float64
}

// State is the common contract for every species container: population
// query, mutation, and run-lifecycle hooks.
type State interface {
	// Name returns the species name this state represents.
	Name() string
	// Num returns the current population.
	Num() int
	// Add increments the population by one, recording fields for
	// complex states (ignored by Simple).
	Add(simInfo SimInfo, fields map[string]float64)
	// Remove decrements the population by one. Removing from an empty
	// state is a fatal underflow (spec §9 resolves the reference
	// implementation's undocumented behaviour this way).
	Remove(simInfo SimInfo) error
	// Initialize resets the population to the initial condition at the
	// start of a run.
	Initialize(simInfo SimInfo)
	// Uninitialize resets the population to zero at the end of a run.
	Uninitialize(simInfo SimInfo)
}

// ErrUnderflow is returned by Remove when the population is already zero.
var ErrUnderflow = fmt.Errorf("state underflow: Remove called on empty state")
