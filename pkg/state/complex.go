package state

import "container/list"

// Molecule is one element of a Complex state: a creation timestamp plus an
// open set of named fields, so that delayed reactions can compute a firing
// time (or any other per-molecule quantity) from the oldest occupant.
type Molecule struct {
	CreatedAt float64
	Fields    map[string]float64
}

// Complex is an ordered multiset of timestamped molecules, held oldest-
// first in a doubly linked list so that Peek (the oldest molecule) and
// FIFO removal are both O(1). Grounded on ComplexDelayedReaction.h's use of
// "the first molecule of a complex state is also the oldest molecule".
type Complex struct {
	name             string
	initialCondition int
	molecules        *list.List
}

// NewComplex returns a Complex state named name, starting with
// initialCondition molecules carrying no fields.
func NewComplex(name string, initialCondition int) *Complex {
	return &Complex{name: name, initialCondition: initialCondition, molecules: list.New()}
}

// Name returns the species name.
func (c *Complex) Name() string { return c.name }

// Num returns the current population.
func (c *Complex) Num() int { return c.molecules.Len() }

// Add appends a new molecule stamped with the current simulation time,
// carrying a copy of fields.
func (c *Complex) Add(simInfo SimInfo, fields map[string]float64) {
	m := &Molecule{CreatedAt: simInfo.SimTime()}
	if fields != nil {
		m.Fields = make(map[string]float64, len(fields))
		for k, v := range fields {
			m.Fields[k] = v
		}
	}
	c.molecules.PushBack(m)
}

// Remove removes the oldest molecule, failing on underflow.
func (c *Complex) Remove(_ SimInfo) error {
	front := c.molecules.Front()
	if front == nil {
		return ErrUnderflow
	}
	c.molecules.Remove(front)
	return nil
}

// Peek returns the oldest molecule without removing it, and false if the
// state is empty.
func (c *Complex) Peek() (*Molecule, bool) {
	front := c.molecules.Front()
	if front == nil {
		return nil, false
	}
	return front.Value.(*Molecule), true
}

// Initialize resets the population to initialCondition fresh molecules,
// all stamped at the current simulation time (t=0 at the start of a run).
func (c *Complex) Initialize(simInfo SimInfo) {
	c.molecules.Init()
	for i := 0; i < c.initialCondition; i++ {
		c.Add(simInfo, nil)
	}
}

// Uninitialize empties the state.
func (c *Complex) Uninitialize(_ SimInfo) {
	c.molecules.Init()
}
