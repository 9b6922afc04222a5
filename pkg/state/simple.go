package state

// Simple is the plain population counter: molecules represented by a
// Simple state are indistinguishable from one another, so Add/Remove only
// ever change a single integer. Grounded on the reference State class
// (State.h), which holds exactly num_, name_, and initialCondition_.
type Simple struct {
	name             string
	initialCondition int
	num              int
}

// NewSimple returns a Simple state named name with the given initial
// population.
func NewSimple(name string, initialCondition int) *Simple {
	return &Simple{name: name, initialCondition: initialCondition}
}

// Name returns the species name.
func (s *Simple) Name() string { return s.name }

// Num returns the current population.
func (s *Simple) Num() int { return s.num }

// Add increments the population. fields is ignored: Simple molecules carry
// no per-molecule data.
func (s *Simple) Add(_ SimInfo, _ map[string]float64) {
	s.num++
}

// Remove decrements the population, failing on underflow.
func (s *Simple) Remove(_ SimInfo) error {
	if s.num <= 0 {
		return ErrUnderflow
	}
	s.num--
	return nil
}

// Initialize resets the population to the initial condition.
func (s *Simple) Initialize(_ SimInfo) {
	s.num = s.initialCondition
}

// Uninitialize resets the population to zero.
func (s *Simple) Uninitialize(_ SimInfo) {
	s.num = 0
}

// SetInitialCondition changes the population the state resets to on the
// next Initialize.
func (s *Simple) SetInitialCondition(n int) {
	s.initialCondition = n
}

// InitialCondition returns the population this state resets to.
func (s *Simple) InitialCondition() int {
	return s.initialCondition
}
