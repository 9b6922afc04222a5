package sim

// SimInfo is the ambient context handed to reactions during Fire and to
// loggers during a run: current simulation time, total run time, the
// per-run output directory, and the random source. Grounded on the
// reference ISimInfo/SimInfo split (Simulation.cpp).
type SimInfo interface {
	// SimTime returns the current simulation time.
	SimTime() float64
	// RunTime returns maxTime, the time the current Run was asked to
	// reach.
	RunTime() float64
	// SaveFolder returns the directory the current run's logger tasks
	// are writing into.
	SaveFolder() string
	// Uniform returns a pseudo-random number in [0,1).
	Uniform() float64
	// UniformInt returns a pseudo-random integer in [lo, hi], inclusive.
	UniformInt(lo, hi int) int
}
