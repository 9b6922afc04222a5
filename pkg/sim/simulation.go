// Package sim implements the discrete-event stochastic simulation kernel:
// the direct-method event loop extended with fixed-time delayed reactions,
// and the Simulation type that owns states, reactions, and the logging
// scheduler driving a single trajectory. Grounded on Simulation.cpp's
// Simulation::Impl::Run.
package sim

import (
	"fmt"
	"math"

	"github.com/knut0815/stochsim/pkg/iofs"
	"github.com/knut0815/stochsim/pkg/logging"
	"github.com/knut0815/stochsim/pkg/rng"
	"github.com/knut0815/stochsim/pkg/state"
	"github.com/sirupsen/logrus"
)

// Simulation owns every state and reaction of one model and runs
// independent trajectories from it. A Simulation must not be shared
// between concurrently running trajectories: construct one per run.
type Simulation struct {
	states     []state.State
	propensity []PropensityReaction
	delayed    []DelayedReaction
	random     rng.Source
	logger     *logging.Scheduler
	log        *logrus.Logger
	time       float64
	maxTime    float64
	saveFolder string
	running    bool
}

// New returns an empty Simulation, seeded from non-deterministic entropy
// and logging through log (nil disables logging).
func New(log *logrus.Logger) *Simulation {
	s := &Simulation{random: rng.New(), log: log}
	s.logger = logging.NewScheduler(iofs.OSFilesystem{}, iofs.SystemClock{}, log)
	return s
}

// Seed replaces the random source with one deterministically seeded from
// seed, for reproducible trajectories in tests and demonstrations.
func (s *Simulation) Seed(seed uint64) {
	s.random = rng.NewSeeded(seed)
}

// AddState registers a state with the model. It is forbidden while a run
// is in progress.
func (s *Simulation) AddState(st state.State) error {
	if s.running {
		return ErrRunInProgress
	}
	s.states = append(s.states, st)
	return nil
}

// AddPropensityReaction registers a propensity-driven reaction. It is
// forbidden while a run is in progress.
func (s *Simulation) AddPropensityReaction(r PropensityReaction) error {
	if s.running {
		return ErrRunInProgress
	}
	s.propensity = append(s.propensity, r)
	return nil
}

// AddDelayedReaction registers a fixed-time delayed reaction. It is
// forbidden while a run is in progress.
func (s *Simulation) AddDelayedReaction(r DelayedReaction) error {
	if s.running {
		return ErrRunInProgress
	}
	s.delayed = append(s.delayed, r)
	return nil
}

// GetLogger returns the logging scheduler, for configuring tasks and the
// log period before Run.
func (s *Simulation) GetLogger() *logging.Scheduler {
	return s.logger
}

// SimTime returns the current simulation time.
func (s *Simulation) SimTime() float64 { return s.time }

// RunTime returns the maxTime of the run in progress (or most recently
// completed).
func (s *Simulation) RunTime() float64 { return s.maxTime }

// SaveFolder returns the directory the current run's logger is writing
// into. Valid only once a run has called logger.Initialize.
func (s *Simulation) SaveFolder() string { return s.saveFolder }

// Uniform returns a pseudo-random number in [0,1) from the model's random
// source.
func (s *Simulation) Uniform() float64 { return s.random.Uniform() }

// UniformInt returns a pseudo-random integer in [lo, hi], inclusive, from
// the model's random source.
func (s *Simulation) UniformInt(lo, hi int) int { return s.random.UniformInt(lo, hi) }

// Run executes one trajectory from t=0 to at most maxTime using the
// direct method extended with delayed reactions (§4.3): at every step the
// aggregated propensity draws an exponential wait τ; the earliest pending
// delayed reaction is compared against t+τ with a strict ">" so that a
// delayed reaction due at exactly t+τ still fires first. Errors abort the
// run, uninitializing states and logger tasks in reverse registration
// order before returning.
func (s *Simulation) Run(maxTime float64) error {
	s.running = true
	defer func() { s.running = false }()

	s.time = 0
	s.maxTime = maxTime

	for _, st := range s.states {
		st.Initialize(s)
	}
	if err := s.logger.Initialize(s.time); err != nil {
		return s.abort(err)
	}
	s.saveFolder = s.logger.Folder()

	ai := make([]float64, len(s.propensity))
	for s.time <= maxTime {
		a0 := 0.0
		for i, r := range s.propensity {
			rate, err := r.ComputeRate()
			if err != nil {
				return s.abort(fmt.Errorf("computing rate at t=%v: %w", s.time, err))
			}
			ai[i] = rate
			a0 += rate
		}

		tau := math.Inf(1)
		if a0 > 0 {
			r1 := s.random.Uniform()
			tau = 1 / a0 * math.Log(1/r1)
		}

		nextDelayedIndex := -1
		nextDelayedTime := math.Inf(1)
		for i, r := range s.delayed {
			t := r.NextReactionTime()
			if t < nextDelayedTime {
				nextDelayedTime = t
				nextDelayedIndex = i
			}
		}

		if nextDelayedIndex == -1 || nextDelayedTime > s.time+tau {
			s.time += tau
			if s.time > maxTime {
				s.time = maxTime
				break
			}
			s.logger.NotifyNextChange(s.time)

			r2 := s.random.Uniform()
			fraction := r2 * a0
			asum := 0.0
			fired := false
			for i, rate := range ai {
				asum += rate
				if asum >= fraction {
					if err := s.propensity[i].Fire(s); err != nil {
						return s.abort(fmt.Errorf("firing %q at t=%v: %w", s.propensity[i].Name(), s.time, err))
					}
					fired = true
					break
				}
			}
			_ = fired // a0 > 0 guarantees some reaction's partial sum reaches fraction
		} else {
			s.time = nextDelayedTime
			if s.time > maxTime {
				s.time = maxTime
				break
			}
			s.logger.NotifyNextChange(s.time)
			r := s.delayed[nextDelayedIndex]
			if err := r.Fire(s); err != nil {
				return s.abort(fmt.Errorf("firing %q at t=%v: %w", r.Name(), s.time, err))
			}
		}
	}

	if err := s.logger.Uninitialize(s.time); err != nil {
		return s.abortStatesOnly(err)
	}
	for i := len(s.states) - 1; i >= 0; i-- {
		s.states[i].Uninitialize(s)
	}
	return nil
}

// abort uninitializes states and logger tasks in reverse registration
// order after a mid-run failure, then returns the original error.
func (s *Simulation) abort(cause error) error {
	if s.log != nil {
		s.log.WithError(cause).WithField("time", s.time).Error("simulation run aborted")
	}
	_ = s.logger.Uninitialize(s.time)
	return s.abortStatesOnly(cause)
}

func (s *Simulation) abortStatesOnly(cause error) error {
	for i := len(s.states) - 1; i >= 0; i-- {
		s.states[i].Uninitialize(s)
	}
	return cause
}
