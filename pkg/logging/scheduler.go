// Package logging implements the periodic logging scheduler and its
// console/CSV task implementations. Grounded on the reference
// SimulationLogger (stochsim/Simulation.cpp), StateLogger (StateLogger.h),
// and ProgressLogger (ProgressLogger.h).
package logging

import (
	"fmt"
	"path/filepath"

	"github.com/knut0815/stochsim/pkg/iofs"
	"github.com/sirupsen/logrus"
)

// Task is one logging destination driven by the Scheduler: a CSV state
// table, a console progress line, or any other per-run sink.
type Task interface {
	// Initialize opens any resources the task needs inside folder. The
	// Scheduler writes the t=0 record through WriteLog afterwards.
	Initialize(folder string) error
	// WriteLog emits one record for simulation time t.
	WriteLog(t float64)
	// Uninitialize releases resources acquired by Initialize.
	Uninitialize() error
	// WritesToDisk reports whether this task produces a file under the
	// run's output folder, as opposed to a console-only sink.
	WritesToDisk() bool
}

// Scheduler holds a log period and a list of tasks, and guarantees that
// every task receives a record at every t0+kΔ boundary it has crossed,
// in monotonic order, regardless of how irregularly NotifyNextChange is
// called by the event loop.
type Scheduler struct {
	tasks       []Task
	logPeriod   float64
	baseFolder  string
	lastLogTime float64
	folder      string

	fs    iofs.Filesystem
	clock iofs.Clock
	log   *logrus.Logger
}

// NewScheduler returns a Scheduler with a default log period of 0.1 and
// base folder "simulations", matching the reference defaults.
func NewScheduler(fs iofs.Filesystem, clock iofs.Clock, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		logPeriod:  0.1,
		baseFolder: "simulations",
		fs:         fs,
		clock:      clock,
		log:        log,
	}
}

// Folder returns the per-run output directory created by the most recent
// Initialize call.
func (s *Scheduler) Folder() string {
	return s.folder
}

// AddTask registers a task to receive future log records.
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// SetLogPeriod sets the sampling period Δ. It panics if logPeriod is not
// strictly positive, mirroring the reference implementation's assertion.
func (s *Scheduler) SetLogPeriod(logPeriod float64) {
	if logPeriod <= 0 {
		panic("logging: log period must be positive")
	}
	s.logPeriod = logPeriod
}

// SetBaseFolder sets the parent directory under which each run's
// timestamped output directory is created.
func (s *Scheduler) SetBaseFolder(baseFolder string) {
	s.baseFolder = baseFolder
}

// Initialize creates the per-run output directory, initializes every task
// within it, and writes the t=0 record.
func (s *Scheduler) Initialize(t float64) error {
	folder := filepath.Join(s.baseFolder, iofs.RunDirectoryName(s.clock.Now()))
	if err := s.fs.CreateDirectoryRecursive(folder); err != nil {
		return fmt.Errorf("logging: creating run folder %q: %w", folder, err)
	}
	s.folder = folder
	if s.log != nil {
		s.log.WithField("folder", folder).Info("simulation run started")
	}
	for _, task := range s.tasks {
		if err := task.Initialize(folder); err != nil {
			return fmt.Errorf("logging: initializing task: %w", err)
		}
	}
	s.writeLog(t)
	s.lastLogTime = t
	return nil
}

// NotifyNextChange emits every record at t0+kΔ strictly between the
// previous notification and t, in order.
func (s *Scheduler) NotifyNextChange(t float64) {
	for s.lastLogTime+s.logPeriod < t {
		s.lastLogTime += s.logPeriod
		s.writeLog(s.lastLogTime)
	}
}

// Uninitialize catches up any remaining periodic records, writes a final
// record at t, and releases every task's resources in reverse registration
// order.
func (s *Scheduler) Uninitialize(t float64) error {
	s.NotifyNextChange(t)
	s.writeLog(t)
	s.lastLogTime = t
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if err := s.tasks[i].Uninitialize(); err != nil {
			return fmt.Errorf("logging: uninitializing task: %w", err)
		}
	}
	if s.log != nil {
		s.log.WithField("time", t).Info("simulation run finished")
	}
	return nil
}

func (s *Scheduler) writeLog(t float64) {
	for _, task := range s.tasks {
		task.WriteLog(t)
	}
}
