package logging

import "github.com/knut0815/stochsim/pkg/iofs"

// ProgressLogger prints the fraction of the run elapsed so far to the
// console. It never writes to disk. Grounded on ProgressLogger.h.
type ProgressLogger struct {
	console iofs.Console
	runtime float64
}

// NewProgressLogger returns a ProgressLogger that reports progress toward
// runtime (the run's maxTime) on console.
func NewProgressLogger(console iofs.Console, runtime float64) *ProgressLogger {
	return &ProgressLogger{console: console, runtime: runtime}
}

// Initialize prints the initial 0% line. folder is unused: progress is
// console-only.
func (p *ProgressLogger) Initialize(_ string) error {
	p.console.Printf("Simulating model:   0.0%%\n")
	return nil
}

// WriteLog prints the percentage of runtime elapsed at time t.
func (p *ProgressLogger) WriteLog(t float64) {
	pct := 100.0
	if p.runtime > 0 {
		pct = t / p.runtime * 100
	}
	p.console.Printf("Simulating model: %5.1f%%\n", pct)
}

// Uninitialize prints a completion line.
func (p *ProgressLogger) Uninitialize() error {
	p.console.Printf("Finished!\n")
	return nil
}

// WritesToDisk reports false: a ProgressLogger only ever prints to console.
func (p *ProgressLogger) WritesToDisk() bool { return false }
