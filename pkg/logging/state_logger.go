package logging

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/knut0815/stochsim/pkg/iofs"
	"github.com/knut0815/stochsim/pkg/state"
)

// StateLogger writes a CSV table of one or more states' populations over
// time: header row "Time,<state1>,<state2>,...", then one row per
// logged time. Grounded on StateLogger.h.
type StateLogger struct {
	fileName  string
	states    []state.State
	shouldLog bool
	fs        iofs.Filesystem
	writer    io.WriteCloser
	buf       *bufio.Writer
}

// NewStateLogger returns a StateLogger that writes fileName within the
// run's output folder, tracking the given states in column order.
func NewStateLogger(fs iofs.Filesystem, fileName string, states ...state.State) *StateLogger {
	return &StateLogger{fileName: fileName, states: states, shouldLog: true, fs: fs}
}

// AddState appends a state as an additional tracked column.
func (l *StateLogger) AddState(s state.State) {
	l.states = append(l.states, s)
}

// SetShouldLog toggles whether this task writes to disk at all.
func (l *StateLogger) SetShouldLog(shouldLog bool) {
	l.shouldLog = shouldLog
}

// WritesToDisk reports true: a StateLogger always targets a CSV file.
func (l *StateLogger) WritesToDisk() bool { return true }

// Initialize opens the output file within folder and writes the header
// row.
func (l *StateLogger) Initialize(folder string) error {
	if !l.shouldLog {
		return nil
	}
	w, err := l.fs.OpenWrite(filepath.Join(folder, l.fileName))
	if err != nil {
		return fmt.Errorf("state logger: opening %q: %w", l.fileName, err)
	}
	l.writer = w
	l.buf = bufio.NewWriter(w)

	l.buf.WriteString("Time")
	for _, s := range l.states {
		l.buf.WriteByte(',')
		l.buf.WriteString(s.Name())
	}
	l.buf.WriteByte('\n')
	return nil
}

// WriteLog appends one row for simulation time t.
func (l *StateLogger) WriteLog(t float64) {
	if !l.shouldLog || l.buf == nil {
		return
	}
	l.buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	for _, s := range l.states {
		l.buf.WriteByte(',')
		l.buf.WriteString(strconv.Itoa(s.Num()))
	}
	l.buf.WriteByte('\n')
}

// Uninitialize flushes and closes the output file.
func (l *StateLogger) Uninitialize() error {
	if !l.shouldLog || l.writer == nil {
		return nil
	}
	if err := l.buf.Flush(); err != nil {
		l.writer.Close()
		return fmt.Errorf("state logger: flushing %q: %w", l.fileName, err)
	}
	err := l.writer.Close()
	l.writer = nil
	l.buf = nil
	return err
}
