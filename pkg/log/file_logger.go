package log

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends the trace of one generator run to a CBOR file.
//
// The run is bracketed by a RUN_START record written on open and a RUN_DONE
// record written on Close, so several runs can share one file and a run
// that crashed is recognisable by its missing RUN_DONE. Events logged
// without a run id are stamped with the logger's.
type FileLogger struct {
	file    *os.File
	encoder *cbor.Encoder
	runID   string

	mu     sync.Mutex
	events int
	closed bool
}

// NewFileLogger opens path for appending, creating it with permissions 0644
// if needed, and writes the RUN_START record for runID. source names the
// input of the run and is stored as the record's value.
func NewFileLogger(path, runID, source string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
		runID:   runID,
	}
	if err := l.encoder.Encode(l.marker(ActionRunStart, source)); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// RunID returns the run this logger records.
func (l *FileLogger) RunID() string {
	return l.runID
}

// Events returns the number of events logged so far, excluding the run
// markers.
func (l *FileLogger) Events() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events
}

// Log writes an event to the trace file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if event.RunID == "" {
		event.RunID = l.runID
	}

	// Tracing must not abort generation.
	if err := l.encoder.Encode(event); err == nil {
		l.events++
	}
}

// Close writes the RUN_DONE record and closes the file.
// It is safe to call Close multiple times; later Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	encErr := l.encoder.Encode(l.marker(ActionRunDone, strconv.Itoa(l.events)))
	if err := l.file.Close(); err != nil {
		return err
	}
	return encErr
}

func (l *FileLogger) marker(action Action, value string) Event {
	return Event{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Stage:     StageRun,
		Action:    action,
		Value:     value,
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
