package log

import (
	"time"
)

// Event represents a trace event captured in any pipeline stage.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies one invocation of the generator (UUID).
	RunID string `cbor:"2,keyasint"`

	// Stage where the event was captured.
	Stage Stage `cbor:"3,keyasint"`

	// Action classifies what happened.
	Action Action `cbor:"4,keyasint"`

	// Line is the 1-based input line (parse stage only).
	Line int `cbor:"5,keyasint,omitempty"`

	// DeviceID is the device type id of the current device, if any.
	DeviceID *uint64 `cbor:"6,keyasint,omitempty"`

	// ModeIndex is the index of the active mode within its device, if any.
	ModeIndex *int `cbor:"7,keyasint,omitempty"`

	// Field is the record field that was assigned (FIELD_SET only).
	Field string `cbor:"8,keyasint,omitempty"`

	// Value is the raw text that was assigned or ignored.
	Value string `cbor:"9,keyasint,omitempty"`

	// Error is set for ERROR events.
	Error *ErrorEventData `cbor:"10,keyasint,omitempty"`
}

// Stage indicates which pipeline stage captured the event.
type Stage uint8

const (
	// StageParse is the dump parser.
	StageParse Stage = 0
	// StageEmit is the descriptor emitter.
	StageEmit Stage = 1
	// StageRun marks the trace file records bracketing one run.
	StageRun Stage = 2
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageParse:
		return "PARSE"
	case StageEmit:
		return "EMIT"
	case StageRun:
		return "RUN"
	default:
		return "UNKNOWN"
	}
}

// Action classifies the event.
type Action uint8

const (
	// ActionDeviceStart marks a Device: line.
	ActionDeviceStart Action = 0
	// ActionDeviceDone marks a device record being finalised.
	ActionDeviceDone Action = 1
	// ActionModeStart marks a Mode line.
	ActionModeStart Action = 2
	// ActionFieldSet marks a field assignment.
	ActionFieldSet Action = 3
	// ActionLineIgnored marks a line that matched no prefix.
	ActionLineIgnored Action = 4
	// ActionBlockEmitted marks a rendered device block.
	ActionBlockEmitted Action = 5
	// ActionError marks a failure.
	ActionError Action = 6
	// ActionRunStart is the first record a FileLogger writes for a run.
	ActionRunStart Action = 7
	// ActionRunDone is the last record; its Value is the number of events
	// logged in between.
	ActionRunDone Action = 8
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionDeviceStart:
		return "DEVICE_START"
	case ActionDeviceDone:
		return "DEVICE_DONE"
	case ActionModeStart:
		return "MODE_START"
	case ActionFieldSet:
		return "FIELD_SET"
	case ActionLineIgnored:
		return "LINE_IGNORED"
	case ActionBlockEmitted:
		return "BLOCK_EMITTED"
	case ActionError:
		return "ERROR"
	case ActionRunStart:
		return "RUN_START"
	case ActionRunDone:
		return "RUN_DONE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors in any stage.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being processed.
	Context string `cbor:"2,keyasint,omitempty"`
}

// Uint64Ptr returns a pointer to v.
func Uint64Ptr(v uint64) *uint64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
