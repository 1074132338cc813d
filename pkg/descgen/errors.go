package descgen

import (
	"errors"
	"fmt"
)

// Emitter errors.
var (
	ErrUnknownTarget   = errors.New("unknown target")
	ErrDuplicateDevice = errors.New("duplicate device id")
	ErrInvalidOptions  = errors.New("invalid options")

	// ErrNotRepresentable reports a value that does not fit the field of
	// the generated Go descriptor.
	ErrNotRepresentable = errors.New("value not representable")
)

// MissingFieldError reports a mode that lacks a required field.
type MissingFieldError struct {
	DeviceID  uint64
	ModeIndex int
	// ModeLine is the input line of the mode marker.
	ModeLine int
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("device 0x%02X mode %d (line %d): missing %s", e.DeviceID, e.ModeIndex, e.ModeLine, e.Field)
}
