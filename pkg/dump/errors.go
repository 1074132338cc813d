package dump

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	ErrNoDevice      = errors.New("line outside of a device block")
	ErrMissingValue  = errors.New("missing value")
	ErrFlagsOverflow = errors.New("flags value exceeds 48 bits")
)

// ParseError reports a dump line that could not be parsed.
type ParseError struct {
	// Line is the 1-based line number.
	Line int
	// Text is the trimmed line.
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
