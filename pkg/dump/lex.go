package dump

import (
	"fmt"
	"strconv"
	"strings"
)

// colonSegment returns the trimmed text between the first and second colon.
func colonSegment(line string) string {
	rest := afterFirstColon(line)
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}

// afterColon returns the trimmed text after the first colon.
func afterColon(line string) string {
	return strings.TrimSpace(afterFirstColon(line))
}

func afterFirstColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return rest
}

// secondToken returns the second whitespace-delimited token of line.
func secondToken(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", ErrMissingValue
	}
	return fields[1], nil
}

// ParseInt parses a non-negative integer literal, detecting the base
// from its prefix: 0x (hex), 0o (octal), 0b (binary), otherwise decimal.
// Decimal literals with a leading zero are rejected as ambiguous, except
// for zero itself.
func ParseInt(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, ErrMissingValue
	}

	if len(s) > 1 && s[0] == '0' && isDecimalDigitOrUnderscore(s[1]) {
		if strings.Trim(s, "0_") != "" {
			return 0, fmt.Errorf("invalid integer literal %q: leading zero", s)
		}
		return 0, nil
	}

	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q: %w", s, err)
	}
	return v, nil
}

func isDecimalDigitOrUnderscore(c byte) bool {
	return (c >= '0' && c <= '9') || c == '_'
}

// parseHex parses a hexadecimal literal with an optional 0x prefix.
func parseHex(s string) (uint64, error) {
	digits := s
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex literal %q: %w", s, err)
	}
	return v, nil
}
