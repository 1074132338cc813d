package descgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatFloat renders v in the shortest form that round-trips, always with
// a decimal point or an exponent: 0.0, 100.0, -180.0, 0.0001, 1e-05, 1e+16.
// Exponent form is used below 1e-4 and from 1e16 up.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expStr)

	if exp < -4 || exp >= 16 {
		sign := '+'
		if exp < 0 {
			sign = '-'
			exp = -exp
		}
		return fmt.Sprintf("%se%c%02d", mant, sign, exp)
	}

	f := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(f, ".") {
		f += ".0"
	}
	return f
}

// cppFloat renders v as a C++ float literal.
func cppFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "INFINITY"
	case math.IsInf(v, -1):
		return "-INFINITY"
	case math.IsNaN(v):
		return "NAN"
	}
	return formatFloat(v) + "f"
}

// goFloat renders v as a Go constant expression assignable to float32.
// Magnitudes beyond float32 saturate to infinity.
func goFloat(v float64) string {
	switch {
	case math.IsInf(v, 1), v > math.MaxFloat32:
		return "float32(math.Inf(1))"
	case math.IsInf(v, -1), v < -math.MaxFloat32:
		return "float32(math.Inf(-1))"
	case math.IsNaN(v):
		return "float32(math.NaN())"
	}
	return formatFloat(v)
}
