package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseParamExpr parses an angle expression, supporting plain numbers and
// pi expressions: "1.5707", "pi", "pi/2", "3*pi/4", "2pi", "-pi/3".
// Returns the value and true on success.
func parseParamExpr(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, true
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	numerator, denominator, hasDenom := strings.Cut(s, "/")
	numerator = strings.TrimSpace(numerator)
	if !strings.HasSuffix(numerator, "pi") {
		return 0, false
	}
	coeffStr := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(numerator, "pi")), "*"))

	coeff := 1.0
	if coeffStr != "" {
		var err error
		coeff, err = strconv.ParseFloat(strings.TrimSpace(coeffStr), 64)
		if err != nil {
			return 0, false
		}
	}

	result := coeff * math.Pi
	if hasDenom {
		denom, err := strconv.ParseFloat(strings.TrimSpace(denominator), 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		result /= denom
	}
	if negative {
		result = -result
	}
	return result, true
}

// formatParam formats an angle, using pi notation for common fractions.
func formatParam(val float64) string {
	piForms := []struct {
		value   float64
		display string
	}{
		{2 * math.Pi, "2*pi"},
		{3 * math.Pi / 2, "3*pi/2"},
		{math.Pi, "pi"},
		{3 * math.Pi / 4, "3*pi/4"},
		{2 * math.Pi / 3, "2*pi/3"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 3, "pi/3"},
		{math.Pi / 4, "pi/4"},
		{math.Pi / 6, "pi/6"},
		{math.Pi / 8, "pi/8"},
	}
	for _, pf := range piForms {
		if math.Abs(val-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(val+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}
	return fmt.Sprintf("%g", val)
}
