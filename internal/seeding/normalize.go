package seeding

import (
	"math"
	"strconv"
	"strings"
)

// MissingBibNumber sorts athletes without a usable bib after everyone else
const MissingBibNumber = 999999

// ParseToSeconds converts "SS.ss", "MM:SS.ss" or "H:MM:SS.ss" into seconds.
// Anything it cannot read becomes +Inf, the worst value for a timed event.
func ParseToSeconds(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return math.Inf(1)
	}

	parts := strings.Split(v, ":")
	if len(parts) > 3 {
		return math.Inf(1)
	}

	total := 0.0
	for _, part := range parts {
		n, ok := parseFinite(part)
		if !ok {
			return math.Inf(1)
		}
		total = total*60 + n
	}
	return total
}

// ParseFieldResult reads a distance or height in meters. Values above 100
// are taken as centimeters. Anything it cannot read becomes -Inf.
func ParseFieldResult(value string) float64 {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	n, ok := parseFinite(b.String())
	if !ok {
		return math.Inf(-1)
	}
	if n > 100 {
		n /= 100
	}
	return n
}

// ParseMark dispatches on the event type
func ParseMark(value string, timeBased bool) float64 {
	if timeBased {
		return ParseToSeconds(value)
	}
	return ParseFieldResult(value)
}

// ParseBibNumber returns MissingBibNumber for empty or non-numeric bibs
func ParseBibNumber(bib string) int {
	n, err := strconv.Atoi(strings.TrimSpace(bib))
	if err != nil {
		return MissingBibNumber
	}
	return n
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
