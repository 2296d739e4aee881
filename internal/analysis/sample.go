// Package analysis computes statistical views over ledger snapshots.
//
// Every function is stateless and pure: arguments are never mutated, no clock
// is read, and there is no error channel. Empty inputs, unknown ids, and
// single-entry sets all yield well-defined zero results instead of failures.
package analysis

import "time"

// Sample is the neutral observation shape shared by the signal, risk, and
// flow ledgers. Domain packages convert their entries into samples before
// handing them to analysis functions.
type Sample struct {
	Kind      string
	KindIndex int // declaration order of the kind within its enum
	Actor     string
	Context   string
	Period    string
	Entity    string
	Measure   float64
	Duration  float64 // milliseconds
	Timestamp time.Time
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance is the population variance; zero for fewer than one value.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func distinct(samples []Sample, field func(Sample) string) int {
	seen := make(map[string]struct{})
	for _, s := range samples {
		if v := field(s); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
