package view

import (
	"sort"
	"time"

	"github.com/cardhall/pitwatch/internal/analysis"
)

// traceDeadband suppresses a direction call when the halves' means differ by
// no more than this.
const traceDeadband = 0.05

// TracePoint is one observation in an entity's timeline.
type TracePoint struct {
	Timestamp time.Time
	Kind      string
	Measure   float64
}

// TraceView is the time-ordered timeline of one entity.
type TraceView struct {
	Entity string
	Points []TracePoint
	// Direction compares the mean measure of the first half of the ordered
	// timeline against the second half: 1 rising, -1 falling, 0 within the
	// deadband or too few points.
	Direction int
	// Dominant is the most frequent kind, ties broken by declaration order.
	Dominant string
	// Volatility is stdev(measure)/mean(measure); 0 when the mean is 0.
	Volatility float64
}

// Trace builds the timeline view for one entity.
func (b *Builder) Trace(entity string) TraceView {
	out := TraceView{Entity: entity}

	var matched []analysis.Sample
	for _, s := range b.samples {
		if s.Entity == entity {
			matched = append(matched, s)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})

	counts := make(map[string]int)
	var measures []float64
	for _, s := range matched {
		out.Points = append(out.Points, TracePoint{
			Timestamp: s.Timestamp,
			Kind:      s.Kind,
			Measure:   s.Measure,
		})
		counts[s.Kind]++
		measures = append(measures, s.Measure)
	}

	best := 0
	for _, kind := range b.kinds {
		if counts[kind] > best {
			best = counts[kind]
			out.Dominant = kind
		}
	}

	if len(measures) >= 2 {
		half := len(measures) / 2
		first := meanOf(measures[:half])
		second := meanOf(measures[half:])
		switch {
		case second-first > traceDeadband:
			out.Direction = 1
		case first-second > traceDeadband:
			out.Direction = -1
		}
	}

	if m := meanOf(measures); m != 0 {
		out.Volatility = stdevOf(measures) / m
	}
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
