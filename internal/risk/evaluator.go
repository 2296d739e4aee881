package risk

import (
	"sort"
	"time"
)

// SubjectEvent is one timestamped observation about a subject, fed to rule
// evaluation. Events come from the caller; this package stores none of them.
type SubjectEvent struct {
	SubjectID string
	Category  Category
	Timestamp time.Time
}

// Flag is the advisory output of a rule whose threshold was exceeded.
// Flags are ephemeral: the caller decides whether to log or display them.
type Flag struct {
	// RuleID is the rule entry's content hash.
	RuleID   string
	RuleName string
	Category Category
	Severity Severity
	Observed float64
	// Threshold is the limit the observed value exceeded.
	Threshold float64
	// EvaluatedAt is the caller-injected analysis timestamp.
	EvaluatedAt time.Time
}

// Evaluate runs one rule against observed events and returns a flag when the
// threshold is exceeded, nil otherwise. It never fails: a rule whose
// category or threshold shape does not fit the data is a no-op.
func Evaluate(rule Entry, events []SubjectEvent, at time.Time) *Flag {
	matching := make([]time.Time, 0, len(events))
	for _, evt := range events {
		if evt.Category == rule.Payload.Category {
			matching = append(matching, evt.Timestamp)
		}
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].Before(matching[j]) })

	var observed, threshold float64
	exceeded := false

	t := rule.Payload.Threshold
	switch t.Kind {
	case ThresholdCount:
		observed = float64(len(matching))
		threshold = float64(t.MaxCount)
		exceeded = len(matching) > t.MaxCount

	case ThresholdRate:
		if t.WindowMs <= 0 {
			return nil
		}
		observed = float64(maxWithinWindow(matching, time.Duration(t.WindowMs)*time.Millisecond))
		threshold = float64(t.MaxPerWindow)
		exceeded = observed > threshold

	case ThresholdMinGap:
		gap, ok := minGap(matching, t.WindowMs)
		if !ok {
			return nil
		}
		observed = float64(gap)
		threshold = float64(t.MinGapMs)
		exceeded = gap < t.MinGapMs

	case ThresholdPercent:
		if len(events) == 0 {
			return nil
		}
		observed = 100 * float64(len(matching)) / float64(len(events))
		threshold = t.MaxPercent
		exceeded = observed > threshold

	default:
		return nil
	}

	if !exceeded {
		return nil
	}
	return &Flag{
		RuleID:      rule.Hash,
		RuleName:    rule.Payload.Name,
		Category:    rule.Payload.Category,
		Severity:    rule.Payload.Severity,
		Observed:    observed,
		Threshold:   threshold,
		EvaluatedAt: at,
	}
}

// EvaluateAll runs every rule against the events and collects the flags.
func EvaluateAll(rules []Entry, events []SubjectEvent, at time.Time) []Flag {
	var flags []Flag
	for _, rule := range rules {
		if f := Evaluate(rule, events, at); f != nil {
			flags = append(flags, *f)
		}
	}
	return flags
}

// maxWithinWindow returns the largest number of timestamps falling inside
// any sliding window of the given size. Timestamps must be sorted.
func maxWithinWindow(sorted []time.Time, window time.Duration) int {
	best := 0
	lo := 0
	for hi := range sorted {
		for sorted[hi].Sub(sorted[lo]) > window {
			lo++
		}
		if n := hi - lo + 1; n > best {
			best = n
		}
	}
	return best
}

// minGap returns the smallest gap in milliseconds between consecutive
// timestamps. When windowMs is positive, only gaps no larger than the window
// are inspected. Returns false when fewer than two comparable timestamps
// exist. Timestamps must be sorted.
func minGap(sorted []time.Time, windowMs int64) (int64, bool) {
	found := false
	var best int64
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Sub(sorted[i-1]).Milliseconds()
		if windowMs > 0 && gap > windowMs {
			continue
		}
		if !found || gap < best {
			best = gap
			found = true
		}
	}
	return best, found
}
