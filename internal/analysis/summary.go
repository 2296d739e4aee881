package analysis

// Summary aggregates the entries matching one kind.
type Summary struct {
	Kind          string
	Count         int
	TotalDuration float64
	Average       float64
	Min           float64
	Max           float64
}

// Summarize computes count, total duration, and average/min/max of the
// measure for entries matching kind. An empty match set yields all zeros,
// never NaN.
func Summarize(samples []Sample, kind string) Summary {
	out := Summary{Kind: kind}
	var sum float64
	for _, s := range samples {
		if s.Kind != kind {
			continue
		}
		if out.Count == 0 || s.Measure < out.Min {
			out.Min = s.Measure
		}
		if out.Count == 0 || s.Measure > out.Max {
			out.Max = s.Measure
		}
		out.Count++
		out.TotalDuration += s.Duration
		sum += s.Measure
	}
	if out.Count > 0 {
		out.Average = sum / float64(out.Count)
	}
	return out
}

// ActorProfile describes one actor's exposure across kinds.
type ActorProfile struct {
	Actor string
	// PerKind holds summaries for the kinds the actor has entries for, in
	// kind declaration order.
	PerKind []Summary
	// Dominant is the kind with the highest count, ties broken by
	// declaration order. Empty when the actor has no entries.
	Dominant      string
	TotalDuration float64
}

// ProfileActor computes per-kind summaries for one actor. kinds must be the
// full kind enum in declaration order.
func ProfileActor(samples []Sample, kinds []string, actor string) ActorProfile {
	out := ActorProfile{Actor: actor}
	var matched []Sample
	for _, s := range samples {
		if s.Actor == actor {
			matched = append(matched, s)
			out.TotalDuration += s.Duration
		}
	}
	best := 0
	for _, kind := range kinds {
		sum := Summarize(matched, kind)
		if sum.Count == 0 {
			continue
		}
		out.PerKind = append(out.PerKind, sum)
		if sum.Count > best {
			best = sum.Count
			out.Dominant = kind
		}
	}
	return out
}

// KindShare is one kind's slice of a context distribution.
type KindShare struct {
	Kind  string
	Count int
	Share float64
}

// Distribution describes how entries within a context spread across kinds.
type Distribution struct {
	Context string
	// Shares lists the kinds present in the context, declaration order.
	Shares []KindShare
	// Concentration is the Herfindahl-style sum of squared shares:
	// 0 for an even spread, 1 for a fully concentrated context.
	Concentration float64
}

// DistributeContext computes each kind's share of the entries within one
// context. An empty context yields concentration 0.
func DistributeContext(samples []Sample, kinds []string, contextID string) Distribution {
	out := Distribution{Context: contextID}
	counts := make(map[string]int)
	total := 0
	for _, s := range samples {
		if s.Context == contextID {
			counts[s.Kind]++
			total++
		}
	}
	if total == 0 {
		return out
	}
	for _, kind := range kinds {
		n := counts[kind]
		if n == 0 {
			continue
		}
		share := float64(n) / float64(total)
		out.Shares = append(out.Shares, KindShare{Kind: kind, Count: n, Share: share})
		out.Concentration += share * share
	}
	return out
}

// KindPeriodStat is one kind's count and average measure within a period.
type KindPeriodStat struct {
	Kind    string
	Count   int
	Average float64
}

// PeriodSummary aggregates activity within one period.
type PeriodSummary struct {
	Period           string
	PerKind          []KindPeriodStat
	DistinctActors   int
	DistinctContexts int
}

// SummarizePeriod computes per-kind counts and average measures plus
// distinct actor and context counts within the period.
func SummarizePeriod(samples []Sample, kinds []string, periodID string) PeriodSummary {
	out := PeriodSummary{Period: periodID}
	var matched []Sample
	for _, s := range samples {
		if s.Period == periodID {
			matched = append(matched, s)
		}
	}
	for _, kind := range kinds {
		sum := Summarize(matched, kind)
		if sum.Count == 0 {
			continue
		}
		out.PerKind = append(out.PerKind, KindPeriodStat{
			Kind:    kind,
			Count:   sum.Count,
			Average: sum.Average,
		})
	}
	out.DistinctActors = distinct(matched, func(s Sample) string { return s.Actor })
	out.DistinctContexts = distinct(matched, func(s Sample) string { return s.Context })
	return out
}
