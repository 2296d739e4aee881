package view

import "github.com/cardhall/pitwatch/internal/analysis"

// GlobalView summarizes the whole snapshot.
type GlobalView struct {
	TotalEntries int
	// PerKind holds a summary for every kind with entries, declaration
	// order.
	PerKind          []analysis.Summary
	DistinctActors   int
	DistinctContexts int
	DistinctPeriods  int
	AverageMeasure   float64
	// AverageConfidence averages the confidence of every derived
	// correlation record across kinds; 0 when no metrics exist.
	AverageConfidence float64
}

// Global builds the global summary view.
func (b *Builder) Global() GlobalView {
	out := GlobalView{TotalEntries: len(b.samples)}

	var measureSum float64
	for _, s := range b.samples {
		measureSum += s.Measure
	}
	if out.TotalEntries > 0 {
		out.AverageMeasure = measureSum / float64(out.TotalEntries)
	}

	var confidenceSum float64
	metricCount := 0
	for _, kind := range b.kinds {
		sum := analysis.Summarize(b.samples, kind)
		if sum.Count == 0 {
			continue
		}
		out.PerKind = append(out.PerKind, sum)
		for _, m := range analysis.Correlate(b.samples, b.kinds, kind) {
			confidenceSum += m.Confidence
			metricCount++
		}
	}
	if metricCount > 0 {
		out.AverageConfidence = confidenceSum / float64(metricCount)
	}

	out.DistinctActors = distinctOf(b.samples, func(s analysis.Sample) string { return s.Actor })
	out.DistinctContexts = distinctOf(b.samples, func(s analysis.Sample) string { return s.Context })
	out.DistinctPeriods = distinctOf(b.samples, func(s analysis.Sample) string { return s.Period })
	return out
}
