// Package view composes ledger snapshots and analysis outputs into
// read-only reporting structures for human review.
//
// A Builder holds a frozen copy of the samples it was created with; views
// derived from it are value copies and never expose references into ledger
// storage.
package view

import (
	"math"
	"sort"
	"time"

	"github.com/cardhall/pitwatch/internal/analysis"
)

// Builder derives reporting views from a snapshot of samples.
type Builder struct {
	samples []analysis.Sample
	kinds   []string
}

// NewBuilder copies the samples and the declared kind order into a builder.
func NewBuilder(samples []analysis.Sample, kinds []string) *Builder {
	b := &Builder{
		samples: make([]analysis.Sample, len(samples)),
		kinds:   make([]string, len(kinds)),
	}
	copy(b.samples, samples)
	copy(b.kinds, kinds)
	return b
}

// KindView reports on one kind across the whole snapshot.
type KindView struct {
	Kind             string
	Summary          analysis.Summary
	Metrics          []analysis.Metric
	DistinctActors   int
	DistinctContexts int
}

// ByKind builds the per-kind view.
func (b *Builder) ByKind(kind string) KindView {
	var matched []analysis.Sample
	for _, s := range b.samples {
		if s.Kind == kind {
			matched = append(matched, s)
		}
	}
	return KindView{
		Kind:             kind,
		Summary:          analysis.Summarize(b.samples, kind),
		Metrics:          analysis.Correlate(b.samples, b.kinds, kind),
		DistinctActors:   distinctOf(matched, func(s analysis.Sample) string { return s.Actor }),
		DistinctContexts: distinctOf(matched, func(s analysis.Sample) string { return s.Context }),
	}
}

// ActorKindView pairs one kind's metrics and trend for an actor.
type ActorKindView struct {
	Kind    string
	Metrics []analysis.Metric
	Trend   analysis.Trend
}

// ActorView reports on one actor.
type ActorView struct {
	Actor   string
	Profile analysis.ActorProfile
	// PerKind covers the kinds the actor has entries for, declaration
	// order. Metrics are computed within the actor's own entries.
	PerKind []ActorKindView
}

// ByActor builds the per-actor view.
func (b *Builder) ByActor(actor string) ActorView {
	var matched []analysis.Sample
	for _, s := range b.samples {
		if s.Actor == actor {
			matched = append(matched, s)
		}
	}
	out := ActorView{
		Actor:   actor,
		Profile: analysis.ProfileActor(b.samples, b.kinds, actor),
	}
	for _, sum := range out.Profile.PerKind {
		out.PerKind = append(out.PerKind, ActorKindView{
			Kind:    sum.Kind,
			Metrics: analysis.Correlate(matched, b.kinds, sum.Kind),
			Trend:   analysis.TrendOf(b.samples, actor, sum.Kind, 0),
		})
	}
	return out
}

// RankedKind is one kind's count within a context, ranked.
type RankedKind struct {
	Kind  string
	Count int
}

// ContextView reports on one context.
type ContextView struct {
	Context      string
	Distribution analysis.Distribution
	// Ranked lists kinds by count descending; ties keep declaration order.
	Ranked          []RankedKind
	DistinctActors  int
	MeasureVariance float64
}

// ByContext builds the per-context view.
func (b *Builder) ByContext(contextID string) ContextView {
	var matched []analysis.Sample
	var measures []float64
	for _, s := range b.samples {
		if s.Context == contextID {
			matched = append(matched, s)
			measures = append(measures, s.Measure)
		}
	}
	dist := analysis.DistributeContext(b.samples, b.kinds, contextID)

	ranked := make([]RankedKind, 0, len(dist.Shares))
	for _, share := range dist.Shares {
		ranked = append(ranked, RankedKind{Kind: share.Kind, Count: share.Count})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	return ContextView{
		Context:         contextID,
		Distribution:    dist,
		Ranked:          ranked,
		DistinctActors:  distinctOf(matched, func(s analysis.Sample) string { return s.Actor }),
		MeasureVariance: varianceOf(measures),
	}
}

// PeriodView reports on one period.
type PeriodView struct {
	Period  string
	Summary analysis.PeriodSummary
	// Actors and Contexts are the sorted sets of ids active in the period.
	Actors   []string
	Contexts []string
	// MinTimestamp and MaxTimestamp bound the observed activity; zero for
	// an empty period.
	MinTimestamp time.Time
	MaxTimestamp time.Time
}

// ByPeriod builds the per-period view.
func (b *Builder) ByPeriod(periodID string) PeriodView {
	out := PeriodView{
		Period:  periodID,
		Summary: analysis.SummarizePeriod(b.samples, b.kinds, periodID),
	}
	actors := make(map[string]struct{})
	contexts := make(map[string]struct{})
	for _, s := range b.samples {
		if s.Period != periodID {
			continue
		}
		if s.Actor != "" {
			actors[s.Actor] = struct{}{}
		}
		if s.Context != "" {
			contexts[s.Context] = struct{}{}
		}
		if out.MinTimestamp.IsZero() || s.Timestamp.Before(out.MinTimestamp) {
			out.MinTimestamp = s.Timestamp
		}
		if out.MaxTimestamp.IsZero() || s.Timestamp.After(out.MaxTimestamp) {
			out.MaxTimestamp = s.Timestamp
		}
	}
	out.Actors = sortedKeys(actors)
	out.Contexts = sortedKeys(contexts)
	return out
}

func distinctOf(samples []analysis.Sample, field func(analysis.Sample) string) int {
	seen := make(map[string]struct{})
	for _, s := range samples {
		if v := field(s); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func varianceOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return sq / float64(len(values))
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func stdevOf(values []float64) float64 {
	return math.Sqrt(varianceOf(values))
}
