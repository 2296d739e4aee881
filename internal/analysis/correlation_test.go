package analysis

import (
	"math"
	"testing"
)

func TestCorrelateEmpty(t *testing.T) {
	if got := Correlate(nil, testKinds, "alpha"); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
	samples := []Sample{sampleAt("beta", "p1", "t1", 0.5, 0)}
	if got := Correlate(samples, testKinds, "alpha"); got != nil {
		t.Fatalf("expected nil for no matching kind, got %+v", got)
	}
}

func TestCorrelate(t *testing.T) {
	kinds := []string{"alpha", "beta"}
	var samples []Sample
	for i := 0; i < 30; i++ {
		samples = append(samples, sampleAt("alpha", "p1", "t1", 0.8, i))
	}
	for i := 0; i < 20; i++ {
		samples = append(samples, sampleAt("beta", "p2", "t1", 0.4, 30+i))
	}

	metrics := Correlate(samples, kinds, "alpha")
	if len(metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(metrics))
	}
	byName := make(map[MetricName]Metric)
	for _, m := range metrics {
		byName[m.Name] = m
		if m.SampleSize != 30 {
			t.Fatalf("%s: expected sample size 30, got %d", m.Name, m.SampleSize)
		}
		if !approx(m.Confidence, 1) {
			t.Fatalf("%s: expected saturated confidence, got %v", m.Name, m.Confidence)
		}
	}

	// 30 of 50 entries across 2 kinds: share 0.6, lift 1.2.
	if !approx(byName[MetricLift].Value, 1.2) {
		t.Fatalf("expected lift 1.2, got %v", byName[MetricLift].Value)
	}
	// The majority kind carries strictly more lift than the minority kind.
	var liftB float64
	for _, m := range Correlate(samples, kinds, "beta") {
		if m.Name == MetricLift {
			liftB = m.Value
		}
	}
	if byName[MetricLift].Value <= liftB {
		t.Fatalf("expected alpha lift %v to exceed beta lift %v", byName[MetricLift].Value, liftB)
	}
	// Global mean 0.64, kind mean 0.8.
	if !approx(byName[MetricDelta].Value, 0.16) {
		t.Fatalf("expected delta 0.16, got %v", byName[MetricDelta].Value)
	}
	// All matched measures identical: degenerate distribution, skew 0.
	if byName[MetricSkew].Value != 0 {
		t.Fatalf("expected skew 0, got %v", byName[MetricSkew].Value)
	}
	wantIndex := 0.5*0.6 + 0.3*0.58 + 0.2*1
	if !approx(byName[MetricIndex].Value, wantIndex) {
		t.Fatalf("expected index %v, got %v", wantIndex, byName[MetricIndex].Value)
	}
}

func TestCorrelateConfidenceBelowSaturation(t *testing.T) {
	var samples []Sample
	for i := 0; i < 10; i++ {
		samples = append(samples, sampleAt("alpha", "p1", "t1", 0.5, i))
	}
	metrics := Correlate(samples, testKinds, "alpha")
	for _, m := range metrics {
		if !approx(m.Confidence, 0.5) {
			t.Fatalf("%s: expected confidence 0.5, got %v", m.Name, m.Confidence)
		}
	}
}

func TestCorrelateSkew(t *testing.T) {
	samples := []Sample{
		sampleAt("alpha", "p1", "t1", 0.1, 0),
		sampleAt("alpha", "p1", "t1", 0.1, 1),
		sampleAt("alpha", "p1", "t1", 0.9, 2),
	}
	metrics := Correlate(samples, []string{"alpha"}, "alpha")
	var skew float64
	for _, m := range metrics {
		if m.Name == MetricSkew {
			skew = m.Value
		}
	}
	if skew <= 0 {
		t.Fatalf("expected positive skew for right-tailed measures, got %v", skew)
	}
	if math.IsNaN(skew) || math.IsInf(skew, 0) {
		t.Fatalf("expected finite skew, got %v", skew)
	}
}
