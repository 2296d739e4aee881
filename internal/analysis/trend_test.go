package analysis

import (
	"testing"
	"time"
)

func trendSample(entity string, measure float64, hour int) Sample {
	return Sample{
		Kind:      "alpha",
		Actor:     entity,
		Context:   "t1",
		Period:    "s1",
		Entity:    entity,
		Measure:   measure,
		Timestamp: time.Date(2026, 2, 3, hour, 0, 0, 0, time.UTC),
	}
}

func TestTrendOfIncreasing(t *testing.T) {
	samples := []Sample{
		trendSample("p1", 0.1, 0),
		trendSample("p1", 0.5, 1),
		trendSample("p1", 0.9, 2),
	}
	trend := TrendOf(samples, "p1", "alpha", time.Hour)
	if trend.Windows != 3 {
		t.Fatalf("expected 3 windows, got %d", trend.Windows)
	}
	if trend.Direction != 1 {
		t.Fatalf("expected direction 1, got %d", trend.Direction)
	}
	if !approx(trend.Slope, 0.4) {
		t.Fatalf("expected slope 0.4, got %v", trend.Slope)
	}
	if !approx(trend.RSquared, 1) {
		t.Fatalf("expected r-squared 1, got %v", trend.RSquared)
	}
}

func TestTrendOfDecreasing(t *testing.T) {
	samples := []Sample{
		trendSample("p1", 0.9, 0),
		trendSample("p1", 0.1, 1),
	}
	trend := TrendOf(samples, "p1", "alpha", time.Hour)
	if trend.Direction != -1 {
		t.Fatalf("expected direction -1, got %d", trend.Direction)
	}
}

func TestTrendOfFlatStaysInDeadband(t *testing.T) {
	samples := []Sample{
		trendSample("p1", 0.5, 0),
		trendSample("p1", 0.505, 1),
	}
	trend := TrendOf(samples, "p1", "alpha", time.Hour)
	if trend.Direction != 0 {
		t.Fatalf("expected direction 0 within deadband, got %d", trend.Direction)
	}
}

func TestTrendOfSingleWindow(t *testing.T) {
	samples := []Sample{
		trendSample("p1", 0.1, 0),
		trendSample("p1", 0.9, 0),
	}
	trend := TrendOf(samples, "p1", "alpha", time.Hour)
	if trend.Windows != 1 || trend.Direction != 0 || trend.Slope != 0 {
		t.Fatalf("expected zero trend for single window, got %+v", trend)
	}
}

func TestTrendOfNoMatch(t *testing.T) {
	trend := TrendOf([]Sample{trendSample("p1", 0.5, 0)}, "p2", "alpha", time.Hour)
	if trend.Windows != 0 || trend.Direction != 0 {
		t.Fatalf("expected zero trend, got %+v", trend)
	}
}

func TestTrendOfSkipsEmptyWindows(t *testing.T) {
	samples := []Sample{
		trendSample("p1", 0.1, 0),
		trendSample("p1", 0.9, 5),
	}
	trend := TrendOf(samples, "p1", "alpha", time.Hour)
	if trend.Windows != 2 {
		t.Fatalf("expected 2 non-empty windows, got %d", trend.Windows)
	}
}

func TestElasticityOf(t *testing.T) {
	samples := []Sample{
		sampleAt("alpha", "p1", "t1", 0.2, 0),
		sampleAt("alpha", "p2", "t1", 0.4, 1),
		sampleAt("alpha", "p3", "t2", 0.8, 2),
		sampleAt("alpha", "p4", "t2", 1.0, 3),
	}
	e := ElasticityOf(samples, "alpha")
	// Context means 0.3 and 0.9 against residual variance 0.01.
	if !approx(e.Value, 9) {
		t.Fatalf("expected value 9, got %v", e.Value)
	}
	if !approx(e.Confidence, 0.2) {
		t.Fatalf("expected confidence 0.2, got %v", e.Confidence)
	}
}

func TestElasticityOfLoneContext(t *testing.T) {
	samples := []Sample{
		sampleAt("alpha", "p1", "t1", 0.2, 0),
		sampleAt("alpha", "p2", "t1", 0.8, 1),
	}
	e := ElasticityOf(samples, "alpha")
	if e.Value != 0 {
		t.Fatalf("expected value 0, got %v", e.Value)
	}
	if !approx(e.Confidence, 0.1) {
		t.Fatalf("expected fallback confidence 0.1, got %v", e.Confidence)
	}
}

func TestElasticityOfTooFewSamples(t *testing.T) {
	e := ElasticityOf([]Sample{sampleAt("alpha", "p1", "t1", 0.5, 0)}, "alpha")
	if e.Value != 0 || e.Confidence != 0 {
		t.Fatalf("expected zero elasticity, got %+v", e)
	}
}

func TestElasticityOfZeroWithinVariance(t *testing.T) {
	samples := []Sample{
		sampleAt("alpha", "p1", "t1", 0.2, 0),
		sampleAt("alpha", "p2", "t2", 0.8, 1),
	}
	e := ElasticityOf(samples, "alpha")
	if e.Value != 0 {
		t.Fatalf("expected value 0 when residuals are degenerate, got %v", e.Value)
	}
}
