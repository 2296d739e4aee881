package analysis

import "math"

// MetricName identifies a derived correlation metric.
type MetricName string

const (
	// MetricLift is the kind's share of all entries over the uniform
	// expected share across all declared kinds.
	MetricLift MetricName = "LIFT"
	// MetricDelta is the kind's average measure minus the global average.
	MetricDelta MetricName = "DELTA"
	// MetricSkew is the third standardized moment of the kind's measures.
	MetricSkew MetricName = "SKEW"
	// MetricIndex is a weighted composite of the other three metrics.
	MetricIndex MetricName = "INDEX"
)

// Metric is one derived correlation record.
type Metric struct {
	Name       MetricName
	Kind       string
	Value      float64
	Confidence float64
	SampleSize int
}

// metricConfidenceSaturation is the sample size at which confidence reaches 1.
const metricConfidenceSaturation = 20

// sampleConfidence rises with sample size and caps at 1.
func sampleConfidence(n int) float64 {
	if n <= 0 {
		return 0
	}
	c := float64(n) / metricConfidenceSaturation
	if c > 1 {
		return 1
	}
	return c
}

// Correlate computes the four named metrics for the subset matching kind.
// kinds must be the full kind enum in declaration order. An empty match set
// yields an empty list, not an error.
func Correlate(samples []Sample, kinds []string, kind string) []Metric {
	var matched []float64
	for _, s := range samples {
		if s.Kind == kind {
			matched = append(matched, s.Measure)
		}
	}
	n := len(matched)
	if n == 0 || len(kinds) == 0 {
		return nil
	}

	confidence := sampleConfidence(n)
	record := func(name MetricName, value float64) Metric {
		return Metric{Name: name, Kind: kind, Value: value, Confidence: confidence, SampleSize: n}
	}

	share := float64(n) / float64(len(samples))
	lift := share * float64(len(kinds))

	var globalSum float64
	for _, s := range samples {
		globalSum += s.Measure
	}
	delta := mean(matched) - globalSum/float64(len(samples))

	skew := 0.0
	if sd := math.Sqrt(variance(matched)); sd > 0 {
		m := mean(matched)
		var sum float64
		for _, v := range matched {
			z := (v - m) / sd
			sum += z * z * z
		}
		skew = sum / float64(n)
	}

	// Composite index: weak lift and delta are squashed into [0,1] before
	// weighting; a heavy skew drags the index down.
	index := 0.5*clamp01(lift/2) + 0.3*clamp01((delta+1)/2) + 0.2*clamp01(1-math.Abs(skew))

	return []Metric{
		record(MetricLift, lift),
		record(MetricDelta, delta),
		record(MetricSkew, skew),
		record(MetricIndex, index),
	}
}
