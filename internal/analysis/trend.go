package analysis

import "time"

// DefaultTrendWindow is the bucket size used when the caller passes a
// non-positive window.
const DefaultTrendWindow = 24 * time.Hour

// slopeDeadband suppresses a direction call for slopes too small to matter.
const slopeDeadband = 0.01

// Trend is an ordinary-least-squares fit of measure versus time window.
type Trend struct {
	Entity string
	Kind   string
	// Direction is the sign of the slope, or 0 when |slope| is within the
	// deadband or fewer than two windows have data.
	Direction int
	Slope     float64
	RSquared  float64
	// Windows is the number of non-empty time windows used for the fit.
	Windows int
}

// TrendOf buckets an entity's entries of one kind into fixed-size time
// windows starting at the earliest timestamp, averages the measure per
// non-empty window, and fits measure against window index.
func TrendOf(samples []Sample, entity, kind string, window time.Duration) Trend {
	out := Trend{Entity: entity, Kind: kind}
	if window <= 0 {
		window = DefaultTrendWindow
	}

	var matched []Sample
	var earliest time.Time
	for _, s := range samples {
		if s.Entity != entity || s.Kind != kind {
			continue
		}
		if len(matched) == 0 || s.Timestamp.Before(earliest) {
			earliest = s.Timestamp
		}
		matched = append(matched, s)
	}
	if len(matched) == 0 {
		return out
	}

	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	var maxIdx int64
	for _, s := range matched {
		idx := int64(s.Timestamp.Sub(earliest) / window)
		sums[idx] += s.Measure
		counts[idx]++
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	var xs, ys []float64
	for idx := int64(0); idx <= maxIdx; idx++ {
		if counts[idx] == 0 {
			continue
		}
		xs = append(xs, float64(idx))
		ys = append(ys, sums[idx]/float64(counts[idx]))
	}
	out.Windows = len(xs)
	if len(xs) < 2 {
		return out
	}

	mx := mean(xs)
	my := mean(ys)
	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return out
	}
	out.Slope = sxy / sxx
	intercept := my - out.Slope*mx

	var ssRes, ssTot float64
	for i := range xs {
		fit := intercept + out.Slope*xs[i]
		ssRes += (ys[i] - fit) * (ys[i] - fit)
		ssTot += (ys[i] - my) * (ys[i] - my)
	}
	if ssTot > 0 {
		out.RSquared = 1 - ssRes/ssTot
	}

	switch {
	case out.Slope > slopeDeadband:
		out.Direction = 1
	case out.Slope < -slopeDeadband:
		out.Direction = -1
	}
	return out
}

// singleContextConfidence is reported when elasticity falls back to a lone
// context that still has at least two entries.
const singleContextConfidence = 0.1

// Elasticity is a one-way dispersion ratio: between-context variance of
// per-context means over within-context variance of individual measures.
type Elasticity struct {
	Kind       string
	Value      float64
	Confidence float64
}

// ElasticityOf groups matching entries by context and computes the
// dispersion ratio. Fewer than 2 matching entries or fewer than 2 distinct
// contexts yield value 0; a lone context with 2 or more entries reports a
// low fixed confidence instead of zero.
func ElasticityOf(samples []Sample, kind string) Elasticity {
	out := Elasticity{Kind: kind}

	byContext := make(map[string][]float64)
	var order []string
	total := 0
	for _, s := range samples {
		if s.Kind != kind {
			continue
		}
		if _, ok := byContext[s.Context]; !ok {
			order = append(order, s.Context)
		}
		byContext[s.Context] = append(byContext[s.Context], s.Measure)
		total++
	}

	if total < 2 {
		return out
	}
	if len(order) < 2 {
		if len(byContext[order[0]]) >= 2 {
			out.Confidence = singleContextConfidence
		}
		return out
	}

	var contextMeans []float64
	var residuals []float64
	for _, ctx := range order {
		values := byContext[ctx]
		m := mean(values)
		contextMeans = append(contextMeans, m)
		for _, v := range values {
			residuals = append(residuals, v-m)
		}
	}

	within := variance(residuals)
	if within == 0 {
		return out
	}
	out.Value = variance(contextMeans) / within
	out.Confidence = sampleConfidence(total)
	return out
}
