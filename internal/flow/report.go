package flow

// VolumeSummary totals units by direction.
type VolumeSummary struct {
	TotalIn  int64
	TotalOut int64
	// Net is in minus out; negative when more left play than entered.
	Net int64
}

// SummarizeVolume totals unit counts across entries.
func SummarizeVolume(entries []Entry) VolumeSummary {
	var out VolumeSummary
	for _, e := range entries {
		switch e.Payload.Direction {
		case DirectionIn:
			out.TotalIn += e.Payload.Units
		case DirectionOut:
			out.TotalOut += e.Payload.Units
		}
	}
	out.Net = out.TotalIn - out.TotalOut
	return out
}

// FrequencySummary counts entries and average unit sizes by direction.
type FrequencySummary struct {
	CountIn     int
	CountOut    int
	AvgUnitsIn  float64
	AvgUnitsOut float64
}

// SummarizeFrequency counts entries per direction with average unit counts.
// Empty input yields zeros, never NaN.
func SummarizeFrequency(entries []Entry) FrequencySummary {
	var out FrequencySummary
	var sumIn, sumOut int64
	for _, e := range entries {
		switch e.Payload.Direction {
		case DirectionIn:
			out.CountIn++
			sumIn += e.Payload.Units
		case DirectionOut:
			out.CountOut++
			sumOut += e.Payload.Units
		}
	}
	if out.CountIn > 0 {
		out.AvgUnitsIn = float64(sumIn) / float64(out.CountIn)
	}
	if out.CountOut > 0 {
		out.AvgUnitsOut = float64(sumOut) / float64(out.CountOut)
	}
	return out
}

// SourceShare is one source's slice of the unit volume.
type SourceShare struct {
	Source Source
	Count  int
	Units  int64
	Share  float64
}

// SourceDistribution describes how unit volume spreads across sources.
type SourceDistribution struct {
	// Shares lists the sources present, declaration order, with each
	// source's share of total units.
	Shares []SourceShare
	// Concentration is the Herfindahl-style sum of squared shares.
	Concentration float64
}

// DistributeSources computes each source's share of total units. Empty
// input, or input with zero total units, yields concentration 0.
func DistributeSources(entries []Entry) SourceDistribution {
	var out SourceDistribution
	counts := make(map[Source]int)
	units := make(map[Source]int64)
	var total int64
	for _, e := range entries {
		counts[e.Payload.Source]++
		units[e.Payload.Source] += e.Payload.Units
		total += e.Payload.Units
	}
	if total == 0 {
		return out
	}
	for _, src := range sourceOrder {
		if counts[src] == 0 {
			continue
		}
		share := float64(units[src]) / float64(total)
		out.Shares = append(out.Shares, SourceShare{
			Source: src,
			Count:  counts[src],
			Units:  units[src],
			Share:  share,
		})
		out.Concentration += share * share
	}
	return out
}

// InOutRatio returns total units in over total units out, 0 when nothing
// has flowed out.
func InOutRatio(entries []Entry) float64 {
	vol := SummarizeVolume(entries)
	if vol.TotalOut == 0 {
		return 0
	}
	return float64(vol.TotalIn) / float64(vol.TotalOut)
}
