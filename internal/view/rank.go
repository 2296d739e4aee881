package view

import "sort"

// Ranked is one id's entry count in a top-N ranking.
type Ranked struct {
	ID    string
	Count int
}

// TopActors ranks actors by entry count descending, truncated to n. Ties
// keep the order actors first appeared in the snapshot.
func (b *Builder) TopActors(n int) []Ranked {
	return b.topBy(n, func(i int) string { return b.samples[i].Actor })
}

// TopContexts ranks contexts by entry count descending, truncated to n.
// Ties keep the order contexts first appeared in the snapshot.
func (b *Builder) TopContexts(n int) []Ranked {
	return b.topBy(n, func(i int) string { return b.samples[i].Context })
}

func (b *Builder) topBy(n int, field func(i int) string) []Ranked {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for i := range b.samples {
		id := field(i)
		if id == "" {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	ranked := make([]Ranked, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, Ranked{ID: id, Count: counts[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
