package analysis

// CoOccurrence measures how often two kinds show up for the same actor,
// relative to what statistical independence would predict.
type CoOccurrence struct {
	KindA        string
	KindB        string
	TotalActors  int
	CountA       int // actors with at least one kindA entry
	CountB       int
	CountBoth    int
	ExpectedBoth float64
	// Lift is observed co-occurrence over the independent expectation;
	// 0 when the expectation is 0.
	Lift float64
	// Confidence is P(B|A): countBoth/countA, 0 when countA is 0.
	Confidence float64
}

// CoOccur groups entries by actor and computes lift and confidence for the
// pair of kinds.
func CoOccur(samples []Sample, kindA, kindB string) CoOccurrence {
	out := CoOccurrence{KindA: kindA, KindB: kindB}

	type presence struct{ a, b bool }
	actors := make(map[string]*presence)
	var order []string
	for _, s := range samples {
		if s.Actor == "" {
			continue
		}
		p, ok := actors[s.Actor]
		if !ok {
			p = &presence{}
			actors[s.Actor] = p
			order = append(order, s.Actor)
		}
		if s.Kind == kindA {
			p.a = true
		}
		if s.Kind == kindB {
			p.b = true
		}
	}

	out.TotalActors = len(order)
	for _, actor := range order {
		p := actors[actor]
		if p.a {
			out.CountA++
		}
		if p.b {
			out.CountB++
		}
		if p.a && p.b {
			out.CountBoth++
		}
	}
	if out.TotalActors == 0 {
		return out
	}

	total := float64(out.TotalActors)
	out.ExpectedBoth = (float64(out.CountA) / total) * (float64(out.CountB) / total) * total
	if out.ExpectedBoth > 0 {
		out.Lift = float64(out.CountBoth) / out.ExpectedBoth
	}
	if out.CountA > 0 {
		out.Confidence = float64(out.CountBoth) / float64(out.CountA)
	}
	return out
}
