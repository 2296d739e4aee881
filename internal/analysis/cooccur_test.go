package analysis

import (
	"strconv"
	"testing"
)

func TestCoOccur(t *testing.T) {
	// 10 actors: 8 show alpha, 5 show beta, 5 show both.
	var samples []Sample
	for i := 0; i < 10; i++ {
		actor := "p" + strconv.Itoa(i)
		if i < 8 {
			samples = append(samples, sampleAt("alpha", actor, "t1", 0.5, i))
		}
		if i < 5 || i == 8 {
			samples = append(samples, sampleAt("beta", actor, "t1", 0.5, i))
		}
		if i == 9 {
			samples = append(samples, sampleAt("gamma", actor, "t1", 0.5, i))
		}
	}

	co := CoOccur(samples, "alpha", "beta")
	if co.TotalActors != 10 {
		t.Fatalf("expected 10 actors, got %d", co.TotalActors)
	}
	if co.CountA != 8 || co.CountB != 6 || co.CountBoth != 5 {
		t.Fatalf("unexpected counts: %+v", co)
	}
	wantExpected := (8.0 / 10) * (6.0 / 10) * 10
	if !approx(co.ExpectedBoth, wantExpected) {
		t.Fatalf("expected %v, got %v", wantExpected, co.ExpectedBoth)
	}
	if !approx(co.Lift, 5/wantExpected) {
		t.Fatalf("expected lift %v, got %v", 5/wantExpected, co.Lift)
	}
	if !approx(co.Confidence, 5.0/8) {
		t.Fatalf("expected confidence %v, got %v", 5.0/8, co.Confidence)
	}
}

func TestCoOccurAbsentKind(t *testing.T) {
	samples := []Sample{
		sampleAt("alpha", "p1", "t1", 0.5, 0),
		sampleAt("alpha", "p2", "t1", 0.5, 1),
	}
	co := CoOccur(samples, "alpha", "beta")
	if co.CountB != 0 || co.ExpectedBoth != 0 {
		t.Fatalf("expected absent kind to zero expectations, got %+v", co)
	}
	if co.Lift != 0 || co.Confidence != 0 {
		t.Fatalf("expected zero lift and confidence, got %+v", co)
	}
}

func TestCoOccurEmpty(t *testing.T) {
	co := CoOccur(nil, "alpha", "beta")
	if co.TotalActors != 0 || co.Lift != 0 || co.Confidence != 0 {
		t.Fatalf("expected zero result, got %+v", co)
	}
}
