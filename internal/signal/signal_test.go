package signal

import (
	"testing"
	"time"

	"github.com/cardhall/pitwatch/internal/platform/errors"
)

func validSignal() Signal {
	return Signal{
		Kind:       KindSlowRoll,
		PlayerID:   "player-1",
		TableID:    "table-1",
		SessionID:  "session-1",
		Intensity:  0.6,
		DurationMs: 1500,
	}
}

func TestSignalValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Signal)
		want   errors.Code
	}{
		{"undeclared kind", func(s *Signal) { s.Kind = "signal.table_talk" }, errors.CodeSignalInvalidKind},
		{"empty kind", func(s *Signal) { s.Kind = "" }, errors.CodeSignalInvalidKind},
		{"empty player", func(s *Signal) { s.PlayerID = " " }, errors.CodeSignalEmptyPlayerID},
		{"empty table", func(s *Signal) { s.TableID = "" }, errors.CodeSignalEmptyTableID},
		{"empty session", func(s *Signal) { s.SessionID = "" }, errors.CodeSignalEmptySessionID},
		{"intensity below range", func(s *Signal) { s.Intensity = -0.1 }, errors.CodeSignalInvalidIntensity},
		{"intensity above range", func(s *Signal) { s.Intensity = 1.1 }, errors.CodeSignalInvalidIntensity},
		{"negative duration", func(s *Signal) { s.DurationMs = -1 }, errors.CodeSignalInvalidDuration},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sig := validSignal()
			tc.mutate(&sig)
			err := sig.Validate()
			if !errors.IsCode(err, tc.want) {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
		})
	}

	if err := validSignal().Validate(); err != nil {
		t.Fatalf("expected valid signal, got %v", err)
	}
	// Boundary intensities are allowed.
	for _, intensity := range []float64{0, 1} {
		sig := validSignal()
		sig.Intensity = intensity
		if err := sig.Validate(); err != nil {
			t.Fatalf("intensity %v: expected valid, got %v", intensity, err)
		}
	}
}

func TestKindIndex(t *testing.T) {
	for i, kind := range Kinds() {
		if Kind(kind).Index() != i {
			t.Fatalf("kind %s: expected index %d, got %d", kind, i, Kind(kind).Index())
		}
	}
	if Kind("signal.unknown").Index() != -1 {
		t.Fatal("expected undeclared kind index -1")
	}
}

func TestLedgerFilters(t *testing.T) {
	l := NewLedger()
	base := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

	appendSig := func(kind Kind, player, table, session string, minute int) {
		t.Helper()
		sig := validSignal()
		sig.Kind = kind
		sig.PlayerID = player
		sig.TableID = table
		sig.SessionID = session
		if _, err := l.Append(sig, base.Add(time.Duration(minute)*time.Minute)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	appendSig(KindSlowRoll, "p1", "t1", "s1", 0)
	appendSig(KindAngleShoot, "p1", "t2", "s1", 1)
	appendSig(KindSlowRoll, "p2", "t1", "s2", 2)

	if got := l.ByPlayer("p1"); len(got) != 2 {
		t.Fatalf("expected 2 entries for p1, got %d", len(got))
	}
	if got := l.ByTable("t1"); len(got) != 2 {
		t.Fatalf("expected 2 entries for t1, got %d", len(got))
	}
	if got := l.BySession("s2"); len(got) != 1 {
		t.Fatalf("expected 1 entry for s2, got %d", len(got))
	}
	if got := l.ByKind(KindAngleShoot); len(got) != 1 {
		t.Fatalf("expected 1 angle shoot entry, got %d", len(got))
	}
	if got := l.ByTimeRange(base, base.Add(2*time.Minute)); len(got) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(got))
	}
}

func TestLedgerRejectsDuplicateRef(t *testing.T) {
	l := NewLedger()
	ts := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

	sig := validSignal()
	sig.RefID = "obs-1"
	if _, err := l.Append(sig, ts); err != nil {
		t.Fatalf("append: %v", err)
	}
	other := validSignal()
	other.Kind = KindSoftPlay
	other.RefID = "obs-1"
	_, err := l.Append(other, ts.Add(time.Minute))
	if !errors.IsCode(err, errors.CodeDuplicateIdentity) {
		t.Fatalf("expected DUPLICATE_IDENTITY, got %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", l.Len())
	}
}

func TestSamples(t *testing.T) {
	l := NewLedger()
	ts := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	sig := validSignal()
	if _, err := l.Append(sig, ts); err != nil {
		t.Fatalf("append: %v", err)
	}

	samples := Samples(l.All())
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	s := samples[0]
	if s.Kind != string(KindSlowRoll) || s.KindIndex != KindSlowRoll.Index() {
		t.Fatalf("unexpected kind mapping: %+v", s)
	}
	if s.Actor != "player-1" || s.Entity != "player-1" || s.Context != "table-1" || s.Period != "session-1" {
		t.Fatalf("unexpected id mapping: %+v", s)
	}
	if s.Measure != 0.6 || s.Duration != 1500 {
		t.Fatalf("unexpected measure mapping: %+v", s)
	}
	if !s.Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp %v, got %v", ts, s.Timestamp)
	}
}
