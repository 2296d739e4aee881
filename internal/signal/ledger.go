package signal

import (
	"time"

	"github.com/cardhall/pitwatch/internal/analysis"
	"github.com/cardhall/pitwatch/internal/ledger"
)

// Entry is one immutable signal record in the ledger.
type Entry = ledger.Entry[Signal]

// Ledger is the append-only, hash-chained signal store.
type Ledger struct {
	core *ledger.Ledger[Signal]
}

// NewLedger creates an empty signal ledger.
func NewLedger() *Ledger {
	return &Ledger{core: ledger.New[Signal]()}
}

// FromEntries rebuilds a signal ledger from a deserialized snapshot,
// verifying the chain first.
func FromEntries(entries []Entry) (*Ledger, error) {
	core, err := ledger.FromEntries(entries)
	if err != nil {
		return nil, err
	}
	return &Ledger{core: core}, nil
}

// Append validates and appends one signal with a caller-injected timestamp.
func (l *Ledger) Append(sig Signal, ts time.Time) (Entry, error) {
	return l.core.Append(sig, ts)
}

// VerifyIntegrity checks hash and sequence linkage across the ledger.
func (l *Ledger) VerifyIntegrity() error {
	return l.core.VerifyIntegrity()
}

// Len returns the number of recorded signals.
func (l *Ledger) Len() int { return l.core.Len() }

// All returns a copied snapshot of every signal entry in append order.
func (l *Ledger) All() []Entry { return l.core.All() }

// BySeq returns the entry with the given sequence number.
func (l *Ledger) BySeq(seq uint64) (Entry, bool) { return l.core.BySeq(seq) }

// ByHash returns the entry with the given content hash.
func (l *Ledger) ByHash(hash string) (Entry, bool) { return l.core.ByHash(hash) }

// ByPlayer returns entries observed for one player.
func (l *Ledger) ByPlayer(playerID string) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.PlayerID == playerID })
}

// ByTable returns entries observed at one table.
func (l *Ledger) ByTable(tableID string) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.TableID == tableID })
}

// BySession returns entries observed during one session.
func (l *Ledger) BySession(sessionID string) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.SessionID == sessionID })
}

// ByKind returns entries of one signal kind.
func (l *Ledger) ByKind(kind Kind) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.Kind == kind })
}

// ByTimeRange returns entries with from <= timestamp < to.
func (l *Ledger) ByTimeRange(from, to time.Time) []Entry {
	return l.core.ByTimeRange(from, to)
}

// Samples converts signal entries into neutral analysis samples. The measure
// is the intensity; the entity is the observed player.
func Samples(entries []Entry) []analysis.Sample {
	out := make([]analysis.Sample, 0, len(entries))
	for _, e := range entries {
		out = append(out, analysis.Sample{
			Kind:      string(e.Payload.Kind),
			KindIndex: e.Payload.Kind.Index(),
			Actor:     e.Payload.PlayerID,
			Context:   e.Payload.TableID,
			Period:    e.Payload.SessionID,
			Entity:    e.Payload.PlayerID,
			Measure:   e.Payload.Intensity,
			Duration:  float64(e.Payload.DurationMs),
			Timestamp: e.Timestamp,
		})
	}
	return out
}
