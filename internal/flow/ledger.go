package flow

import (
	"time"

	"github.com/cardhall/pitwatch/internal/analysis"
	"github.com/cardhall/pitwatch/internal/ledger"
)

// Entry is one immutable flow record in the ledger.
type Entry = ledger.Entry[Flow]

// Ledger is the append-only, hash-chained flow store.
type Ledger struct {
	core *ledger.Ledger[Flow]
}

// NewLedger creates an empty flow ledger.
func NewLedger() *Ledger {
	return &Ledger{core: ledger.New[Flow]()}
}

// FromEntries rebuilds a flow ledger from a deserialized snapshot, verifying
// the chain first.
func FromEntries(entries []Entry) (*Ledger, error) {
	core, err := ledger.FromEntries(entries)
	if err != nil {
		return nil, err
	}
	return &Ledger{core: core}, nil
}

// Append validates and appends one flow record with a caller-injected
// timestamp.
func (l *Ledger) Append(f Flow, ts time.Time) (Entry, error) {
	return l.core.Append(f, ts)
}

// VerifyIntegrity checks hash and sequence linkage across the ledger.
func (l *Ledger) VerifyIntegrity() error {
	return l.core.VerifyIntegrity()
}

// Len returns the number of recorded flow entries.
func (l *Ledger) Len() int { return l.core.Len() }

// All returns a copied snapshot of every flow entry in append order.
func (l *Ledger) All() []Entry { return l.core.All() }

// BySeq returns the entry with the given sequence number.
func (l *Ledger) BySeq(seq uint64) (Entry, bool) { return l.core.BySeq(seq) }

// ByHash returns the entry with the given content hash.
func (l *Ledger) ByHash(hash string) (Entry, bool) { return l.core.ByHash(hash) }

// ByPlayer returns entries attributed to one player.
func (l *Ledger) ByPlayer(playerID string) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.PlayerID == playerID })
}

// ByTable returns entries attributed to one table.
func (l *Ledger) ByTable(tableID string) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.TableID == tableID })
}

// BySession returns entries attributed to one session.
func (l *Ledger) BySession(sessionID string) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.SessionID == sessionID })
}

// ByDirection returns entries flowing one way.
func (l *Ledger) ByDirection(d Direction) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.Direction == d })
}

// BySource returns entries from one source.
func (l *Ledger) BySource(s Source) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.Source == s })
}

// ByTimeRange returns entries with from <= timestamp < to.
func (l *Ledger) ByTimeRange(from, to time.Time) []Entry {
	return l.core.ByTimeRange(from, to)
}

// Samples converts flow entries into neutral analysis samples. The kind is
// the source, the measure is the unit count, and the entity is the player.
func Samples(entries []Entry) []analysis.Sample {
	out := make([]analysis.Sample, 0, len(entries))
	for _, e := range entries {
		out = append(out, analysis.Sample{
			Kind:      string(e.Payload.Source),
			KindIndex: e.Payload.Source.Index(),
			Actor:     e.Payload.PlayerID,
			Context:   e.Payload.TableID,
			Period:    e.Payload.SessionID,
			Entity:    e.Payload.PlayerID,
			Measure:   float64(e.Payload.Units),
			Timestamp: e.Timestamp,
		})
	}
	return out
}
