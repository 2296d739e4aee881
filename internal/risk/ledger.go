package risk

import (
	"time"

	"github.com/cardhall/pitwatch/internal/ledger"
)

// Entry is one immutable rule record in the ledger.
type Entry = ledger.Entry[Rule]

// Ledger is the append-only, hash-chained rule store. It uses the same
// chaining mechanics as the signal and flow ledgers.
type Ledger struct {
	core *ledger.Ledger[Rule]
}

// NewLedger creates an empty rule ledger.
func NewLedger() *Ledger {
	return &Ledger{core: ledger.New[Rule]()}
}

// FromEntries rebuilds a rule ledger from a deserialized snapshot, verifying
// the chain first.
func FromEntries(entries []Entry) (*Ledger, error) {
	core, err := ledger.FromEntries(entries)
	if err != nil {
		return nil, err
	}
	return &Ledger{core: core}, nil
}

// Append validates and appends one rule with a caller-injected timestamp.
func (l *Ledger) Append(rule Rule, ts time.Time) (Entry, error) {
	return l.core.Append(rule, ts)
}

// VerifyIntegrity checks hash and sequence linkage across the ledger.
func (l *Ledger) VerifyIntegrity() error {
	return l.core.VerifyIntegrity()
}

// Len returns the number of declared rules.
func (l *Ledger) Len() int { return l.core.Len() }

// All returns a copied snapshot of every rule entry in append order.
func (l *Ledger) All() []Entry { return l.core.All() }

// BySeq returns the entry with the given sequence number.
func (l *Ledger) BySeq(seq uint64) (Entry, bool) { return l.core.BySeq(seq) }

// ByHash returns the entry with the given content hash.
func (l *Ledger) ByHash(hash string) (Entry, bool) { return l.core.ByHash(hash) }

// ByName returns the rule entry declared under the given name.
func (l *Ledger) ByName(name string) (Entry, bool) {
	matches := l.core.Select(func(e Entry) bool { return e.Payload.Name == name })
	if len(matches) == 0 {
		var zero Entry
		return zero, false
	}
	return matches[0], true
}

// ByCategory returns rule entries watching one category.
func (l *Ledger) ByCategory(category Category) []Entry {
	return l.core.Select(func(e Entry) bool { return e.Payload.Category == category })
}
