// Package ledger implements a generic append-only, hash-chained store of
// immutable entries.
//
// A ledger is owned by its caller; there is no process-wide registry. Appends
// are serialized by a mutex and every read returns a copied snapshot, so a
// concurrent reader never observes a partially appended entry. The ledger
// never reads a system clock: timestamps are caller-injected, which keeps
// every derived computation reproducible.
package ledger

import (
	"strconv"
	"sync"
	"time"

	"github.com/cardhall/pitwatch/internal/platform/errors"
)

// Payload is the caller-defined record type stored in ledger entries.
//
// Implementations must be self-contained value types: ledgers copy entries by
// value on read, and a payload holding pointers or slices would leak mutable
// references into stored state.
type Payload interface {
	// Validate checks required fields and numeric ranges. Invalid payloads
	// are rejected before a sequence number is allocated.
	Validate() error
	// IdempotencyKey returns the external reference key, or "" when the
	// payload carries none. A reused key fails the append.
	IdempotencyKey() string
	// EncodeFields returns the deterministic field encoding hashed into the
	// entry. Field order must never change once entries exist.
	EncodeFields() []string
}

// Entry is one immutable record in a ledger.
//
// Hash is the entry's content-addressed identity: a deterministic function of
// the sequence number, timestamp, payload fields, and the previous entry's
// hash. It never changes after creation.
type Entry[P Payload] struct {
	Seq       uint64 // 1-based, strictly increasing by 1 per append
	Timestamp time.Time
	Payload   P
	Hash      string
	PrevHash  string
}

// ID returns the entry's content-addressed identity.
func (e Entry[P]) ID() string {
	return e.Hash
}

// Ledger is an append-only, hash-chained sequence of entries.
type Ledger[P Payload] struct {
	mu      sync.RWMutex
	entries []Entry[P]
	seen    map[string]uint64 // idempotency key -> seq
}

// New creates an empty ledger.
func New[P Payload]() *Ledger[P] {
	return &Ledger[P]{seen: make(map[string]uint64)}
}

// FromEntries rebuilds a ledger from a deserialized snapshot, verifying the
// chain before accepting it. Used when reloading persisted ledgers.
func FromEntries[P Payload](entries []Entry[P]) (*Ledger[P], error) {
	if err := VerifyChain(entries); err != nil {
		return nil, err
	}
	l := New[P]()
	l.entries = make([]Entry[P], len(entries))
	copy(l.entries, entries)
	for _, e := range entries {
		if key := e.Payload.IdempotencyKey(); key != "" {
			l.seen[key] = e.Seq
		}
	}
	return l, nil
}

// Append validates the payload and appends a new hash-linked entry.
//
// On failure the ledger is unchanged: no sequence number is consumed and no
// idempotency key is recorded. The timestamp is caller-injected and required.
func (l *Ledger[P]) Append(payload P, ts time.Time) (Entry[P], error) {
	var zero Entry[P]
	if err := payload.Validate(); err != nil {
		return zero, err
	}
	if ts.IsZero() {
		return zero, errors.New(errors.CodeInvalidInput, "timestamp is required")
	}
	ts = ts.UTC().Truncate(time.Millisecond)

	l.mu.Lock()
	defer l.mu.Unlock()

	key := payload.IdempotencyKey()
	if key != "" {
		if seq, ok := l.seen[key]; ok {
			return zero, errors.WithMetadata(errors.CodeDuplicateIdentity,
				"reference already recorded", map[string]string{
					"key": key,
					"seq": strconv.FormatUint(seq, 10),
				})
		}
	}

	seq := uint64(len(l.entries)) + 1
	prev := GenesisHash
	if n := len(l.entries); n > 0 {
		prev = l.entries[n-1].Hash
	}

	e := Entry[P]{
		Seq:       seq,
		Timestamp: ts,
		Payload:   payload,
		PrevHash:  prev,
	}
	e.Hash = ChainHash(entryFields(e.Seq, e.Timestamp, e.Payload), prev)

	l.entries = append(l.entries, e)
	if key != "" {
		l.seen[key] = seq
	}
	return e, nil
}

// Len returns the number of stored entries.
func (l *Ledger[P]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// LastHash returns the hash of the most recent entry, or the genesis
// constant for an empty ledger.
func (l *Ledger[P]) LastHash() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return GenesisHash
	}
	return l.entries[len(l.entries)-1].Hash
}

// All returns a copied snapshot of every entry in append order.
func (l *Ledger[P]) All() []Entry[P] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry[P], len(l.entries))
	copy(out, l.entries)
	return out
}

// BySeq returns the entry with the given sequence number.
func (l *Ledger[P]) BySeq(seq uint64) (Entry[P], bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if seq < 1 || seq > uint64(len(l.entries)) {
		var zero Entry[P]
		return zero, false
	}
	return l.entries[seq-1], true
}

// ByHash returns the entry with the given content hash.
func (l *Ledger[P]) ByHash(hash string) (Entry[P], bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.Hash == hash {
			return e, true
		}
	}
	var zero Entry[P]
	return zero, false
}

// ByTimeRange returns entries with from <= Timestamp < to, in append order.
func (l *Ledger[P]) ByTimeRange(from, to time.Time) []Entry[P] {
	return l.Select(func(e Entry[P]) bool {
		return !e.Timestamp.Before(from) && e.Timestamp.Before(to)
	})
}

// Select returns a copied snapshot of entries matching the predicate, in
// append order. Domain ledgers build their field filters on top of it.
func (l *Ledger[P]) Select(pred func(Entry[P]) bool) []Entry[P] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry[P]
	for _, e := range l.entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// VerifyIntegrity checks hash and sequence linkage across the current
// snapshot. It is the only health-check surface the ledger exposes.
func (l *Ledger[P]) VerifyIntegrity() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return VerifyChain(l.entries)
}
