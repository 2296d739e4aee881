// Package storage defines the persistence boundary for ledger snapshots.
//
// Persistence is optional: ledgers are complete in memory, and any store
// must round-trip the append order and hash-chain fields exactly so a
// reloaded ledger re-verifies.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cardhall/pitwatch/internal/ledger"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Ledger names used as persistence keys.
const (
	LedgerSignals = "signals"
	LedgerRules   = "rules"
	LedgerFlows   = "flows"
)

// Record is the persisted form of one ledger entry.
type Record struct {
	Ledger      string
	Seq         uint64
	Hash        string
	PrevHash    string
	Timestamp   time.Time
	PayloadJSON []byte
}

// RecordStore persists ledger entries in append order.
type RecordStore interface {
	AppendRecord(ctx context.Context, rec Record) error
	ListRecords(ctx context.Context, ledgerName string) ([]Record, error)
}

// RecordFromEntry converts a ledger entry into its persisted form.
func RecordFromEntry[P ledger.Payload](name string, e ledger.Entry[P]) (Record, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return Record{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Record{
		Ledger:      name,
		Seq:         e.Seq,
		Hash:        e.Hash,
		PrevHash:    e.PrevHash,
		Timestamp:   e.Timestamp,
		PayloadJSON: payload,
	}, nil
}

// EntriesFromRecords rebuilds ledger entries from persisted records. The
// caller verifies the chain, typically via ledger.FromEntries.
func EntriesFromRecords[P ledger.Payload](recs []Record) ([]ledger.Entry[P], error) {
	entries := make([]ledger.Entry[P], 0, len(recs))
	for _, rec := range recs {
		var payload P
		if err := json.Unmarshal(rec.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload seq=%d: %w", rec.Seq, err)
		}
		entries = append(entries, ledger.Entry[P]{
			Seq:       rec.Seq,
			Timestamp: rec.Timestamp,
			Payload:   payload,
			Hash:      rec.Hash,
			PrevHash:  rec.PrevHash,
		})
	}
	return entries, nil
}
