package app

import (
	"context"
	"fmt"
	"log"

	"github.com/cardhall/pitwatch/internal/flow"
	"github.com/cardhall/pitwatch/internal/ledger"
	"github.com/cardhall/pitwatch/internal/risk"
	"github.com/cardhall/pitwatch/internal/signal"
	"github.com/cardhall/pitwatch/internal/storage"
)

// reload rebuilds the ledgers from persisted records. Each chain is verified
// before the server accepts it, so a corrupted store fails startup instead
// of serving bad data.
func (s *Server) reload(ctx context.Context) error {
	signalEntries, err := loadEntries[signal.Signal](ctx, s.store, storage.LedgerSignals)
	if err != nil {
		return err
	}
	if s.signals, err = signal.FromEntries(signalEntries); err != nil {
		return fmt.Errorf("verify %s: %w", storage.LedgerSignals, err)
	}

	ruleEntries, err := loadEntries[risk.Rule](ctx, s.store, storage.LedgerRules)
	if err != nil {
		return err
	}
	if s.rules, err = risk.FromEntries(ruleEntries); err != nil {
		return fmt.Errorf("verify %s: %w", storage.LedgerRules, err)
	}

	flowEntries, err := loadEntries[flow.Flow](ctx, s.store, storage.LedgerFlows)
	if err != nil {
		return err
	}
	if s.flows, err = flow.FromEntries(flowEntries); err != nil {
		return fmt.Errorf("verify %s: %w", storage.LedgerFlows, err)
	}
	return nil
}

func loadEntries[P ledger.Payload](ctx context.Context, store storage.RecordStore, name string) ([]ledger.Entry[P], error) {
	records, err := store.ListRecords(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	entries, err := storage.EntriesFromRecords[P](records)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return entries, nil
}

// persist write-throughs an appended entry. Persistence is advisory: a
// failure only logs, the in-memory ledger stays the source of truth.
func persist[P ledger.Payload](ctx context.Context, store storage.RecordStore, name string, e ledger.Entry[P]) {
	if store == nil {
		return
	}
	rec, err := storage.RecordFromEntry(name, e)
	if err != nil {
		log.Printf("persist %s seq=%d: %v", name, e.Seq, err)
		return
	}
	if err := store.AppendRecord(ctx, rec); err != nil {
		log.Printf("persist %s seq=%d: %v", name, e.Seq, err)
	}
}
