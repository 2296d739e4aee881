package main

import (
	"context"
	"fmt"

	"github.com/cardhall/pitwatch/internal/ledger"
	"github.com/cardhall/pitwatch/internal/storage"
	"github.com/cardhall/pitwatch/internal/storage/sqlite"
)

func openStore() (*sqlite.Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("--db is required")
	}
	return sqlite.Open(dbPath)
}

func loadEntries[P ledger.Payload](ctx context.Context, store *sqlite.Store, name string) ([]ledger.Entry[P], error) {
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
