// Package sqlite provides a SQLite-backed record store.
//
// The store persists ledger entries exactly as appended: sequence numbers,
// entry hashes, previous-hash links, millisecond timestamps, and the payload
// encoding all round-trip, so a reloaded ledger re-verifies its chain.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cardhall/pitwatch/internal/storage"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	ledger TEXT NOT NULL,
	seq INTEGER NOT NULL,
	hash TEXT NOT NULL,
	prev_hash TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	payload_json BLOB NOT NULL,
	PRIMARY KEY (ledger, seq)
);
CREATE INDEX IF NOT EXISTS idx_records_ledger_hash ON records (ledger, hash);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a SQLite-backed record store.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) a SQLite record store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendRecord persists one ledger entry.
func (s *Store) AppendRecord(ctx context.Context, rec storage.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.Ledger) == "" {
		return fmt.Errorf("ledger name is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO records (ledger, seq, hash, prev_hash, timestamp, payload_json) VALUES (?, ?, ?, ?, ?, ?)",
		rec.Ledger,
		int64(rec.Seq),
		rec.Hash,
		rec.PrevHash,
		toMillis(rec.Timestamp),
		rec.PayloadJSON,
	); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ListRecords returns every record of one ledger ordered by sequence
// ascending.
func (s *Store) ListRecords(ctx context.Context, ledgerName string) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(ledgerName) == "" {
		return nil, fmt.Errorf("ledger name is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT ledger, seq, hash, prev_hash, timestamp, payload_json FROM records WHERE ledger = ? ORDER BY seq ASC",
		ledgerName,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		var rec storage.Record
		var seq, millis int64
		if err := rows.Scan(&rec.Ledger, &seq, &rec.Hash, &rec.PrevHash, &millis, &rec.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Seq = uint64(seq)
		rec.Timestamp = fromMillis(millis)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}
