package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cardhall/pitwatch/internal/flow"
	"github.com/cardhall/pitwatch/internal/ledger"
	"github.com/cardhall/pitwatch/internal/risk"
	"github.com/cardhall/pitwatch/internal/signal"
	"github.com/cardhall/pitwatch/internal/storage"
	"github.com/cardhall/pitwatch/internal/storage/sqlite"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type seedSignal struct {
	Kind       string    `yaml:"kind"`
	PlayerID   string    `yaml:"player_id"`
	TableID    string    `yaml:"table_id"`
	SessionID  string    `yaml:"session_id"`
	Intensity  float64   `yaml:"intensity"`
	DurationMs int64     `yaml:"duration_ms"`
	RefID      string    `yaml:"ref_id"`
	Timestamp  time.Time `yaml:"timestamp"`
}

type seedThreshold struct {
	Kind         string  `yaml:"kind"`
	MaxCount     int     `yaml:"max_count"`
	MaxPerWindow int     `yaml:"max_per_window"`
	WindowMs     int64   `yaml:"window_ms"`
	MinGapMs     int64   `yaml:"min_gap_ms"`
	MaxPercent   float64 `yaml:"max_percent"`
}

type seedRule struct {
	Name      string        `yaml:"name"`
	Category  string        `yaml:"category"`
	Severity  string        `yaml:"severity"`
	Threshold seedThreshold `yaml:"threshold"`
	Timestamp time.Time     `yaml:"timestamp"`
}

type seedFlow struct {
	Direction string    `yaml:"direction"`
	Source    string    `yaml:"source"`
	PlayerID  string    `yaml:"player_id"`
	TableID   string    `yaml:"table_id"`
	SessionID string    `yaml:"session_id"`
	Units     int64     `yaml:"units"`
	RefID     string    `yaml:"ref_id"`
	Timestamp time.Time `yaml:"timestamp"`
}

type seedScenario struct {
	Signals []seedSignal `yaml:"signals"`
	Rules   []seedRule   `yaml:"rules"`
	Flows   []seedFlow   `yaml:"flows"`
}

var seedCmd = &cobra.Command{
	Use:   "seed [scenario.yaml]",
	Short: "Append a scenario fixture to a ledger store",
	Long: `Append the signals, rules, and flows of a YAML scenario onto the
store's existing chains. Every record goes through normal validation and
chain hashing; a scenario that violates validation stops at the first bad
record.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading scenario: %v\n", err)
			os.Exit(1)
		}
		var scenario seedScenario
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing scenario: %v\n", err)
			os.Exit(1)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		ctx := context.Background()
		if err := seedStore(ctx, store, scenario); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("seeded %d signals, %d rules, %d flows\n",
			len(scenario.Signals), len(scenario.Rules), len(scenario.Flows))
	},
}

func seedStore(ctx context.Context, store *sqlite.Store, scenario seedScenario) error {
	signals, err := reloadLedger(ctx, store, storage.LedgerSignals, signal.FromEntries)
	if err != nil {
		return err
	}
	for i, s := range scenario.Signals {
		entry, err := signals.Append(signal.Signal{
			Kind:       signal.Kind(s.Kind),
			PlayerID:   s.PlayerID,
			TableID:    s.TableID,
			SessionID:  s.SessionID,
			Intensity:  s.Intensity,
			DurationMs: s.DurationMs,
			RefID:      s.RefID,
		}, s.Timestamp)
		if err != nil {
			return fmt.Errorf("signal %d: %w", i, err)
		}
		if err := appendRecord(ctx, store, storage.LedgerSignals, entry); err != nil {
			return err
		}
	}

	rules, err := reloadLedger(ctx, store, storage.LedgerRules, risk.FromEntries)
	if err != nil {
		return err
	}
	for i, r := range scenario.Rules {
		entry, err := rules.Append(risk.Rule{
			Name:     r.Name,
			Category: risk.Category(r.Category),
			Severity: risk.Severity(r.Severity),
			Threshold: risk.Threshold{
				Kind:         risk.ThresholdKind(r.Threshold.Kind),
				MaxCount:     r.Threshold.MaxCount,
				MaxPerWindow: r.Threshold.MaxPerWindow,
				WindowMs:     r.Threshold.WindowMs,
				MinGapMs:     r.Threshold.MinGapMs,
				MaxPercent:   r.Threshold.MaxPercent,
			},
		}, r.Timestamp)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		if err := appendRecord(ctx, store, storage.LedgerRules, entry); err != nil {
			return err
		}
	}

	flows, err := reloadLedger(ctx, store, storage.LedgerFlows, flow.FromEntries)
	if err != nil {
		return err
	}
	for i, f := range scenario.Flows {
		entry, err := flows.Append(flow.Flow{
			Direction: flow.Direction(f.Direction),
			Source:    flow.Source(f.Source),
			PlayerID:  f.PlayerID,
			TableID:   f.TableID,
			SessionID: f.SessionID,
			Units:     f.Units,
			RefID:     f.RefID,
		}, f.Timestamp)
		if err != nil {
			return fmt.Errorf("flow %d: %w", i, err)
		}
		if err := appendRecord(ctx, store, storage.LedgerFlows, entry); err != nil {
			return err
		}
	}
	return nil
}

// reloadLedger rebuilds one ledger from the store so seeded entries extend
// the existing chain instead of restarting it.
func reloadLedger[P ledger.Payload, L any](ctx context.Context, store *sqlite.Store, name string, from func([]ledger.Entry[P]) (L, error)) (L, error) {
	var zero L
	entries, err := loadEntries[P](ctx, store, name)
	if err != nil {
		return zero, err
	}
	l, err := from(entries)
	if err != nil {
		return zero, fmt.Errorf("verify %s: %w", name, err)
	}
	return l, nil
}

func appendRecord[P ledger.Payload](ctx context.Context, store *sqlite.Store, name string, e ledger.Entry[P]) error {
	rec, err := storage.RecordFromEntry(name, e)
	if err != nil {
		return fmt.Errorf("encode %s seq=%d: %w", name, e.Seq, err)
	}
	if err := store.AppendRecord(ctx, rec); err != nil {
		return fmt.Errorf("persist %s seq=%d: %w", name, e.Seq, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
