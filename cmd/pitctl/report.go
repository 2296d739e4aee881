package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cardhall/pitwatch/internal/flow"
	"github.com/cardhall/pitwatch/internal/signal"
	"github.com/cardhall/pitwatch/internal/storage"
	"github.com/cardhall/pitwatch/internal/view"
	"github.com/spf13/cobra"
)

var reportTop int

type storeReport struct {
	Global     view.GlobalView         `json:"global"`
	TopPlayers []view.Ranked           `json:"top_players"`
	TopTables  []view.Ranked           `json:"top_tables"`
	Volume     flow.VolumeSummary      `json:"volume"`
	Frequency  flow.FrequencySummary   `json:"frequency"`
	Sources    flow.SourceDistribution `json:"sources"`
	InOutRatio float64                 `json:"in_out_ratio"`
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an analysis report from a ledger store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		ctx := context.Background()
		signalEntries, err := loadEntries[signal.Signal](ctx, store, storage.LedgerSignals)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading signals: %v\n", err)
			os.Exit(1)
		}
		flowEntries, err := loadEntries[flow.Flow](ctx, store, storage.LedgerFlows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading flows: %v\n", err)
			os.Exit(1)
		}

		builder := view.NewBuilder(signal.Samples(signalEntries), signal.Kinds())
		out := storeReport{
			Global:     builder.Global(),
			TopPlayers: builder.TopActors(reportTop),
			TopTables:  builder.TopContexts(reportTop),
			Volume:     flow.SummarizeVolume(flowEntries),
			Frequency:  flow.SummarizeFrequency(flowEntries),
			Sources:    flow.DistributeSources(flowEntries),
			InOutRatio: flow.InOutRatio(flowEntries),
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "Number of top players and tables to include")
}
