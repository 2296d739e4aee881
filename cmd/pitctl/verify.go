package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cardhall/pitwatch/internal/flow"
	"github.com/cardhall/pitwatch/internal/ledger"
	"github.com/cardhall/pitwatch/internal/platform/errors"
	"github.com/cardhall/pitwatch/internal/risk"
	"github.com/cardhall/pitwatch/internal/signal"
	"github.com/cardhall/pitwatch/internal/storage"
	"github.com/cardhall/pitwatch/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var verifyJSON bool

type chainStatus struct {
	Ledger  string `json:"ledger"`
	Entries int    `json:"entries"`
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Seq     string `json:"seq,omitempty"`
	Message string `json:"message,omitempty"`
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the hash chains of every ledger in a store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		ctx := context.Background()
		statuses := []chainStatus{
			verifyLedger[signal.Signal](ctx, store, storage.LedgerSignals),
			verifyLedger[risk.Rule](ctx, store, storage.LedgerRules),
			verifyLedger[flow.Flow](ctx, store, storage.LedgerFlows),
		}

		failed := false
		for _, st := range statuses {
			if !st.OK {
				failed = true
			}
		}

		if verifyJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(statuses); err != nil {
				fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
		} else {
			for _, st := range statuses {
				if st.OK {
					fmt.Printf("%s: OK (%d entries)\n", st.Ledger, st.Entries)
					continue
				}
				fmt.Printf("%s: FAIL %s at seq=%s: %s\n", st.Ledger, st.Code, st.Seq, st.Message)
			}
		}

		if failed {
			os.Exit(1)
		}
	},
}

func verifyLedger[P ledger.Payload](ctx context.Context, store *sqlite.Store, name string) chainStatus {
	st := chainStatus{Ledger: name, OK: true}
	entries, err := loadEntries[P](ctx, store, name)
	if err != nil {
		st.OK = false
		st.Message = err.Error()
		return st
	}
	st.Entries = len(entries)
	if err := ledger.VerifyChain(entries); err != nil {
		st.OK = false
		st.Code = string(errors.GetCode(err))
		st.Seq = errors.GetMetadata(err)["seq"]
		st.Message = err.Error()
	}
	return st
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Output in JSON format")
}
