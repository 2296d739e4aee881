package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/cardhall/pitwatch/internal/guard"
	"github.com/spf13/cobra"
)

var (
	guardDenylist string
	guardIDs      bool
)

var guardCmd = &cobra.Command{
	Use:   "guard [file]",
	Short: "Screen a file against a denylist",
	Long: `Screen a text file against a YAML denylist ({terms: [...]}).
By default the whole file is checked as free text; with --ids each line is
treated as one identifier. The check is advisory and exits non-zero on any
match.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if guardDenylist == "" {
			fmt.Fprintln(os.Stderr, "Error: --denylist is required")
			os.Exit(1)
		}
		g, err := guard.LoadFile(guardDenylist)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading denylist: %v\n", err)
			os.Exit(1)
		}

		var report guard.Report
		if guardIDs {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			var ids []string
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				ids = append(ids, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
				os.Exit(1)
			}
			report = g.CheckIdentifiers(ids)
		} else {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
				os.Exit(1)
			}
			report = g.CheckText(string(data))
		}

		if report.Passed {
			fmt.Println("OK: no denylist terms found")
			return
		}
		for _, term := range report.Matched {
			fmt.Printf("matched: %s\n", term)
		}
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(guardCmd)
	guardCmd.Flags().StringVar(&guardDenylist, "denylist", "", "Path to the YAML denylist")
	guardCmd.Flags().BoolVar(&guardIDs, "ids", false, "Treat each line as one identifier")
}
