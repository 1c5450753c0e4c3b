// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/structure-fetch/internal/ledger"
	"github.com/pdiddy/structure-fetch/pkg/types"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the record of saved structure files",
	Long: `Ledger reads the SQLite record that get writes when --ledger is set.
Use subcommands to list recent downloads or export the whole record.`,
}

// --- list subcommand ---

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded downloads, newest first",
	RunE:  runLedgerList,
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), listOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatLedgerList(cmd.OutOrStdout(), records, jsonOutput)
}

func formatLedgerList(w io.Writer, records []types.FetchRecord, jsonOutput bool) error {
	if jsonOutput {
		if records == nil {
			records = []types.FetchRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No downloads recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-10s  %-5s  %-9s  %-16s  %s\n", "ID", "Type", "Size", "Fetched", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range records {
		fmt.Fprintf(w, "%-10s  %-5s  %-9s  %-16s  %s\n",
			r.Identifier, r.Format, humanize.Bytes(uint64(r.Size)),
			r.FetchedAt.Local().Format("2006-01-02 15:04"), r.Path)
	}
	return nil
}

// --- export subcommand ---

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger as YAML or JSON",
	Long: `Export writes every recorded download to --out (stdout by default) as
YAML or JSON. The --id and --format filters apply.`,
	RunE: runLedgerExport,
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out, _ := cmd.Flags().GetString("out")
	exportType, _ := cmd.Flags().GetString("type")

	var w io.Writer = cmd.OutOrStdout()
	if out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	opts := listOptsFromFlags(cmd)
	opts.Limit = -1

	switch strings.ToLower(exportType) {
	case "yaml", "yml":
		err = store.ExportYAML(cmd.Context(), w, opts)
	case "json":
		err = store.ExportJSON(cmd.Context(), w, opts)
	default:
		return fmt.Errorf("unknown export type %q (want yaml or json)", exportType)
	}
	if err != nil {
		return err
	}
	if out != "" && out != "-" {
		sugar.Infof("exported ledger to %s", out)
	}
	return nil
}

// --- helpers ---

func openLedger(cmd *cobra.Command) (*ledger.Store, error) {
	if err := viper.BindPFlag("ledger", cmd.Flags().Lookup("ledger")); err != nil {
		return nil, err
	}
	path := viper.GetString("ledger")
	if path == "" {
		return nil, fmt.Errorf("no ledger configured: pass --ledger or set ledger in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ledger %s: %w", path, err)
	}
	return ledger.Open(path)
}

func listOptsFromFlags(cmd *cobra.Command) ledger.ListOptions {
	id, _ := cmd.Flags().GetString("id")
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")
	return ledger.ListOptions{Identifier: id, Format: format, Limit: limit}
}

func init() {
	for _, c := range []*cobra.Command{ledgerListCmd, ledgerExportCmd} {
		c.Flags().String("ledger", "", "SQLite ledger file")
		c.Flags().String("id", "", "filter by structure identifier")
		c.Flags().String("format", "", "filter by format: pdb or mmtf")
	}
	ledgerListCmd.Flags().Int("limit", 50, "maximum number of rows")
	ledgerListCmd.Flags().Bool("json", false, "output as JSON")

	ledgerExportCmd.Flags().String("out", "", "output file (default stdout)")
	ledgerExportCmd.Flags().String("type", "yaml", "export type: yaml or json")

	ledgerCmd.AddCommand(ledgerListCmd, ledgerExportCmd)
	rootCmd.AddCommand(ledgerCmd)
}
