// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/pdiddy/structure-fetch/internal/httputil"
	"github.com/pdiddy/structure-fetch/internal/ledger"
	"github.com/pdiddy/structure-fetch/internal/rcsb"
	"github.com/pdiddy/structure-fetch/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get [identifiers...]",
	Short: "Download structure files into a directory",
	Long: `Get downloads each identifier from RCSB and saves it in --dir as
<identifier><extension>, replacing any existing file. The directory must
already exist. Identifiers are fetched one at a time; a failure does not stop
the remaining downloads.`,
	Example: `  structure-fetch get 1hh3 4hhb --dir structures
  structure-fetch get 173D --format mmtf --representation reduced`,
	RunE: runGet,
}

func init() {
	addProviderFlags(getCmd)
	getCmd.Flags().String("dir", ".", "existing directory to save files into")
	getCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default none)")
	getCmd.Flags().String("user-agent", httputil.DefaultUserAgent, "User-Agent header")
	getCmd.Flags().String("ledger", "", "SQLite file recording saved files (empty disables)")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more structure identifiers")
	}

	cfg, err := loadFetchConfig(cmd)
	if err != nil {
		return err
	}
	p, err := newProvider(cfg)
	if err != nil {
		return err
	}

	d := rcsb.NewDownloader(p, rcsb.WithHTTPClient(httputil.NewClient(cfg.HTTPConfig)))

	var store *ledger.Store
	if cfg.LedgerPath != "" {
		store, err = ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	sugar.Debugw("starting downloads", "format", p.Name(), "base", p.FormatURL(), "dir", cfg.Dir, "count", len(args))
	return getAll(cmd.Context(), d, store, args, cfg.Dir, cmd.OutOrStdout())
}

// getAll saves every id, printing one status line per id, and returns the
// collected failures.
func getAll(ctx context.Context, d *rcsb.Downloader, store *ledger.Store, ids []string, dir string, w io.Writer) error {
	var result *multierror.Error
	for _, id := range ids {
		rec, err := getOne(ctx, d, store, id, dir)
		if err != nil {
			sugar.Errorw("download failed", "id", id, "error", err)
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", id, err))
			continue
		}
		fmt.Fprintf(w, "saved:   %s (%s)\n", rec.Path, humanize.Bytes(uint64(rec.Size)))
	}
	return result.ErrorOrNil()
}

func getOne(ctx context.Context, d *rcsb.Downloader, store *ledger.Store, id, dir string) (types.FetchRecord, error) {
	p := d.Provider()
	rec := types.FetchRecord{
		Identifier: id,
		Format:     p.Name(),
		URL:        p.PrepareURL(id),
	}
	sugar.Debugw("fetching", "id", id, "url", rec.URL)

	f, err := d.FetchAndSaveOn(ctx, id, dir)
	if err != nil {
		return rec, err
	}
	defer f.Close()
	rec.Path = f.Name()

	if store == nil {
		info, err := f.Stat()
		if err != nil {
			return rec, err
		}
		rec.Size = info.Size()
		return rec, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return rec, err
	}
	rec.Size, rec.SHA256, err = ledger.Checksum(f)
	if err != nil {
		return rec, err
	}
	if err := store.Record(ctx, rec); err != nil {
		// The file is saved; a ledger failure is reported but not fatal.
		sugar.Warnw("ledger record failed", "id", id, "error", err)
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return rec, nil
}
