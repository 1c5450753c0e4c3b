package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/structure-fetch/internal/httputil"
	"github.com/pdiddy/structure-fetch/internal/rcsb"
	"github.com/pdiddy/structure-fetch/pkg/types"
)

// envKeyReplacer maps nested keys like "pdb.uri" to STRUCTURE_FETCH_PDB_URI.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// flagKeys maps command flags to configuration keys. Flags are bound when a
// command runs because several commands share the same keys.
var flagKeys = map[string]string{
	"format":         "format",
	"dir":            "dir",
	"compression":    "pdb.compression",
	"mmtf-version":   "mmtf.version",
	"representation": "mmtf.representation",
	"timeout":        "http.timeout",
	"user-agent":     "http.user_agent",
	"ledger":         "ledger",
}

func init() {
	viper.SetDefault("format", rcsb.NamePDB)
	viper.SetDefault("dir", ".")
	viper.SetDefault("http.user_agent", httputil.DefaultUserAgent)
}

// addProviderFlags registers the flags that select and configure a provider.
func addProviderFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", rcsb.NamePDB, "structure format: pdb or mmtf")
	cmd.Flags().String("uri", "", "override the base URI of the selected format")
	cmd.Flags().String("compression", "", "pdb compression: compressed or uncompressed (default compressed)")
	cmd.Flags().String("mmtf-version", "", "mmtf API version (default "+rcsb.DefaultMMTFVersion+")")
	cmd.Flags().String("representation", "", "mmtf representation, e.g. full or reduced (default "+rcsb.DefaultMMTFRepresentation+")")
}

func bindFlags(cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// loadFetchConfig resolves flags, environment and config file into a
// FetchConfig. --uri applies to whichever format is selected.
func loadFetchConfig(cmd *cobra.Command) (types.FetchConfig, error) {
	if err := bindFlags(cmd); err != nil {
		return types.FetchConfig{}, err
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		Format: strings.ToLower(viper.GetString("format")),
		Dir:    viper.GetString("dir"),
		PDB: types.PDBSettings{
			URI:         viper.GetString("pdb.uri"),
			Compression: viper.GetString("pdb.compression"),
		},
		MMTF: types.MMTFSettings{
			URI:            viper.GetString("mmtf.uri"),
			Version:        viper.GetString("mmtf.version"),
			Representation: viper.GetString("mmtf.representation"),
		},
		LedgerPath: viper.GetString("ledger"),
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}

	if cmd.Flags().Changed("uri") {
		uri, _ := cmd.Flags().GetString("uri")
		switch cfg.Format {
		case rcsb.NamePDB:
			cfg.PDB.URI = uri
		case rcsb.NameMMTF:
			cfg.MMTF.URI = uri
		}
	}
	return cfg, nil
}

// newProvider builds the provider selected by cfg.Format. Empty settings keep
// the provider defaults.
func newProvider(cfg types.FetchConfig) (rcsb.Provider, error) {
	switch cfg.Format {
	case rcsb.NamePDB:
		b := rcsb.NewPDBBuilder()
		if cfg.PDB.URI != "" {
			b.WithURI(cfg.PDB.URI)
		}
		if cfg.PDB.Compression != "" {
			c, err := rcsb.ParseCompression(cfg.PDB.Compression)
			if err != nil {
				return nil, err
			}
			b.WithCompression(c)
		}
		p, err := b.Build()
		if err != nil {
			return nil, err
		}
		return p, nil
	case rcsb.NameMMTF:
		b := rcsb.NewMMTFBuilder()
		if cfg.MMTF.URI != "" {
			b.WithURI(cfg.MMTF.URI)
		}
		if cfg.MMTF.Version != "" {
			b.WithVersion(cfg.MMTF.Version)
		}
		if cfg.MMTF.Representation != "" {
			b.WithRepresentation(cfg.MMTF.Representation)
		}
		m, err := b.Build()
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return rcsb.ProviderByName(cfg.Format)
	}
}
