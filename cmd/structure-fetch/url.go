package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url [identifiers...]",
	Short: "Print the download URL for each identifier",
	Long: `URL resolves identifiers to the remote URLs get would request, using the
same format and overrides, without touching the network.`,
	RunE: runURL,
}

func init() {
	addProviderFlags(urlCmd)
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
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
	for _, id := range args {
		fmt.Fprintln(cmd.OutOrStdout(), p.PrepareURL(id))
	}
	return nil
}
