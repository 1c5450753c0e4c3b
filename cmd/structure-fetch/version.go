package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details of structure-fetch",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		printVersion(cmd.OutOrStdout(), info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// printVersion writes the ldflags version followed by whatever the binary
// recorded about its build. info may be nil when build info is unavailable.
func printVersion(w io.Writer, info *debug.BuildInfo) {
	fmt.Fprintf(w, "structure-fetch %s\n", version)
	if info == nil {
		return
	}
	fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
	if info.Main.Path != "" {
		fmt.Fprintf(w, "  module:   %s %s\n", info.Main.Path, info.Main.Version)
	}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision != "" {
		if modified == "true" {
			revision += " (dirty)"
		}
		fmt.Fprintf(w, "  revision: %s\n", revision)
	}
	for _, dep := range info.Deps {
		if dep.Path == "golang.org/x/sync" || dep.Path == "github.com/mattn/go-sqlite3" {
			fmt.Fprintf(w, "  dep:      %s %s\n", dep.Path, dep.Version)
		}
	}
}
