// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the structure-fetch CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is set at build time via ldflags.
var version = "dev"

// sugar is the CLI logger, built in PersistentPreRunE.
var sugar = zap.NewNop().Sugar()

// rootCmd is the base command for the structure-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "structure-fetch",
	Short: "Download molecular structure files from the RCSB repository",
	Long: `structure-fetch downloads protein structure files from RCSB and saves
them as <identifier><extension> in a local directory.

Two formats are supported: pdb (biological assembly coordinates, .pdb1 or
.pdb1.gz) and mmtf (binary structure files, .mmtf.gz).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(viper.GetString("log.format"), viper.GetString("log.level"))
		if err != nil {
			return err
		}
		sugar = logger.Sugar()
		if f := viper.ConfigFileUsed(); f != "" {
			sugar.Debugf("using config file %s", f)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = sugar.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./structure-fetch.yaml or ~/.config/structure-fetch/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "development", "logger type: development or production")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("structure-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "structure-fetch"))
		}
	}

	viper.SetEnvPrefix("STRUCTURE_FETCH")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
