// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the affiliation-engine CLI, which
// enriches bibliographic tables with Caribbean affiliation classifications
// resolved through OpenAlex and Crossref.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/affiliation-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// identities holds polite-pool contact identities loaded from .secrets/
// at startup.
var identities secrets.Identities

// rootCmd is the base command for the affiliation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "affiliation-engine",
	Short: "Caribbean affiliation enrichment for bibliographic tables",
	Long: `affiliation-engine reads a table of bibliographic records (DOIs and/or
titles), resolves each record against OpenAlex with Crossref as fallback,
flags Caribbean institutional affiliation, and writes an augmented results
table plus a manual-review queue for rows neither source could resolve.

Each operation is a subcommand: enrich processes a whole table, check
classifies a single identifier, and runs inspects archived runs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		identities = secrets.Load(".secrets/")
		if present := identities.Present(); len(present) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", present)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./affiliation-engine.yaml or ~/.config/affiliation-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("affiliation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "affiliation-engine"))
		}
	}

	bindEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindEnv maps AFFILIATION_ENGINE_* environment variables onto config
// keys, replacing "." with "_" so nested keys like lookup.title_fallback
// resolve to AFFILIATION_ENGINE_LOOKUP_TITLE_FALLBACK.
func bindEnv() {
	viper.SetEnvPrefix("AFFILIATION_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
