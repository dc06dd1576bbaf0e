// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the fred-releases CLI. Running the
// binary with no subcommand fetches the FRED releases listing into
// output.json.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/fred-releases/internal/fetch"
	"github.com/pdiddy/fred-releases/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd fetches releases when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "fred-releases",
	Short: "Download the FRED releases listing to a JSON file",
	Long: `fred-releases requests the FRED releases listing with the API key from
API_KEY (or .env, or .secrets/fred-api-key) and writes the full JSON
response to output.json.

An HTTP 401 prints a renewal notice and exits cleanly. Any other
non-200 status, transport failure, or unparseable body exits non-zero
without touching the output file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadDotenv(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./fred-releases.yaml or ~/.config/fred-releases/config.yaml)")
	rootCmd.PersistentFlags().String("history-db", "", "SQLite file for fetch history (disabled when empty)")
	rootCmd.Flags().String("output", fetch.DefaultOutputPath, "path of the JSON artifact")
	rootCmd.Flags().Int("limit", fetch.DefaultLimit, "number of releases to request")
	rootCmd.Flags().Duration("timeout", 0, "HTTP request timeout (0 disables the timeout)")

	viper.BindPFlag("history_db", rootCmd.PersistentFlags().Lookup("history-db"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("limit", rootCmd.Flags().Lookup("limit"))
	viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))
	viper.SetDefault("base_url", fetch.DefaultBaseURL)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fred-releases")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fred-releases"))
		}
	}

	viper.SetEnvPrefix("FRED_RELEASES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
