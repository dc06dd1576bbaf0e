// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/fred-releases/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded fetch runs",
	Long: `History lists runs recorded in the SQLite database given by
--history-db (or history_db in the config file), newest first.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show (0 for all)")
	historyCmd.Flags().Bool("yaml", false, "output runs as YAML")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("history_db")
	if path == "" {
		return fmt.Errorf("no history database configured: pass --history-db")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	ctx := context.Background()
	if asYAML {
		return store.ExportYAML(ctx, os.Stdout, limit)
	}

	records, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	history.FormatTable(records, os.Stdout)
	return nil
}
