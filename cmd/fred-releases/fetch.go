// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/fred-releases/internal/fetch"
	"github.com/pdiddy/fred-releases/internal/history"
	"github.com/pdiddy/fred-releases/internal/secrets"
	"github.com/pdiddy/fred-releases/pkg/types"
)

// fetchConfig assembles the fetch settings from viper and the resolved
// credential.
func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: "fred-releases/" + version,
		},
		APIKey:     secrets.ResolveAPIKey(os.Getenv(secrets.EnvAPIKey), loadedSecrets),
		BaseURL:    viper.GetString("base_url"),
		Limit:      viper.GetInt("limit"),
		OutputPath: viper.GetString("output"),
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	f, err := fetch.New(fetchConfig(), nil, os.Stdout)
	if err != nil {
		return err
	}

	var store *history.Store
	if hc := (types.HistoryConfig{DBPath: viper.GetString("history_db")}); hc.Enabled() {
		store, err = history.Open(hc.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var previous string
	var hadPrevious bool
	if store != nil {
		previous, hadPrevious, err = store.LastFingerprint(ctx, f.OutputPath())
		if err != nil {
			return err
		}
	}

	res, runErr := f.Run(ctx)

	if store != nil {
		rec := history.Record{
			StatusCode:   res.StatusCode,
			Outcome:      res.Outcome,
			OutputPath:   f.OutputPath(),
			Bytes:        len(res.Artifact),
			ReleaseCount: res.ReleaseCount,
		}
		if rec.Outcome == "" {
			rec.Outcome = types.OutcomeFailed
		}
		if res.Artifact != nil {
			rec.Fingerprint = history.Fingerprint(res.Artifact)
			if hadPrevious && rec.Fingerprint == previous {
				fmt.Fprintln(os.Stdout, "unchanged since last fetch")
			}
		}
		if _, err := store.Record(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
		}
	}

	return runErr
}
