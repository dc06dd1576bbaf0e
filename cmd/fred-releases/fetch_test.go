// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/fred-releases/internal/fetch"
	"github.com/pdiddy/fred-releases/internal/history"
	"github.com/pdiddy/fred-releases/internal/secrets"
	"github.com/pdiddy/fred-releases/pkg/types"
)

func setupRun(t *testing.T, status int, body string) (dir string) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	dir = t.TempDir()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("base_url", ts.URL+"/fred/releases")
	viper.Set("output", filepath.Join(dir, "output.json"))
	viper.Set("limit", 3)
	viper.Set("history_db", filepath.Join(dir, "history.db"))

	t.Setenv(secrets.EnvAPIKey, "test-key")
	loadedSecrets = map[string]string{}
	return dir
}

func TestFetchConfigUsesSecretFileFallback(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv(secrets.EnvAPIKey, "")
	loadedSecrets = map[string]string{secrets.FileAPIKey: "from-file"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg := fetchConfig()
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "fred-releases/"+version, cfg.UserAgent)
}

func TestRunFetchMissingCredential(t *testing.T) {
	dir := setupRun(t, http.StatusOK, `{"releases":[]}`)
	t.Setenv(secrets.EnvAPIKey, "")

	err := runFetch(rootCmd, nil)
	assert.ErrorIs(t, err, fetch.ErrMissingCredential)

	_, statErr := os.Stat(filepath.Join(dir, "output.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunFetchRecordsHistory(t *testing.T) {
	dir := setupRun(t, http.StatusOK, `{"releases":[{"id":1}]}`)

	require.NoError(t, runFetch(rootCmd, nil))
	require.NoError(t, runFetch(rootCmd, nil))

	store, err := history.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, types.OutcomeWritten, records[0].Outcome)
	assert.Equal(t, 1, records[0].ReleaseCount)
	assert.Equal(t, records[0].Fingerprint, records[1].Fingerprint)
}

func TestRunFetchUnexpectedStatusRecordsFailure(t *testing.T) {
	dir := setupRun(t, http.StatusInternalServerError, "")

	err := runFetch(rootCmd, nil)
	var statusErr *fetch.UnexpectedStatusError
	require.ErrorAs(t, err, &statusErr)

	store, err := history.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.OutcomeFailed, records[0].Outcome)
	assert.Equal(t, http.StatusInternalServerError, records[0].StatusCode)
}

func TestRunFetchUnauthorizedSucceeds(t *testing.T) {
	dir := setupRun(t, http.StatusUnauthorized, "")
	viper.Set("history_db", "")

	require.NoError(t, runFetch(rootCmd, nil))

	_, statErr := os.Stat(filepath.Join(dir, "output.json"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "history.db"))
	assert.True(t, os.IsNotExist(statErr), "history stays off when not configured")
}
