// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets locates the FRED API key. Keys come from the process
// environment (optionally seeded from a .env file) or from a directory of
// plain-text files where the filename is the key name and the trimmed file
// contents are the value.
//
// Supported key files: fred-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
)

const (
	// EnvAPIKey is the environment variable holding the FRED credential.
	EnvAPIKey = "API_KEY"

	// FileAPIKey is the secrets-directory file holding the FRED credential.
	FileAPIKey = "fred-api-key"
)

// LoadDotenv loads KEY=value pairs from path into the process environment.
// Variables that are already set are left alone. A missing file is not an
// error.
func LoadDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ResolveAPIKey picks the credential: the environment value wins, then the
// fred-api-key secret file. An empty result means no credential was found.
func ResolveAPIKey(envValue string, fileSecrets map[string]string) string {
	if v := strings.TrimSpace(envValue); v != "" {
		return v
	}
	return fileSecrets[FileAPIKey]
}
