// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/fred-releases/pkg/types"
)

// decodeDocument parses body as a single JSON value. Numbers are kept as
// json.Number so re-serialization does not lose precision.
func decodeDocument(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return doc, nil
}

// encodeDocument serializes doc compactly, without HTML escaping and
// without a trailing newline.
func encodeDocument(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// printReleases writes the releases field of doc to w and returns the
// number of entries, or -1 if the field is absent or not an array.
func printReleases(w io.Writer, doc any) int {
	obj, ok := doc.(map[string]any)
	if !ok {
		fmt.Fprintln(w, "releases: absent")
		return -1
	}
	releases, ok := obj["releases"]
	if !ok {
		fmt.Fprintln(w, "releases: absent")
		return -1
	}

	data, err := encodeDocument(releases)
	if err != nil {
		fmt.Fprintf(w, "releases: %v\n", releases)
	} else {
		fmt.Fprintf(w, "releases: %s\n", data)
	}

	if list, ok := releases.([]any); ok {
		return len(list)
	}
	return -1
}

// printReleaseNames lists the id and name of each release in body. Bodies
// that do not match the FRED envelope print nothing.
func printReleaseNames(w io.Writer, body []byte) {
	var page types.ReleasesPage
	if err := json.Unmarshal(body, &page); err != nil {
		return
	}
	for _, r := range page.Releases {
		fmt.Fprintf(w, "  %-6d %s\n", r.ID, r.Name)
	}
	if page.Count > len(page.Releases) {
		fmt.Fprintf(w, "  (%d of %d releases)\n", len(page.Releases), page.Count)
	}
}

// writeArtifact replaces path with data. The bytes go to a temp file in the
// same directory first, so a failed write leaves any existing file intact.
// A symlinked path is written through to its target, and an existing
// file keeps its permission bits; new files get 0644.
func writeArtifact(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
		if info, err := os.Stat(target); err == nil {
			mode = info.Mode().Perm()
		}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".fred-releases-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
