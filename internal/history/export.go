// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes up to n recent records to w as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, n int) error {
	records, err := s.Recent(ctx, n)
	if err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []Record, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No fetches recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-25s  %-3s  %-20s  %-8s  %-7s  %s\n",
		"ID", "Fetched", "HTTP", "Outcome", "Releases", "Bytes", "Fingerprint")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		fmt.Fprintln(w, r.String())
	}
	fmt.Fprintf(w, "\n%d fetches\n", len(records))
}
