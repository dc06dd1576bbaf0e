// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for fred-releases.
package types

// Outcome is the terminal state of a successful fetch run. Failed runs
// are reported as errors rather than outcomes.
type Outcome string

const (
	OutcomeWritten             Outcome = "written"
	OutcomeSkippedUnauthorized Outcome = "skipped_unauthorized"

	// OutcomeFailed only appears in fetch history.
	OutcomeFailed Outcome = "failed"
)

// Release is one entry of the FRED releases listing. It backs the
// console listing of release names; the artifact on disk is written from
// the untyped body.
type Release struct {
	ID            int    `json:"id" yaml:"id"`
	RealtimeStart string `json:"realtime_start" yaml:"realtime_start"`
	RealtimeEnd   string `json:"realtime_end" yaml:"realtime_end"`
	Name          string `json:"name" yaml:"name"`
	PressRelease  bool   `json:"press_release" yaml:"press_release"`
	Link          string `json:"link,omitempty" yaml:"link,omitempty"`
	Notes         string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ReleasesPage is the envelope returned by fred/releases.
type ReleasesPage struct {
	RealtimeStart string    `json:"realtime_start" yaml:"realtime_start"`
	RealtimeEnd   string    `json:"realtime_end" yaml:"realtime_end"`
	OrderBy       string    `json:"order_by" yaml:"order_by"`
	SortOrder     string    `json:"sort_order" yaml:"sort_order"`
	Count         int       `json:"count" yaml:"count"`
	Offset        int       `json:"offset" yaml:"offset"`
	Limit         int       `json:"limit" yaml:"limit"`
	Releases      []Release `json:"releases" yaml:"releases"`
}
