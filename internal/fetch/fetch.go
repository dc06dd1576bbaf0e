// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the FRED releases listing and stores the raw
// JSON response on disk.
//
// A run ends in one of three states: the artifact is written, the run is
// skipped because the credential was rejected (HTTP 401), or an error is
// returned. Nothing is retried.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/fred-releases/internal/httputil"
	"github.com/pdiddy/fred-releases/pkg/types"
)

const (
	// DefaultBaseURL is the FRED releases endpoint.
	DefaultBaseURL = "https://api.stlouisfed.org/fred/releases"

	// DefaultLimit is the number of releases requested per run.
	DefaultLimit = 3

	// DefaultOutputPath is the artifact location relative to the working directory.
	DefaultOutputPath = "output.json"

	// maxLimit is the largest limit FRED accepts.
	maxLimit = 1000

	fileType = "json"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("API_KEY must be set")

// UnexpectedStatusError reports an HTTP status other than 200 or 401.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d from releases endpoint", e.StatusCode)
}

// Result describes a run that did not fail.
type Result struct {
	Outcome    types.Outcome
	StatusCode int

	// Artifact holds the bytes written to OutputPath. Nil unless Outcome
	// is OutcomeWritten.
	Artifact []byte

	// ReleaseCount is the length of the releases array, or -1 when the
	// field is missing or not an array.
	ReleaseCount int
}

// Fetcher performs releases fetches for one credential and output path.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	w      io.Writer
}

// New validates cfg, fills defaults, and returns a Fetcher. A nil client
// gets one built from cfg.Timeout (zero means no timeout). Diagnostics are
// written to w.
func New(cfg types.FetchConfig, client *http.Client, w io.Writer) (*Fetcher, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("limit %d must not be negative", cfg.Limit)
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Limit > maxLimit {
		return nil, fmt.Errorf("limit %d exceeds maximum of %d", cfg.Limit, maxLimit)
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if w == nil {
		w = io.Discard
	}
	return &Fetcher{client: client, cfg: cfg, w: w}, nil
}

// OutputPath returns the artifact path this Fetcher writes to.
func (f *Fetcher) OutputPath() string { return f.cfg.OutputPath }

// RequestURL returns the fully built request URL, credential included.
func (f *Fetcher) RequestURL() string {
	params := url.Values{
		"api_key":   {f.cfg.APIKey},
		"file_type": {fileType},
		"limit":     {strconv.Itoa(f.cfg.Limit)},
	}
	return f.cfg.BaseURL + "?" + params.Encode()
}

// Run issues one request and dispatches on the status code before reading
// the body. On 200 the body is parsed, its releases field is printed, and
// the whole document is re-serialized to the output path. On 401 a renewal
// notice is printed, the body is never read, and no file is touched. Any
// other status yields *UnexpectedStatusError.
func (f *Fetcher) Run(ctx context.Context) (Result, error) {
	header := http.Header{}
	if f.cfg.UserAgent != "" {
		header.Set("User-Agent", f.cfg.UserAgent)
	}
	header.Set("Accept", "application/json")

	resp, err := httputil.Get(ctx, f.client, f.RequestURL(), header, "api_key")
	if err != nil {
		return Result{}, fmt.Errorf("releases request: %w", err)
	}
	defer resp.Body.Close()

	switch status := resp.StatusCode; status {
	case http.StatusOK:
		fmt.Fprintf(f.w, "Success! HTTP %d %s\n", status, http.StatusText(status))
		body, err := httputil.ReadBody(resp)
		if err != nil {
			return Result{StatusCode: status, ReleaseCount: -1}, fmt.Errorf("releases request: %w", err)
		}
		return f.persist(body)
	case http.StatusUnauthorized:
		fmt.Fprintln(f.w, "Need to grab a new token")
		return Result{Outcome: types.OutcomeSkippedUnauthorized, StatusCode: status, ReleaseCount: -1}, nil
	default:
		return Result{StatusCode: status, ReleaseCount: -1}, &UnexpectedStatusError{StatusCode: status}
	}
}

func (f *Fetcher) persist(body []byte) (Result, error) {
	doc, err := decodeDocument(body)
	if err != nil {
		return Result{StatusCode: http.StatusOK, ReleaseCount: -1}, fmt.Errorf("parsing releases response: %w", err)
	}

	count := printReleases(f.w, doc)
	printReleaseNames(f.w, body)

	data, err := encodeDocument(doc)
	if err != nil {
		return Result{StatusCode: http.StatusOK, ReleaseCount: count}, fmt.Errorf("serializing releases response: %w", err)
	}

	if err := writeArtifact(f.cfg.OutputPath, data); err != nil {
		return Result{StatusCode: http.StatusOK, ReleaseCount: count}, fmt.Errorf("writing %s: %w", f.cfg.OutputPath, err)
	}
	fmt.Fprintf(f.w, "wrote %s (%d bytes)\n", f.cfg.OutputPath, len(data))

	return Result{
		Outcome:      types.OutcomeWritten,
		StatusCode:   http.StatusOK,
		Artifact:     data,
		ReleaseCount: count,
	}, nil
}
