// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for outbound API calls.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Get issues a single GET request and returns the response with its body
// unread, so callers can dispatch on the status first. The caller must
// close resp.Body. Requests are never retried.
//
// Transport errors are returned as *url.Error with the given query
// parameters redacted from the URL, since net/http embeds the full request
// URL in its error text.
func Get(ctx context.Context, client *http.Client, rawURL string, header http.Header, redact ...string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", RedactURL(err, redact...))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, RedactURL(err, redact...)
	}
	return resp, nil
}

// ReadBody reads resp.Body to EOF. It does not close the body.
func ReadBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// RedactURL rewrites the URL carried by a *url.Error in err's chain so the
// named query parameters read "REDACTED". Other errors pass through.
func RedactURL(err error, params ...string) error {
	var uerr *url.Error
	if len(params) == 0 || !errors.As(err, &uerr) {
		return err
	}
	uerr.URL = RedactQuery(uerr.URL, params...)
	return err
}

// RedactQuery returns rawURL with the values of the named query parameters
// replaced by "REDACTED". Unparseable input is returned unchanged.
func RedactQuery(rawURL string, params ...string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, p := range params {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}
