package types

import "time"

// HTTPConfig holds shared HTTP settings used for outbound requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "fred-releases/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for a single releases fetch.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the FRED credential. Required.
	APIKey string `json:"-" yaml:"-"`

	// BaseURL is the releases endpoint without query parameters.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Limit is the value of the limit query parameter (default 3).
	Limit int `json:"limit" yaml:"limit"`

	// OutputPath is where the response body is written (default output.json).
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// HistoryConfig holds settings for the optional fetch history database.
type HistoryConfig struct {
	// DBPath is the SQLite file. Empty disables history.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Enabled reports whether a history database is configured.
func (c HistoryConfig) Enabled() bool {
	return c.DBPath != ""
}
