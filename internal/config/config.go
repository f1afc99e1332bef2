// Package config holds runtime settings for the teamboard desktop client.
package config

// Config holds runtime settings for the client.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API. When empty, the API
//     client falls back to a persisted override or its built-in default.
//   - CredentialDBPath: path of the local SQLite credential database.
//   - Debug: enables debug-level logging.
type Config struct {
	ServerBaseURL    string
	CredentialDBPath string
	Debug            bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = ""
	c.CredentialDBPath = "teamboard.db"
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
