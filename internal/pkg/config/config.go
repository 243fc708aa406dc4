// Package config loads and validates dashboard settings from viper.
//
// Settings come from the config file (-c/--config or the default search
// paths), overridable through NEKOTOP_* environment variables. They are read
// once at startup and handed to the API client and logging setup.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/endorses/nekotop/internal/pkg/constants"
)

// Viper keys
const (
	KeyAPIURL        = "mihomo-api"
	KeyAPISecret     = "mihomo-secret"
	KeyLogFile       = "log-file"
	KeyLogLevel      = "log-level"
	KeyTheme         = "theme"
	KeyTestURL       = "test-url"
	KeyTestTimeoutMS = "test-timeout-ms"
)

var validLogLevels = map[string]bool{
	"silent":  true,
	"trace":   true,
	"debug":   true,
	"info":    true,
	"warning": true,
	"error":   true,
}

// Config holds everything nekotop needs at startup.
type Config struct {
	APIURL        string // control API base URL, e.g. http://127.0.0.1:9090
	APISecret     string // bearer secret, may be empty
	LogFile       string // empty disables logging
	LogLevel      string // silent|trace|debug|info|warning|error
	Theme         string
	TestURL       string // URL probed by latency tests
	TestTimeoutMS int
}

// SetDefaults registers defaults on the given viper instance.
// Called from command init before the config file is read.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "error")
	v.SetDefault(KeyTheme, "solarized")
	v.SetDefault(KeyTestURL, constants.DefaultTestURL)
	v.SetDefault(KeyTestTimeoutMS, constants.DefaultTestTimeoutMS)
}

// Load reads the active viper state into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIURL:        strings.TrimSpace(v.GetString(KeyAPIURL)),
		APISecret:     v.GetString(KeyAPISecret),
		LogFile:       v.GetString(KeyLogFile),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		Theme:         v.GetString(KeyTheme),
		TestURL:       v.GetString(KeyTestURL),
		TestTimeoutMS: v.GetInt(KeyTestTimeoutMS),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("%s is required (set it in the config file or NEKOTOP_MIHOMO_API)", KeyAPIURL)
	}

	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%s: invalid URL %q: %w", KeyAPIURL, c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: URL scheme must be http or https, got %q", KeyAPIURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: URL %q has no host", KeyAPIURL, c.APIURL)
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%s: unknown level %q (one of silent, trace, debug, info, warning, error)", KeyLogLevel, c.LogLevel)
	}

	if c.TestTimeoutMS <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyTestTimeoutMS, c.TestTimeoutMS)
	}
	return nil
}
