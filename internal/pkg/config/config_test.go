package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoadMinimal(t *testing.T) {
	v := newViper(map[string]any{
		KeyAPIURL: "http://127.0.0.1:9090",
	})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9090", cfg.APIURL)
	assert.Empty(t, cfg.APISecret)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "solarized", cfg.Theme)
	assert.Equal(t, "https://www.gstatic.com/generate_204", cfg.TestURL)
	assert.Equal(t, 5000, cfg.TestTimeoutMS)
}

func TestLoadFull(t *testing.T) {
	v := newViper(map[string]any{
		KeyAPIURL:        "https://router.lan:9090",
		KeyAPISecret:     "s3cret",
		KeyLogFile:       "/tmp/nekotop.log",
		KeyLogLevel:      "DEBUG",
		KeyTestURL:       "http://cp.example.com/gen204",
		KeyTestTimeoutMS: 2500,
	})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.APISecret)
	assert.Equal(t, "/tmp/nekotop.log", cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel, "level is lowercased")
	assert.Equal(t, 2500, cfg.TestTimeoutMS)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		errHas string
	}{
		{
			name:   "missing api url",
			values: map[string]any{},
			errHas: "mihomo-api is required",
		},
		{
			name:   "bad scheme",
			values: map[string]any{KeyAPIURL: "ftp://127.0.0.1:9090"},
			errHas: "scheme",
		},
		{
			name:   "no host",
			values: map[string]any{KeyAPIURL: "http://"},
			errHas: "no host",
		},
		{
			name: "bad log level",
			values: map[string]any{
				KeyAPIURL:   "http://127.0.0.1:9090",
				KeyLogLevel: "loud",
			},
			errHas: "unknown level",
		},
		{
			name: "bad timeout",
			values: map[string]any{
				KeyAPIURL:        "http://127.0.0.1:9090",
				KeyTestTimeoutMS: -1,
			},
			errHas: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(tt.values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errHas)
		})
	}
}

func TestSilentLevelAccepted(t *testing.T) {
	v := newViper(map[string]any{
		KeyAPIURL:   "http://127.0.0.1:9090",
		KeyLogLevel: "silent",
	})
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "silent", cfg.LogLevel)
}
