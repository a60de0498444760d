package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DatabaseDSN, "ticketchat")
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, ReplaceSilently, cfg.RegisterReplacePolicy)
	assert.Equal(t, 1.0, cfg.WSConnectRate)
	assert.Equal(t, 5, cfg.WSConnectBurst)
}

func TestLoadProductionRequiresDatabase(t *testing.T) {
	_, err := load(envOf(map[string]string{"ENVIRONMENT": "production"}))
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadParsesEverything(t *testing.T) {
	cfg, err := load(envOf(map[string]string{
		"ENVIRONMENT":             "production",
		"PORT":                    "9090",
		"LOG_LEVEL":               " WARN ",
		"ALLOWED_ORIGINS":         "http://localhost:5173, http://localhost:5174,,",
		"DATABASE_URL":            "postgres://db/tickets",
		"STORE_TIMEOUT":           "750ms",
		"REGISTER_REPLACE_POLICY": "KICK",
		"WS_CONNECT_RATE":         "0.5",
		"WS_CONNECT_BURST":        "3",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.AllowedOrigins)
	assert.Equal(t, "postgres://db/tickets", cfg.DatabaseDSN)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, ReplaceAndKick, cfg.RegisterReplacePolicy)
	assert.Equal(t, 0.5, cfg.WSConnectRate)
	assert.Equal(t, 3, cfg.WSConnectBurst)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port not a number":  {"PORT": "http"},
		"privileged port":    {"PORT": "80"},
		"bad store timeout":  {"STORE_TIMEOUT": "soon"},
		"zero store timeout": {"STORE_TIMEOUT": "0s"},
		"unknown policy":     {"REGISTER_REPLACE_POLICY": "ignore"},
		"negative rate":      {"WS_CONNECT_RATE": "-1"},
		"zero burst":         {"WS_CONNECT_BURST": "0"},
	}

	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(envOf(vars))
			assert.Error(t, err)
		})
	}
}
