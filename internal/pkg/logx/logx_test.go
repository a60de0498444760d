package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.54:5123":     "203.0.113.0",
		"203.0.113.54":          "203.0.113.0",
		"127.0.0.1:8080":        "127.0.0.1",
		"[2001:db8::1]:443":     "2001:db8::",
		"not-an-ip":             "unknown_ip",
		"[::1]:9000":            "127.0.0.1",
		"2001:db8:aa:bb:cc::dd": "2001:db8:aa:bb::",
	}

	for in, want := range cases {
		assert.Equal(t, want, anonymizeIP(in), in)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
}

func TestCheckFieldsDropsOddPairs(t *testing.T) {
	assert.Nil(t, checkFields("Info", []any{"key"}))
	assert.Equal(t, []any{"k", 1}, checkFields("Info", []any{"k", 1}))
}
