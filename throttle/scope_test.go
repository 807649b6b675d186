package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		rate   string
		limit  int
		window time.Duration
	}{
		{"3/second", 3, time.Second},
		{"100/minute", 100, time.Minute},
		{"8/hour", 8, time.Hour},
		{"1000/day", 1000, 24 * time.Hour},
		{" 5/minute ", 5, time.Minute},
		{"5/MINUTE", 5, time.Minute},
	}

	for _, tt := range tests {
		limit, window, err := ParseRate(tt.rate)
		require.NoError(t, err, tt.rate)
		assert.Equal(t, tt.limit, limit, tt.rate)
		assert.Equal(t, tt.window, window, tt.rate)
	}
}

func TestParseRate_Invalid(t *testing.T) {
	for _, rate := range []string{
		"",
		"abc",
		"10",
		"/minute",
		"ten/minute",
		"10/fortnight",
		"-5/minute",
		"0/minute",
	} {
		_, _, err := ParseRate(rate)
		assert.Error(t, err, rate)
	}
}

func TestLoadConfig_SkipsMalformedRates(t *testing.T) {
	cfg := LoadConfig(map[string]string{
		"anon":   "100/day",
		"broken": "10/fortnight",
	})

	scope, ok := cfg.Resolve("anon")
	require.True(t, ok)
	assert.Equal(t, 100, scope.Limit)
	assert.Equal(t, 24*time.Hour, scope.Window)

	_, ok = cfg.Resolve("broken")
	assert.False(t, ok)
}

func TestConfig_ResolveUnknownScope(t *testing.T) {
	cfg := LoadConfig(DefaultRates())

	_, ok := cfg.Resolve("burst")
	assert.False(t, ok)
}

func TestRatesFromEnv_Override(t *testing.T) {
	t.Setenv("THROTTLE_RATE_ANON", "200/hour")

	rates := RatesFromEnv()
	assert.Equal(t, "200/hour", rates["anon"])
	assert.Equal(t, "1000/day", rates["user"])
}

func TestDefaultRates_AllParse(t *testing.T) {
	for name, rate := range DefaultRates() {
		_, _, err := ParseRate(rate)
		assert.NoError(t, err, name)
	}
}
