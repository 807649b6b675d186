package throttle

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Scope is one named rate-limit category, e.g. "anon" or "upload".
// Scopes are loaded once at startup and read-only afterwards.
type Scope struct {
	Name   string
	Rate   string
	Limit  int
	Window time.Duration
}

var periods = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseRate parses a rate string of the form "<count>/<period>",
// e.g. "100/day" or "8/hour".
func ParseRate(rate string) (int, time.Duration, error) {
	parts := strings.SplitN(strings.TrimSpace(rate), "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid rate %q: expected <count>/<period>", rate)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || limit <= 0 {
		return 0, 0, fmt.Errorf("invalid rate %q: count must be a positive integer", rate)
	}

	window, ok := periods[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return 0, 0, fmt.Errorf("invalid rate %q: unknown period %q", rate, parts[1])
	}

	return limit, window, nil
}

// Config holds the resolved scope table. Immutable after LoadConfig.
type Config struct {
	scopes map[string]Scope
}

// LoadConfig resolves a scope-name -> rate-string mapping. Malformed rates
// are skipped with a warning so a bad entry never takes the service down.
func LoadConfig(rates map[string]string) *Config {
	cfg := &Config{scopes: make(map[string]Scope, len(rates))}

	for name, rate := range rates {
		limit, window, err := ParseRate(rate)
		if err != nil {
			log.WithFields(log.Fields{
				"scope": name,
				"rate":  rate,
			}).Warn("Skipping throttle scope with invalid rate")
			continue
		}

		cfg.scopes[name] = Scope{
			Name:   name,
			Rate:   rate,
			Limit:  limit,
			Window: window,
		}
	}

	return cfg
}

// Resolve returns the scope for name, or false if it has no configured rate.
// Callers must skip the scope rather than fail the request.
func (cfg *Config) Resolve(name string) (Scope, bool) {
	if cfg == nil {
		return Scope{}, false
	}
	scope, ok := cfg.scopes[name]
	return scope, ok
}

// Names returns the configured scope names, for diagnostics.
func (cfg *Config) Names() []string {
	names := make([]string, 0, len(cfg.scopes))
	for name := range cfg.scopes {
		names = append(names, name)
	}
	return names
}

// Rates returns the configured scope-name -> rate-string table.
func (cfg *Config) Rates() map[string]string {
	rates := make(map[string]string, len(cfg.scopes))
	for name, scope := range cfg.scopes {
		rates[name] = scope.Rate
	}
	return rates
}

// DefaultRates is the built-in scope table.
func DefaultRates() map[string]string {
	return map[string]string{
		"anon":    "100/day",
		"user":    "1000/day",
		"auth":    "8/hour",
		"upload":  "20/hour",
		"comment": "60/hour",
		"report":  "20/day",
	}
}

// RatesFromEnv overlays THROTTLE_RATE_<SCOPE> environment variables onto the
// defaults, e.g. THROTTLE_RATE_ANON=200/day.
func RatesFromEnv() map[string]string {
	rates := DefaultRates()
	for name := range rates {
		envKey := "THROTTLE_RATE_" + strings.ToUpper(name)
		if v := os.Getenv(envKey); v != "" {
			rates[name] = v
		}
	}
	return rates
}
