package throttle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Identity is the caller on whose behalf budgets are consumed: the
// authenticated user id when present, otherwise a fingerprint hash derived
// from what the client reveals about itself.
type Identity struct {
	UserID      string
	Fingerprint string
}

// AnonymousIdentity builds an Identity for an unauthenticated caller from
// its user agent and remote address.
func AnonymousIdentity(userAgent, remoteIP string) Identity {
	sum := sha256.Sum256([]byte(userAgent + "\x1f" + remoteIP))
	return Identity{Fingerprint: hex.EncodeToString(sum[:16])}
}

func (id Identity) cacheID() string {
	if id.UserID != "" {
		return id.UserID
	}
	return id.Fingerprint
}

// BuildKey partitions the rate-limit history per (route, method, identity,
// scope) tuple.
func BuildKey(scope, method, route string, id Identity) string {
	return fmt.Sprintf("throttle:%s:%s:%s:%s", scope, method, route, id.cacheID())
}

// Inspector evaluates all policies declared on a route, in declaration
// order, and renders the result as statuses and response headers.
type Inspector struct {
	cfg   *Config
	store WindowStore
	now   func() time.Time
}

func NewInspector(cfg *Config, store WindowStore) *Inspector {
	return NewInspectorAt(cfg, store, time.Now)
}

// NewInspectorAt builds an inspector with an explicit clock.
func NewInspectorAt(cfg *Config, store WindowStore, now func() time.Time) *Inspector {
	return &Inspector{
		cfg:   cfg,
		store: store,
		now:   now,
	}
}

// Config exposes the loaded scope table for diagnostics.
func (ins *Inspector) Config() *Config {
	return ins.cfg
}

// Inspect runs every named scope against the caller's identity. Scopes with
// no configured rate are skipped, not failed. When one or more policies
// block, the first blocked status in declaration order is returned and the
// caller must reject the request before the business handler runs.
func (ins *Inspector) Inspect(ctx context.Context, method, route string, id Identity, scopes []string) ([]Status, *Status) {
	now := ins.now().Unix()

	statuses := make([]Status, 0, len(scopes))
	var blocked *Status

	for _, name := range scopes {
		scope, ok := ins.cfg.Resolve(name)
		if !ok {
			continue
		}

		policy := Policy{Scope: scope, Store: ins.store}
		status := policy.Evaluate(ctx, BuildKey(name, method, route, id), now)
		statuses = append(statuses, status)

		if status.Blocked && blocked == nil {
			blocked = &statuses[len(statuses)-1]
		}
	}

	return statuses, blocked
}

// Headers renders statuses as the X-RateLimit header set. Scope names are
// interpolated as-is, case preserved.
func Headers(statuses []Status) map[string]string {
	headers := make(map[string]string, len(statuses)*4)
	for _, s := range statuses {
		prefix := "X-RateLimit-" + s.Type
		headers[prefix+"-Limit"] = fmt.Sprintf("%d", s.Limit)
		headers[prefix+"-Remaining"] = fmt.Sprintf("%d", s.Remaining)
		headers[prefix+"-Reset"] = fmt.Sprintf("%d", s.ResetTime)
		headers[prefix+"-Retry-After"] = fmt.Sprintf("%d", s.RetryAfter)
	}
	return headers
}
