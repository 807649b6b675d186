package throttle

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Status is the per-request view of one scope's budget. Computed fresh per
// request, never stored.
type Status struct {
	Type       string `json:"type"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetTime  int64  `json:"reset_time"`
	RetryAfter int64  `json:"retry_after"`

	Blocked bool `json:"-"`
}

// Policy evaluates a single request against one scope's sliding window.
type Policy struct {
	Scope Scope
	Store WindowStore
}

// Evaluate loads the history for key, prunes entries older than the window,
// and either consumes a slot or reports the request blocked. now is epoch
// seconds. Store failures degrade to allowing the request: a broken cache
// must never take down all traffic.
func (p Policy) Evaluate(ctx context.Context, key string, now int64) Status {
	windowSec := int64(p.Scope.Window.Seconds())

	status := Status{
		Type:      p.Scope.Name,
		Limit:     p.Scope.Limit,
		ResetTime: now + windowSec,
	}

	history, err := p.Store.GetHistory(ctx, key)
	if err != nil {
		log.WithError(err).WithField("scope", p.Scope.Name).
			Warn("Throttle store read failed, allowing request")
		status.Remaining = p.Scope.Limit
		return status
	}

	// Slide the window: drop everything older than now - window.
	cutoff := now - windowSec
	pruned := history[:0]
	for _, ts := range history {
		if ts >= cutoff {
			pruned = append(pruned, ts)
		}
	}
	history = pruned

	if len(history) > 0 {
		status.ResetTime = history[0] + windowSec
	}

	if len(history) >= p.Scope.Limit {
		status.Remaining = 0
		status.RetryAfter = windowSec - (now - history[0])
		status.Blocked = true
		return status
	}

	history = append(history, now)
	if err := p.Store.SetHistory(ctx, key, history, p.Scope.Window); err != nil {
		log.WithError(err).WithField("scope", p.Scope.Name).
			Warn("Throttle store write failed, allowing request")
	}

	status.Remaining = p.Scope.Limit - len(history)
	return status
}
