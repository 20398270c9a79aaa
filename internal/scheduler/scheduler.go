package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/blog-api/internal/metrics"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/robfig/cron/v3"
)

// SessionPurger deletes expired sessions on a cron schedule, outside the
// request path. Requests never depend on it: an expired session is refused
// when it is resolved whether or not it has been purged yet.
type SessionPurger struct {
	Store repo.SessionStore
	Now   func() time.Time
}

// Run registers the purge under spec (robfig/cron syntax, e.g. "@every 10m")
// and blocks until ctx is done. An unparsable schedule is returned as an error before anything runs.
func (p *SessionPurger) Run(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { p.PurgeOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduler: invalid purge spec %q: %w", spec, err)
	}
	slog.Info("scheduler: session purge scheduled", "spec", spec)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// PurgeOnce deletes every session expired as of now and returns how many went.
func (p *SessionPurger) PurgeOnce(ctx context.Context) int64 {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	n, err := p.Store.DeleteExpired(ctx, now())
	if err != nil {
		slog.Error("scheduler: purge expired sessions", "error", err)
		return 0
	}
	metrics.AddSessionsPurged(n)
	if n > 0 {
		slog.Info("scheduler: purged expired sessions", "count", n)
	}
	return n
}
