package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/translatable/pkg/logger"
	"github.com/charlesng35/translatable/pkg/metrics"
)

const (
	defaultPurgeAfter = 30 * 24 * time.Hour
	defaultPurgeSpec  = "@daily"
)

// Purger permanently removes overrides soft deleted before cutoff.
type Purger interface {
	PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaner runs the purge of soft-deleted overrides on a cron schedule.
type Cleaner struct {
	purgers    []Purger
	cron       *cron.Cron
	now        func() time.Time
	log        *zap.Logger
	purgeAfter time.Duration
	schedule   string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used to compute the purge cutoff.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithPurgeAfter adjusts how long soft-deleted overrides are retained.
func WithPurgeAfter(d time.Duration) Option {
	return func(cleaner *Cleaner) {
		if d > 0 {
			cleaner.purgeAfter = d
		}
	}
}

// WithSchedule overrides the cron specification of the purge job.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner over the supplied purgers; nil entries are skipped.
func NewCleaner(purgers []Purger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		now:        time.Now,
		purgeAfter: defaultPurgeAfter,
		schedule:   defaultPurgeSpec,
		log:        logger.WithModule("maintenance"),
	}
	for _, p := range purgers {
		if p != nil {
			cleaner.purgers = append(cleaner.purgers, p)
		}
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the purge job and launches the scheduler when there is anything to purge.
func (c *Cleaner) Start() error {
	if len(c.purgers) == 0 {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("translation purge failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce purges every configured store sequentially, collecting all failures.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(c.purgers) == 0 {
		return errors.New("maintenance: no purgers configured")
	}

	cutoff := c.now().Add(-c.purgeAfter)

	var (
		errs  error
		total int64
	)
	for _, p := range c.purgers {
		removed, err := p.PurgeDeleted(ctx, cutoff)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		total += removed
	}

	metrics.PurgedTranslations.Add(float64(total))
	c.log.Info("translation purge finished", zap.Time("cutoff", cutoff), zap.Int64("removed", total))
	return errs
}
