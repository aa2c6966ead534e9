package translatable

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/charlesng35/translatable/internal/models"
	"github.com/charlesng35/translatable/pkg/logger"
	"github.com/charlesng35/translatable/pkg/metrics"
)

// Cache holds the overrides of one owner instance for the locale last resolved.
// A locale switch invalidates the held set lazily: the next read refills it
// with a single store query. An empty result is cached like any other.
type Cache struct {
	store Store

	mu      sync.Mutex
	loaded  bool
	locale  string
	records []models.Translation
	byKey   map[string]int
}

// NewCache returns an empty cache reading from store.
func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Resolve returns the override of key for owner at locale. found is false when
// no live override exists; that is not an error.
func (c *Cache) Resolve(ctx context.Context, owner Owner, key, locale string) (value string, found bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLocked(ctx, owner, locale); err != nil {
		return "", false, err
	}

	idx, ok := c.byKey[key]
	if !ok {
		return "", false, nil
	}
	return c.records[idx].Value, true, nil
}

// Records returns a copy of the overrides held for locale, refilling when needed.
func (c *Cache) Records(ctx context.Context, owner Owner, locale string) ([]models.Translation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLocked(ctx, owner, locale); err != nil {
		return nil, err
	}

	out := make([]models.Translation, len(c.records))
	copy(out, c.records)
	return out, nil
}

// Latest returns the most recently inserted override held for locale, nil when there is none.
func (c *Cache) Latest(ctx context.Context, owner Owner, locale string) (*models.Translation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLocked(ctx, owner, locale); err != nil {
		return nil, err
	}

	var latest *models.Translation
	for i := range c.records {
		if latest == nil || c.records[i].ID >= latest.ID {
			latest = &c.records[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

// Locale reports the locale of the held set and whether one is held.
func (c *Cache) Locale() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale, c.loaded
}

// Invalidate drops the held set; the next read refills it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Cache) ensureLocked(ctx context.Context, owner Owner, locale string) error {
	if c.loaded && c.locale == locale {
		return nil
	}
	if c.store == nil {
		return errors.New("translation cache: store is required")
	}

	rows, err := c.store.FetchForLocale(ctx, owner, locale)
	if err != nil {
		c.resetLocked()
		return err
	}

	kept := make([]models.Translation, 0, len(rows))
	byKey := make(map[string]int, len(rows))
	for _, row := range rows {
		if row.Locale != locale || row.Deleted() {
			continue
		}
		kept = append(kept, row)
		if prev, ok := byKey[row.Key]; ok && kept[prev].ID > row.ID {
			continue
		}
		byKey[row.Key] = len(kept) - 1
	}

	c.records = kept
	c.byKey = byKey
	c.locale = locale
	c.loaded = true

	metrics.CacheRefills.WithLabelValues(owner.Type).Inc()
	logger.Debug("translation cache refilled",
		zap.String("owner", owner.String()),
		zap.String("locale", locale),
		zap.Int("records", len(kept)),
	)
	return nil
}

func (c *Cache) resetLocked() {
	c.loaded = false
	c.locale = ""
	c.records = nil
	c.byKey = nil
}
