package translatable

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/translatable/internal/database/testutil"
	"github.com/charlesng35/translatable/internal/models"
)

type post struct {
	id   uint64
	name string
	body string
}

func (p *post) TranslatableType() string { return "posts" }
func (p *post) TranslatableID() uint64   { return p.id }

func (p *post) Attribute(key string) (any, bool) {
	switch key {
	case "id":
		return p.id, true
	case "name":
		return p.name, true
	case "body":
		return p.body, true
	}
	return nil, false
}

// article only accepts overrides for its name.
type article struct {
	post
}

func (a *article) TranslatableType() string { return "articles" }

func (a *article) TranslatableAttributes() Eligibility {
	return OnlyAttribute("name")
}

// countingStore records how often each Store operation is reached.
type countingStore struct {
	Store

	mu          sync.Mutex
	fetchAll    int
	fetchLocale int
	locales     []string
}

func (c *countingStore) FetchAll(ctx context.Context, owner Owner) ([]models.Translation, error) {
	c.mu.Lock()
	c.fetchAll++
	c.mu.Unlock()
	return c.Store.FetchAll(ctx, owner)
}

func (c *countingStore) FetchForLocale(ctx context.Context, owner Owner, locale string) ([]models.Translation, error) {
	c.mu.Lock()
	c.fetchLocale++
	c.locales = append(c.locales, locale)
	c.mu.Unlock()
	return c.Store.FetchForLocale(ctx, owner, locale)
}

func (c *countingStore) localeFetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchLocale
}

// memoryStore keeps overrides in memory and can be told to fail.
type memoryStore struct {
	mu      sync.Mutex
	rows    []models.Translation
	nextID  uint64
	failing error
}

func (m *memoryStore) FetchAll(_ context.Context, owner Owner) ([]models.Translation, error) {
	return m.filter(owner, func(models.Translation) bool { return true })
}

func (m *memoryStore) FetchForLocale(_ context.Context, owner Owner, locale string) ([]models.Translation, error) {
	return m.filter(owner, func(row models.Translation) bool { return row.Locale == locale })
}

func (m *memoryStore) SaveBatch(_ context.Context, owner Owner, records []models.Translation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return ErrPersistence.WithInternal(m.failing)
	}
	for i := range records {
		m.nextID++
		records[i].ID = m.nextID
		records[i].TranslatableType = owner.Type
		records[i].TranslatableID = owner.ID
		m.rows = append(m.rows, records[i])
	}
	return nil
}

func (m *memoryStore) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = err
}

func (m *memoryStore) filter(owner Owner, keep func(models.Translation) bool) ([]models.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, ErrPersistence.WithInternal(m.failing)
	}
	var out []models.Translation
	for _, row := range m.rows {
		if row.TranslatableType == owner.Type && row.TranslatableID == owner.ID && !row.Deleted() && keep(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

func newGormStore(t *testing.T) *GormStore {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithTranslationsTable())
	store, err := NewGormStore(db, "")
	require.NoError(t, err)
	return store
}

func newTranslator(t *testing.T, store Store, locale LocaleProvider) *Translator {
	t.Helper()

	translator, err := NewTranslator(store, locale)
	require.NoError(t, err)
	return translator
}

func mustWrap(t *testing.T, translator *Translator, entity Entity) *Translatable {
	t.Helper()

	wrapped, err := translator.Wrap(entity)
	require.NoError(t, err)
	return wrapped
}

func mustGetString(ctx context.Context, t *testing.T, wrapped *Translatable, key string) string {
	t.Helper()

	value, ok, err := wrapped.GetString(ctx, key)
	require.NoError(t, err)
	require.True(t, ok, "attribute %s not found", key)
	return value
}

func override(locale, key, value string) models.Translation {
	return models.Translation{Locale: locale, Key: key, Value: value}
}
