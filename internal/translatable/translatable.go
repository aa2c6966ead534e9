package translatable

import (
	"context"
	"errors"
	"fmt"

	"github.com/charlesng35/translatable/internal/models"
	"github.com/charlesng35/translatable/pkg/metrics"
)

// Relationship keys answered by Get without translation.
const (
	RelationTranslation  = "translation"
	RelationTranslations = "translations"
)

// Translator carries the collaborators shared by every wrapped entity.
type Translator struct {
	store  Store
	policy *Policy
	locale LocaleProvider
}

// Option customises a Translator.
type Option func(*Translator)

// WithPolicy shares an existing eligibility policy.
func WithPolicy(p *Policy) Option {
	return func(t *Translator) {
		if p != nil {
			t.policy = p
		}
	}
}

// NewTranslator constructs a Translator. locale may be nil when every call
// carries its locale through WithLocale.
func NewTranslator(store Store, locale LocaleProvider, opts ...Option) (*Translator, error) {
	if store == nil {
		return nil, errors.New("translator: store is required")
	}
	t := &Translator{store: store, locale: locale}
	for _, opt := range opts {
		opt(t)
	}
	if t.policy == nil {
		t.policy = NewPolicy()
	}
	return t, nil
}

// Policy returns the eligibility policy used by the translator.
func (t *Translator) Policy() *Policy {
	return t.policy
}

// Wrap attaches translation behaviour to entity. Each wrapper owns its cache.
func (t *Translator) Wrap(entity Entity) (*Translatable, error) {
	if entity == nil {
		return nil, ErrInvalidOwner.WithMessage("translatable owner: entity is required")
	}
	owner := OwnerOf(entity)
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	t.policy.Observe(entity)
	return &Translatable{
		translator: t,
		entity:     entity,
		owner:      owner,
		cache:      NewCache(t.store),
	}, nil
}

// Locale returns the locale reads under ctx resolve against: the context locale
// when set, otherwise the ambient provider.
func (t *Translator) Locale(ctx context.Context) string {
	if locale, ok := LocaleFromContext(ctx); ok && locale != "" {
		return locale
	}
	if t.locale == nil {
		return ""
	}
	return t.locale.Locale()
}

// Translatable is an entity whose attribute reads honour per-locale overrides.
type Translatable struct {
	translator *Translator
	entity     Entity
	owner      Owner
	cache      *Cache
}

// Entity returns the wrapped entity.
func (t *Translatable) Entity() Entity {
	return t.entity
}

// Owner returns the owner reference used for storage.
func (t *Translatable) Owner() Owner {
	return t.owner
}

// Get reads key. Relationship keys return the override association, eligible
// attributes return the override for the current locale when one exists, and
// everything else falls through to the entity's own Attribute.
func (t *Translatable) Get(ctx context.Context, key string) (any, bool, error) {
	ctx = ensuredContext(ctx)

	switch key {
	case RelationTranslation:
		record, err := t.Translation(ctx)
		if err != nil || record == nil {
			return nil, false, err
		}
		return record, true, nil
	case RelationTranslations:
		records, err := t.Translations(ctx)
		if err != nil {
			return nil, false, err
		}
		return records, true, nil
	}

	if !t.translator.policy.IsEligible(t.owner.Type, key) {
		t.count("ineligible")
		return t.native(key)
	}

	value, found, err := t.cache.Resolve(ctx, t.owner, key, t.translator.Locale(ctx))
	if err != nil {
		t.count("error")
		return nil, false, err
	}
	if found {
		t.count("override")
		return value, true, nil
	}

	t.count("fallthrough")
	return t.native(key)
}

// GetString reads key and formats the result with fmt.Sprint.
func (t *Translatable) GetString(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := t.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	if s, isString := value.(string); isString {
		return s, true, nil
	}
	return fmt.Sprint(value), true, nil
}

// Translation returns the most recent override for the current locale, nil when there is none.
func (t *Translatable) Translation(ctx context.Context) (*models.Translation, error) {
	ctx = ensuredContext(ctx)
	return t.cache.Latest(ctx, t.owner, t.translator.Locale(ctx))
}

// Translations returns every live override of the entity, any locale.
func (t *Translatable) Translations(ctx context.Context) ([]models.Translation, error) {
	return t.translator.store.FetchAll(ensuredContext(ctx), t.owner)
}

// SaveTranslations stores records as new overrides of the entity and returns
// them with ids and timestamps assigned. The held cache is dropped on success.
func (t *Translatable) SaveTranslations(ctx context.Context, records ...models.Translation) ([]models.Translation, error) {
	if len(records) == 0 {
		return nil, nil
	}
	saved := make([]models.Translation, len(records))
	copy(saved, records)

	if err := t.translator.store.SaveBatch(ensuredContext(ctx), t.owner, saved); err != nil {
		return nil, err
	}
	t.cache.Invalidate()
	return saved, nil
}

func (t *Translatable) native(key string) (any, bool, error) {
	value, ok := t.entity.Attribute(key)
	return value, ok, nil
}

func (t *Translatable) count(outcome string) {
	metrics.Resolutions.WithLabelValues(t.owner.Type, outcome).Inc()
}
