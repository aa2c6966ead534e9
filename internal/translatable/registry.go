package translatable

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/charlesng35/translatable/pkg/errors"
	"github.com/charlesng35/translatable/pkg/logger"
)

// Loader fetches the owning entity of a given type by id.
type Loader func(ctx context.Context, id uint64) (Entity, error)

// Registry maps owner types to loaders so that stored owner references can be resolved.
type Registry struct {
	translator *Translator

	mu      sync.RWMutex
	loaders map[string]Loader
	log     *zap.Logger
}

// NewRegistry returns an empty registry wrapping loaded entities with translator.
func NewRegistry(translator *Translator) (*Registry, error) {
	if translator == nil {
		return nil, errors.New("translatable registry: translator is required")
	}
	return &Registry{
		translator: translator,
		loaders:    make(map[string]Loader),
		log:        logger.WithModule("translatable.registry"),
	}, nil
}

// Register adds the loader for ownerType. When eligibility is supplied it is
// declared for the type before any entity is loaded.
func (r *Registry) Register(ownerType string, loader Loader, eligibility ...Eligibility) error {
	ownerType = strings.TrimSpace(ownerType)
	if ownerType == "" {
		return errors.New("translatable registry: owner type is required")
	}
	if loader == nil {
		return fmt.Errorf("translatable registry: loader for %s is required", ownerType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[ownerType]; exists {
		return fmt.Errorf("translatable registry: owner type %s already registered", ownerType)
	}
	r.loaders[ownerType] = loader
	if len(eligibility) > 0 && !r.translator.policy.Declare(ownerType, eligibility[0]) {
		r.log.Warn("owner type already declared; ignoring registered eligibility",
			zap.String("owner_type", ownerType),
			zap.Strings("attributes", eligibility[0].Keys()),
		)
	}

	r.log.Debug("owner type registered", zap.String("owner_type", ownerType))
	return nil
}

// Types lists registered owner types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.loaders))
	for ownerType := range r.loaders {
		out = append(out, ownerType)
	}
	sort.Strings(out)
	return out
}

// Load resolves owner through its loader and wraps the result.
func (r *Registry) Load(ctx context.Context, owner Owner) (*Translatable, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	loader, ok := r.loaders[owner.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownOwnerType.WithMessage("translatable registry: owner type %s is not registered", owner.Type)
	}

	entity, err := loader(ensuredContext(ctx), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("translatable registry: load %s: %w", owner, err)
	}
	if entity == nil {
		return nil, apperrors.ErrNotFound.WithMessage("translatable registry: load %s: loader returned no entity", owner)
	}
	if got := OwnerOf(entity); got != owner {
		return nil, fmt.Errorf("translatable registry: load %s: loader returned %s", owner, got)
	}
	return r.translator.Wrap(entity)
}
