package translatable

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/charlesng35/translatable/pkg/logger"
)

// Eligibility declares which attributes of an owner type accept overrides.
// The zero value allows every attribute.
type Eligibility struct {
	keys      map[string]struct{}
	malformed bool
}

// AllAttributes allows every attribute.
func AllAttributes() Eligibility {
	return Eligibility{}
}

// OnlyAttribute restricts overrides to a single attribute.
func OnlyAttribute(key string) Eligibility {
	return OnlyAttributes(key)
}

// OnlyAttributes restricts overrides to the named attributes. A declaration
// without any usable name allows every attribute.
func OnlyAttributes(keys ...string) Eligibility {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			set[key] = struct{}{}
		}
	}
	if len(set) == 0 {
		return Eligibility{malformed: true}
	}
	return Eligibility{keys: set}
}

// Allows reports whether key may be overridden.
func (e Eligibility) Allows(key string) bool {
	if e.keys == nil {
		return true
	}
	_, ok := e.keys[key]
	return ok
}

// Restricted reports whether the declaration names an explicit set.
func (e Eligibility) Restricted() bool {
	return e.keys != nil
}

// Keys returns the declared attribute names in sorted order, nil when unrestricted.
func (e Eligibility) Keys() []string {
	if e.keys == nil {
		return nil
	}
	out := make([]string, 0, len(e.keys))
	for key := range e.keys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Declarer is implemented by entities restricting their translatable attributes.
type Declarer interface {
	TranslatableAttributes() Eligibility
}

// Policy memoises one Eligibility per owner type. The first declaration seen
// for a type is kept for the life of the Policy.
type Policy struct {
	mu    sync.RWMutex
	types map[string]Eligibility
	log   *zap.Logger
}

// NewPolicy returns an empty Policy; undeclared types allow every attribute.
func NewPolicy() *Policy {
	return &Policy{
		types: make(map[string]Eligibility),
		log:   logger.WithModule("translatable.policy"),
	}
}

// Declare records the eligibility of ownerType and reports whether it was stored.
func (p *Policy) Declare(ownerType string, e Eligibility) bool {
	ownerType = strings.TrimSpace(ownerType)
	if ownerType == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.types[ownerType]; exists {
		return false
	}
	if e.malformed {
		p.log.Warn("empty translatable attribute declaration; allowing all attributes", zap.String("owner_type", ownerType))
	}
	p.types[ownerType] = e
	return true
}

// IsEligible reports whether key of ownerType may be overridden.
func (p *Policy) IsEligible(ownerType, key string) bool {
	p.mu.RLock()
	e, ok := p.types[ownerType]
	p.mu.RUnlock()
	if !ok {
		return true
	}
	return e.Allows(key)
}

// Observe records the declaration carried by entity, if any, the first time its type is seen.
func (p *Policy) Observe(entity Entity) {
	if entity == nil {
		return
	}
	ownerType := strings.TrimSpace(entity.TranslatableType())

	p.mu.RLock()
	_, known := p.types[ownerType]
	p.mu.RUnlock()
	if known {
		return
	}

	e := AllAttributes()
	if declarer, ok := entity.(Declarer); ok {
		e = declarer.TranslatableAttributes()
	}
	p.Declare(ownerType, e)
}
