package translatable

import (
	"strconv"
	"strings"
)

// Entity is an owning record whose attributes may be overridden per locale.
// Attribute performs the entity's own, untranslated read and reports whether
// the attribute exists at all.
type Entity interface {
	TranslatableType() string
	TranslatableID() uint64
	Attribute(key string) (any, bool)
}

// Owner is the polymorphic reference stored alongside every override.
type Owner struct {
	Type string
	ID   uint64
}

// OwnerOf builds the owner reference for an entity.
func OwnerOf(e Entity) Owner {
	if e == nil {
		return Owner{}
	}
	return Owner{Type: strings.TrimSpace(e.TranslatableType()), ID: e.TranslatableID()}
}

// Validate rejects references that cannot address a single owner.
func (o Owner) Validate() error {
	switch {
	case strings.TrimSpace(o.Type) == "":
		return ErrInvalidOwner.WithMessage("translatable owner: type is required")
	case o.ID == 0:
		return ErrInvalidOwner.WithMessage("translatable owner: %s id is required", o.Type)
	}
	return nil
}

func (o Owner) String() string {
	return o.Type + "#" + strconv.FormatUint(o.ID, 10)
}
