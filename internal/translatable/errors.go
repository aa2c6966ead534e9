package translatable

import (
	apperrors "github.com/charlesng35/translatable/pkg/errors"
)

var (
	// ErrPersistence wraps any failure reported by the storage layer. The driver
	// error stays reachable through errors.Is / errors.As.
	ErrPersistence = apperrors.New("translation.persistence", "translation store failure")

	// ErrInvalidRecord reports overrides rejected before they reach storage.
	ErrInvalidRecord = apperrors.New("translation.invalid_record", "invalid translation record")

	// ErrInvalidOwner reports an owner reference without a type or id.
	ErrInvalidOwner = apperrors.New("translation.invalid_owner", "invalid translatable owner")

	// ErrUnknownOwnerType is returned by the registry for unregistered owner types.
	ErrUnknownOwnerType = apperrors.New("translation.unknown_owner_type", "unknown translatable owner type")
)
