package translatable

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/translatable/internal/models"
	"github.com/charlesng35/translatable/pkg/logger"
	"github.com/charlesng35/translatable/pkg/metrics"
	"github.com/charlesng35/translatable/pkg/validator"
)

// Store reads and writes overrides for an owner. Soft-deleted rows are never returned.
type Store interface {
	FetchAll(ctx context.Context, owner Owner) ([]models.Translation, error)
	FetchForLocale(ctx context.Context, owner Owner, locale string) ([]models.Translation, error)
	SaveBatch(ctx context.Context, owner Owner, records []models.Translation) error
}

// GormStore implements Store on a gorm handle and a configurable table.
type GormStore struct {
	db    *gorm.DB
	table string
	log   *zap.Logger
}

// NewGormStore constructs a store writing to table, or the default table when blank.
func NewGormStore(db *gorm.DB, table string) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("translation store: db is required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		table = models.DefaultTranslationTable
	}
	return &GormStore{
		db:    db,
		table: table,
		log:   logger.WithModule("translatable.store"),
	}, nil
}

// Table returns the table backing the store.
func (s *GormStore) Table() string {
	return s.table
}

// FetchAll returns every live override of owner, oldest first.
func (s *GormStore) FetchAll(ctx context.Context, owner Owner) ([]models.Translation, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	var rows []models.Translation
	err := s.track("fetch_all", func() error {
		return s.ownedBy(ctx, owner).Order("id ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, s.persistenceError("fetch all", owner, err)
	}
	return rows, nil
}

// FetchForLocale returns the live overrides of owner matching locale exactly, oldest first.
func (s *GormStore) FetchForLocale(ctx context.Context, owner Owner, locale string) ([]models.Translation, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	var rows []models.Translation
	err := s.track("fetch_locale", func() error {
		return s.ownedBy(ctx, owner).
			Where("locale = ?", strings.TrimSpace(locale)).
			Order("id ASC").
			Find(&rows).Error
	})
	if err != nil {
		return nil, s.persistenceError("fetch locale", owner, err)
	}
	return rows, nil
}

// SaveBatch inserts records as new overrides of owner. Owner fields, ids and
// timestamps are assigned by the store and written back into records.
func (s *GormStore) SaveBatch(ctx context.Context, owner Owner, records []models.Translation) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	batch := make([]models.Translation, len(records))
	var invalid error
	for i, record := range records {
		record.BaseModel = models.BaseModel{}
		record.TranslatableType = strings.TrimSpace(owner.Type)
		record.TranslatableID = owner.ID
		record.Key = strings.TrimSpace(record.Key)
		record.Locale = strings.TrimSpace(record.Locale)
		if err := validator.Struct(record); err != nil {
			invalid = multierr.Append(invalid, fmt.Errorf("record %d: %w", i, err))
		}
		batch[i] = record
	}
	if invalid != nil {
		return ErrInvalidRecord.WithInternal(invalid)
	}

	err := s.track("save_batch", func() error {
		return s.query(ctx).Create(&batch).Error
	})
	if err != nil {
		return s.persistenceError("save batch", owner, err)
	}

	copy(records, batch)
	s.log.Debug("saved translations", zap.String("owner", owner.String()), zap.Int("count", len(batch)))
	return nil
}

// SoftDelete marks the live overrides of owner for locale and key as deleted.
func (s *GormStore) SoftDelete(ctx context.Context, owner Owner, locale, key string) (int64, error) {
	if err := owner.Validate(); err != nil {
		return 0, err
	}

	var affected int64
	err := s.track("soft_delete", func() error {
		result := s.ownedBy(ctx, owner).
			Where("locale = ?", strings.TrimSpace(locale)).
			Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: strings.TrimSpace(key)}).
			Delete(&models.Translation{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, s.persistenceError("soft delete", owner, err)
	}
	return affected, nil
}

// PurgeDeleted permanently removes rows soft deleted before cutoff.
func (s *GormStore) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	var affected int64
	err := s.track("purge", func() error {
		result := s.query(ctx).Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(&models.Translation{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		s.log.Warn("purge failed", zap.Error(err))
		return 0, ErrPersistence.WithMessage("translation store: purge").WithInternal(err)
	}
	return affected, nil
}

func (s *GormStore) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ensuredContext(ctx)).Table(s.table)
}

func (s *GormStore) ownedBy(ctx context.Context, owner Owner) *gorm.DB {
	return s.query(ctx).Where("translatable_type = ? AND translatable_id = ?", owner.Type, owner.ID)
}

func (s *GormStore) track(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StoreQueries.WithLabelValues(operation, result).Inc()
	return err
}

func (s *GormStore) persistenceError(action string, owner Owner, err error) error {
	s.log.Warn("translation store failure",
		zap.String("action", action),
		zap.String("owner", owner.String()),
		zap.Error(err),
	)
	return ErrPersistence.WithMessage("translation store: %s %s", action, owner).WithInternal(err)
}
