package models

import (
	"strings"

	"gorm.io/gorm"
)

// DefaultTranslationTable is used when no table name is configured.
const DefaultTranslationTable = "tbl_translations"

// MaxLocaleLength bounds the locale column.
const MaxLocaleLength = 5

// Translation overrides one attribute of one owner for one locale.
// TranslatableType and TranslatableID together reference the owner.
type Translation struct {
	BaseModel
	TranslatableID   uint64 `gorm:"not null;index:idx_translatable_owner,priority:2" json:"translatable_id"`
	TranslatableType string `gorm:"size:255;not null;index:idx_translatable_owner,priority:1" json:"translatable_type"`
	Key              string `gorm:"column:key;size:255;not null" json:"key" validate:"required,max=255"`
	Value            string `gorm:"column:value;type:text" json:"value"`
	Locale           string `gorm:"size:5;not null" json:"locale" validate:"required,max=5"`
}

// TableName returns the default table; stores honour a configured name via gorm's Table scope.
func (Translation) TableName() string {
	return DefaultTranslationTable
}

// BeforeSave trims identifiers so lookups compare stable values.
func (t *Translation) BeforeSave(tx *gorm.DB) error {
	t.TranslatableType = strings.TrimSpace(t.TranslatableType)
	t.Key = strings.TrimSpace(t.Key)
	t.Locale = strings.TrimSpace(t.Locale)
	return nil
}
