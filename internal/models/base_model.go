package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel provides the auto-increment identity and bookkeeping columns shared by persisted rows.
type BaseModel struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Deleted reports whether the row has been soft deleted.
func (m BaseModel) Deleted() bool {
	return m.DeletedAt.Valid
}
