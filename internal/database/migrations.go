package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/translatable/internal/models"
)

// MigrateTranslations creates or updates the override table under the supplied name.
func MigrateTranslations(db *gorm.DB, table string) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	table = tableOrDefault(table)

	if err := db.Table(table).AutoMigrate(&models.Translation{}); err != nil {
		return fmt.Errorf("migrate %s: %w", table, err)
	}
	return nil
}

// DropTranslations removes the override table when it exists.
func DropTranslations(db *gorm.DB, table string) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	table = tableOrDefault(table)

	if !db.Migrator().HasTable(table) {
		return nil
	}
	if err := db.Migrator().DropTable(table); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	return nil
}

func tableOrDefault(table string) string {
	table = strings.TrimSpace(table)
	if table == "" {
		return models.DefaultTranslationTable
	}
	return table
}
