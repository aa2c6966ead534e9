package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/translatable/internal/database"
	"github.com/charlesng35/translatable/internal/models"
)

// TestDBOption customises the behaviour of MustOpenTestDB.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	migrate bool
	table   string
}

// WithTranslationsTable migrates the override table under the default name.
func WithTranslationsTable() TestDBOption {
	return WithNamedTranslationsTable(models.DefaultTranslationTable)
}

// WithNamedTranslationsTable migrates the override table under a custom name.
func WithNamedTranslationsTable(table string) TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.migrate = true
		cfg.table = table
	}
}

// MustOpenTestDB opens an in-memory SQLite database for tests, applying optional migrations.
// The returned connection is automatically closed via t.Cleanup.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	cfg := testDBConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := database.Open(database.Config{Driver: "sqlite"})
	require.NoError(t, err)

	if cfg.migrate {
		require.NoError(t, database.MigrateTranslations(db, cfg.table))
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}
