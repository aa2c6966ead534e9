package translatable

import (
	"context"
	"errors"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/translatable/internal/database"
	"github.com/charlesng35/translatable/internal/database/testutil"
	"github.com/charlesng35/translatable/internal/models"
	"github.com/charlesng35/translatable/pkg/metrics"
	"github.com/charlesng35/translatable/pkg/validator"
)

func TestGormStoreSaveBatchAssignsOwnerAndTimestamps(t *testing.T) {
	store := newGormStore(t)
	owner := Owner{Type: "posts", ID: 11}
	records := []models.Translation{
		override("fr_FR", "name", "nom"),
		{TranslatableType: "ignored", TranslatableID: 99, Locale: "es_ES", Key: "name", Value: "nombre"},
	}

	require.NoError(t, store.SaveBatch(context.Background(), owner, records))

	for _, record := range records {
		require.NotZero(t, record.ID)
		require.Equal(t, "posts", record.TranslatableType)
		require.Equal(t, uint64(11), record.TranslatableID)
		require.False(t, record.CreatedAt.IsZero())
		require.False(t, record.UpdatedAt.IsZero())
		require.False(t, record.Deleted())
	}
	require.Less(t, records[0].ID, records[1].ID)
}

func TestGormStoreFetchForLocaleMatchesExactly(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()
	owner := Owner{Type: "posts", ID: 1}

	require.NoError(t, store.SaveBatch(ctx, owner, []models.Translation{
		override("fr", "name", "nom court"),
		override("fr_FR", "name", "nom"),
		override("fr_FR", "body", "corps"),
	}))

	rows, err := store.FetchForLocale(ctx, owner, "fr_FR")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, "fr_FR", row.Locale)
	}

	rows, err = store.FetchForLocale(ctx, owner, "fr_CA")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestGormStoreScopesByOwnerTypeAndID(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBatch(ctx, Owner{Type: "posts", ID: 1}, []models.Translation{override("fr_FR", "name", "post")}))
	require.NoError(t, store.SaveBatch(ctx, Owner{Type: "pages", ID: 1}, []models.Translation{override("fr_FR", "name", "page")}))
	require.NoError(t, store.SaveBatch(ctx, Owner{Type: "posts", ID: 2}, []models.Translation{override("fr_FR", "name", "other")}))

	rows, err := store.FetchAll(ctx, Owner{Type: "posts", ID: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "post", rows[0].Value)
}

func TestGormStoreUsesConfiguredTable(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithNamedTranslationsTable("app_overrides"))
	store, err := NewGormStore(db, "app_overrides")
	require.NoError(t, err)
	require.Equal(t, "app_overrides", store.Table())

	ctx := context.Background()
	owner := Owner{Type: "posts", ID: 1}
	require.NoError(t, store.SaveBatch(ctx, owner, []models.Translation{override("fr_FR", "name", "nom")}))

	var count int64
	require.NoError(t, db.Table("app_overrides").Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.False(t, db.Migrator().HasTable(models.DefaultTranslationTable))
}

func TestGormStoreRejectsInvalidRecords(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()
	owner := Owner{Type: "posts", ID: 1}

	err := store.SaveBatch(ctx, owner, []models.Translation{
		override("fr_FR", "name", "ok"),
		override("fr_FR_x", "name", "locale too wide"),
		override("fr_FR", "", "missing key"),
	})
	require.ErrorIs(t, err, ErrInvalidRecord)

	var fields validator.FieldErrors
	require.True(t, errors.As(err, &fields))
	require.Contains(t, err.Error(), "record 1")
	require.Contains(t, err.Error(), "record 2")

	rows, err := store.FetchAll(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, rows, "a rejected batch must not be partially written")
}

func TestGormStoreTrimsBeforeValidating(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()
	owner := Owner{Type: "posts", ID: 1}

	err := store.SaveBatch(ctx, owner, []models.Translation{override("fr_FR", "   ", "blank key")})
	require.ErrorIs(t, err, ErrInvalidRecord)

	var fields validator.FieldErrors
	require.True(t, errors.As(err, &fields))
	require.True(t, fields.Has("key"))

	records := []models.Translation{override("fr_FR ", " name ", "nom")}
	require.NoError(t, store.SaveBatch(ctx, owner, records))
	require.Equal(t, "fr_FR", records[0].Locale)
	require.Equal(t, "name", records[0].Key)

	rows, err := store.FetchForLocale(ctx, owner, "fr_FR")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "name", rows[0].Key)
}

func TestGormStoreRejectsInvalidOwner(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	_, err := store.FetchAll(ctx, Owner{Type: "posts"})
	require.ErrorIs(t, err, ErrInvalidOwner)

	_, err = store.FetchForLocale(ctx, Owner{ID: 1}, "fr_FR")
	require.ErrorIs(t, err, ErrInvalidOwner)

	err = store.SaveBatch(ctx, Owner{}, []models.Translation{override("fr_FR", "name", "nom")})
	require.ErrorIs(t, err, ErrInvalidOwner)
}

func TestGormStoreWrapsStorageFailures(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithTranslationsTable())
	store, err := NewGormStore(db, "")
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	before := promtestutil.ToFloat64(metrics.StoreQueries.WithLabelValues("fetch_locale", "error"))

	owner := Owner{Type: "posts", ID: 1}
	_, err = store.FetchForLocale(context.Background(), owner, "fr_FR")
	require.ErrorIs(t, err, ErrPersistence)
	require.Contains(t, err.Error(), "posts#1")

	after := promtestutil.ToFloat64(metrics.StoreQueries.WithLabelValues("fetch_locale", "error"))
	require.Equal(t, before+1, after)

	err = store.SaveBatch(context.Background(), owner, []models.Translation{override("fr_FR", "name", "nom")})
	require.ErrorIs(t, err, ErrPersistence)
}

func TestGormStoreSoftDeleteAndPurge(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()
	owner := Owner{Type: "posts", ID: 1}

	require.NoError(t, store.SaveBatch(ctx, owner, []models.Translation{
		override("fr_FR", "name", "nom"),
		override("fr_FR", "body", "corps"),
	}))

	removed, err := store.SoftDelete(ctx, owner, "fr_FR", "name")
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	removed, err = store.SoftDelete(ctx, owner, "fr_FR", "name")
	require.NoError(t, err)
	require.Zero(t, removed)

	purged, err := store.PurgeDeleted(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, purged)

	purged, err = store.PurgeDeleted(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)

	var total int64
	require.NoError(t, store.query(ctx).Unscoped().Count(&total).Error)
	require.Equal(t, int64(1), total)
}

func TestNewGormStoreRequiresDB(t *testing.T) {
	_, err := NewGormStore(nil, "")
	require.Error(t, err)
}
