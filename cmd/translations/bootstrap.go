package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/translatable/internal/app"
	"github.com/charlesng35/translatable/internal/app/maintenance"
	"github.com/charlesng35/translatable/internal/database"
	"github.com/charlesng35/translatable/internal/translatable"
	apperrors "github.com/charlesng35/translatable/pkg/errors"
)

// runtimeStack bundles the long-lived collaborators used by every action.
type runtimeStack struct {
	DB          *gorm.DB
	Table       string
	Store       *translatable.GormStore
	Translator  *translatable.Translator
	Cleaner     *maintenance.Cleaner
	Maintenance app.MaintenanceConfig
}

// storedOwner addresses an owner by reference only; native attributes are not loaded.
type storedOwner struct {
	translatable.Owner
}

func (o storedOwner) TranslatableType() string   { return o.Type }
func (o storedOwner) TranslatableID() uint64     { return o.ID }
func (storedOwner) Attribute(string) (any, bool) { return nil, false }

// bootstrapRuntime opens the database and wires the store and maintenance jobs.
func bootstrapRuntime(cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{
		Table:       cfg.Translations.TableName(),
		Maintenance: cfg.Maintenance,
	}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(log)
		}
	}()

	stack.DB, err = initialiseDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	stack.Store, err = translatable.NewGormStore(stack.DB, stack.Table)
	if err != nil {
		return nil, fmt.Errorf("initialise translation store: %w", err)
	}

	stack.Translator, err = translatable.NewTranslator(
		stack.Store,
		translatable.NewAmbientLocale(cfg.Translations.DefaultLocale),
	)
	if err != nil {
		return nil, fmt.Errorf("initialise translator: %w", err)
	}

	stack.Cleaner = maintenance.NewCleaner(
		[]maintenance.Purger{stack.Store},
		maintenance.WithSchedule(cfg.Maintenance.PurgeSchedule),
		maintenance.WithPurgeAfter(cfg.Maintenance.PurgeAfter),
	)

	success = true
	return stack, nil
}

// Migrate creates or updates the translations table.
func (s *runtimeStack) Migrate(log *zap.Logger) error {
	if err := database.MigrateTranslations(s.DB, s.Table); err != nil {
		return err
	}
	logAction(log, "migrate", zap.String("table", s.Table))
	return nil
}

// Rollback drops the translations table.
func (s *runtimeStack) Rollback(log *zap.Logger) error {
	if err := database.DropTranslations(s.DB, s.Table); err != nil {
		return err
	}
	logAction(log, "rollback", zap.String("table", s.Table))
	return nil
}

// Maintain runs the purge schedule until ctx is cancelled. It returns at once
// when maintenance is disabled.
func (s *runtimeStack) Maintain(ctx context.Context, log *zap.Logger) error {
	if !s.Maintenance.Enabled {
		log.Info("maintenance disabled; scheduler not started", zap.String("table", s.Table))
		return nil
	}
	if err := s.Cleaner.Start(); err != nil {
		return fmt.Errorf("start maintenance jobs: %w", err)
	}
	log.Info("maintenance scheduler running", zap.String("table", s.Table))

	<-ctx.Done()
	<-s.Cleaner.Stop().Done()
	log.Info("maintenance scheduler stopped")
	return nil
}

// List prints every live override of owner.
func (s *runtimeStack) List(ctx context.Context, owner translatable.Owner, out io.Writer) error {
	records, err := s.Store.FetchAll(ctx, owner)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLOCALE\tKEY\tVALUE")
	for _, record := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", record.ID, record.Locale, record.Key, record.Value)
	}
	return w.Flush()
}

// Resolve prints the override of each key for owner in the active locale.
// Without keys every attribute overridden in any locale is resolved.
func (s *runtimeStack) Resolve(ctx context.Context, owner translatable.Owner, keys []string, out io.Writer) error {
	wrapped, err := s.Translator.Wrap(storedOwner{Owner: owner})
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		keys, err = overriddenKeys(ctx, wrapped)
		if err != nil {
			return err
		}
	}

	locale := s.Translator.Locale(ctx)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tLOCALE\tVALUE")
	for _, key := range keys {
		value, found, err := wrapped.GetString(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", key, locale, value)
	}
	return w.Flush()
}

func overriddenKeys(ctx context.Context, wrapped *translatable.Translatable) ([]string, error) {
	records, err := wrapped.Translations(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	keys := make([]string, 0, len(records))
	for _, record := range records {
		if record.Key == translatable.RelationTranslation || record.Key == translatable.RelationTranslations {
			continue
		}
		if _, ok := seen[record.Key]; ok {
			continue
		}
		seen[record.Key] = struct{}{}
		keys = append(keys, record.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Shutdown releases resources held by the stack.
func (s *runtimeStack) Shutdown(log *zap.Logger) {
	if s == nil || s.DB == nil {
		return
	}
	if err := database.Close(s.DB); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
	s.DB = nil
}

func initialiseDatabase(cfg *app.Config, log *zap.Logger) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, apperrors.Wrap(err, "open database")
	}

	driver := dbCfg.Driver
	if strings.TrimSpace(driver) == "" {
		driver = "sqlite"
	}
	log.Info("database connected", zap.String("driver", driver))
	return db, nil
}
