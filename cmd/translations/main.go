package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/charlesng35/translatable/internal/app"
	"github.com/charlesng35/translatable/internal/translatable"
	apperrors "github.com/charlesng35/translatable/pkg/errors"
	"github.com/charlesng35/translatable/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err with its application code and returns the exit status.
func reportError(w io.Writer, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	appErr := apperrors.FromError(err)
	fmt.Fprintf(w, "error [%s]: %v\n", appErr.Code, appErr)
	return 1
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("translations", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		configPath string
		action     string
		ownerType  string
		ownerID    uint64
		locale     string
		keys       string
	)
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")
	fs.StringVar(&action, "action", "migrate", "One of migrate, rollback, purge, maintain, list, resolve")
	fs.StringVar(&ownerType, "type", "", "Owner type for -action=list|resolve")
	fs.Uint64Var(&ownerID, "id", 0, "Owner id for -action=list|resolve")
	fs.StringVar(&locale, "locale", "", "Locale for -action=resolve (default translations.default_locale)")
	fs.StringVar(&keys, "key", "", "Comma separated attribute keys for -action=resolve (default every overridden key)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.LogLevel, cfg.LogEncoding); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	stack, err := bootstrapRuntime(cfg, log)
	if err != nil {
		return err
	}
	defer stack.Shutdown(log)

	switch strings.ToLower(strings.TrimSpace(action)) {
	case "migrate":
		return stack.Migrate(log)
	case "rollback":
		return stack.Rollback(log)
	case "purge":
		return stack.Cleaner.RunOnce(ctx)
	case "maintain":
		return stack.Maintain(ctx, log)
	case "list":
		return stack.List(ctx, translatable.Owner{Type: ownerType, ID: ownerID}, out)
	case "resolve":
		if strings.TrimSpace(locale) != "" {
			ctx = translatable.WithLocale(ctx, locale)
		}
		return stack.Resolve(ctx, translatable.Owner{Type: ownerType, ID: ownerID}, splitKeys(keys), out)
	default:
		return apperrors.NewBadRequest(fmt.Sprintf("unknown action %q", action))
	}
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrNotFound.WithMessage("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func splitKeys(raw string) []string {
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func logAction(log *zap.Logger, action string, fields ...zap.Field) {
	log.Info("action completed", append([]zap.Field{zap.String("action", action)}, fields...)...)
}
