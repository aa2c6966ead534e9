package translatable

import (
	"context"
	"strings"
	"sync"
)

// LocaleProvider reports the locale currently active in the surrounding application.
type LocaleProvider interface {
	Locale() string
}

// AmbientLocale is a process-wide, mutable current locale.
type AmbientLocale struct {
	mu     sync.RWMutex
	locale string
}

// NewAmbientLocale returns an AmbientLocale starting at initial.
func NewAmbientLocale(initial string) *AmbientLocale {
	return &AmbientLocale{locale: strings.TrimSpace(initial)}
}

// Locale returns the active locale.
func (a *AmbientLocale) Locale() string {
	if a == nil {
		return ""
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.locale
}

// SetLocale changes the active locale. Cached overrides are refreshed lazily on the next read.
func (a *AmbientLocale) SetLocale(locale string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.locale = strings.TrimSpace(locale)
}

type localeKey struct{}

// WithLocale scopes ctx to a locale; it takes precedence over the ambient provider.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ensuredContext(ctx), localeKey{}, strings.TrimSpace(locale))
}

// LocaleFromContext returns the locale attached with WithLocale.
func LocaleFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	locale, ok := ctx.Value(localeKey{}).(string)
	return locale, ok
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
