// Package preferences persists the studio's display settings.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"imagination/internal/domain"
	"imagination/internal/storage"
)

// ThemeKey is the storage key holding the theme flag.
const ThemeKey = "preferences/theme"

// ColorSchemeHint is the client hint header consulted when no theme has been
// stored yet.
const ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

// Store is the subset of storage.FileStore used for preferences.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Themes holds the persisted theme flag. The zero stored value means the user
// never chose and the client hint decides.
type Themes struct {
	store Store

	mu     sync.RWMutex
	stored domain.Theme
}

// LoadThemes reads the stored flag, if any. An unreadable or corrupt value is
// treated as unset.
func LoadThemes(ctx context.Context, store Store) (*Themes, error) {
	if store == nil {
		return nil, errors.New("preferences: store is required")
	}
	t := &Themes{store: store}
	data, err := store.Read(ctx, ThemeKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return t, nil
	case err != nil:
		return nil, fmt.Errorf("preferences: load theme: %w", err)
	}
	if theme, perr := domain.ParseTheme(string(data)); perr == nil {
		t.stored = theme
	}
	return t, nil
}

// Resolve returns the stored theme, falling back to the client hint value and
// then to light.
func (t *Themes) Resolve(hint string) domain.Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolveLocked(hint)
}

func (t *Themes) resolveLocked(hint string) domain.Theme {
	if t.stored != "" {
		return t.stored
	}
	if strings.EqualFold(strings.Trim(strings.TrimSpace(hint), `"`), string(domain.ThemeDark)) {
		return domain.ThemeDark
	}
	return domain.ThemeLight
}

// Stored reports the persisted theme and whether one exists.
func (t *Themes) Stored() (domain.Theme, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stored, t.stored != ""
}

// Set persists theme.
func (t *Themes) Set(ctx context.Context, theme domain.Theme) error {
	if _, err := domain.ParseTheme(string(theme)); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked(ctx, theme)
}

// Toggle flips the effective theme and persists the result. Concurrent
// toggles are serialized so none is lost.
func (t *Themes) Toggle(ctx context.Context, hint string) (domain.Theme, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.resolveLocked(hint).Toggle()
	if err := t.saveLocked(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

func (t *Themes) saveLocked(ctx context.Context, theme domain.Theme) error {
	if _, err := t.store.Write(ctx, ThemeKey, []byte(theme)); err != nil {
		return fmt.Errorf("preferences: save theme: %w", err)
	}
	t.stored = theme
	return nil
}
