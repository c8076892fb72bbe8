package theme

import (
	"log/slog"

	"cityeats/internal/domain"
	"cityeats/internal/eventbus"
	"cityeats/internal/storage"
)

// Preference is the persisted display theme.
// It is read once from storage at startup and written back on every change.
type Preference struct {
	kv      storage.KeyValueStore
	bus     eventbus.EventBus
	current domain.Theme
	logger  *slog.Logger
}

// Load initialises the preference from kv; anything other than "dark" means light
func Load(kv storage.KeyValueStore, bus eventbus.EventBus, logger *slog.Logger) *Preference {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Preference{
		kv:      kv,
		bus:     bus,
		current: domain.ThemeLight,
		logger:  logger.With(slog.String("component", "theme")),
	}

	v, ok, err := kv.Get(storage.KeyTheme)
	if err != nil {
		p.logger.Warn("could not read theme, using light", slog.Any("error", err))
		return p
	}
	if ok && domain.Theme(v) == domain.ThemeDark {
		p.current = domain.ThemeDark
	}
	return p
}

// Current returns the active theme
func (p *Preference) Current() domain.Theme {
	return p.current
}

// Dark reports whether the dark theme is active
func (p *Preference) Dark() bool {
	return p.current == domain.ThemeDark
}

// Toggle flips the theme, persists it and returns the new value
func (p *Preference) Toggle() domain.Theme {
	if p.current == domain.ThemeDark {
		p.current = domain.ThemeLight
	} else {
		p.current = domain.ThemeDark
	}

	if err := p.kv.Set(storage.KeyTheme, string(p.current)); err != nil {
		p.logger.Error("failed to persist theme", slog.Any("error", err))
	}
	if p.bus != nil {
		p.bus.Publish(domain.ThemeChangedEvent{Theme: p.current})
	}
	return p.current
}
