package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"cityeats/internal/api"
	"cityeats/internal/config"
	"cityeats/internal/domain"
	"cityeats/internal/eventbus"
	"cityeats/internal/history"
	"cityeats/internal/location"
	"cityeats/internal/logging"
	"cityeats/internal/storage"
	"cityeats/internal/telemetry"
	"cityeats/internal/theme"
	"cityeats/internal/ui"
	"cityeats/internal/ui/services/search"
	"cityeats/internal/ui/services/suggestions"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	flag.StringVar(&configPath, "c", "", "Path to config file (shorthand)")
	flag.Parse()

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Could not read .env: %v\n", err)
	}

	cfg, usedPath, err := loadConfig(config.NewConfigService(), configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Set up logging; the TUI owns stdout
	logWriter, closeLog := logging.OpenFile(cfg.Log.File)
	defer closeLog()
	logger := logging.New(logWriter, logging.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level})
	slog.SetDefault(logger)
	logger.Info("starting",
		slog.String("config", usedPath),
		slog.String("base_url", cfg.API.BaseURL),
		slog.String("state", cfg.Storage.Path))

	shutdownTracing := telemetry.InitTracing(logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	bus := eventbus.New(logger)
	defer bus.Close()

	audit := telemetry.NewAudit(logger)
	defer audit.Attach(bus)()

	store := storage.NewFileStore(cfg.Storage.Path)
	recent := history.NewStore(history.NewKVRepository(store), cfg.Search.HistoryLimit, logger)
	recent.Load()
	prefs := theme.Load(store, bus, logger)

	client := api.New(api.Options{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout.Std(),
		SuggestionCacheTTL: cfg.API.SuggestionCacheTTL.Std(),
		Logger:             logger,
	})

	svc := search.NewService(search.Deps{
		Suggestions: suggestions.NewService(client, suggestions.Options{
			Debounce:  cfg.Search.Debounce.Std(),
			MinLength: cfg.Search.MinQueryLength,
			Timeout:   cfg.API.Timeout.Std(),
			Logger:    logger,
		}),
		Insights: client,
		Detector: newDetector(cfg, logger),
		History:  recent,
		Trending: cfg.Search.Trending,
		Bus:      bus,
		Timeout:  cfg.API.Timeout.Std(),
		Logger:   logger,
	})

	model := ui.NewModel(svc, ui.Options{
		Theme:       prefs,
		Logger:      logger,
		ReadyMarker: os.Getenv("CITYEATS_E2E_TEST") == "1",
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	// Forward domain events the UI cares about
	defer ui.ForwardEvents(bus, p.Send, domain.EventThemeChanged, domain.EventHistoryChanged)()

	if _, err := p.Run(); err != nil {
		logger.Error("error running program", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	audit.LogSummary()
	logger.Info("exited normally")
}

// loadConfig reads the config from path, or the default location when path is empty,
// and reports which file it used. A missing file is created with defaults.
func loadConfig(svc config.ConfigService, path string) (*config.Config, string, error) {
	if path == "" {
		cfg, err := svc.Load()
		return cfg, svc.Path(), err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := config.DefaultConfig()
		if err := svc.SaveToPath(cfg, path); err != nil {
			return nil, path, err
		}
		config.ApplyEnv(cfg)
		return cfg, path, nil
	}
	cfg, err := svc.LoadFromPath(path)
	return cfg, path, err
}

// newDetector picks the coordinate source: fixed coordinates, then IP lookup.
// With neither configured the platform has no location capability.
func newDetector(cfg *config.Config, logger *slog.Logger) *location.Detector {
	httpClient := &http.Client{Timeout: cfg.Location.Timeout.Std()}

	var provider location.Provider
	switch {
	case cfg.Location.Latitude != nil && cfg.Location.Longitude != nil:
		provider = location.StaticProvider{At: domain.Coordinates{
			Latitude:  *cfg.Location.Latitude,
			Longitude: *cfg.Location.Longitude,
		}}
	case cfg.Location.IPLookupURL != "":
		provider = location.IPProvider{URL: cfg.Location.IPLookupURL, Client: httpClient}
	}

	var geocoder location.ReverseGeocoder
	if cfg.Location.ReverseGeocodeURL != "" {
		geocoder = location.BigDataCloud{
			URL:      cfg.Location.ReverseGeocodeURL,
			Language: cfg.Location.Language,
			Client:   httpClient,
		}
	}

	return location.NewDetector(provider, geocoder, cfg.Location.Timeout.Std(), logger)
}
