package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/cesargomez89/hummingbird/internal/app"
	"github.com/cesargomez89/hummingbird/internal/config"
	"github.com/cesargomez89/hummingbird/internal/device"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	httpapp "github.com/cesargomez89/hummingbird/internal/http"
	"github.com/cesargomez89/hummingbird/internal/library"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/media"
	"github.com/cesargomez89/hummingbird/internal/playback"
	"github.com/cesargomez89/hummingbird/internal/store"
	"github.com/cesargomez89/hummingbird/internal/tags"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hummingbird",
	Short: "Hummingbird plays your local music library over an HTTP API.",
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hummingbird version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("hummingbird " + version)
	},
}

func main() {
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	// Catalog store
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to open catalog", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	bus := events.NewBus()

	// Library index. A failed first load is not fatal: the player comes
	// up with an empty snapshot and a reload or watcher event fills it.
	index := library.NewIndex(db, bus, domain.ViewMode(cfg.LibraryView), appLogger)
	if err := index.Load(); err != nil {
		appLogger.Warn("Initial library load failed", "error", err)
	} else {
		appLogger.Info("Library loaded", "entries", index.Len(), "view", index.View())
	}

	var watcher *library.Watcher
	if cfg.WatchLibrary {
		watcher, err = library.NewWatcher(index, cfg.DBPath, appLogger)
		if err != nil {
			appLogger.Warn("Catalog watcher unavailable", "error", err)
		}
	}

	// Playback engine on the real decoder registry and speaker.
	engine := playback.New(playback.Options{
		Provider:          media.NewRegistry(cfg.SampleRate),
		Output:            device.NewSpeaker(),
		Bus:               bus,
		Logger:            appLogger,
		SampleRate:        cfg.SampleRate,
		BufferDur:         cfg.BufferDur(),
		StartBufferDur:    cfg.StartBufferDur(),
		PrefetchLookahead: cfg.PrefetchLookahead(),
		PositionInterval:  cfg.PositionInterval(),
		PrevRestartAfter:  cfg.PrevRestartAfter(),
	})
	if err := engine.Start(); err != nil {
		appLogger.Error("Failed to start playback engine", "error", err)
		os.Exit(1)
	}

	// Persisted state comes back before the keeper starts recording, so
	// the restore itself is not written straight back out.
	keeper := app.NewStateKeeper(store.NewSettingsRepo(db), engine, index, bus, appLogger)
	keeper.Restore()
	keeper.Start()

	enricher := tags.NewEnricher(bus, appLogger)
	enricher.Start()

	queueService := app.NewQueueService(index, db, engine, appLogger)
	exporter := app.NewPlaylistExporter(db, appLogger)
	handler := httpapp.NewHandler(engine, index, db, queueService, exporter, enricher, bus, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: stop taking requests, then unwind the workers
	// before the store closes under them.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shut down", "error", err)
	}

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			appLogger.Warn("Watcher close failed", "error", err)
		}
	}
	enricher.Stop()
	keeper.Stop()
	engine.Close()
	bus.Close()
	if err := db.Close(); err != nil {
		appLogger.Warn("Store close failed", "error", err)
	}

	appLogger.Info("Server exiting")
}
