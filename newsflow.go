package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/matrix-org/dugong"
	"github.com/matrix-org/util"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	_ "github.com/newsflow-bot/newsflow/adapters/console"
	"github.com/newsflow-bot/newsflow/api/handlers"
	"github.com/newsflow-bot/newsflow/cache"
	"github.com/newsflow-bot/newsflow/config"
	"github.com/newsflow-bot/newsflow/database"
	"github.com/newsflow-bot/newsflow/dispatch"
	"github.com/newsflow-bot/newsflow/feeds"
	"github.com/newsflow-bot/newsflow/fetcher"
	"github.com/newsflow-bot/newsflow/scheduler"
	"github.com/newsflow-bot/newsflow/subscriptions"
	"github.com/newsflow-bot/newsflow/translate"
	"github.com/newsflow-bot/newsflow/types"
)

func setupLogging(cfg *config.Settings) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if cfg.LogDir != "" {
		log.AddHook(dugong.NewFSHook(
			filepath.Join(cfg.LogDir, "info.log"),
			filepath.Join(cfg.LogDir, "warn.log"),
			filepath.Join(cfg.LogDir, "error.log"),
		))
	}
}

func setupCache(cfg *config.Settings) cache.Cache {
	if cfg.CacheBackend == "redis" {
		c, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Panic("Failed to connect to Redis")
		}
		log.Info("Using Redis cache")
		return c
	}
	log.Info("Using in-memory cache")
	return cache.NewMemoryCache(0)
}

func setupAPI(cfg *config.Settings, db database.Storer, subService *subscriptions.Service) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", util.MakeJSONAPI(&handlers.Health{}))
	mux.Handle("/stats", util.MakeJSONAPI(&handlers.Stats{DB: db}))
	mux.Handle("/admin/subscribe", util.MakeJSONAPI(&handlers.Subscribe{Subscriptions: subService}))
	mux.Handle("/admin/unsubscribe", util.MakeJSONAPI(&handlers.Unsubscribe{Subscriptions: subService}))
	mux.Handle("/admin/subscriptions", util.MakeJSONAPI(&handlers.ListSubscriptions{Subscriptions: subService}))

	srv := &http.Server{Addr: cfg.BindAddress, Handler: mux}
	go func() {
		log.WithField("bind_address", cfg.BindAddress).Info("Admin API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Panic("Admin API failed")
		}
	}()
	return srv
}

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file. Defaults plus environment when empty.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	setupLogging(cfg)

	log.WithFields(log.Fields{
		"database_type":  cfg.DatabaseType,
		"fetch_interval": cfg.FetchInterval(),
		"cache_backend":  cfg.CacheBackend,
		"translation":    cfg.CanTranslate(),
	}).Info("NewsFlow starting")

	db, err := database.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Panic("Failed to open database")
	}
	defer db.Close()

	translationCache := setupCache(cfg)
	defer translationCache.Close()
	translator := translate.NewServiceFromConfig(cfg, translationCache)

	feedFetcher := fetcher.New(cfg.MaxConcurrentFetches)
	feedService := feeds.NewService(db, feedFetcher)
	subService := subscriptions.NewService(db, feedService, cfg.MaxFeedsPerChannel)
	dispatcher := dispatch.NewDispatcher(db, feedService, translator, cfg.FetchInterval(), -1)
	janitor := dispatch.NewJanitor(db, cfg.EntryRetention())

	for _, adapter := range types.Adapters() {
		if err := adapter.Start(); err != nil {
			log.WithError(err).WithField("platform", adapter.PlatformName()).Panic("Failed to start adapter")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New()
	sched.Add("dispatch", cfg.FetchInterval(), func() {
		if _, err := dispatcher.DispatchOnce(ctx); err != nil {
			log.WithError(err).Error("Dispatch cycle failed")
		}
	})
	sched.Add("cleanup", cfg.CleanupInterval(), func() {
		if _, _, err := janitor.CleanupOnce(); err != nil {
			log.WithError(err).Error("Cleanup failed")
		}
	})
	sched.Start()

	// Prime the pipeline instead of waiting a full interval.
	go func() {
		if _, err := dispatcher.DispatchOnce(ctx); err != nil {
			log.WithError(err).Error("Initial dispatch cycle failed")
		}
	}()

	var apiServer *http.Server
	if cfg.APIEnabled {
		apiServer = setupAPI(cfg, db, subService)
	}

	<-ctx.Done()
	log.Info("Shutting down")

	sched.Shutdown()
	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		apiServer.Shutdown(shutdownCtx)
		cancel()
	}
	for _, adapter := range types.Adapters() {
		if err := adapter.Stop(); err != nil {
			log.WithError(err).WithField("platform", adapter.PlatformName()).Warn("Failed to stop adapter")
		}
	}
	feedFetcher.Client.CloseIdleConnections()
	log.Info("Shutdown complete")
}
