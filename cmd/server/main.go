package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"financer/internal/advisor"
	"financer/internal/cache"
	"financer/internal/config"
	"financer/internal/handlers/backup"
	"financer/internal/handlers/chat"
	"financer/internal/handlers/expenses"
	"financer/internal/handlers/fd"
	"financer/internal/handlers/portfolio"
	"financer/internal/handlers/stocks"
	api "financer/internal/http"
	"financer/internal/nse"
	"financer/internal/services/storage"
	"financer/internal/version"
)

var (
	cfg   *config.Config
	store *storage.Store
)

func main() {
	cfg = config.Load()
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithFields(logrus.Fields{
		"addr":     cfg.ListenAddr,
		"data_dir": cfg.DataDirectory,
		"version":  version.Get().Version,
	}).Info("starting financer")

	var err error
	store, err = storage.New(cfg.DataDirectory)
	if err != nil {
		logrus.WithError(err).Fatal("could not open data directory")
	}

	if store.IsEncrypted() && !store.IsUnlocked() {
		pass := os.Getenv("FINANCER_PASSPHRASE")
		if pass == "" {
			logrus.Fatal("data directory is encrypted; set FINANCER_PASSPHRASE or unlock with financer-vault")
		}
		if err := store.Unlock(pass); err != nil {
			logrus.WithError(err).Fatal("could not unlock data directory")
		}
	}

	if err := SetupDependencies(cfg); err != nil {
		logrus.WithError(err).Fatal("could not set up dependencies")
	}

	// Keep the market cache warm so the first dashboard hit after expiry
	// doesn't pay the upstream round trip.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
		stocks.WarmCache(context.Background())
	}); err != nil {
		logrus.WithError(err).Warn("invalid refresh schedule, market cache fills on demand only")
	} else {
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := SetupRouter()
	logrus.WithField("addr", cfg.ListenAddr).Info("server listening")
	logrus.Fatal(http.ListenAndServe(cfg.ListenAddr, router))
}

// SetupDependencies initializes the handler packages. The storage global must
// be set before calling.
func SetupDependencies(cfg *config.Config) error {
	fd.Initialize(store)
	portfolio.Initialize(store)
	expenses.Initialize(store)
	backup.Initialize(store)
	stocks.Initialize(nse.NewClient(cfg.MarketBaseURL, cfg.MarketTimeout), cache.New(), cfg)

	if cfg.GeminiAPIKey == "" {
		logrus.Info("no Gemini API key configured, assistant disabled")
		chat.Initialize(nil)
		return nil
	}
	adv, err := advisor.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	chat.Initialize(adv)
	return nil
}

// SetupRouter builds the chi router with all routes registered.
func SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	fd.RegisterRoutes(r)
	portfolio.RegisterRoutes(r)
	expenses.RegisterRoutes(r)
	stocks.RegisterRoutes(r)
	chat.RegisterRoutes(r)
	backup.RegisterRoutes(r)

	r.Get("/api/health", handleHealth)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   version.Get(),
		"encrypted": store.IsEncrypted(),
	})
}
