package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mandalfund/internal/access"
	"mandalfund/internal/adapter/repo"
	"mandalfund/internal/auth"
	"mandalfund/internal/http/handlers"
	"mandalfund/internal/http/httpapi"
	"mandalfund/internal/infra"
	"mandalfund/internal/infra/geoip"
	"mandalfund/internal/middleware"
	"mandalfund/internal/notify/email"
	"mandalfund/internal/obs"
	"mandalfund/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	// session store: redis when configured, in-memory otherwise
	var sessions auth.Store
	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if redisClient != nil {
		sessions = auth.NewRedisStore(redisClient)
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("REDIS_URL not set, sessions are in-memory and lost on restart")
		sessions = auth.NewMemoryStore()
	}
	authn := auth.NewAuthenticator(cfg.SessionSecret, sessions, cfg.SessionTTL)

	files, err := storage.NewFileStore(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init file storage")
	}

	var mail email.Sender
	if cfg.ResendAPIKey != "" {
		mail = email.NewResendSender(cfg.ResendAPIKey, cfg.InviteFromAddress, logger)
	} else {
		mail = email.NewNoopSender(logger)
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	metrics := obs.New()
	roles := repo.NewRoleRepository(dbpool)

	app := &handlers.App{
		Log: logger,
		// development runs on plain HTTP; everywhere else the session
		// cookie is HTTPS-only
		SecureCookies: cfg.AppEnv != "development",

		Auth:        authn,
		Users:       repo.NewUserRepository(dbpool),
		Roles:       roles,
		Donations:   repo.NewDonationRepository(dbpool),
		Expenses:    repo.NewExpenseRepository(dbpool),
		Sponsors:    repo.NewSponsorRepository(dbpool),
		Allocations: repo.NewAllocationRepository(dbpool),
		Mandals:     repo.NewMandalRepository(dbpool),
		Files:       files,
		Mail:        mail,
		Metrics:     metrics,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Gate:           access.Default(),
		Metrics:        metrics,
		Log:            logger,
		Locale:         cfg.DefaultLocale,
		CountryLookup:  countryLookup,
		CORSOrigins:    cfg.CORSOrigins,
		LoginRateLimit: cfg.LoginRatePerMin,
		StaticDir:      files.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
