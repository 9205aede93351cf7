package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"youbuidl/internal/chain"
	"youbuidl/internal/donation"
	"youbuidl/internal/http/handlers"
	"youbuidl/internal/http/httpapi"
	"youbuidl/internal/infra"
	"youbuidl/internal/infra/geoip"
	"youbuidl/internal/journal"
	"youbuidl/internal/orbis"
	"youbuidl/internal/points"
	"youbuidl/internal/postgen"
	"youbuidl/internal/wallet"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := orbis.NewClient(orbis.Options{
		BaseURL: cfg.OrbisBaseURL,
		APIKey:  cfg.OrbisAPIKey,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build content store client")
	}

	session, err := wallet.NewRPCSession(cfg.RPCEndpoints, cfg.TreasuryKey, cfg.Confirmations, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build wallet session")
	}

	registry := chain.NewRegistry()
	executor := donation.NewExecutor(registry, logger)
	recorder := donation.NewRecorder(store, registry, logger)

	var generator handlers.PostGenerator
	if cfg.OpenAIAPIKey != "" {
		gen, err := postgen.NewGenerator(postgen.Options{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build post generator")
		}
		generator = gen
	}

	var countries geoip.CountryResolver
	if resolver, err := geoip.Open(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		countries = resolver
	}

	app := &handlers.App{
		Registry:   registry,
		Dialogs:    donation.NewDialogs(registry, executor, recorder, session, logger),
		Ledger:     donation.NewLedger(store, donation.DefaultRates(), logger),
		Feed:       store,
		Points:     points.NewAwarder(store, logger),
		Generator:  generator,
		Journal:    journal.New(infra.NewSQLRunner(dbpool, logger), logger),
		Logger:     logger,
		AppContext: cfg.AppContext,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimitPerMin,
		Countries:      countries,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
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
