package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"prokat/internal/api"
	"prokat/internal/cache"
	"prokat/internal/config"
	"prokat/internal/database"
	"prokat/internal/events"
	"prokat/internal/metrics"
	"prokat/internal/models"
	"prokat/internal/pricing"
	"prokat/internal/selection"
	"prokat/internal/service"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("PROKAT_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil && cfg.App.LogLevel != "" {
		logger = logger.Level(level)
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go database.NewBackupService(db, cfg.Backup, &logger).Start(ctx)

	var rangeCache *cache.RangeCache
	if cfg.Redis.Address != "" && cfg.CacheTTL() > 0 {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		rangeCache = cache.NewRangeCache(rdb, cfg.CacheTTL())
	}

	var svcCache service.RangeCache
	if rangeCache.Enabled() {
		svcCache = rangeCache
	}
	svc := service.NewRentalService(db, svcCache, events.NewEventBus(), selection.NewStore(cfg.SessionTimeout()), service.Options{
		HorizonDays:           cfg.HorizonDays(),
		MinLeadDays:           cfg.MinLeadDays(),
		ReturnHour:            cfg.ReturnHour(),
		EarlyReturnHour:       cfg.EarlyReturnHour(),
		DiscountThresholdDays: cfg.DiscountThresholdDays(),
		Location:              cfg.Location(),
	}, &logger)

	err = config.WatchCatalog(ctx, cfg.Catalog.Path, cfg.CatalogReloadInterval(), &logger, func(catalog *config.CatalogConfig) {
		if err := svc.SyncProducts(ctx, catalogProducts(catalog)); err != nil {
			logger.Error().Err(err).Msg("catalog sync failed")
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}

	go svc.RunJanitor(ctx, time.Minute)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if !cfg.API.Enabled {
		logger.Info().Msg("API disabled; running background services only")
		<-ctx.Done()
		return
	}

	srv := api.NewHTTPServer(api.Options{
		Port:           cfg.API.Port,
		APIKeys:        cfg.API.APIKeys,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
	}, svc, &logger, db.Ping, rangeCache.Ping)

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error().Err(err).Msg("API shutdown error")
		}
	}()

	logger.Info().Str("app", cfg.App.Name).Msg("prokat started")
	if err := srv.Start(); err != nil {
		logger.Error().Err(err).Msg("API server error")
	}
}

func catalogProducts(catalog *config.CatalogConfig) []models.Product {
	products := make([]models.Product, 0, len(catalog.Products))
	for _, p := range catalog.Products {
		d := p.Discount()
		products = append(products, models.Product{
			ID:            p.ID,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			BasePrice:     pricing.FromFloat(p.BasePrice),
			DiscountType:  d.Type,
			DiscountValue: d.Value,
			IsActive:      p.IsActive,
		})
	}
	return products
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
