package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	server "hotel_backoffice/internal/adapters/http_server"
	"hotel_backoffice/internal/adapters/observability"
	redisad "hotel_backoffice/internal/adapters/redis"
	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/shared"
	"hotel_backoffice/internal/storage/memstore"
	mysqlrepo "hotel_backoffice/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// set global logger (console in dev, JSON otherwise)
	observability.SetGlobal(observability.NewLogger(cfg.AppEnv), cfg.LogLevel)
	figure.NewFigure("HOTEL BACKOFFICE", "", true).Print()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
	log.Info().Msg("api stopped")
}

func run(ctx context.Context, cfg shared.Config) error {
	store, closeStore, dbStats, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var cache domain.Cache
	if cfg.CacheEnabled() {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			// reads fall through to the store until redis comes back
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		cache = rc
	}

	q := app.NewQueryService(store, cache, cfg.CacheTTL)
	c := app.NewCommandService(store, cache)
	health := app.NewHealthService(store, cfg.AppEnv)

	reg := observability.InitRegistry(append(observability.RuntimeCollectors(), dbStats...)...)
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c, Health: health})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.StorageDriver).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutCtx)
	}
	return httpSrv.Shutdown(shutCtx)
}

// openStore returns the configured store, a func releasing it and the pool collectors
// to register, if any.
func openStore(ctx context.Context, cfg shared.Config) (domain.Store, func(), []prometheus.Collector, error) {
	if cfg.StorageDriver == "memory" {
		s := memstore.New()
		s.SeedRoomTypes()
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		return s, func() {}, nil, nil
	}

	db, err := mysqlrepo.Open(ctx, mysqlrepo.Options{
		DSN:             cfg.MySQLDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		SlowThreshold:   cfg.DBSlowThreshold,
	}, log.Logger)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info().Msg("database connection ok")

	if cfg.DBAutoMigrate {
		if err := mysqlrepo.Migrate(ctx, db); err != nil {
			return nil, nil, nil, err
		}
		if err := mysqlrepo.SeedRoomTypes(ctx, db); err != nil {
			return nil, nil, nil, err
		}
		log.Info().Msg("schema migrated")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() { _ = sqlDB.Close() }
	stats := []prometheus.Collector{observability.DBStatsCollector(sqlDB, "hotels")}
	return mysqlrepo.New(db), closeFn, stats, nil
}
