package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lease-agent/config"
	httpLayer "lease-agent/http"
	"lease-agent/migrations"
	"lease-agent/repository"
	"lease-agent/scheduler"
	"lease-agent/service"
)

// app is the wired server with everything that must be released on exit.
type app struct {
	handler   http.Handler
	limiter   *httpLayer.RateLimiter
	scheduler *scheduler.Scheduler
	closers   []func() error
}

func (a *app) Close(logger *zap.Logger) {
	a.limiter.Stop()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("error releasing resource", zap.Error(err))
		}
	}
}

func newServeCommand(ctx context.Context, configPath *string) *cobra.Command {
	migrate := false
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if migrate {
				cfg.Storage.AutoMigrate = true
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid config")
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			a, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close(logger)

			return serve(ctx, cfg, a, logger)
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", false, "apply postgres migrations before serving")
	return c
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		for i := len(a.closers) - 1; i >= 0; i-- {
			_ = a.closers[i]()
		}
		return nil, err
	}

	store, err := openStore(ctx, cfg, a)
	if err != nil {
		return fail(err)
	}

	recorder, err := openRecorder(cfg)
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, recorder.Close)

	cache := openCache(ctx, cfg, logger, a)

	offerService := service.NewOfferService(store, cache, logger)
	carDealService := service.NewCarDealService(store, cache, offerService, logger)
	leaseService := service.NewLeaseService(recorder, logger)

	sched := scheduler.New(recorder, cfg.History.Retention, logger)
	if err := sched.Register(cfg.History.PruneCron); err != nil {
		return fail(err)
	}
	a.scheduler = sched

	a.limiter = httpLayer.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per)
	a.handler = httpLayer.NewRouter(httpLayer.Handlers{
		Lease:       httpLayer.NewLeaseHandler(leaseService),
		CarDeals:    httpLayer.NewCarDealHandler(carDealService),
		Offers:      httpLayer.NewOfferHandler(offerService),
		RateLimiter: a.limiter,
	})
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, a *app) (repository.Store, error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		return repository.NewMemoryStore(), nil
	}

	db, err := repository.OpenPostgres(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	if cfg.Storage.AutoMigrate {
		if err := migrations.Up(db.DB); err != nil {
			return nil, err
		}
		zap.L().Info("postgres migrations applied")
	}
	return repository.NewPostgresStore(db), nil
}

func openRecorder(cfg *config.Config) (repository.QuoteRecorder, error) {
	switch cfg.History.Driver {
	case config.HistoryMemory:
		return repository.NewQuoteRecorderMemory(), nil
	case config.HistoryNone:
		return repository.NewNoopQuoteRecorder(), nil
	}

	if dir := filepath.Dir(cfg.History.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create history directory")
		}
	}
	return repository.NewSQLiteQuoteRecorder(cfg.History.SQLitePath)
}

func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger, a *app) repository.CacheRepository {
	if cfg.Cache.Driver != config.CacheRedis {
		return repository.NewMockCache()
	}

	cache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL)
	a.closers = append(a.closers, cache.Close)
	// Redis caído no impide arrancar: el cache no es crítico
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("redis not reachable, overviews will be read from storage",
			zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
	}
	return cache
}

func serve(ctx context.Context, cfg *config.Config, a *app, logger *zap.Logger) error {
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	a.scheduler.Start()
	defer a.scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "start server")
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down server", zap.Error(ctx.Err()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}

	logger.Info("server exited")
	return nil
}
