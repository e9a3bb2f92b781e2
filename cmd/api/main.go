package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/config"
	"github.com/gabonshop/gabonshop-backend/internal/bootstrap"
	catalogrepo "github.com/gabonshop/gabonshop-backend/internal/catalog/repository"
	catalogservice "github.com/gabonshop/gabonshop-backend/internal/catalog/service"
	identityrepo "github.com/gabonshop/gabonshop-backend/internal/identity/repository"
	identityservice "github.com/gabonshop/gabonshop-backend/internal/identity/service"
	moderationrepo "github.com/gabonshop/gabonshop-backend/internal/moderation/repository"
	moderationservice "github.com/gabonshop/gabonshop-backend/internal/moderation/service"
)

const serviceName = "gabonshop-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := bootstrap.OpenGateway(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer gw.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		// Redis only speeds up warm starts and propagates changes; run without it.
		logger.Warn("redis unavailable, continuing without snapshot cache", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	validate := validator.New()

	var catalogOpts []catalogservice.Option
	var bus *catalogrepo.Invalidation
	if rdb != nil {
		bus = catalogrepo.NewInvalidation(rdb, uuid.NewString())
		catalogOpts = append(catalogOpts,
			catalogservice.WithSnapshotCache(catalogrepo.NewSnapshotCache(rdb, cfg.Catalog.SnapshotTTL)),
			catalogservice.WithPublisher(bus),
		)
	}
	catalog := catalogservice.NewStore(catalogrepo.NewProductRepository(gw.Documents), logger, catalogOpts...)
	if err := catalog.Init(ctx); err != nil {
		logger.Error("initial catalog load failed, serving what is cached", zap.Error(err))
	}

	if bus != nil {
		if err := bus.Listen(ctx, func(ev catalogrepo.Event) { catalog.HandleEvent(ctx, ev) }); err != nil {
			logger.Warn("catalog events unavailable", zap.Error(err))
		}
	}

	refresher := catalogservice.NewRefresher(catalog, cfg.Catalog.RefreshSpec, logger)
	if err := refresher.Start(); err != nil {
		return err
	}
	defer refresher.Stop()

	profiles := identityrepo.NewProfileRepository(gw.Documents)
	accounts := identityservice.NewAccounts(gw.Auth, profiles, validate, logger)
	workflow := moderationservice.NewWorkflow(moderationrepo.NewLogRepository(gw.Documents), catalog, profiles, logger)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Backend:        gw.Backend,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         logger,
		Validate:       validate,
		Redis:          rdb,
		Catalog:        catalog,
		Accounts:       accounts,
		Moderation:     workflow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("gateway", gw.Backend),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
