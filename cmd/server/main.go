package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/kmbaye/pricetracker/internal/auth"
	"github.com/kmbaye/pricetracker/internal/config"
	"github.com/kmbaye/pricetracker/internal/repository/mongodb"
	"github.com/kmbaye/pricetracker/internal/scheduler"
	"github.com/kmbaye/pricetracker/internal/server/handlers"
	"github.com/kmbaye/pricetracker/internal/server/router"
	catalogsvc "github.com/kmbaye/pricetracker/internal/service/catalog"
	pricingsvc "github.com/kmbaye/pricetracker/internal/service/pricing"
	userssvc "github.com/kmbaye/pricetracker/internal/service/users"
	"github.com/kmbaye/pricetracker/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Env))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	catalogSvc := catalogsvc.NewService(repo, baseLogger.Named("svc.catalog"))
	pricingSvc := pricingsvc.NewService(repo, baseLogger.Named("svc.pricing"))
	usersSvc := userssvc.NewService(repo, baseLogger.Named("svc.users"))

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		baseLogger.Fatal("failed to init token verifier", zap.Error(err))
	}

	catalogHandler := handlers.NewCatalogHandler(catalogSvc, baseLogger.Named("handlers.catalog"))
	pricingHandler := handlers.NewPricingHandler(pricingSvc, baseLogger.Named("handlers.pricing"))
	usersHandler := handlers.NewUsersHandler(usersSvc, baseLogger.Named("handlers.users"))
	engine := router.New(
		catalogHandler,
		pricingHandler,
		usersHandler,
		auth.Middleware(verifier, baseLogger.Named("auth")),
		baseLogger.Named("router"),
	)

	sched := scheduler.NewScheduler(cfg.Digest, repo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
