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

	"github.com/gin-gonic/gin"
	"github.com/sustentai/ods-platform/internal/api/handlers"
	"github.com/sustentai/ods-platform/internal/api/middleware"
	"github.com/sustentai/ods-platform/internal/api/routes"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/internal/config/db"
	"github.com/sustentai/ods-platform/internal/cron"
	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/internal/logger"
	"github.com/sustentai/ods-platform/internal/notify"
	"github.com/sustentai/ods-platform/internal/repository"
	"github.com/sustentai/ods-platform/internal/textfilter"
	"go.uber.org/zap"
)

// @title ODS Projects API
// @version 1.0
// @description Municipal project registry with admin moderation and reviews.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	gdb, err := db.Open(cfg.DB)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}

	store, err := newStore(cfg)
	if err != nil {
		zl.Fatal("failed to open file storage", zap.Error(err))
	}

	sender, err := newSender(cfg, zl)
	if err != nil {
		zl.Fatal("failed to configure mail", zap.Error(err))
	}
	notifier, err := notify.New(sender, zl)
	if err != nil {
		zl.Fatal("failed to load mail templates", zap.Error(err))
	}

	filter, err := textfilter.New(cfg.ProfanityWordsFile)
	if err != nil {
		zl.Fatal("failed to load word list", zap.Error(err))
	}

	jwt := middleware.NewJWT(cfg.Auth)
	services, err := application.New(cfg, application.Deps{
		Repos:    repository.NewRepositories(gdb),
		Files:    filestore.NewRelocator(store, zl),
		Notifier: notifier,
		Filter:   filter,
		Tokens:   jwt,
		Log:      zl,
	})
	if err != nil {
		zl.Fatal("failed to build services", zap.Error(err))
	}

	uploads, err := handlers.NewUploader(cfg.Upload)
	if err != nil {
		zl.Fatal("failed to prepare uploads", zap.Error(err))
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	cron.StartTempSweep(sweepCtx, zl, cfg.Upload.TempDir, cfg.Upload.TempMaxAge)
	cron.StartAuditCleanup(sweepCtx, zl, services.Audit, cfg.AuditRetentionDays)

	gin.SetMode(gin.ReleaseMode)
	router := routes.NewRouter(routes.RouterDeps{
		Config:   cfg,
		Log:      zl,
		JWT:      jwt,
		Handlers: handlers.New(services, uploads),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
	notifier.Wait()
}

func newStore(cfg *config.Config) (filestore.Store, error) {
	if cfg.Upload.Driver == config.StorageDriverMinio {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return filestore.NewMinioStore(ctx, cfg.Minio)
	}
	return filestore.NewLocalStore(cfg.Upload.Root)
}

func newSender(cfg *config.Config, zl *zap.Logger) (notify.Sender, error) {
	if !cfg.SMTP.Enabled() {
		zl.Warn("SMTP not configured, emails are only logged")
		return notify.NewLogSender(zl), nil
	}
	return notify.NewSMTPSender(cfg.SMTP)
}
