package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/pedidos-api/internal/application/service"
	"github.com/sangkips/pedidos-api/internal/config"
	domainRepo "github.com/sangkips/pedidos-api/internal/domain/repository"
	"github.com/sangkips/pedidos-api/internal/infrastructure/cache"
	"github.com/sangkips/pedidos-api/internal/infrastructure/database"
	"github.com/sangkips/pedidos-api/internal/infrastructure/repository"
	"github.com/sangkips/pedidos-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pedidos-api/internal/infrastructure/storage"
	"github.com/sangkips/pedidos-api/internal/presentation/http/handler"
	"github.com/sangkips/pedidos-api/internal/presentation/http/routes"
	"github.com/sangkips/pedidos-api/pkg/logger"
	"github.com/sangkips/pedidos-api/pkg/metrics"
	"github.com/sangkips/pedidos-api/pkg/orderview"
	"github.com/sangkips/pedidos-api/pkg/utils"
)

type repositories struct {
	orders      domainRepo.OrderRepository
	summaries   domainRepo.SummaryRepository
	users       domainRepo.UserRepository
	idempotency domainRepo.IdempotencyRepository
}

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		_ = zlog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				zlog.Warn("close failed", zap.Error(err))
			}
		}
	}()

	repos, closeDB, err := openRepositories(cfg, zlog)
	if err != nil {
		return err
	}
	if closeDB != nil {
		closers = append(closers, closeDB)
	}

	viewCache, closeCache := openViewCache(cfg, zlog)
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	archive, err := openArchive(cfg)
	if err != nil {
		return err
	}

	m := metrics.New("pedidos")
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize services
	authService := service.NewAuthService(repos.users, jwtManager, zlog)
	created, err := authService.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	if created {
		zlog.Warn("default admin account created; change its password", zap.String("username", cfg.Admin.Username))
	}

	orderService := service.NewOrderService(repos.orders, zlog)
	summaryService := service.NewSummaryService(repos.summaries, m, zlog)
	dashboardService := service.NewDashboardService(orderService, summaryService, viewCache, cfg.Cache.TTL, receiptSettings(cfg, zlog), m, zlog)
	exportService := service.NewExportService(summaryService, archive, m, zlog)

	router := routes.Setup(&routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Order:     handler.NewOrderHandler(orderService),
		Summary:   handler.NewSummaryHandler(summaryService, exportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repos.idempotency,
		Log:             zlog,
		Metrics:         m,
	})
	defer router.Close()

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("cache_driver", cfg.Cache.Driver),
			zap.String("storage_driver", archive.Driver()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		zlog.Info("shutting down", zap.String("signal", s.String()))
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	zlog.Info("server stopped")
	return nil
}

func openRepositories(cfg *config.Config, zlog *zap.Logger) (repositories, func() error, error) {
	if cfg.Database.Driver == "memory" {
		zlog.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			orders:      store.Orders(),
			summaries:   store.Summaries(),
			users:       store.Users(),
			idempotency: store.Idempotency(),
		}, nil, nil
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		return repositories{}, nil, err
	}
	if err := database.AutoMigrate(db, zlog); err != nil {
		_ = database.Close(db)
		return repositories{}, nil, err
	}
	return repositories{
		orders:      repository.NewOrderRepository(db),
		summaries:   repository.NewSummaryRepository(db),
		users:       repository.NewUserRepository(db),
		idempotency: repository.NewIdempotencyRepository(db),
	}, func() error { return database.Close(db) }, nil
}

// openViewCache falls back to no caching when redis is unreachable
func openViewCache(cfg *config.Config, zlog *zap.Logger) (cache.ViewCache, func() error) {
	switch cfg.Cache.Driver {
	case "redis":
		rc := cache.NewRedisViewCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			zlog.Warn("redis unavailable, view cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rc.Close()
			return cache.NoopViewCache{}, nil
		}
		return rc, rc.Close
	case "lru":
		lru, err := cache.NewLRUViewCache(cfg.Cache.Size)
		if err != nil {
			zlog.Warn("lru cache disabled", zap.Error(err))
			return cache.NoopViewCache{}, nil
		}
		return lru, nil
	default:
		return cache.NoopViewCache{}, nil
	}
}

func openArchive(cfg *config.Config) (storage.ArchiveStore, error) {
	if cfg.Storage.Driver == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
			PresignExpiry:   cfg.S3.PresignExpiry,
		})
	}
	return storage.NewFSStore(cfg.Storage.Path)
}

func receiptSettings(cfg *config.Config, zlog *zap.Logger) service.ReceiptSettings {
	f := orderview.DefaultReceiptFormatter()
	if cfg.Receipt.Title != "" {
		f.Title = cfg.Receipt.Title
	}
	if len(cfg.Receipt.Contact) > 0 {
		f.Contact = cfg.Receipt.Contact
	}
	if len(cfg.Receipt.Payment) > 0 {
		f.Payment = cfg.Receipt.Payment
	}
	if cfg.Receipt.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Receipt.Timezone)
		if err != nil {
			zlog.Warn("unknown receipt timezone, using local time", zap.String("timezone", cfg.Receipt.Timezone), zap.Error(err))
		} else {
			f.Location = loc
		}
	}
	return service.ReceiptSettings{
		Formatter:    f,
		ShareBaseURL: cfg.Receipt.ShareBaseURL,
		SharePhone:   cfg.Receipt.SharePhone,
	}
}
