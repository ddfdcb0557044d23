package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/herbalens/internal/application"
	appanalysis "github.com/bryanwahyu/herbalens/internal/application/analysis"
	"github.com/bryanwahyu/herbalens/internal/config"
	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/plants"
	"github.com/bryanwahyu/herbalens/internal/domain/upload"
	openaicl "github.com/bryanwahyu/herbalens/internal/infra/ai/openai"
	"github.com/bryanwahyu/herbalens/internal/infra/classifier/random"
	mysqlp "github.com/bryanwahyu/herbalens/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/herbalens/internal/infra/db/postgres"
	"github.com/bryanwahyu/herbalens/internal/infra/httpserver"
	"github.com/bryanwahyu/herbalens/internal/infra/storage"
	"github.com/bryanwahyu/herbalens/internal/middleware"
)

const (
	sweepInterval   = time.Minute
	limiterIdle     = 10 * time.Minute
	uploadURLPrefix = "/v1/uploads/"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkers := map[string]middleware.HealthChecker{}

	// catalog
	source, db, err := openCatalogSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}
	records, err := source.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	catalog, err := plants.NewCatalog(records)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.String("source", cfg.Catalog.Source), zap.Int("plants", catalog.Len()))

	// classifier
	var classifier domain.Classifier
	switch strings.ToLower(cfg.Analysis.Classifier) {
	case "openai":
		classifier = openaicl.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, catalog)
	default:
		if cfg.Analysis.Seed != 0 {
			classifier = random.NewSeeded(catalog, cfg.Analysis.Seed)
		} else {
			classifier = random.New(catalog, nil)
		}
	}
	logger.Info("classifier ready", zap.String("classifier", cfg.Analysis.Classifier))

	// image store
	var (
		images   domain.ImageStore
		previews httpserver.Previews
	)
	switch strings.ToLower(cfg.Upload.Store) {
	case "minio":
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
			cfg.Minio.PublicURL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		images = store
		checkers["storage"] = store
	default:
		mem := storage.NewMemory(uploadURLPrefix, cfg.Upload.MemoryEntries, cfg.Upload.MemoryBytes)
		images, previews = mem, mem
	}

	metrics := middleware.NewMetrics()
	svc := &appanalysis.Service{
		Classifier:  classifier,
		Images:      images,
		Validator:   upload.NewValidator(cfg.Upload.MaxBytes),
		Clock:       application.SystemClock{},
		Delay:       cfg.Analysis.Delay,
		HistorySize: cfg.Analysis.HistorySize,
		Logger:      logger.Named("analysis"),
		Observer:    metrics,
	}
	sessions := appanalysis.NewSessions(svc, cfg.Analysis.SessionTTL)
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)

	handler := httpserver.NewRouter(catalog, sessions, httpserver.Options{
		Logger:         logger.Named("http"),
		Metrics:        metrics,
		RateLimiter:    limiter,
		Previews:       previews,
		Checkers:       checkers,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sessions.Run(gctx, sweepInterval)
		return nil
	})
	g.Go(func() error {
		limiter.Cleanup(gctx, sweepInterval, limiterIdle)
		return nil
	})
	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// openCatalogSource picks the catalog backend. For database sources the
// returned handle stays open for health checks.
func openCatalogSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (plants.Source, *sql.DB, error) {
	type repo interface {
		plants.Source
		plants.Seeder
		EnsureSchema(ctx context.Context) error
	}

	var (
		db  *sql.DB
		r   repo
		err error
	)
	switch strings.ToLower(cfg.Catalog.Source) {
	case "mysql":
		if db, err = mysqlp.Connect(ctx, cfg.MySQLDSN()); err != nil {
			return nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		r = mysqlp.NewPlantRepository(db)
	case "postgres":
		if db, err = pgp.Connect(ctx, cfg.PostgresDSN()); err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		r = pgp.NewPlantRepository(db)
	default:
		return plants.BuiltinSource{}, nil, nil
	}

	if cfg.Catalog.Seed {
		if err := r.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		if err := r.Seed(ctx, plants.Builtin()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info("catalog seeded", zap.String("source", cfg.Catalog.Source))
	}
	return r, db, nil
}
