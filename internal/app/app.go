package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bally3399/chord001-monograms/internal/auth"
	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/config"
	"github.com/bally3399/chord001-monograms/internal/event"
	handler "github.com/bally3399/chord001-monograms/internal/handler/http"
	"github.com/bally3399/chord001-monograms/internal/repository/postgres"
	"github.com/bally3399/chord001-monograms/internal/repository/redis"
	"github.com/bally3399/chord001-monograms/internal/service"
	"github.com/bally3399/chord001-monograms/internal/upload"
	"github.com/bally3399/chord001-monograms/migrations"
	"github.com/bally3399/chord001-monograms/pkg/database"
	"github.com/bally3399/chord001-monograms/pkg/health"
	"github.com/bally3399/chord001-monograms/pkg/httpclient"
	pkgkafka "github.com/bally3399/chord001-monograms/pkg/kafka"
	"github.com/bally3399/chord001-monograms/pkg/middleware"
	"github.com/bally3399/chord001-monograms/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	loginLimiter   *middleware.RateLimiter
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracingCfg := cfg.Tracing
	tracingCfg.ServiceName = serviceName
	tracingCfg.ServiceVersion = "0.1.0"
	tracingCfg.Environment = cfg.Environment
	tracerShutdown, err := tracing.Init(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

	// Events are optional; without Kafka they are dropped.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	eventProducer := event.NewProducer(publisher, logger)

	handoff, err := checkout.NewHandoff(cfg.WhatsAppNumber)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("checkout handoff: %w", err)
	}

	uploader, files, err := newUploader(cfg, logger)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}

	passwordHash := cfg.AdminPasswordHash
	if passwordHash == "" {
		if passwordHash, err = service.HashAdminPassword(cfg.AdminPassword); err != nil {
			pool.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}

	// Build the dependency graph.
	designRepo := postgres.NewDesignRepository(pool)
	favoriteRepo := postgres.NewFavoriteRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	sessionRepo := redis.NewAdminSessionRepository(redisClient, cfg.AdminSessionTTL())
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry())

	designService := service.NewDesignService(designRepo, eventProducer, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, cartRepo, eventProducer, logger)
	cartService := service.NewCartService(cartRepo, handoff, eventProducer, logger)
	adminService := service.NewAdminService(passwordHash, sessionRepo, uploader, logger)

	loginLimiter := middleware.NewRateLimiter(time.Minute/time.Duration(cfg.AdminLoginPerMinute), cfg.AdminLoginPerMinute, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	router := handler.NewRouter(handler.Dependencies{
		Designs:      designService,
		Favorites:    favoriteService,
		Cart:         cartService,
		Admin:        adminService,
		VerifyViewer: jwtManager.VerifyViewer,
		LoginLimiter: loginLimiter,
		Files:        files,
		Health:       healthHandler,
		CORS:         cfg.CORS,
		Logger:       logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		loginLimiter:   loginLimiter,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newUploader picks Cloudinary when configured and an in-memory store served
// from /uploads otherwise. files is nil for Cloudinary.
func newUploader(cfg *config.Config, logger *slog.Logger) (upload.Uploader, handler.FileStore, error) {
	if !cfg.UsesCloudinary() {
		if !cfg.IsDevelopment() {
			logger.Warn("cloudinary is not configured; uploads are kept in memory")
		}
		mem := upload.NewMemoryUploader(cfg.PublicURL)
		return mem, mem, nil
	}

	base := httpclient.New(httpclient.Config{
		Timeout:         30 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
		MaxConnsPerHost: 8,
	})
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("cloudinary"), logger)
	cloud, err := upload.NewCloudinaryUploader(cfg.Cloudinary, cb)
	if err != nil {
		return nil, nil, fmt.Errorf("cloudinary uploader: %w", err)
	}
	logger.Info("cloudinary uploader initialized", slog.String("cloud_name", cfg.Cloudinary.CloudName))
	return cloud, nil, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go a.loginLimiter.Run(limiterCtx)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops the HTTP server first so in-flight requests can still reach
// the tracer, Kafka, Redis and Postgres, then closes those in that order.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
