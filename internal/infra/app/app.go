package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/config"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/database"
	kafkainfra "github.com/moramiel8/tau-2032-portal-sub000/internal/infra/kafka"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/logger"
	redisinfra "github.com/moramiel8/tau-2032-portal-sub000/internal/infra/redis"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/infra/telemetry"
	postgresrepo "github.com/moramiel8/tau-2032-portal-sub000/internal/repository/postgres"
	redisrepo "github.com/moramiel8/tau-2032-portal-sub000/internal/repository/redis"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/handlers"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/middleware"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/routes"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// Application owns the wired portal and its long-lived connections.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	tracer *telemetry.TracerProvider
	kafka  *kafkainfra.Producer
}

// New builds the portal from configuration: connections, repositories,
// services and the HTTP engine.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	var kafkaProducer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	resolver := usecase.NewRoleResolver(cfg.Auth.AdminList(), repos.GlobalRoles, log)
	access := usecase.NewCourseAccessService(repos.CourseVaad)
	courseService := usecase.NewCourseService(repos.Courses, repos.Announcements, eventPublisher, log)
	assignmentService := usecase.NewAssignmentService(repos.GlobalRoles, repos.CourseVaad, eventPublisher, log)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), cfg.Redis.KeyPrefix)
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, cfg.RateLimit.WriteMaxAttempts, rateLimitWindow, log)

	metrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Metrics:     metrics,
		RateLimiter: rateLimiter,
		Services: routes.ServiceSet{
			Resolver:    resolver,
			Access:      access,
			Courses:     courseService,
			Assignments: assignmentService,
		},
		Readiness: map[string]handlers.Pinger{
			"database": pool,
			"redis":    redisClient,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		tracer: tracer,
		kafka:  kafkaProducer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.pool.Close()
	defer func() {
		_ = a.redis.Close()
	}()
	defer func() {
		if a.kafka != nil {
			_ = a.kafka.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting course portal API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
