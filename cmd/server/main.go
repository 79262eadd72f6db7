package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TusharSh06/Techgather/internal/gateway"
	"github.com/TusharSh06/Techgather/internal/handler"
	"github.com/TusharSh06/Techgather/internal/repository"
	"github.com/TusharSh06/Techgather/internal/service"
	"github.com/TusharSh06/Techgather/migrations"
	"github.com/TusharSh06/Techgather/pkg/config"
	"github.com/TusharSh06/Techgather/pkg/database"
	"github.com/TusharSh06/Techgather/pkg/logger"
	"github.com/TusharSh06/Techgather/pkg/middleware"
	pkgredis "github.com/TusharSh06/Techgather/pkg/redis"
	"github.com/TusharSh06/Techgather/pkg/retry"
	"github.com/TusharSh06/Techgather/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.App.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Techgather API...")

	ctx := context.Background()

	// Tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Fatal(fmt.Sprintf("Telemetry init failed: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	// PostgreSQL
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db.Pool()); err != nil {
		appLog.Fatal(fmt.Sprintf("Migrations failed: %v", err))
	}
	appLog.Info("Database connected and migrated")

	// Redis
	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	// Kafka event publisher, optional
	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		publisher, err = service.NewKafkaPublisher(ctx, &service.KafkaPublisherConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op publisher: %v", err))
			publisher = service.NewNoopPublisher()
		} else {
			appLog.Info("Kafka event publisher connected")
		}
	} else {
		publisher = service.NewNoopPublisher()
	}
	defer publisher.Close()

	// Payment gateway
	gw, err := gateway.NewPaymentGateway(&gateway.Config{
		Type:            cfg.Gateway.Type,
		SecretKey:       cfg.Gateway.StripeSecretKey,
		Environment:     cfg.App.Environment,
		MockSuccessRate: cfg.Gateway.MockSuccessRate,
		MockDelayMs:     cfg.Gateway.MockDelayMs,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Payment gateway init failed: %v", err))
	}
	appLog.Info(fmt.Sprintf("Payment gateway: %s", gw.Name()))

	// Repositories and services
	eventRepo := repository.NewPostgresEventRepository(db)
	paymentRepo := repository.NewPostgresPaymentRepository(db)

	eventService := service.NewEventService(eventRepo)
	registrationService := service.NewRegistrationService(eventRepo, publisher)
	reviewService := service.NewReviewService(eventRepo)
	paymentService := service.NewPaymentService(paymentRepo, eventRepo, gw, publisher, &service.PaymentServiceConfig{
		Currency:      cfg.Gateway.Currency,
		ChargeTimeout: cfg.Gateway.ChargeTimeout,
		Retry: &retry.Config{
			MaxRetries:      cfg.Gateway.MaxRetries,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2.0,
			JitterFactor:    0.1,
		},
	})

	eventHandler := handler.NewEventHandler(eventService, registrationService, reviewService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Router
	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.CORS())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	idempotency := middleware.Idempotency(&middleware.IdempotencyConfig{
		Redis: redisClient.Redis(),
	})
	auth := middleware.Auth(cfg.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.GET("/:id/reviews", eventHandler.ListReviews)

			events.POST("", auth, eventHandler.CreateEvent)
			events.PATCH("/:id", auth, eventHandler.UpdateEvent)
			events.PUT("/:id/status", auth, eventHandler.UpdateEventStatus)
			events.DELETE("/:id", auth, eventHandler.DeleteEvent)

			events.POST("/:id/register", auth, idempotency, eventHandler.Register)
			events.DELETE("/:id/register", auth, eventHandler.CancelRegistration)
			events.POST("/:id/checkin/:userId", auth, eventHandler.CheckIn)
			events.POST("/:id/reviews", auth, eventHandler.SubmitReview)

			events.POST("/:id/purchase", auth, idempotency, paymentHandler.PurchaseTicket)
			events.GET("/:id/payments", auth, paymentHandler.ListEventPayments)
		}

		payments := v1.Group("/payments", auth)
		{
			payments.GET("", paymentHandler.ListMyPayments)
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.POST("/:id/refund", idempotency, paymentHandler.RefundPayment)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Techgather API listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
