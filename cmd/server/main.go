package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shenikar/emergency_action_plan/internal/config"
	v1 "github.com/shenikar/emergency_action_plan/internal/handler/http/v1"
	"github.com/shenikar/emergency_action_plan/internal/planner"
	"github.com/shenikar/emergency_action_plan/internal/repository"
	"github.com/shenikar/emergency_action_plan/internal/service"
	"github.com/shenikar/emergency_action_plan/internal/simulator"
	"github.com/shenikar/emergency_action_plan/internal/webhook"
	"github.com/shenikar/emergency_action_plan/pkg/logger"
	"github.com/shenikar/emergency_action_plan/pkg/objectstore"
	"github.com/shenikar/emergency_action_plan/pkg/postgres"
	redisclient "github.com/shenikar/emergency_action_plan/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/emergency_action_plan/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Emergency Action Plan API
// @version 1.0
// @description Generates hospital routing action plans for mass-casualty incidents.
// @host localhost:8080
// @BasePath /

// newPlanStore создает хранилище планов по PLAN_STORE
func newPlanStore(ctx context.Context, cfg *config.Config, log *logrus.Logger, redisClient *goredis.Client) (service.PlanStore, func(), error) {
	switch cfg.PlanStore {
	case config.StorePostgres:
		if err := postgres.RunMigrations(cfg, log); err != nil {
			return nil, nil, err
		}
		dbpool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Successfully connected to PostgreSQL")
		return repository.NewPostgresPlanStore(dbpool), dbpool.Close, nil
	case config.StoreRedis:
		return repository.NewRedisPlanStore(redisClient), func() {}, nil
	case config.StoreS3:
		client, err := objectstore.NewMinioClient(ctx, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("bucket", cfg.S3Bucket).Info("Successfully connected to object storage")
		return repository.NewObjectPlanStore(client, cfg.S3Bucket, cfg.CurrentPlanName), func() {}, nil
	default:
		if err := os.MkdirAll(cfg.PlansDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("could not create plans directory: %w", err)
		}
		return repository.NewFilePlanStore(cfg.PlansDir, cfg.CurrentPlanName), func() {}, nil
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis нужен для хранилища или очереди вебхуков
	var redisClient *goredis.Client
	if cfg.NeedsRedis() {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	// Инициализация хранилища планов
	store, closeStore, err := newPlanStore(ctx, cfg, log, redisClient)
	if err != nil {
		log.Fatalf("Failed to initialize plan store: %v", err)
	}
	defer closeStore()
	log.WithField("store", cfg.PlanStore).Info("Plan store initialized")

	// Издатель и воркер вебхуков запускаются только при заданном WEBHOOK_URL
	var publisher webhook.WebhookPublisher
	if cfg.WebhookURL != "" {
		publisher = webhook.NewRedisWebhookPublisher(redisClient)
		webhook.NewWebhookWorker(redisClient, log, cfg).Start(ctx)
	}

	// Инициализация сервисов
	sim := simulator.NewCommandSimulator(cfg.SimulatorCommand, cfg.SimulatorWorkDir, cfg.SimulatorOutput, log)
	planService := service.NewPlanService(store, sim, planner.NewEngine(), log, cfg, publisher)

	// Инициализация хэндлеров
	handler := v1.NewHandler(planService, log)

	// Настройка Gin роутера
	router := gin.Default()
	handler.RegisterRoutes(&router.RouterGroup)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Генерация плана ждет симулятор, поэтому таймаут выше, чем у обычного API
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.SimulatorTimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
