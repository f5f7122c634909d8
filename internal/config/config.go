package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Бэкенды хранилища планов
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreS3       = "s3"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Plan Store Config
	PlanStore       string `env:"PLAN_STORE" envDefault:"file"`
	PlansDir        string `env:"PLANS_DIR" envDefault:"plans"`
	CurrentPlanName string `env:"CURRENT_PLAN_NAME" envDefault:"last_routing.json"`

	// Postgres Config
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// S3 Config
	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:"localhost:9000"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"action-plans"`
	S3UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`

	// Simulator Config
	SimulatorCommand []string      `env:"SIMULATOR_COMMAND" envDefault:"python src/step5_agent_logic.py"`
	SimulatorWorkDir string        `env:"SIMULATOR_WORKDIR" envDefault:"."`
	SimulatorOutput  string        `env:"SIMULATOR_OUTPUT" envDefault:"plans/last_routing.json"`
	SimulatorTimeout time.Duration `env:"SIMULATOR_TIMEOUT" envDefault:"2m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		PlanStore:         strings.ToLower(getEnv("PLAN_STORE", StoreFile)),
		PlansDir:          getEnv("PLANS_DIR", "plans"),
		CurrentPlanName:   getEnv("CURRENT_PLAN_NAME", "last_routing.json"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "file://migrations"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3Bucket:          getEnv("S3_BUCKET", "action-plans"),
		S3UseSSL:          getEnvAsBool("S3_USE_SSL", false),
		SimulatorCommand:  strings.Fields(getEnv("SIMULATOR_COMMAND", "python src/step5_agent_logic.py")),
		SimulatorWorkDir:  getEnv("SIMULATOR_WORKDIR", "."),
		SimulatorOutput:   getEnv("SIMULATOR_OUTPUT", "plans/last_routing.json"),
		SimulatorTimeout:  getEnvAsDuration("SIMULATOR_TIMEOUT", 2*time.Minute),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PlanStore {
	case StoreFile, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for PLAN_STORE=%s", c.PlanStore)
		}
	case StoreS3:
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required for PLAN_STORE=%s", c.PlanStore)
		}
	default:
		return fmt.Errorf("unknown PLAN_STORE %q", c.PlanStore)
	}

	if len(c.SimulatorCommand) == 0 {
		return fmt.Errorf("SIMULATOR_COMMAND must not be empty")
	}
	return nil
}

// NeedsRedis сообщает, нужен ли клиент Redis (хранилище или очередь вебхуков)
func (c *Config) NeedsRedis() bool {
	return c.PlanStore == StoreRedis || c.WebhookURL != ""
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
