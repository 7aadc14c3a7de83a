package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DashboardConfig struct {
	Port        string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
	MinioCfg    MinioConfig
	AuthCfg     AuthConfig
	ReadyCfg    ReadinessConfig
	// SeedDemoData fills empty scan tables with sample rows so a fresh
	// deployment has something to validate.
	SeedDemoData bool
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AuthConfig struct {
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	TokenTTL      time.Duration
}

// ReadinessConfig carries the budgets the session/data coordinator races
// its upstream calls against. The data budget is shorter than the session
// budget: a page with an identity but no data yet is still usable.
type ReadinessConfig struct {
	SessionBudget time.Duration
	DataBudget    time.Duration
	PollInterval  time.Duration
}

func New() *DashboardConfig {
	// Missing .env is fine in containers where env comes from the runtime.
	_ = godotenv.Load()

	return &DashboardConfig{
		Port: getEnv("PORT", "8090"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnv("DB_NAME", "bitterscan"),
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PWD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: os.Getenv("RABBITMQ_USER"),
			Password: os.Getenv("RABBITMQ_PWD"),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
		},
		MinioCfg: MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_SCAN_BUCKET", "scan-images"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		AuthCfg: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PWD"),
			TokenTTL:      getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
		SeedDemoData: getEnvBool("SEED_DEMO_DATA", false),
		ReadyCfg: ReadinessConfig{
			SessionBudget: getEnvDuration("SESSION_READY_BUDGET", 12*time.Second),
			DataBudget:    getEnvDuration("DATA_READY_BUDGET", 8*time.Second),
			PollInterval:  getEnvDuration("FEED_POLL_INTERVAL", 30*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
