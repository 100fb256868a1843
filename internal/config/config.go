package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/oreoregeo.db"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Overpass Config
	OverpassURL         string        `env:"OVERPASS_URL" envDefault:"https://overpass-api.de/api/interpreter"`
	OverpassTimeout     time.Duration `env:"OVERPASS_TIMEOUT" envDefault:"30s"`
	OverpassMinInterval time.Duration `env:"OVERPASS_MIN_INTERVAL" envDefault:"1s"`

	// OSM API / OAuth Config
	OSMAPIURL             string `env:"OSM_API_URL" envDefault:"https://api.openstreetmap.org"`
	OSMAuthURL            string `env:"OSM_AUTH_URL" envDefault:"https://www.openstreetmap.org/oauth2/authorize"`
	OSMTokenURL           string `env:"OSM_TOKEN_URL" envDefault:"https://www.openstreetmap.org/oauth2/token"`
	OSMClientID           string `env:"OSM_CLIENT_ID"`
	OSMClientSecret       string `env:"OSM_CLIENT_SECRET"`
	OSMRedirectURL        string `env:"OSM_REDIRECT_URL"`
	OSMChangesetCreatedBy string `env:"OSM_CHANGESET_CREATED_BY" envDefault:"Oreoregeo"`

	// Backup Config
	BackupEndpoint  string `env:"BACKUP_ENDPOINT"`
	BackupAccessKey string `env:"BACKUP_ACCESS_KEY"`
	BackupSecretKey string `env:"BACKUP_SECRET_KEY"`
	BackupUseSSL    bool   `env:"BACKUP_USE_SSL" envDefault:"false"`
	BackupBucket    string `env:"BACKUP_BUCKET" envDefault:"oreoregeo"`
	BackupPrefix    string `env:"BACKUP_PREFIX" envDefault:"backup"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DBDriver:              strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SQLitePath:            getEnv("SQLITE_PATH", "data/oreoregeo.db"),
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:             os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvAsInt("REDIS_DB", 0),
		WebhookURL:            os.Getenv("WEBHOOK_URL"),
		WebhookSecret:         os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:        getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:     getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:      getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		OverpassURL:           getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		OverpassTimeout:       getEnvAsDuration("OVERPASS_TIMEOUT", 30*time.Second),
		OverpassMinInterval:   getEnvAsDuration("OVERPASS_MIN_INTERVAL", time.Second),
		OSMAPIURL:             getEnv("OSM_API_URL", "https://api.openstreetmap.org"),
		OSMAuthURL:            getEnv("OSM_AUTH_URL", "https://www.openstreetmap.org/oauth2/authorize"),
		OSMTokenURL:           getEnv("OSM_TOKEN_URL", "https://www.openstreetmap.org/oauth2/token"),
		OSMClientID:           os.Getenv("OSM_CLIENT_ID"),
		OSMClientSecret:       os.Getenv("OSM_CLIENT_SECRET"),
		OSMRedirectURL:        os.Getenv("OSM_REDIRECT_URL"),
		OSMChangesetCreatedBy: getEnv("OSM_CHANGESET_CREATED_BY", "Oreoregeo"),
		BackupEndpoint:        os.Getenv("BACKUP_ENDPOINT"),
		BackupAccessKey:       os.Getenv("BACKUP_ACCESS_KEY"),
		BackupSecretKey:       os.Getenv("BACKUP_SECRET_KEY"),
		BackupUseSSL:          getEnvAsBool("BACKUP_USE_SSL", false),
		BackupBucket:          getEnv("BACKUP_BUCKET", "oreoregeo"),
		BackupPrefix:          getEnv("BACKUP_PREFIX", "backup"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH environment variable is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// BackupEnabled сообщает, настроено ли объектное хранилище для резервных копий
func (c *Config) BackupEnabled() bool {
	return c.BackupEndpoint != "" && c.DBDriver == DriverSQLite
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
