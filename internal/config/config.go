package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string `validate:"required"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=json text"`
	ServiceName string `validate:"required"`
	Version     string

	// LogDir additionally writes session log files there when set
	LogDir string

	Port         int    `validate:"min=1,max=65535"`
	StoreBackend string `validate:"oneof=postgres memory"`

	// APIKey guards /api/v1; empty leaves the read surface open in dev
	APIKey         string
	TrustedProxies []string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBMaxConns int `validate:"min=1"`

	// TickInterval is the production period of every assigned producer stream
	TickInterval      time.Duration `validate:"gt=0"`
	ReconcileInterval time.Duration `validate:"gt=0"`
	ShutdownTimeout   time.Duration `validate:"gt=0"`

	WorkerCount     int `validate:"min=1"`
	WorkerQueueSize int `validate:"min=1"`

	SeasonCacheTTL  time.Duration
	SeasonCacheSize int `validate:"min=1"`

	// Failed event deliveries are retried with backoff, then written to the dead-letter file
	EventMaxRetries     int           `validate:"min=0"`
	EventRetryDelay     time.Duration `validate:"gt=0"`
	EventDeadLetterPath string        `validate:"required"`
	// EventLogRetention bounds the event journal; zero keeps everything
	EventLogRetention   time.Duration `validate:"gte=0"`

	// TablesPath points at the YAML production tables; missing file means built-in defaults
	TablesPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:  getEnv("ENVIRONMENT", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		ServiceName:  getEnv("SERVICE_NAME", "brandish-idle"),
		Version:      getEnv("VERSION", "dev"),
		LogDir:       getEnv("LOG_DIR", ""),
		StoreBackend: getEnv("STORE_BACKEND", StoreBackendPostgres),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBName:       getEnv("DB_NAME", "brandishidle"),
		DBMaxConns:   getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),

		WorkerCount:     getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize: getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),
		SeasonCacheSize: getEnvAsInt("SEASON_CACHE_SIZE", DefaultSeasonCacheSize),
		TablesPath:      getEnv("PRODUCTION_TABLES_PATH", ConfigPathProductionTables),
		APIKey:          getEnv("API_KEY", ""),
		TrustedProxies:  getEnvAsList("TRUSTED_PROXIES"),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultEventDeadLetterPath),
	}

	if cfg.APIKey == "" && !cfg.IsDevelopment() {
		return nil, fmt.Errorf("API_KEY is required outside development")
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"TICK_INTERVAL", DefaultTickInterval, &cfg.TickInterval},
		{"RECONCILE_INTERVAL", DefaultReconcileInterval, &cfg.ReconcileInterval},
		{"SHUTDOWN_TIMEOUT", DefaultShutdownTimeout, &cfg.ShutdownTimeout},
		{"SEASON_CACHE_TTL", DefaultSeasonCacheTTL, &cfg.SeasonCacheTTL},
		{"EVENT_RETRY_DELAY", DefaultEventRetryDelay, &cfg.EventRetryDelay},
		{"EVENT_LOG_RETENTION", DefaultEventLogRetention, &cfg.EventLogRetention},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", d.key, err)
		}
		*d.dest = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable, falling back on parse errors
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return c.connString(c.DBName)
}

// GetServerConnString targets the maintenance database so the configured
// database itself can be created or dropped
func (c *Config) GetServerConnString() string {
	return c.connString("postgres")
}

func (c *Config) connString(dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		dbName,
	)
}

// IsDevelopment reports whether the service runs in a dev environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "development"
}
