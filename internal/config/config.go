package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	Env         string `envconfig:"APP_ENV" default:"development"`
	RunAddress  string `envconfig:"RUN_ADDRESS" default:":8080"`
	DatabaseURI string `envconfig:"DATABASE_URI"`
	RedisAddr   string `envconfig:"REDIS_ADDR"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	JWTSecret       string        `envconfig:"JWT_SECRET"`
	JWTSecretFile   string        `envconfig:"JWT_SECRET_FILE"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"0"`
	CheckUserActive bool          `envconfig:"AUTH_CHECK_ACTIVE" default:"true"`
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`

	BudgetRefreshInterval time.Duration `envconfig:"BUDGET_REFRESH_INTERVAL" default:"30s"`
	WorkerPoolSize        int           `envconfig:"WORKER_POOL_SIZE" default:"4"`
	MaxBudgetsBatch       int           `envconfig:"BUDGET_BATCH_SIZE" default:"32"`
	ShutdownTimeout       time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

const (
	defaultTokenTTL              = 7 * 24 * time.Hour
	defaultBudgetRefreshInterval = 30 * time.Second
	defaultWorkerPoolSize        = 4
	defaultShutdownTimeout       = 10 * time.Second
	defaultMaxBudgetsBatch       = 32
	defaultLoginRateLimit        = 10
)

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("jwt secret must be provided")

// Load reads an optional .env file, then environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	fs := flag.NewFlagSet("fintrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		refreshIntervalStr = cfg.BudgetRefreshInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for token revocation")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent budget workers")
	fs.StringVar(&refreshIntervalStr, "refresh-interval", refreshIntervalStr, "Interval between budget refreshes")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxBudgetsBatch, "refresh-batch", cfg.MaxBudgetsBatch, "Maximum budgets per refresh batch")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.BudgetRefreshInterval, err = time.ParseDuration(refreshIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid refresh interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.JWTSecretFile != "" {
		content, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.normalize()

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, ErrMissingJWTSecret
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.WorkerPoolSize <= 0 {
		c.WorkerPoolSize = defaultWorkerPoolSize
	}
	if c.MaxBudgetsBatch <= 0 {
		c.MaxBudgetsBatch = defaultMaxBudgetsBatch
	}
	if c.BudgetRefreshInterval <= 0 {
		c.BudgetRefreshInterval = defaultBudgetRefreshInterval
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.LoginRateLimit <= 0 {
		c.LoginRateLimit = defaultLoginRateLimit
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}
