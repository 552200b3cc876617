package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port         string        `env:"PORT,          default=8080"`
	Env          string        `env:"ENV,           default=development"`
	LogLevel     string        `env:"LOG_LEVEL,     default=info"`
	JWTSecret    string        `env:"JWT_SECRET"`
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`

	// EncryptionKey is the base64 AES-256 master key for stored LLM keys.
	EncryptionKey string `env:"ENCRYPTION_KEY_BASE64"`

	Mongo    MongoConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=zetruc_pulse"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type LLMConfig struct {
	Provider      string `env:"LLM_PROVIDER,    default=OPENAI"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL, default=https://api.openai.com/v1"`
	GeminiModel   string `env:"GEMINI_MODEL,    default=gemini-2.5-flash"`
}

type AnalysisConfig struct {
	Model          string        `env:"ANALYSIS_MODEL,    default=gpt-4o"`
	Timeout        time.Duration `env:"ANALYSIS_TIMEOUT,  default=60s"`
	LockTTL        time.Duration `env:"ANALYSIS_LOCK_TTL, default=2m"`
	SuggestCache   time.Duration `env:"SUGGEST_CACHE_TTL, default=6h"`
	RefreshWorkers int           `env:"REFRESH_WORKERS,   default=4"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch strings.ToUpper(c.LLM.Provider) {
	case "OPENAI", "GEMINI":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not supported", c.LLM.Provider))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	cfg.LLM.Provider = strings.ToUpper(strings.TrimSpace(cfg.LLM.Provider))
	return &cfg, nil
}
