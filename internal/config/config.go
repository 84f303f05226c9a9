package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type (
	Container struct {
		App    *App
		Token  *Token
		Store  *Store
		DB     *DB
		HTTP   *HTTP
		Redis  *Redis
		AMQP   *AMQP
		AI     *AI
		Tenant *Tenant
	}

	App struct {
		Name string `env:"APP_NAME" envDefault:"webike-review"`
		Env  string `env:"APP_ENV" envDefault:"development"`
		// addresses that are granted the admin role on registration
		AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
	}

	Token struct {
		Secret   string        `env:"TOKEN_SECRET" envDefault:"change-me"`
		Duration time.Duration `env:"TOKEN_DURATION" envDefault:"30m"`
	}

	Store struct {
		Backend string `env:"STORE_BACKEND" envDefault:"memory"`
	}

	DB struct {
		Host     string `env:"DB_HOST" envDefault:"localhost"`
		Port     string `env:"DB_PORT" envDefault:"5432"`
		User     string `env:"DB_USER" envDefault:"postgres"`
		Password string `env:"DB_PASSWORD"`
		Name     string `env:"DB_NAME" envDefault:"webike"`
		SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
		// goose migrations directory
		Migrations string `env:"DB_MIGRATIONS" envDefault:"./internal/adapter/postgres/migrations"`
	}

	HTTP struct {
		Env             string        `env:"APP_ENV" envDefault:"development"`
		Port            string        `env:"HTTP_PORT" envDefault:"8000"`
		AllowedOrigins  string        `env:"ALLOWED_ORIGINS" envDefault:"*"`
		URL             string        `env:"HTTP_URL" envDefault:"0.0.0.0"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}

	Redis struct {
		Address  string `env:"REDIS_ADDRESS"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	AMQP struct {
		URL      string `env:"AMQP_URL"`
		Exchange string `env:"AMQP_EXCHANGE" envDefault:"webike.events"`
	}

	AI struct {
		URL               string        `env:"AI_API_URL"`
		APIKey            string        `env:"HUGGINGFACE_API_KEY"`
		Model             string        `env:"AI_MODEL" envDefault:"csebuetnlp/banglat5"`
		Timeout           time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`
		MaxLength         int           `env:"AI_MAX_LENGTH" envDefault:"200"`
		NumBeams          int           `env:"AI_NUM_BEAMS" envDefault:"4"`
		NoRepeatNgramSize int           `env:"AI_NO_REPEAT_NGRAM_SIZE" envDefault:"2"`
	}

	Tenant struct {
		Default       string `env:"DEFAULT_TENANT" envDefault:"default"`
		HeaderEnabled bool   `env:"TENANT_HEADER_ENABLED" envDefault:"false"`
	}
)

// New reads .env (outside production) and the process environment.
func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Container{
		App:    &App{},
		Token:  &Token{},
		Store:  &Store{},
		DB:     &DB{},
		HTTP:   &HTTP{},
		Redis:  &Redis{},
		AMQP:   &AMQP{},
		AI:     &AI{},
		Tenant: &Tenant{},
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if cfg.Store.Backend != StoreMemory && cfg.Store.Backend != StorePostgres {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
	if cfg.App.Env == "production" && cfg.Token.Secret == "change-me" {
		return nil, errors.New("TOKEN_SECRET must be set in production")
	}

	return cfg, nil
}

func (d *DB) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (h *HTTP) Addr() string {
	return fmt.Sprintf("%s:%s", h.URL, h.Port)
}

// Origins splits ALLOWED_ORIGINS on commas.
func (h *HTTP) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(h.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (a *AI) Enabled() bool {
	return a.URL != ""
}
