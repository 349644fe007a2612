package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// GatewayConfig configures the registry service (cmd/gateway).
type GatewayConfig struct {
	Primary  Primary         `koanf:"primary"`
	Server   ServerConfig    `koanf:"server"`
	Storage  StorageConfig   `koanf:"storage"`
	Database *DatabaseConfig `koanf:"database"`
	Monitor  MonitorConfig   `koanf:"monitor"`
	Auth     AuthConfig      `koanf:"auth"`
	Logger   LoggerConfig    `koanf:"logger"`
}

// FetcherConfig configures the privileged fetcher (cmd/fetcher).
type FetcherConfig struct {
	Primary Primary      `koanf:"primary"`
	Fetcher WorkerConfig `koanf:"fetcher"`
	Feed    FeedConfig   `koanf:"feed"`
	Client  ClientConfig `koanf:"client"`
	Retry   RetryConfig  `koanf:"retry"`
	Auth    AuthConfig   `koanf:"auth"`
	Logger  LoggerConfig `koanf:"logger"`
}

// RequesterConfig configures the reference originator (cmd/requester).
type RequesterConfig struct {
	Primary   Primary         `koanf:"primary"`
	Server    ServerConfig    `koanf:"server"`
	Requester RequesterSelf   `koanf:"requester"`
	Storage   StorageConfig   `koanf:"storage"`
	Database  *DatabaseConfig `koanf:"database"`
	Client    ClientConfig    `koanf:"client"`
	Auth      AuthConfig      `koanf:"auth"`
	Logger    LoggerConfig    `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig holds the HTTP server timeouts. HandlerTimeout bounds one
// request through the middleware chain.
type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	HandlerTimeout time.Duration `koanf:"handler_timeout" validate:"required"`
}

type StorageConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=postgres memory"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// AuthConfig locates this party's RS256 signing key and the directory of
// public keys it verifies callers against. Public key files are PEM encoded
// and named after their account, e.g. client.near.pem.
type AuthConfig struct {
	Issuer         string        `koanf:"issuer" validate:"required"`
	TokenTTL       time.Duration `koanf:"token_ttl" validate:"required"`
	SigningKeyFile string        `koanf:"signing_key_file"`
	PublicKeysDir  string        `koanf:"public_keys_dir"`
}

// MonitorConfig drives the stale request monitor. A zero interval disables it.
type MonitorConfig struct {
	Interval time.Duration `koanf:"interval"`
	MaxAge   time.Duration `koanf:"max_age"`
}

type WorkerConfig struct {
	Identity    string            `koanf:"identity" validate:"required"`
	GatewayURL  string            `koanf:"gateway_url" validate:"required,url"`
	Interval    time.Duration     `koanf:"interval" validate:"required"`
	BatchSize   int               `koanf:"batch_size" validate:"required,min=1"`
	Concurrency int               `koanf:"concurrency" validate:"required,min=1"`
	Originators map[string]string `koanf:"originators"`
}

type FeedConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

type ClientConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"required"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries"`
}

type RequesterSelf struct {
	Identity            string `koanf:"identity" validate:"required"`
	GatewayURL          string `koanf:"gateway_url" validate:"required,url"`
	AuthorizedDeliverer string `koanf:"authorized_deliverer" validate:"required"`
	CallbackRef         string `koanf:"callback_ref"`
	Deposit             string `koanf:"deposit" validate:"omitempty,numeric"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

// NewLogger builds the process logger from the configured level and format.
func (c LoggerConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func LoadGatewayConfig() (*GatewayConfig, error) {
	cfg := &GatewayConfig{}
	if err := load("GATEWAY_", cfg); err != nil {
		return nil, err
	}
	if err := requireDatabase(cfg.Storage, cfg.Database); err != nil {
		return nil, err
	}
	if err := requireKeys(cfg.Auth, false, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFetcherConfig() (*FetcherConfig, error) {
	cfg := &FetcherConfig{}
	if err := load("FETCHER_", cfg); err != nil {
		return nil, err
	}
	if err := requireKeys(cfg.Auth, true, false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadRequesterConfig() (*RequesterConfig, error) {
	cfg := &RequesterConfig{}
	if err := load("REQUESTER_", cfg); err != nil {
		return nil, err
	}
	if err := requireDatabase(cfg.Storage, cfg.Database); err != nil {
		return nil, err
	}
	if err := requireKeys(cfg.Auth, true, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load reads PREFIX_SECTION__KEY environment variables into out and validates it.
func load(prefix string, out any) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, prefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return err
	}

	err = k.Unmarshal("", out)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return err
	}

	validate := validator.New()

	err = validate.Struct(out)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return err
	}

	return nil
}

func requireDatabase(storage StorageConfig, db *DatabaseConfig) error {
	if storage.Driver == StoragePostgres && db == nil {
		return fmt.Errorf("storage driver %q needs a database section", storage.Driver)
	}
	return nil
}

// requireKeys checks that a party which signs has a key file and a party which
// verifies has a public key directory.
func requireKeys(auth AuthConfig, signs, verifies bool) error {
	if signs && auth.SigningKeyFile == "" {
		return fmt.Errorf("auth.signing_key_file is required")
	}
	if verifies && auth.PublicKeysDir == "" {
		return fmt.Errorf("auth.public_keys_dir is required")
	}
	return nil
}
