package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os/user"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rockrashit19/Duslar/internal/api"
	"github.com/rockrashit19/Duslar/internal/initdata"
	"github.com/rockrashit19/Duslar/internal/observability"
	"github.com/rockrashit19/Duslar/internal/tokenstore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// TokenStorageType represents the different storage types supported for the bearer token.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeEnv     TokenStorageType = "env"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
	TokenStorageTypeMemory  TokenStorageType = "memory"
)

// Default configuration values
const (
	DefaultConfigLogFormat         = LogFormatText
	DefaultConfigLocale            = "ru"
	DefaultConfigAPIBaseURL        = "http://localhost:8000/api/v1"
	DefaultConfigAPITimeout        = api.DefaultTimeout
	DefaultConfigAuthStorage       = TokenStorageTypeFile
	DefaultConfigAuthInitDataEnv   = initdata.DefaultEnvKey
	DefaultConfigAuthReauthTimeout = 30 * time.Second
	DefaultConfigServerHost        = "127.0.0.1"
	DefaultConfigServerPort        = 4000
	DefaultConfigShutdownTimeout   = 5 * time.Second
	DefaultConfigTelemetryExporter = observability.ExporterNone
)

// APIConfig holds events API configuration.
type APIConfig struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	// Timeout bounds a whole request, including a retry after re-authentication.
	Timeout time.Duration `json:"timeout"`
}

// AuthConfig describes where init data comes from and where the bearer token is kept.
type AuthConfig struct {
	// InitData is the fallback credential used outside a Telegram host.
	InitData string `json:"init_data,omitempty"`
	// InitDataEnv is the variable a Telegram host launcher fills with init data.
	InitDataEnv string `json:"init_data_env"`

	// Storage configuration - where the bearer token is persisted
	Storage TokenStorageType `json:"storage" validate:"required,oneof=file env keyring memory"`

	// Storage-specific settings (mutually exclusive based on Storage type)
	File        string `json:"file,omitempty"`         // For file storage: path to token file
	EnvKey      string `json:"env_key,omitempty"`      // For env storage: environment variable name
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier

	// ReauthTimeout bounds one credential exchange.
	ReauthTimeout time.Duration `json:"reauth_timeout"`
}

// NewTokenStore creates a TokenStore from the authentication configuration.
func (a *AuthConfig) NewTokenStore() (tokenstore.TokenStore, error) {
	switch a.Storage {
	case TokenStorageTypeFile:
		return tokenstore.NewFileStore(a.File)
	case TokenStorageTypeEnv:
		return tokenstore.NewEnvStore(a.EnvKey)
	case TokenStorageTypeKeyring:
		return tokenstore.NewKeyringStore(tokenstore.KeyringService, a.KeyringUser)
	case TokenStorageTypeMemory:
		return tokenstore.NewMemoryStore(""), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// NewInitDataProvider creates the credential provider: the host bridge when
// the host set InitDataEnv, the configured fallback otherwise.
func (a *AuthConfig) NewInitDataProvider() *initdata.Provider {
	return initdata.NewProvider(initdata.LookupEnvBridge(a.InitDataEnv), a.InitData)
}

// ServerConfig holds local proxy server configuration.
type ServerConfig struct {
	Host string `json:"host" validate:"hostname_rfc1123|ip"`
	Port uint16 `json:"port"` // Port range 0-65535 handled by uint16 type
}

// ShutdownConfig holds shutdown behavior configuration.
type ShutdownConfig struct {
	// Timeout for graceful shutdown.
	Timeout time.Duration `json:"timeout"`
}

// TelemetryConfig selects where logs are exported.
type TelemetryConfig struct {
	Exporter observability.Exporter `json:"exporter" validate:"oneof=none stdout otlp-http otlp-grpc"`
	Endpoint string                 `json:"endpoint,omitempty" validate:"omitempty,url"`
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level      `json:"log_level"`
	LogFormat LogFormat       `json:"log_format" validate:"oneof=text json"`
	Locale    string          `json:"locale" validate:"oneof=ru en"`
	API       APIConfig       `json:"api"`
	Auth      AuthConfig      `json:"auth"`
	Server    ServerConfig    `json:"server"`
	Shutdown  ShutdownConfig  `json:"shutdown"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.Locale == "" {
		c.Locale = DefaultConfigLocale
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultConfigAPIBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultConfigAPITimeout
	}
	if c.Auth.InitDataEnv == "" {
		c.Auth.InitDataEnv = DefaultConfigAuthInitDataEnv
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}
	if c.Auth.ReauthTimeout == 0 {
		c.Auth.ReauthTimeout = DefaultConfigAuthReauthTimeout
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultConfigServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultConfigServerPort
	}
	if c.Shutdown.Timeout == 0 {
		c.Shutdown.Timeout = DefaultConfigShutdownTimeout
	}
	if c.Telemetry.Exporter == "" {
		c.Telemetry.Exporter = DefaultConfigTelemetryExporter
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			c.Auth.File = tokenstore.SessionPath()
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Auth.KeyringUser = currentUser.Username
		}
	case TokenStorageTypeEnv:
		// env_key must be explicitly configured (no sensible default)
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Auth.ReauthTimeout < 0 {
		return errors.New("auth.reauth_timeout must not be negative")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}

	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			return errors.New("file path required for file storage")
		}
	case TokenStorageTypeEnv:
		if c.Auth.EnvKey == "" {
			return errors.New("env_key required for env storage")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	return nil
}
