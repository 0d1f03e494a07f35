package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rockrashit19/Duslar/internal/tokenstore"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, DefaultConfigAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, TokenStorageTypeFile, cfg.Auth.Storage)
	assert.Equal(t, tokenstore.SessionPath(), cfg.Auth.File)
	assert.Equal(t, "TELEGRAM_INIT_DATA", cfg.Auth.InitDataEnv)
	assert.Equal(t, 30*time.Second, cfg.Auth.ReauthTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "/api/v1" }, wantErr: true},
		{name: "unknown storage", mutate: func(c *Config) { c.Auth.Storage = "cookie" }, wantErr: true},
		{name: "env storage without key", mutate: func(c *Config) { c.Auth.Storage = TokenStorageTypeEnv }, wantErr: true},
		{name: "env storage with key", mutate: func(c *Config) {
			c.Auth.Storage = TokenStorageTypeEnv
			c.Auth.EnvKey = "DUSLAR_TOKEN"
		}},
		{name: "memory storage", mutate: func(c *Config) { c.Auth.Storage = TokenStorageTypeMemory }},
		{name: "unknown locale", mutate: func(c *Config) { c.Locale = "tt" }, wantErr: true},
		{name: "unknown exporter", mutate: func(c *Config) { c.Telemetry.Exporter = "zipkin" }, wantErr: true},
		{name: "otlp endpoint", mutate: func(c *Config) {
			c.Telemetry.Exporter = "otlp-http"
			c.Telemetry.Endpoint = "http://localhost:4318"
		}},
		{name: "bad server host", mutate: func(c *Config) { c.Server.Host = "not a host" }, wantErr: true},
		{name: "negative reauth timeout", mutate: func(c *Config) { c.Auth.ReauthTimeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTokenStore(t *testing.T) {
	tests := []struct {
		name string
		auth AuthConfig
		want any
	}{
		{name: "file", auth: AuthConfig{Storage: TokenStorageTypeFile, File: t.TempDir() + "/token"}, want: &tokenstore.FileStore{}},
		{name: "env", auth: AuthConfig{Storage: TokenStorageTypeEnv, EnvKey: "X"}, want: &tokenstore.EnvStore{}},
		{name: "keyring", auth: AuthConfig{Storage: TokenStorageTypeKeyring, KeyringUser: "u"}, want: &tokenstore.KeyringStore{}},
		{name: "memory", auth: AuthConfig{Storage: TokenStorageTypeMemory}, want: &tokenstore.MemoryStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := tt.auth.NewTokenStore()
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}

	_, err := (&AuthConfig{Storage: "cookie"}).NewTokenStore()
	assert.Error(t, err)
}

func TestNewInitDataProvider(t *testing.T) {
	auth := AuthConfig{InitData: "fallback", InitDataEnv: "DUSLAR_TEST_INIT_DATA"}
	assert.Equal(t, "fallback", auth.NewInitDataProvider().Credential())

	t.Setenv("DUSLAR_TEST_INIT_DATA", "from-host")
	assert.Equal(t, "from-host", auth.NewInitDataProvider().Credential())
}
