package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload:  UploadConfig{MaxFileSize: 1, MaxConcurrent: 1, MaxWaitTime: time.Second},
		Session: SessionConfig{IdleTimeout: time.Hour, SweepInterval: time.Minute, CookieName: "s"},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, UploadLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Upload.MaxConcurrent)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, time.Hour, cfg.Session.IdleTimeout)
	assert.Equal(t, "sheet_session", cfg.Session.CookieName)
	assert.Equal(t, 600, cfg.Rate.RequestsPerMinute)
	assert.True(t, cfg.Security.EnableCSP)
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Upload.MaxConcurrent)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("UPLOAD_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 90*time.Second, cfg.Upload.MaxWaitTime)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SESSION_IDLE_TIMEOUT", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_IDLE_TIMEOUT")
}

func TestLoad_FileSizeUnits(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"1024", 1024},
		{"512B", 512},
		{"64KB", 64 << 10},
		{"25mb", 25 << 20},
		{"1 GB", 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("UPLOAD_MAX_FILE_SIZE", tt.value)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Upload.MaxFileSize)
		})
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}, cfg.Security.TrustedProxies)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero file size", func(c *Config) { c.Upload.MaxFileSize = 0 }, "UPLOAD_MAX_FILE_SIZE"},
		{"zero idle timeout", func(c *Config) { c.Session.IdleTimeout = 0 }, "SESSION_IDLE_TIMEOUT"},
		{"negative max sessions", func(c *Config) { c.Session.MaxSessions = -1 }, "SESSION_MAX"},
		{"bad proxy entry", func(c *Config) { c.Security.TrustedProxies = []string{"proxy.local"} }, "TRUSTED_PROXIES"},
		{"single proxy address", func(c *Config) { c.Security.TrustedProxies = []string{"10.0.0.1", "::1"} }, ""},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"rate limit disabled skips rate checks", func(c *Config) {
			c.Rate = RateLimitConfig{Enabled: false}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"::1", 443, "[::1]:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		assert.Equal(t, tt.want, cfg.Addr(), "host=%q port=%d", tt.host, tt.port)
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	assert.True(t, strings.HasPrefix(str, "Config{"))
	assert.Contains(t, str, "Port: 8080")
	assert.Contains(t, str, "IdleTimeout: 1h0m0s")
}
