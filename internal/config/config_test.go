package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 64, cfg.SubscriberBuffer)
	assert.Equal(t, 10*time.Second, cfg.WSInitTimeout)
	assert.Equal(t, 12*time.Second, cfg.WSKeepAlive)
	assert.Equal(t, []string{"*"}, cfg.OriginPatterns)
	assert.True(t, cfg.UIEnabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CHAT_SUBSCRIBER_BUFFER", "8")
	t.Setenv("GRAPHQL_WS_INIT_TIMEOUT", "2s")
	t.Setenv("WS_ORIGIN_PATTERNS", "localhost:3000,example.com")
	t.Setenv("UI_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8, cfg.SubscriberBuffer)
	assert.Equal(t, 2*time.Second, cfg.WSInitTimeout)
	assert.Equal(t, []string{"localhost:3000", "example.com"}, cfg.OriginPatterns)
	assert.False(t, cfg.UIEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "port out of range", key: "APP_PORT", val: "70000"},
		{name: "port not a number", key: "APP_PORT", val: "http"},
		{name: "unknown log format", key: "LOG_FORMAT", val: "xml"},
		{name: "zero buffer", key: "CHAT_SUBSCRIBER_BUFFER", val: "0"},
		{name: "short session secret", key: "SESSION_SECRET", val: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
