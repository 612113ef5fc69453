package testutils

import (
	"testing"

	"github.com/nfrund/livechat/internal/config"
)

// testEnv pins every setting so tests do not depend on the host environment.
var testEnv = map[string]string{
	"APP_HOST":                "127.0.0.1",
	"APP_PORT":                "8080",
	"LOG_FORMAT":              "text",
	"LOG_LEVEL":               "error",
	"CHAT_SUBSCRIBER_BUFFER":  "16",
	"GRAPHQL_WS_INIT_TIMEOUT": "2s",
	"GRAPHQL_WS_KEEPALIVE":    "1h",
	"WS_ORIGIN_PATTERNS":      "*",
	"UI_ENABLED":              "true",
	"UI_RATE_LIMIT":           "100",
	"SESSION_SECRET":          "a-very-secret-key-for-testing-!",
}

// ConfigForTests sets a known environment for the test and returns the loaded config.
// overrides replace individual variables.
func ConfigForTests(t *testing.T, overrides map[string]string) *config.Config {
	t.Helper()

	for key, value := range testEnv {
		if v, ok := overrides[key]; ok {
			value = v
		}
		t.Setenv(key, value)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	return cfg
}
