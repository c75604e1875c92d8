// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv(WebhookURLEnv, "")
	path := writeConfig(t, "app:\n  name: intake\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "intake", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "CERT-S-", cfg.Relay.IDPrefix)
	assert.Equal(t, DestinationWebhook, cfg.Relay.Destination)
	assert.Equal(t, 0, cfg.Relay.Timeout, "relay has no client timeout unless configured")
	assert.Equal(t, "bg", cfg.Form.DefaultLanguage)
	assert.Equal(t, "http://127.0.0.1:8080/api/submit", cfg.Form.RelayURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Relay.WebhookURL, "missing webhook URL is not a load error")
	assert.False(t, cfg.Database.Redis.Enabled())
}

func TestLoadFromFile_WebhookFromEnvironment(t *testing.T) {
	t.Setenv(WebhookURLEnv, " https://hooks.example.com/webhook/cert ")
	path := writeConfig(t, "server:\n  address: 0.0.0.0:9090\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example.com/webhook/cert", cfg.Relay.WebhookURL)
	assert.Equal(t, "http://127.0.0.1:9090/api/submit", cfg.Form.RelayURL)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("INTAKE_TEST_REDIS", "localhost:6390")
	path := writeConfig(t, "database:\n  redis:\n    address: ${INTAKE_TEST_REDIS}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6390", cfg.Database.Redis.Address)
	assert.True(t, cfg.Database.Redis.Enabled())
}

func TestLoadFromFile_EnvOverridesKeys(t *testing.T) {
	t.Setenv("RELAY_TIMEOUT", "2500")
	t.Setenv("LOGGING_LEVEL", "debug")
	path := writeConfig(t, "relay:\n  timeout: 100\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2500, cfg.Relay.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown destination",
			body:    "relay:\n  destination: kafka\n",
			wantErr: "relay.destination",
		},
		{
			name:    "zeebe without broker",
			body:    "relay:\n  destination: zeebe\ncamunda:\n  process_id: certification-intake\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "zeebe without process",
			body:    "relay:\n  destination: zeebe\ncamunda:\n  broker_address: localhost:26500\n",
			wantErr: "camunda.process_id",
		},
		{
			name:    "webhook url without scheme",
			body:    "relay:\n  webhook_url: hooks.example.com/x\n",
			wantErr: "relay.webhook_url",
		},
		{
			name:    "unsupported language",
			body:    "form:\n  default_language: de\n",
			wantErr: "form.default_language",
		},
		{
			name:    "negative timeout",
			body:    "relay:\n  timeout: -5\n",
			wantErr: "relay.timeout",
		},
		{
			name:    "server address without port",
			body:    "server:\n  address: localhost\n",
			wantErr: "server.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(WebhookURLEnv, "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
	assert.Equal(t, "0s", GetDuration(0).String())
}
