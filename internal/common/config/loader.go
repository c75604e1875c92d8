// internal/common/config/loader.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// WebhookURLEnv is the variable the destination webhook URL is read from.
const WebhookURLEnv = "N8N_WEBHOOK_URL"

// keys are bound explicitly so AutomaticEnv applies even without a config file.
var keys = []string{
	"app.name", "app.version", "app.environment",
	"server.address", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
	"relay.webhook_url", "relay.id_prefix", "relay.timeout", "relay.destination", "relay.reservation_ttl",
	"camunda.broker_address", "camunda.process_id", "camunda.plaintext", "camunda.request_timeout",
	"database.redis.address", "database.redis.password", "database.redis.db",
	"form.relay_url", "form.default_language", "form.payload_language", "form.request_timeout",
	"logging.level", "logging.format", "logging.output",
}

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // tests under test/e2e
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			v.Set(key, os.ExpandEnv(strVal))
		}
	}
}

// overrideEmptyConfig fills values that have a well-known variable of their own.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Relay.WebhookURL == "" {
		if val := os.Getenv(WebhookURLEnv); val != "" {
			cfg.Relay.WebhookURL = val
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_URL"); val != "" {
			cfg.Database.Redis.Address = strings.TrimPrefix(val, "redis://")
		}
	}
	cfg.Relay.WebhookURL = strings.TrimSpace(cfg.Relay.WebhookURL)
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "certification-intake"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Relay.IDPrefix == "" {
		cfg.Relay.IDPrefix = "CERT-S-"
	}
	if cfg.Relay.Destination == "" {
		cfg.Relay.Destination = DestinationWebhook
	}
	if cfg.Relay.ReservationTTL == 0 {
		cfg.Relay.ReservationTTL = 24 * 60 * 60 * 1000
	}

	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Form.DefaultLanguage == "" {
		cfg.Form.DefaultLanguage = "bg"
	}
	if cfg.Form.PayloadLanguage == "" {
		cfg.Form.PayloadLanguage = "bg"
	}
	if cfg.Form.RelayURL == "" {
		cfg.Form.RelayURL = localRelayURL(cfg.Server.Address)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// localRelayURL points the form at this process's own relay endpoint.
func localRelayURL(address string) string {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return "http://127.0.0.1:8080/api/submit"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/submit"
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server.Address); err != nil {
		return fmt.Errorf("server.address %q is not host:port: %w", cfg.Server.Address, err)
	}

	switch cfg.Relay.Destination {
	case DestinationWebhook:
		// An unset webhook URL is reported per request.
		if cfg.Relay.WebhookURL != "" {
			if err := validateHTTPURL(cfg.Relay.WebhookURL); err != nil {
				return fmt.Errorf("relay.webhook_url: %w", err)
			}
		}
	case DestinationZeebe:
		if cfg.Camunda.BrokerAddress == "" {
			return fmt.Errorf("camunda.broker_address is required when relay.destination is %q", DestinationZeebe)
		}
		if cfg.Camunda.ProcessID == "" {
			return fmt.Errorf("camunda.process_id is required when relay.destination is %q", DestinationZeebe)
		}
	default:
		return fmt.Errorf("relay.destination must be %q or %q, got %q", DestinationWebhook, DestinationZeebe, cfg.Relay.Destination)
	}

	if cfg.Relay.Timeout < 0 {
		return fmt.Errorf("relay.timeout must not be negative")
	}

	for key, lang := range map[string]string{
		"form.default_language": cfg.Form.DefaultLanguage,
		"form.payload_language": cfg.Form.PayloadLanguage,
	} {
		if lang != "bg" && lang != "en" {
			return fmt.Errorf("%s must be bg or en, got %q", key, lang)
		}
	}

	if err := validateHTTPURL(cfg.Form.RelayURL); err != nil {
		return fmt.Errorf("form.relay_url: %w", err)
	}

	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
