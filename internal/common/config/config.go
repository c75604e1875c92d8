// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Camunda  CamundaConfig  `mapstructure:"camunda"`
	Database DatabaseConfig `mapstructure:"database"`
	Form     FormConfig     `mapstructure:"form"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Destinations accepted by relay.destination.
const (
	DestinationWebhook = "webhook"
	DestinationZeebe   = "zeebe"
)

// RelayConfig holds the submission relay settings.
// WebhookURL may be empty; the relay reports that per request instead of
// refusing to start.
type RelayConfig struct {
	WebhookURL     string `mapstructure:"webhook_url"`
	IDPrefix       string `mapstructure:"id_prefix"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds, 0 = no client timeout
	Destination    string `mapstructure:"destination"`
	ReservationTTL int    `mapstructure:"reservation_ttl"` // milliseconds
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	ProcessID      string `mapstructure:"process_id"`
	Plaintext      bool   `mapstructure:"plaintext"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// FormConfig holds settings for the server-rendered form.
type FormConfig struct {
	RelayURL        string `mapstructure:"relay_url"`
	DefaultLanguage string `mapstructure:"default_language"`
	PayloadLanguage string `mapstructure:"payload_language"`
	RequestTimeout  int    `mapstructure:"request_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
