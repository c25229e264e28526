package config

import "time"

// ServerConfig is the root configuration for a ratings data server.
type ServerConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Seed      SeedConfig      `yaml:"seed"`
	Providers ProvidersConfig `yaml:"providers"`
	Stream    StreamConfig    `yaml:"stream"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this server instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// HTTPConfig holds the public HTTP listener settings.
type HTTPConfig struct {
	Port        int           `yaml:"port"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// AuthConfig holds the shared-secret write authentication.
type AuthConfig struct {
	AdminToken string `yaml:"admin_token"`
}

// SeedConfig locates the static seed snapshot loaded at process start.
type SeedConfig struct {
	Path string `yaml:"path"`
}

// ProvidersConfig holds the external exchange-rate provider settings.
type ProvidersConfig struct {
	PrimaryURL    string        `yaml:"primary_url"`
	FallbackURL   string        `yaml:"fallback_url"`
	Timeout       time.Duration `yaml:"timeout"`
	WindowDays    int           `yaml:"window_days"`
	ChunkSize     int           `yaml:"chunk_size"`
	MaxConcurrent int           `yaml:"max_concurrent"`
}

// StreamConfig holds push-stream settings shared by the SSE and WebSocket
// endpoints.
type StreamConfig struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	RetryInterval     time.Duration `yaml:"retry_interval"` // advertised SSE reconnect delay
	ClientBuffer      int           `yaml:"client_buffer"`
}

// ReconcileConfig holds the scheduled reconciliation loop settings.
type ReconcileConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ArchiveConfig holds the optional write-only history archive.
type ArchiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Postgres      DBConfig      `yaml:"postgres"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
