package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHTTPPort          = 8080
	DefaultReadTimeout       = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultPrimaryURL        = "https://api.exchangerate.host"
	DefaultFallbackURL       = "https://api.frankfurter.app"
	DefaultProviderTimeout   = 15 * time.Second
	DefaultWindowDays        = 31
	DefaultChunkSize         = 20
	DefaultMaxConcurrent     = 4
	DefaultHeartbeatInterval = 15 * time.Second
	DefaultRetryInterval     = 10 * time.Second
	DefaultClientBuffer      = 4
	DefaultReconcileInterval = time.Hour
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 4
	DefaultMinConns          = 1
	DefaultBatchSize         = 100
	DefaultFlushInterval     = time.Second
	DefaultMetricsPort       = 9090
	DefaultMetricsPath       = "/metrics"
)

func (c *ServerConfig) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultHTTPPort
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = DefaultIdleTimeout
	}

	if c.Providers.PrimaryURL == "" {
		c.Providers.PrimaryURL = DefaultPrimaryURL
	}
	if c.Providers.FallbackURL == "" {
		c.Providers.FallbackURL = DefaultFallbackURL
	}
	if c.Providers.Timeout == 0 {
		c.Providers.Timeout = DefaultProviderTimeout
	}
	if c.Providers.WindowDays == 0 {
		c.Providers.WindowDays = DefaultWindowDays
	}
	if c.Providers.ChunkSize == 0 {
		c.Providers.ChunkSize = DefaultChunkSize
	}
	if c.Providers.MaxConcurrent == 0 {
		c.Providers.MaxConcurrent = DefaultMaxConcurrent
	}

	if c.Stream.HeartbeatInterval == 0 {
		c.Stream.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Stream.RetryInterval == 0 {
		c.Stream.RetryInterval = DefaultRetryInterval
	}
	if c.Stream.ClientBuffer == 0 {
		c.Stream.ClientBuffer = DefaultClientBuffer
	}

	if c.Reconcile.Interval == 0 {
		c.Reconcile.Interval = DefaultReconcileInterval
	}

	if c.Archive.BatchSize == 0 {
		c.Archive.BatchSize = DefaultBatchSize
	}
	if c.Archive.FlushInterval == 0 {
		c.Archive.FlushInterval = DefaultFlushInterval
	}
	applyDBDefaults(&c.Archive.Postgres)

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
