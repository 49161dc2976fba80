package reconcile

import "time"

// Config holds reconciliation tuning loaded from the environment.
type Config struct {
	// OpTimeoutSeconds bounds each submitted operation.
	OpTimeoutSeconds int `mapstructure:"op_timeout_seconds" default:"30"`
	// CacheTTLSeconds is the snapshot cache TTL for the preview surface.
	// Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
}

// OpTimeout returns the per-op timeout as a duration.
func (c Config) OpTimeout() time.Duration {
	return time.Duration(c.OpTimeoutSeconds) * time.Second
}

// CacheTTL returns the snapshot cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
