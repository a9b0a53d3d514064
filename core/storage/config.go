package storage

import "time"

// Config holds the S3 compatible storage that relation snapshots are exported to.
type Config struct {
	// Enabled turns snapshot storage on. A disabled storage leaves the snapshot routes unmounted.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Endpoint is host:port of the storage service, with or without scheme.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey and SecretKey are static V4 credentials.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL selects https.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket receives one object per snapshot under snapshots/<relation>/.
	Bucket string `mapstructure:"bucket" default:"relation-snapshots"`
	// Region is used when the bucket has to be created.
	Region string `mapstructure:"region" default:""`
	// Keep is how many snapshots per relation a prune leaves in place.
	Keep int `mapstructure:"keep" default:"10"`
	// TimeoutSeconds bounds dialing, the TLS handshake and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns the connection timeout, 30 seconds when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Retention returns the number of snapshots kept by a prune, 10 when unset.
func (c Config) Retention() int {
	if c.Keep <= 0 {
		return 10
	}
	return c.Keep
}
