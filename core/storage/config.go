package storage

import (
	"fmt"
	"strings"
)

const (
	DriverMinio  = "minio"
	DriverS3     = "s3"
	DriverMemory = "memory"
)

// Config holds configuration for the storage provider.
type Config struct {
	// Driver selects the transport (minio, s3, memory).
	Driver string `mapstructure:"driver" default:"minio"`
	// Endpoint is the URL of the storage service. Empty means the provider default (AWS).
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	// Leave AccessKey and SecretKey empty to use ambient credentials.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// Bucket is the name of the bucket the CLI operates on.
	Bucket string `mapstructure:"bucket" default:""`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:"us-east-1"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxAttempts bounds SDK-level attempts per request on the s3 driver.
	MaxAttempts int `mapstructure:"max_attempts" default:"1"`
}

// HasStaticCredentials reports whether both halves of a key pair are set.
func (c Config) HasStaticCredentials() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// Validate checks the fields every driver needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return ErrEmptyBucket
	}
	switch c.Driver {
	case DriverMinio, DriverS3, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("access key and secret key must be set together")
	}
	return nil
}
