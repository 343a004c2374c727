package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies (object uploads) in megabytes.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// BodyLimit returns the body limit in bytes, falling back to 4MB.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// Fiber returns the application settings. Immutable is required: handler values
// (object keys, registered credentials, metric labels) outlive the request and
// must not point into fasthttp's recycled buffers.
func (c Config) Fiber() fiber.Config {
	return fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             c.BodyLimit(),
		Immutable:             true,
	}
}

// Validate checks the port is usable.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	return nil
}
