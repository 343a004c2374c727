// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// settings it reads: listen port, API key and request body limit.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the auth middleware to pick up the API key.
package server
