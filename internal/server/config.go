package server

import "time"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API metadata
	Title   string
	Version string

	// Documentation settings
	StaticDir     string
	ReadmePath    string
	SwaggerJSURL  string
	SwaggerCSSURL string
	RedocJSURL    string
	SchemaURL     string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings
	AuthEnabled bool
	AuthHeader  string
	AuthAPIKey  string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		Title:          "Backplate",
		Version:        "0.1.0",
		StaticDir:      "static",
		ReadmePath:     "README.md",
		SwaggerJSURL:   "/static/swagger-ui-bundle.js",
		SwaggerCSSURL:  "/static/swagger-ui.css",
		RedocJSURL:     "/static/redoc.standalone.js",
		SchemaURL:      "/openapi.json",
		CORSEnabled:    false,
		CORSOrigins:    []string{},
		AuthEnabled:    false,
		AuthHeader:     "X-API-Key",
		RateLimit:      100,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}
