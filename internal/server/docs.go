// Package server provides the HTTP server implementation for the Backplate API.
//
// This file contains general API documentation annotations for Swag/OpenAPI generation.
// These annotations describe the overall API (title, version, security, etc.)
// while individual endpoint annotations live in the handler files.
package server

// @title Backplate API
// @version 0.1.0
// @description Starter backend template with interactive API documentation,
// @description structured logging, health probes, and optional Postgres and
// @description Redis services.
// @description
// @description Features:
// @description - Swagger UI and ReDoc documentation pages
// @description - Rendered README at /README
// @description - Liveness and readiness probes
// @description - Optional log store with pagination and filtering
// @description - Rate limiting and authentication support
//
// @license.name MIT
//
// @host localhost:8000
// @BasePath /
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for authentication (optional, configurable)
