package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Server configuration
	Host  string
	Port  int
	Title string

	StaticDir  string
	ReadmePath string

	SwaggerJSURL  string
	SwaggerCSSURL string
	RedocJSURL    string

	CORSEnabled bool
	CORSOrigins []string

	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	RateLimit      int
	MetricsEnabled bool

	// Backing services
	DBEnabled   bool
	DatabaseURL string

	CacheEnabled bool
	CacheURL     string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (.backplate.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".backplate")
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		Host:  viper.GetString("host"),
		Port:  viper.GetInt("port"),
		Title: viper.GetString("title"),

		StaticDir:  viper.GetString("static_dir"),
		ReadmePath: viper.GetString("readme_path"),

		SwaggerJSURL:  viper.GetString("swagger_js_url"),
		SwaggerCSSURL: viper.GetString("swagger_css_url"),
		RedocJSURL:    viper.GetString("redoc_js_url"),

		CORSEnabled: viper.GetBool("cors_enabled"),
		CORSOrigins: splitOrigins(viper.GetString("cors_origins")),

		AuthEnabled: viper.GetBool("auth_enabled"),
		AuthHeader:  viper.GetString("auth_header"),
		APIKey:      viper.GetString("api_key"),

		RateLimit:      viper.GetInt("rate_limit"),
		MetricsEnabled: viper.GetBool("metrics_enabled"),

		DBEnabled:   viper.GetBool("db_enabled"),
		DatabaseURL: viper.GetString("database_url"),

		CacheEnabled: viper.GetBool("cache_enabled"),
		CacheURL:     viper.GetString("cache_url"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// setDefaults registers default values so viper falls back to them when
// neither env vars, .env files, nor the config file provide a value.
func setDefaults() {
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 8000)
	viper.SetDefault("title", "Backplate")

	viper.SetDefault("static_dir", "static")
	viper.SetDefault("readme_path", "README.md")

	viper.SetDefault("swagger_js_url", "/static/swagger-ui-bundle.js")
	viper.SetDefault("swagger_css_url", "/static/swagger-ui.css")
	viper.SetDefault("redoc_js_url", "/static/redoc.standalone.js")

	viper.SetDefault("auth_header", "X-API-Key")
	viper.SetDefault("rate_limit", 100)
	viper.SetDefault("metrics_enabled", true)

	viper.SetDefault("database_url", "postgres://localhost:5432/backplate")
	viper.SetDefault("cache_url", "redis://localhost:6379/0")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv.Load never overwrites keys that are already set, so the local
// overrides file has to be loaded first for .env.local to win over .env.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// splitOrigins parses a comma-separated origin list.
func splitOrigins(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
