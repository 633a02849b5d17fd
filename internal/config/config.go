package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Backend API Configuration
	Backend BackendConfig

	// Server Configuration
	Server ServerConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// BackendConfig holds configuration for the upstream content/identity API
type BackendConfig struct {
	URL string // Backend origin, e.g. https://api.example.com
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddr string // Address the gateway listens on (host:port)
	PublicURL  string // Public origin of the front end, used as the allowed CORS origin
	StaticDir  string // Optional directory with the built dashboard bundle
}

// SessionConfig holds session signing and cookie configuration
type SessionConfig struct {
	Secret       string // HMAC secret for signing session tokens
	CookieSecure bool   // Whether cookies carry the Secure attribute
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// Backend origin is required: every proxy route and the login flow
	// depend on it
	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}

	// Session signing secret is required: unsigned session cookies would
	// make the route guard and cookie bridge trivially forgeable
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":3000"
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Backend: BackendConfig{
			URL: backendURL,
		},
		Server: ServerConfig{
			ListenAddr: listenAddr,
			PublicURL:  os.Getenv("PUBLIC_URL"),
			StaticDir:  os.Getenv("STATIC_DIR"),
		},
		Session: SessionConfig{
			Secret:       sessionSecret,
			CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
