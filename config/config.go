// config.go - Handles configuration for the blog backend

package config // Declares the package name

import ( // Import required packages
	"os"      // For reading environment variables
	"strconv" // For parsing numeric and boolean values
	"strings" // For splitting comma separated lists
	"time"    // For token lifetime

	"github.com/joho/godotenv" // Loads a local .env file into the environment
)

const (
	MaxThumbnailSize = 2000000 // Largest accepted post thumbnail in bytes
	MaxAvatarSize    = 500000  // Largest accepted avatar in bytes
)

// CORSConfig enumerates what browsers are allowed to send to the API
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

type Config struct { // Config struct holds all configuration values
	Port         string        // HTTP listen port
	DBPath       string        // Path to the SQLite database file
	UploadsDir   string        // Directory holding avatars and thumbnails
	JWTSecret    string        // Secret key for JWT signing
	TokenTTL     time.Duration // Lifetime of a session token
	LogLevel     string        // debug, info, warning or error
	Debug        bool          // Verbose gin and gorm output
	MQTTBroker   string        // Address of the MQTT broker (empty disables post events)
	MQTTClientID string        // Client ID used when connecting to the broker
	RecountCron  string        // Cron spec for post counter reconciliation (empty disables it)
	CORS         CORSConfig
}

// Load reads config from the environment, after pulling in a .env file if one exists
func Load() *Config {
	_ = godotenv.Load() // Missing .env is fine, real env vars still apply

	return &Config{
		Port:         getEnv("PORT", "8080"),                      // Get port or use default
		DBPath:       getEnv("DB_PATH", "blog.db"),                // Get DB path or use default
		UploadsDir:   getEnv("UPLOADS_DIR", "uploads"),            // Get uploads folder or use default
		JWTSecret:    getEnv("JWT_SECRET", "supersecret"),         // Get JWT secret or use default
		TokenTTL:     getDuration("TOKEN_TTL", 24*time.Hour),      // Tokens live for a day by default
		LogLevel:     getEnv("LOG_LEVEL", "info"),                 // Get log level or use default
		Debug:        getBool("DEBUG", false),                     // Debug output off by default
		MQTTBroker:   getEnv("MQTT_BROKER", ""),                   // No broker means no events
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "go-blog-backend"), // Get client ID or use default
		RecountCron:  getEnv("RECOUNT_CRON", ""),                  // Reconciliation off by default
		CORS: CORSConfig{
			AllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization"}),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
		},
	}
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" { // If env var is set, use it
		return value
	}
	return fallback // Otherwise, use fallback value
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// getList splits a comma separated env var, dropping blank entries
func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
