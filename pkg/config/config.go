// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string
	Prefix     string
	ClientID   string
	DevGuildID string

	// VirusTotal
	VirusTotalAPIKey string

	// Storage
	WarningsFile string
	UploadDir    string
	StoreBackend string

	// Moderation
	IsolationRoleID   string
	IsolationRoleName string

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port         string
	AllowedHosts string
	APIToken     string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:   getEnv("TOKEN", ""),
		Prefix:     getEnv("PREFIX", "!"),
		ClientID:   getEnv("CLIENT_ID", ""),
		DevGuildID: getEnv("DEV_GUILD_ID", ""),

		// VirusTotal
		VirusTotalAPIKey: getEnv("VIRUSTOTAL_API_KEY", ""),

		// Storage
		WarningsFile: getEnv("WARNINGS_FILE", "data/warnings.json"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		StoreBackend: getEnv("STORE_BACKEND", "file"),

		// Moderation
		IsolationRoleID:   getEnv("ISOLATION_ROLE_ID", ""),
		IsolationRoleName: getEnv("ISOLATION_ROLE_NAME", "격리"),

		// MongoDB
		MongoDBURL: getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DBName:     getEnv("DB_NAME", "PancyMod"),

		// MQTT (empty host disables the event feed)
		MQTTHost:     getEnv("MQTT_HOST", ""),
		MQTTPort:     getEnv("MQTT_PORT", "1883"),
		MQTTUser:     getEnv("MQTT_USER", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		// Web Server
		Port:         getEnv("PORT", "3000"),
		AllowedHosts: getEnv("WEB_ALLOWED_HOSTS", ""),
		APIToken:     getEnv("API_TOKEN", ""),

		// Environment
		Environment: getEnv("ENVIRONMENT", "dev"),

		// Webhooks
		ErrorWebhook:      getEnv("ERROR_WEBHOOK", ""),
		LogsWebhook:       getEnv("LOGS_WEBHOOK", ""),
		LogsWebServerHook: getEnv("LOGS_WEBSERVER_WEBHOOK", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// UsesMongo reports whether warnings are kept in MongoDB instead of the flat file
func (c *Config) UsesMongo() bool {
	return c.StoreBackend == "mongo"
}

// MQTTEnabled reports whether a broker was configured for the moderation event feed
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}
