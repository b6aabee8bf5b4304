// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by storeBackend
const (
	BackendChannel = "channel"
	BackendFile    = "file"
	BackendMongo   = "mongo"
	BackendRedis   = "redis"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string
	DevGuildID string

	// Persistence
	StoreBackend string
	DBGuildID    string
	DataDir      string
	MongoDBURL   string
	DBName       string
	RedisURL     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string
	MQTTPrefix   string

	// Web Server
	Port         string
	AllowedHosts string

	// Environment
	Environment string

	// Logging
	LogLevel string
	LogDir   string

	// Webhooks
	ErrorWebhook      string
	LogsWebhook       string
	LogsWebServerHook string

	// Temporary voice channels
	HubChannelID       string
	TempVoiceTimeout   time.Duration
	TempVoiceUserLimit int
	TempVoiceName      string
	TempVoiceSweep     string
	TempVoiceGrace     time.Duration
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
		BotToken:   firstEnv("", "botToken", "DISCORD_TOKEN", "TOKEN"),
		DevGuildID: getEnv("devGuildId", ""),

		// Persistence
		StoreBackend: getEnv("storeBackend", ""),
		DBGuildID:    getEnv("dbGuildId", ""),
		DataDir:      getEnv("dataDir", "data"),
		MongoDBURL:   getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:       getEnv("dbName", "PancyCommunity"),
		RedisURL:     getEnv("redisUrl", "redis://localhost:6379/0"),

		// MQTT
		MQTTHost:     getEnv("MQTT_Host", ""),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),
		MQTTPrefix:   getEnv("MQTT_Prefix", "pancy"),

		// Web Server
		Port:         getEnv("PORT", "3000"),
		AllowedHosts: getEnv("allowedHosts", ""),

		// Environment
		Environment: getEnv("enviroment", "dev"),

		// Logging
		LogLevel: getEnv("logLevel", "debug"),
		LogDir:   getEnv("logDir", "logs"),

		// Webhooks
		ErrorWebhook:      getEnv("errorWebhook", ""),
		LogsWebhook:       getEnv("logsWebhook", ""),
		LogsWebServerHook: getEnv("logsWebServerWebhook", ""),

		// Temporary voice channels
		HubChannelID:       getEnv("hubChannelId", ""),
		TempVoiceTimeout:   getDuration("tempVoiceTimeout", 300*time.Second),
		TempVoiceUserLimit: getInt("tempVoiceUserLimit", 5),
		TempVoiceName:      getEnv("tempVoiceName", "Salon de %s"),
		TempVoiceSweep:     getEnv("tempVoiceSweep", "@every 1m"),
		TempVoiceGrace:     getDuration("tempVoiceSweepGrace", time.Minute),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
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

// firstEnv returns the first non-empty variable among keys
func firstEnv(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

// getInt parses an integer variable, falling back on empty or invalid input
func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getDuration accepts Go durations ("5m") or plain seconds ("300")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// Backend resolves the persistence backend. Without an explicit choice the
// channel store is used when a database guild is configured, local files otherwise.
func (c *Config) Backend() string {
	switch c.StoreBackend {
	case BackendChannel, BackendFile, BackendMongo, BackendRedis:
		return c.StoreBackend
	}
	if c.DBGuildID != "" {
		return BackendChannel
	}
	return BackendFile
}

// Validate reports configuration that makes the bot unable to start
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("missing bot token: set botToken, DISCORD_TOKEN or TOKEN")
	}
	if c.Backend() == BackendChannel && c.DBGuildID == "" {
		return fmt.Errorf("storeBackend=channel requires dbGuildId")
	}
	if c.TempVoiceUserLimit < 0 || c.TempVoiceUserLimit > 99 {
		return fmt.Errorf("tempVoiceUserLimit must be between 0 and 99, got %d", c.TempVoiceUserLimit)
	}
	if c.TempVoiceTimeout <= 0 {
		return fmt.Errorf("tempVoiceTimeout must be positive")
	}
	return nil
}
