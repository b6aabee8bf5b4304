package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set up test environment variables
	os.Setenv("botToken", "test-token")
	os.Setenv("PORT", "3001")
	os.Setenv("enviroment", "test")
	defer func() {
		os.Unsetenv("botToken")
		os.Unsetenv("PORT")
		os.Unsetenv("enviroment")
	}()

	// Reset global config
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestTokenFallbacks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"botToken wins", map[string]string{"botToken": "a", "DISCORD_TOKEN": "b", "TOKEN": "c"}, "a"},
		{"DISCORD_TOKEN", map[string]string{"DISCORD_TOKEN": "b", "TOKEN": "c"}, "b"},
		{"TOKEN", map[string]string{"TOKEN": "c"}, "c"},
		{"none", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"botToken", "DISCORD_TOKEN", "TOKEN"} {
				os.Unsetenv(k)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			resetForTesting()
			config, _ := Load()
			if config.BotToken != tt.want {
				t.Errorf("BotToken = %v, want %v", config.BotToken, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 300 * time.Second},
		{"90s", 90 * time.Second},
		{"2m", 2 * time.Minute},
		{"45", 45 * time.Second},
		{"nope", 300 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getDuration("TEST_DURATION", 300*time.Second); got != tt.want {
				t.Errorf("getDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("TEST_INT", "7")
	if got := getInt("TEST_INT", 5); got != 7 {
		t.Errorf("getInt() = %v, want %v", got, 7)
	}

	t.Setenv("TEST_INT", "siete")
	if got := getInt("TEST_INT", 5); got != 5 {
		t.Errorf("getInt() = %v, want %v", got, 5)
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("enviroment")
}

func TestBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		backend string
	}{
		{"explicit file", Config{StoreBackend: "file", DBGuildID: "1"}, BackendFile},
		{"explicit redis", Config{StoreBackend: "redis"}, BackendRedis},
		{"db guild implies channel", Config{DBGuildID: "1"}, BackendChannel},
		{"default file", Config{}, BackendFile},
		{"unknown falls back", Config{StoreBackend: "sqlite"}, BackendFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Backend(); got != tt.backend {
				t.Errorf("Backend() = %v, want %v", got, tt.backend)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{BotToken: "x", TempVoiceTimeout: time.Minute, TempVoiceUserLimit: 5}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	noToken := valid
	noToken.BotToken = ""
	if err := noToken.Validate(); err == nil {
		t.Error("Validate() should fail without a token")
	}

	channelNoGuild := valid
	channelNoGuild.StoreBackend = BackendChannel
	if err := channelNoGuild.Validate(); err == nil {
		t.Error("Validate() should fail for the channel backend without dbGuildId")
	}

	badLimit := valid
	badLimit.TempVoiceUserLimit = 100
	if err := badLimit.Validate(); err == nil {
		t.Error("Validate() should reject a user limit above 99")
	}
}

func TestGet(t *testing.T) {
	resetForTesting()

	// Get should create a new config if none exists
	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	// Get should return the same config on subsequent calls
	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	// Clear all environment variables
	for _, k := range []string{"botToken", "devGuildId", "mongodbUrl", "dbName", "MQTT_Host", "MQTT_Port",
		"PORT", "enviroment", "dataDir", "tempVoiceTimeout", "tempVoiceUserLimit", "tempVoiceName"} {
		os.Unsetenv(k)
	}

	resetForTesting()
	config, _ := Load()

	// Check default values
	if config.MongoDBURL != "mongodb://localhost:27017" {
		t.Errorf("MongoDBURL default = %v, want %v", config.MongoDBURL, "mongodb://localhost:27017")
	}

	if config.DBName != "PancyCommunity" {
		t.Errorf("DBName default = %v, want %v", config.DBName, "PancyCommunity")
	}

	if config.MQTTPort != "1883" {
		t.Errorf("MQTTPort default = %v, want %v", config.MQTTPort, "1883")
	}

	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}

	if config.Environment != "dev" {
		t.Errorf("Environment default = %v, want %v", config.Environment, "dev")
	}

	if config.DataDir != "data" {
		t.Errorf("DataDir default = %v, want %v", config.DataDir, "data")
	}

	if config.TempVoiceTimeout != 300*time.Second {
		t.Errorf("TempVoiceTimeout default = %v, want %v", config.TempVoiceTimeout, 300*time.Second)
	}

	if config.TempVoiceUserLimit != 5 {
		t.Errorf("TempVoiceUserLimit default = %v, want %v", config.TempVoiceUserLimit, 5)
	}

	if config.TempVoiceName != "Salon de %s" {
		t.Errorf("TempVoiceName default = %v, want %v", config.TempVoiceName, "Salon de %s")
	}
}
