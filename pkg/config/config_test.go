package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("TOKEN", "test-token")
	os.Setenv("PREFIX", "?")
	os.Setenv("VIRUSTOTAL_API_KEY", "vt-key")
	os.Setenv("CLIENT_ID", "123456")
	defer func() {
		os.Unsetenv("TOKEN")
		os.Unsetenv("PREFIX")
		os.Unsetenv("VIRUSTOTAL_API_KEY")
		os.Unsetenv("CLIENT_ID")
	}()

	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Prefix != "?" {
		t.Errorf("Prefix = %v, want %v", config.Prefix, "?")
	}

	if config.VirusTotalAPIKey != "vt-key" {
		t.Errorf("VirusTotalAPIKey = %v, want %v", config.VirusTotalAPIKey, "vt-key")
	}

	if config.ClientID != "123456" {
		t.Errorf("ClientID = %v, want %v", config.ClientID, "123456")
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

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("ENVIRONMENT", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("ENVIRONMENT", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("ENVIRONMENT")
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestBackendSwitches(t *testing.T) {
	c := &Config{StoreBackend: "mongo", MQTTHost: "broker"}
	if !c.UsesMongo() {
		t.Error("UsesMongo() should be true for STORE_BACKEND=mongo")
	}
	if !c.MQTTEnabled() {
		t.Error("MQTTEnabled() should be true when a host is set")
	}

	c = &Config{StoreBackend: "file"}
	if c.UsesMongo() || c.MQTTEnabled() {
		t.Error("file backend without broker should disable mongo and mqtt")
	}
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{"TOKEN", "PREFIX", "WARNINGS_FILE", "UPLOAD_DIR", "STORE_BACKEND",
		"ISOLATION_ROLE_NAME", "MQTT_HOST", "MQTT_PORT", "PORT", "ENVIRONMENT"} {
		os.Unsetenv(key)
	}

	resetForTesting()
	config, _ := Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Prefix", config.Prefix, "!"},
		{"WarningsFile", config.WarningsFile, "data/warnings.json"},
		{"UploadDir", config.UploadDir, "uploads"},
		{"StoreBackend", config.StoreBackend, "file"},
		{"IsolationRoleName", config.IsolationRoleName, "격리"},
		{"MQTTHost", config.MQTTHost, ""},
		{"MQTTPort", config.MQTTPort, "1883"},
		{"Port", config.Port, "3000"},
		{"Environment", config.Environment, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s default = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}
