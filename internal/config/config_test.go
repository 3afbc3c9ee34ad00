package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Ensure a clean environment for everything Load reads.
	keys := []string{
		"PORT", "STATE_FILE", "NEO_RPC_URL", "NEO_NETWORK",
		"GEMINI_API_KEY", "GEMINI_MODEL", "ELEVENLABS_API_KEY",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
		"LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS",
	}
	for _, k := range keys {
		os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.Port != "5000" {
		t.Errorf("Expected port 5000, got %s", cfg.Port)
	}
	if cfg.StateFile != "data/agent_state.json" {
		t.Errorf("Expected default state file, got %s", cfg.StateFile)
	}
	if cfg.NeoRPCURL != "https://testnet.neox.network:443" {
		t.Errorf("Expected default Neo RPC URL, got %s", cfg.NeoRPCURL)
	}
	if cfg.NeoNetwork != "testnet" {
		t.Errorf("Expected testnet, got %s", cfg.NeoNetwork)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("Expected default Gemini model, got %s", cfg.GeminiModel)
	}
	if cfg.MaxLogSizeMB != 10 {
		t.Errorf("Expected MaxLogSizeMB 10, got %d", cfg.MaxLogSizeMB)
	}
	if cfg.MaxLogBackups != 3 {
		t.Errorf("Expected MaxLogBackups 3, got %d", cfg.MaxLogBackups)
	}
}

func TestLoad_Overrides(t *testing.T) {
	overrides := map[string]string{
		"PORT":            "8080",
		"STATE_FILE":      "/tmp/other_state.json",
		"LOG_MAX_BACKUPS": "7",
	}
	for k, v := range overrides {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.StateFile != "/tmp/other_state.json" {
		t.Errorf("Expected overridden state file, got %s", cfg.StateFile)
	}
	if cfg.MaxLogBackups != 7 {
		t.Errorf("Expected MaxLogBackups 7, got %d", cfg.MaxLogBackups)
	}
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	os.Setenv("LOG_MAX_BACKUPS", "not-a-number")
	defer os.Unsetenv("LOG_MAX_BACKUPS")

	if got := getEnvAsInt("LOG_MAX_BACKUPS", 3); got != 3 {
		t.Errorf("Expected fallback 3 on invalid int, got %d", got)
	}
}
