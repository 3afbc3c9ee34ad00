package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment. External
// integrations (Gemini, ElevenLabs, Telegram, Alpaca) are all optional: a
// missing key degrades that feature to demo/disabled mode instead of failing
// startup.
type Config struct {
	Port      string
	StateFile string

	NeoRPCURL  string
	NeoNetwork string

	GeminiAPIKey string
	GeminiModel  string

	ElevenLabsAPIKey string

	TelegramBotToken string
	TelegramChatID   string

	AlpacaKeyID     string
	AlpacaSecretKey string

	MaxLogSizeMB  int64
	MaxLogBackups int
}

// Load reads a .env file if present, then builds the Config from the process
// environment with sensible defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "5000"),
		StateFile:        getEnv("STATE_FILE", "data/agent_state.json"),
		NeoRPCURL:        getEnv("NEO_RPC_URL", "https://testnet.neox.network:443"),
		NeoNetwork:       getEnv("NEO_NETWORK", "testnet"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		AlpacaKeyID:      os.Getenv("APCA_API_KEY_ID"),
		AlpacaSecretKey:  os.Getenv("APCA_API_SECRET_KEY"),
		MaxLogSizeMB:     int64(getEnvAsInt("LOG_MAX_SIZE_MB", 10)),
		MaxLogBackups:    getEnvAsInt("LOG_MAX_BACKUPS", 3),
	}

	for _, opt := range []struct{ key, feature string }{
		{"GEMINI_API_KEY", "AI chat runs in demo mode"},
		{"ELEVENLABS_API_KEY", "text-to-speech disabled"},
		{"TELEGRAM_BOT_TOKEN", "Telegram notifications disabled"},
		{"APCA_API_KEY_ID", "live crypto prices unavailable, using static table"},
	} {
		if os.Getenv(opt.key) == "" {
			log.Printf("Warning: %s not set, %s", opt.key, opt.feature)
		}
	}

	return cfg
}
