package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savvy_dca/internal/agent"
	"savvy_dca/internal/ai"
	"savvy_dca/internal/api"
	"savvy_dca/internal/config"
	"savvy_dca/internal/logger"
	"savvy_dca/internal/market"
	"savvy_dca/internal/market/alpaca"
	"savvy_dca/internal/notify"
	"savvy_dca/internal/storage"
	"savvy_dca/internal/tts"
	"savvy_dca/internal/wallet"
)

const logFile = "savvy.log"

func main() {
	// 1. Configuration first, so logging picks up its settings.
	cfg := config.Load()
	logger.Setup(logFile, cfg.MaxLogSizeMB, cfg.MaxLogBackups)

	// 2. Core engine over the persisted state file.
	store := storage.New(cfg.StateFile)
	dca := agent.New(store)

	// 3. Collaborators. Live prices only when Alpaca keys are present.
	var prices market.PriceProvider = market.NewStatic()
	if cfg.AlpacaKeyID != "" && cfg.AlpacaSecretKey != "" {
		prices = alpaca.New()
		log.Println("Price provider: Alpaca crypto market data")
	} else {
		log.Println("Price provider: static demo table")
	}

	server := &api.Server{
		Agent:    dca,
		Prices:   prices,
		AI:       ai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel),
		Wallet:   wallet.NewClient(cfg.NeoRPCURL, cfg.NeoNetwork),
		TTS:      tts.NewClient(cfg.ElevenLabsAPIKey),
		Notifier: notify.New(cfg.TelegramBotToken, cfg.TelegramChatID),
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("Savvy DCA Agent backend listening on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 4. Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("⚠️ Shutting down: system signal received.")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}

	log.Println("🛑 Savvy DCA Agent stopped.")
}
