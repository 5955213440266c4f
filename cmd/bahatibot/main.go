package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiprotich-dev/bahatibot/internal/api"
	"github.com/kiprotich-dev/bahatibot/internal/config"
	"github.com/kiprotich-dev/bahatibot/internal/discord"
	"github.com/kiprotich-dev/bahatibot/internal/game"
	"github.com/kiprotich-dev/bahatibot/internal/store"
	"github.com/kiprotich-dev/bahatibot/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the persistence gateway
	var st store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.NewPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open database store: %v", err)
		}
	} else {
		st = store.NewFileStore(cfg.DataDir)
	}
	defer st.Close()

	// Restore the game engine from persisted state
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine, err := game.New(ctx, st, rng)
	if err != nil {
		log.Fatalf("Failed to initialize game engine: %v", err)
	}

	// Start the chat transport
	switch cfg.Platform {
	case config.PlatformDiscord:
		bot, err := discord.New(cfg.BotToken, engine)
		if err != nil {
			log.Fatalf("Failed to create discord bot: %v", err)
		}
		if err := bot.Start(); err != nil {
			log.Fatalf("Failed to start discord bot: %v", err)
		}
		defer bot.Stop()
	default:
		bot, err := telegram.New(cfg.BotToken, engine)
		if err != nil {
			log.Fatalf("Failed to create telegram bot: %v", err)
		}
		go bot.Run(ctx)
	}

	// Start the operator API
	apiServer := api.New(cfg, engine)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	cancel()
	if err := engine.Close(context.Background()); err != nil {
		log.Printf("Failed to write final snapshot: %v", err)
	}
}
