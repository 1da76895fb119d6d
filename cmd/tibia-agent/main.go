package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ekzore/tibia-agent/internal/agent"
	"github.com/ekzore/tibia-agent/internal/api"
	"github.com/ekzore/tibia-agent/internal/bot"
	"github.com/ekzore/tibia-agent/internal/config"
	"github.com/ekzore/tibia-agent/internal/db"
	"github.com/ekzore/tibia-agent/internal/houses"
	"github.com/ekzore/tibia-agent/internal/split"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Core tools
	splitter := split.NewTool()
	splitter.Parser.ReconstructThreshold = cfg.ReconstructThreshold

	housesClient := houses.NewClient()
	housesClient.BaseURL = cfg.TibiaDataBaseURL

	// Connect to database (optional: split history only)
	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(context.Background()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, split history disabled")
	}

	// LLM agent (optional: /api/ask only)
	var ag *agent.Agent
	if cfg.OpenAIAPIKey != "" {
		ag = agent.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, splitter, housesClient)
	} else {
		log.Println("OPENAI_API_KEY not set, /api/ask disabled")
	}

	// Discord bot (optional)
	if cfg.DiscordToken != "" {
		discordBot, err := bot.New(cfg.DiscordToken, splitter, database)
		if err != nil {
			log.Fatalf("Failed to create discord bot: %v", err)
		}
		if err := discordBot.Start(); err != nil {
			log.Fatalf("Failed to start discord bot: %v", err)
		}
		defer discordBot.Stop()
	} else {
		log.Println("DISCORD_TOKEN not set, bot disabled")
	}

	// Start API server
	apiServer := api.New(cfg, ag, splitter, housesClient, database)
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
}
