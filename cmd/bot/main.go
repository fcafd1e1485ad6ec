package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/chris/disclaude/config"
	"github.com/chris/disclaude/internal/agent"
	"github.com/chris/disclaude/internal/db"
	"github.com/chris/disclaude/internal/discord"
	"github.com/chris/disclaude/internal/hypixel"
	"github.com/chris/disclaude/internal/llm"
	"github.com/chris/disclaude/internal/logging"
	"github.com/chris/disclaude/internal/personality"
	"github.com/chris/disclaude/internal/remind"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("main", "info", true)
		bootLog.Fatal().Err(err).Msg("loading config")
	}

	log := logging.New("main", cfg.LogLevel, cfg.LogPretty)

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer database.Close()

	apiKey := cfg.AnthropicKey
	if cfg.LLMProvider == "openai" {
		apiKey = cfg.OpenAIKey
	}

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider: cfg.LLMProvider,
		APIKey:   apiKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.OllamaBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("creating LLM client")
	}

	tracker := personality.New()
	if cfg.PersistPersonality {
		restorePersonality(database, tracker, log)
	}

	scheduler, err := remind.NewScheduler(logging.New("remind", cfg.LogLevel, cfg.LogPretty))
	if err != nil {
		log.Fatal().Err(err).Msg("creating reminder scheduler")
	}
	scheduler.Start()
	defer scheduler.Stop()

	parser := remind.NewParser()

	ag := agent.New(agent.Deps{
		DB:               database,
		Client:           client,
		Hypixel:          hypixel.NewClient(cfg.HypixelKey),
		Reminders:        scheduler,
		Parser:           parser,
		Personality:      tracker,
		MaxContextTokens: cfg.MaxContextTokens,
		Log:              logging.New("agent", cfg.LogLevel, cfg.LogPretty),
	})

	bot, err := discord.NewBot(discord.Options{
		Token:           cfg.DiscordToken,
		Agent:           ag,
		Personality:     tracker,
		Reminders:       scheduler,
		Parser:          parser,
		RateLimitCount:  cfg.RateLimitMessages,
		RateLimitWindow: cfg.RateLimitWindow,
		Log:             logging.New("discord", cfg.LogLevel, cfg.LogPretty),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("starting Discord bot")
	}
	defer bot.Close()

	// Reminders created by agent tool calls deliver through the bot; the
	// deliverer isn't available until the session is up.
	ag.SetDeliver(bot.Deliver)

	var autosave *cron.Cron
	if cfg.PersistPersonality {
		autosave = cron.New()
		if _, err := autosave.AddFunc(cfg.SnapshotCron, func() {
			savePersonality(database, tracker, log)
		}); err != nil {
			log.Fatal().Err(err).Str("cron", cfg.SnapshotCron).Msg("bad snapshot schedule")
		}
		autosave.Start()
		defer autosave.Stop()
	}

	log.Info().Msg("bot is running, press Ctrl+C to exit")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	if cfg.PersistPersonality {
		savePersonality(database, tracker, log)
	}
	log.Info().Msg("shutting down")
}

func restorePersonality(database *db.DB, tracker *personality.Tracker, log zerolog.Logger) {
	raw, err := database.LoadPersonalitySnapshot()
	if err != nil {
		log.Error().Err(err).Msg("loading personality snapshot")
		return
	}
	if raw == "" {
		return
	}
	snap, err := personality.UnmarshalSnapshot(raw)
	if err != nil {
		log.Error().Err(err).Msg("corrupt personality snapshot, starting fresh")
		return
	}
	tracker.Restore(snap)
	log.Info().Int("interactions", snap.Interactions).Msg("personality restored")
}

func savePersonality(database *db.DB, tracker *personality.Tracker, log zerolog.Logger) {
	raw, err := personality.MarshalSnapshot(tracker.Snapshot())
	if err != nil {
		log.Error().Err(err).Msg("marshaling personality snapshot")
		return
	}
	if err := database.SavePersonalitySnapshot(raw); err != nil {
		log.Error().Err(err).Msg("saving personality snapshot")
		return
	}
	log.Debug().Msg("personality snapshot saved")
}
