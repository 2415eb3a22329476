package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-productivity-coach/internal/config"
	"telegram-productivity-coach/internal/domain/ports/adapter"
	"telegram-productivity-coach/internal/domain/ports/repository"
	aiAdapters "telegram-productivity-coach/internal/infra/adapters/ai"
	tele "telegram-productivity-coach/internal/infra/adapters/telegram"
	"telegram-productivity-coach/internal/infra/adapters/timetracking"
	httpapi "telegram-productivity-coach/internal/infra/http"
	"telegram-productivity-coach/internal/infra/logging"
	"telegram-productivity-coach/internal/infra/memory"
	"telegram-productivity-coach/internal/infra/metrics"
	red "telegram-productivity-coach/internal/infra/redis"
	"telegram-productivity-coach/internal/infra/sched"
	"telegram-productivity-coach/internal/infra/store"
	"telegram-productivity-coach/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode (console logs, noop sends)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		log.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- User store ----
	fileStore, err := store.NewFileStore(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("user store")
	}
	defaults, err := cfg.UserDefaults()
	if err != nil {
		log.Fatal().Err(err).Msg("user defaults")
	}
	userUC, err := usecase.NewUserUseCase(ctx, fileStore, defaults, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load user registry")
	}

	// ---- Conversation state (redis when configured, in-process otherwise) ----
	var convRepo repository.ConversationStateRepository
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		convRepo = red.NewConversationRepo(redisClient, cfg.Redis.TTL)
		log.Info().Msg("conversation state: redis")
	} else {
		convRepo = memory.NewConversationRepo()
		log.Info().Msg("conversation state: in-process")
	}

	// ---- AI adapter (Gemini -> OpenAI) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxTokens)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini adapter")
		}
		log.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.MaxTokens)
		if err != nil {
			log.Fatal().Err(err).Msg("openai adapter")
		}
		log.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	default:
		log.Fatal().Msg("no AI provider configured: set ai.gemini_key or ai.openai_key")
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)
	coach := aiAdapters.NewCoach(ai, cfg.AI.DefaultModel, log)

	// ---- Time tracking ----
	tracker := timetracking.NewClockifyAdapter(cfg.TimeTracking.BaseURL, log)

	// ---- Conversation router ----
	convUC := usecase.NewConversationUseCase(userUC, coach, convRepo, tracker, log)

	// ---- Telegram ----
	var messenger adapter.MessengerAdapter
	if cfg.Runtime.Dev && cfg.Bot.Token == "noop" {
		messenger = tele.NewNoopBotAdapter(log)
	} else {
		botAdapter, err := tele.NewRealBotAdapter(&cfg.Bot, userUC, convUC, tracker, log)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram")
		}
		go func() {
			if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
		defer botAdapter.StopPolling()
		messenger = botAdapter
	}

	// ---- Check-in engine ----
	checkinUC := usecase.NewCheckInUseCase(userUC, messenger, convRepo, nil, log)
	worker := sched.NewCheckInWorker(checkinUC, log)
	if err := worker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	// ---- Ops server ----
	ops := httpapi.NewServer(cfg.Ops.Port, log)
	go func() {
		if err := ops.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("ops server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := worker.Stop(); err != nil {
		log.Warn().Err(err).Msg("scheduler shutdown")
	}
	if err := ops.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("ops shutdown")
	}
}
