package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-mentor-platform/internal/config"
	"ai-mentor-platform/internal/domain/ports/adapter"
	aiAdapters "ai-mentor-platform/internal/infra/adapters/ai"
	mediaAdapters "ai-mentor-platform/internal/infra/adapters/media"
	"ai-mentor-platform/internal/infra/adapters/notify"
	pg "ai-mentor-platform/internal/infra/db/postgres"
	"ai-mentor-platform/internal/infra/logging"
	red "ai-mentor-platform/internal/infra/redis"
	"ai-mentor-platform/internal/infra/sched"
	"ai-mentor-platform/internal/infra/security"
	"ai-mentor-platform/internal/infra/web"
	"ai-mentor-platform/internal/infra/worker"
	"ai-mentor-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	txManager := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	insightsCache := red.NewInsightsCache(redisClient, cfg.Redis.TTL)

	// ---- Encryption ----
	encKey := cfg.Security.EncryptionKey
	if len(encKey) != 32 {
		logger.Warn().Msg("security.encryption_key not set or not 32 bytes; falling back to dev key (INSECURE)")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	encSvc, err := security.NewEncryptionService(encKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption")
	}

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	mentorRepo := pg.NewMentorRepoCacheDecorator(pg.NewPostgresMentorRepo(pool), redisClient)
	checkinRepo := pg.NewPostgresCheckinRepo(pool)
	jobRepo := pg.NewGenerationJobRepo(pool, txManager)

	// ---- AI Adapter (OpenAI -> Gemini -> noop) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	default:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("no AI provider configured; mentor replies are canned")
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Media provider (live when a key is present, demo otherwise) ----
	var provider adapter.MediaProviderAdapter
	if cfg.Media.APIKey != "" {
		provider, err = mediaAdapters.NewLiveProvider(cfg.Media.APIKey, cfg.Media.BaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("media provider")
		}
		logger.Info().Str("base_url", cfg.Media.BaseURL).Msg("media provider: live")
	} else {
		provider = mediaAdapters.NewNoopProvider()
		logger.Warn().Msg("no media API key; generation runs against the demo provider")
	}

	// ---- Notifier ----
	var notifier adapter.Notifier
	if cfg.Reminder.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.Reminder.TelegramToken)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram notifier")
		}
	} else {
		notifier = notify.NewNoopNotifier(logger)
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, txManager, logger)
	mentorUC := usecase.NewMentorUseCase(mentorRepo, logger)
	checkinUC := usecase.NewCheckinUseCase(checkinRepo, mentorRepo, ai, encSvc, rateLimiter, insightsCache, cfg.AI.DefaultModel, logger)
	insightsUC := usecase.NewInsightsUseCase(checkinRepo, insightsCache, logger)
	studioUC := usecase.NewStudioUseCase(jobRepo, checkinRepo, mentorRepo, provider, rateLimiter, logger)

	// ---- Generation processor ----
	poller := &worker.JobPoller{
		Interval:    cfg.Media.PollInterval,
		MaxAttempts: cfg.Media.PollMaxAttempts,
	}
	workerPool := worker.NewPool(cfg.Media.Workers, logger)
	workerPool.Start(ctx)
	defer workerPool.Stop()
	processor := worker.NewGenerationProcessor(jobRepo, userRepo, provider, notifier, poller, logger)
	go processor.Start(ctx, workerPool)

	// ---- Reminder worker ----
	if cfg.Reminder.Enabled {
		reminders := sched.NewReminderWorker(cfg.Reminder.Interval, userRepo, checkinRepo, notifier, logger)
		go func() { _ = reminders.Run(ctx) }()
	}

	// ---- HTTP API ----
	authMgr := web.NewAuthManager(cfg.Web.JWTSecret, cfg.Web.SecureCookie, cfg.Web.CookieDomain, cfg.Web.SessionTTL)
	srv := web.NewServer(userUC, mentorUC, checkinUC, insightsUC, studioUC, authMgr, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Web.Port),
		Handler: srv.Router(&cfg.Web),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
