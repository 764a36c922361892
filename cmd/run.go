package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rewardbot/api"
	"rewardbot/application"
	"rewardbot/bot"
	"rewardbot/config"
	"rewardbot/database"
	"rewardbot/events"
	"rewardbot/infrastructure"
	"rewardbot/infrastructure/observability"
	"rewardbot/repository"
	"rewardbot/service"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting rewardbot...")

	// Schema first, so a fresh database is usable without a separate step
	if err := database.MigrateUp(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Settings cache
	var cache service.SettingsCache = infrastructure.NoopSettingsCache{}
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = infrastructure.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		cache = infrastructure.NewRedisSettingsCache(redisClient, cfg.SettingsCacheTTL)
		log.Info("Redis settings cache enabled")
	}

	stack := BuildStack(cfg, uowFactory, cache)

	// Metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics.Register(eventBus)

	// Event forwarding to NATS JetStream
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := natsClient.EnsureStream(infrastructure.DomainEventStream, infrastructure.AllSubjects()); err != nil {
			natsClient.Close()
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		forwarder := infrastructure.NewEventForwarder(natsClient)
		forwarder.OnPublish(metrics.RecordNATSMessagePublished)
		forwarder.Register(eventBus)
		log.Info("Domain events are forwarded to NATS")
	}

	// Discord
	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	checker := bot.NewGuildMembershipChecker(session, cfg.VerificationGuildID, cfg.VerificationRoleIDs)
	verifier := application.NewVerifier(stack.Accounts, stack.Referrals, stack.Authorization, checker)
	bot.RegisterBotSubscriptions(eventBus, bot.NewNotifier(session, cfg.OwnerIdentities, cfg.AdminIdentities))

	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken, GuildID: cfg.DiscordGuildID}, session, stack.Rewards, verifier)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Referral reconciliation
	reconciler := application.NewReferralReconciliationWorker(stack.Accounts, stack.Referrals, cfg.ReconcileInterval)
	stopReconciler, err := reconciler.Start(ctx)
	if err != nil {
		discordBot.Close()
		return fmt.Errorf("failed to start reconciliation worker: %w", err)
	}

	// Admin API
	var apiServer *api.Server
	if cfg.APIToken != "" {
		apiServer = api.NewServer(stack.Rewards, cfg.APIToken)
		go func() {
			if err := apiServer.Listen(cfg.APIAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Admin API stopped")
			}
		}()
	} else {
		log.Info("API_TOKEN not set, admin API disabled")
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if apiServer != nil {
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error shutting down admin API")
		}
	}
	stopReconciler()
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Warn("Error closing Discord bot")
	}
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}
