package cmd

import (
	"context"
	"fmt"
	"time"

	"wagerledger/bot"
	"wagerledger/config"
	"wagerledger/database"
	"wagerledger/events"
	"wagerledger/games"
	"wagerledger/metrics"
	"wagerledger/repository"
	"wagerledger/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

const sessionCleanupInterval = 5 * time.Minute

// application holds the wired core shared by the bot and the admin commands
type application struct {
	db       *database.DB
	eventBus *events.Bus
	sessions *service.SessionCache
	services bot.Services
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	rules := service.NewRuleResolver(repository.NewRuleRepository(db))
	random := games.NewRandom()
	limits := service.BetLimits{Min: cfg.MinStake, Max: cfg.MaxStake}
	sessions := service.NewSessionCache(cfg.BlackjackSessionTTL)

	return &application{
		db:       db,
		eventBus: eventBus,
		sessions: sessions,
		services: bot.Services{
			Wallet: service.NewWalletService(uowFactory, service.WalletConfig{
				StartingBalance: cfg.StartingBalance,
				Currency:        cfg.Currency,
			}),
			Settlement: service.NewSettlementService(uowFactory, rules, random, limits),
			Blackjack:  service.NewBlackjackService(uowFactory, rules, random, limits, sessions),
			History:    service.NewHistoryService(uowFactory),
		},
	}, nil
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	cfg.ConfigureLogging()
	if err := cfg.RequireDiscord(); err != nil {
		return err
	}
	log.WithField("environment", cfg.Environment).Info("Starting wagerledger...")

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.db.Close()

	go app.sessions.StartCleanup(ctx, sessionCleanupInterval)

	// Metrics and health endpoint
	var metricsServer *metrics.Server
	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics.NewCollector(registry).Subscribe(app.eventBus)

		metricsServer = metrics.NewServer(cfg.MetricsAddr, registry, app.db.Ping)
		metricsServer.Start()
	}

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:    cfg.DiscordToken,
		GuildID:  cfg.DiscordGuildID,
		Currency: cfg.Currency,
	}, app.services)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	<-ctx.Done()
	log.Info("Shutting down...")

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error stopping metrics server: %v", err)
		}
	}

	log.Info("Shutdown completed")
	return nil
}
