package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"wagerledger/database"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Wallet configuration
	StartingBalance decimal.Decimal `env:"STARTING_BALANCE" envDefault:"100.00"`
	Currency        string          `env:"CURRENCY" envDefault:"TRY"`

	// Stake limits applied to every wager
	MinStake decimal.Decimal `env:"MIN_STAKE" envDefault:"0.01"`
	MaxStake decimal.Decimal `env:"MAX_STAKE" envDefault:"10000.00"`

	// How long an idle blackjack hand stays in the in-process session cache
	BlackjackSessionTTL time.Duration `env:"BLACKJACK_SESSION_TTL" envDefault:"1h"`

	// Metrics and health endpoint, empty disables the server
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from an optional .env file and the environment
func load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err == nil {
		log.Debug("Loaded configuration from .env")
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.MinStake.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("MIN_STAKE must be positive")
	}
	if c.MaxStake.LessThan(c.MinStake) {
		return fmt.Errorf("MAX_STAKE must not be less than MIN_STAKE")
	}
	if c.StartingBalance.IsNegative() {
		return fmt.Errorf("STARTING_BALANCE must not be negative")
	}
	if c.BlackjackSessionTTL <= 0 {
		return fmt.Errorf("BLACKJACK_SESSION_TTL must be positive")
	}

	if c.Environment != "test" {
		// Validate required configuration
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	}

	return nil
}

// RequireDiscord checks the settings only the bot needs, so admin
// subcommands can run without a token
func (c *Config) RequireDiscord() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	return nil
}

// GetDatabaseURL returns the database URL with DATABASE_NAME applied
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// ConfigureLogging applies the configured log level and formatter to logrus
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, falling back to info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
