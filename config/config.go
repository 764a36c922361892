package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"rewardbot/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Verification: members must hold one of these roles in the guild
	VerificationGuildID string
	VerificationRoleIDs []string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Redis configuration (settings cache)
	RedisURL         string
	SettingsCacheTTL time.Duration

	// NATS configuration
	NATSServers string

	// Admin API
	APIAddress string
	APIToken   string

	// Ledger settings
	StartingBalance         int64
	DefaultReferralBonus    int64
	DefaultAccountClaimCost int64
	StandardKeyPoints       int64
	PremiumKeyPoints        int64
	LedgerMaxAttempts       int
	LedgerRetryBaseDelay    time.Duration

	// Static authority lists. Entries are identities or @username forms.
	OwnerIdentities []string
	AdminIdentities []string
	AuthorityFile   string

	// Referral reconciliation worker
	ReconcileInterval time.Duration

	// OpenTelemetry
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // console, otlp, none
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

// Get returns the global configuration instance
func Get() *Config {
	mu.RLock()
	if instance != nil {
		defer mu.RUnlock()
		return instance
	}
	mu.RUnlock()

	once.Do(func() {
		cfg, err := load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		mu.Lock()
		instance = cfg
		mu.Unlock()
	})

	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// SetTestConfig replaces the global configuration. Only for tests.
func SetTestConfig(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// ResetConfig clears the global configuration so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig returns a configuration with defaults suitable for tests
func NewTestConfig() *Config {
	return &Config{
		StartingBalance:          20,
		DefaultReferralBonus:     4,
		DefaultAccountClaimCost:  2,
		StandardKeyPoints:        15,
		PremiumKeyPoints:         35,
		LedgerMaxAttempts:        5,
		LedgerRetryBaseDelay:     5 * time.Millisecond,
		SettingsCacheTTL:         time.Minute,
		ReconcileInterval:        time.Minute,
		OTelServiceName:          "rewardbot",
		OTelExporterType:         "none",
		OTelExportIntervalMillis: 10000,
		APIAddress:               ":8080",
		LogLevel:                 "debug",
		Environment:              "test",
	}
}

// GetDatabaseURL returns the database URL with the database name applied
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	config := &Config{
		DiscordToken:        os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID:      os.Getenv("DISCORD_GUILD_ID"),
		VerificationGuildID: os.Getenv("VERIFICATION_GUILD_ID"),
		VerificationRoleIDs: splitList(os.Getenv("VERIFICATION_ROLE_IDS")),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		RedisURL:         os.Getenv("REDIS_URL"),
		SettingsCacheTTL: getDurationWithDefault("SETTINGS_CACHE_TTL", time.Minute),

		NATSServers: os.Getenv("NATS_SERVERS"),

		APIAddress: getEnvWithDefault("API_ADDRESS", ":8080"),
		APIToken:   os.Getenv("API_TOKEN"),

		StartingBalance:         getInt64WithDefault("STARTING_BALANCE", 20),
		DefaultReferralBonus:    getInt64WithDefault("REFERRAL_BONUS", 4),
		DefaultAccountClaimCost: getInt64WithDefault("ACCOUNT_CLAIM_COST", 2),
		StandardKeyPoints:       getInt64WithDefault("STANDARD_KEY_POINTS", 15),
		PremiumKeyPoints:        getInt64WithDefault("PREMIUM_KEY_POINTS", 35),
		LedgerMaxAttempts:       int(getInt64WithDefault("LEDGER_MAX_ATTEMPTS", 5)),
		LedgerRetryBaseDelay:    getDurationWithDefault("LEDGER_RETRY_BASE_DELAY", 20*time.Millisecond),

		OwnerIdentities: splitList(os.Getenv("OWNER_IDS")),
		AdminIdentities: splitList(os.Getenv("ADMIN_IDS")),
		AuthorityFile:   os.Getenv("AUTHORITY_FILE"),

		ReconcileInterval: getDurationWithDefault("RECONCILE_INTERVAL", 5*time.Minute),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "rewardbot"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: int(getInt64WithDefault("OTEL_EXPORT_INTERVAL_MILLIS", 10000)),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if config.AuthorityFile != "" {
		authority, err := LoadAuthorityFile(config.AuthorityFile)
		if err != nil {
			return nil, err
		}
		config.ApplyAuthority(authority)
	}

	if config.Environment != "test" {
		if err := config.Validate(); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.OwnerIdentities) == 0 {
		return fmt.Errorf("at least one owner is required (OWNER_IDS or AUTHORITY_FILE)")
	}
	if c.LedgerMaxAttempts < 1 {
		return fmt.Errorf("LEDGER_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.WithField("key", key).Warn("Ignoring invalid integer value")
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.WithField("key", key).Warn("Ignoring invalid duration value")
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
