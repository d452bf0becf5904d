package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Market   MarketConfig
	Tax      TaxConfig
	Advisor  AdvisorConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka/Redpanda configuration
type KafkaConfig struct {
	Brokers       []string
	TradesTopic   string
	QuotesTopic   string
	ConsumerGroup string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MarketConfig holds quote-provider settings for the batch price refresher
type MarketConfig struct {
	ProviderURL  string
	ChunkSize    int
	FetchTimeout time.Duration
	CacheTTL     time.Duration
}

// TaxConfig holds the flat estimation rates applied to positive net gains
type TaxConfig struct {
	ShortRate decimal.Decimal
	LongRate  decimal.Decimal
}

// AdvisorConfig holds the allocation advisor's thresholds and cash rules.
// Targets is an ordered "Sector:Percent" list; order decides ties.
type AdvisorConfig struct {
	Targets              []SectorTarget
	OverweightThreshold  decimal.Decimal
	UnderweightThreshold decimal.Decimal
	CashFloor            decimal.Decimal
	CashReserve          decimal.Decimal
	MaxBuyAmount         decimal.Decimal
}

// SectorTarget is one sector's strategic allocation percentage
type SectorTarget struct {
	Sector  string
	Percent decimal.Decimal
}

const defaultTargets = "Technology:25,Finance:25,Healthcare:15,Energy:15,Consumer:10,Unclassified:10"

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8081"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "trader"),
			Password: getEnv("DB_PASSWORD", "trader5"),
			DBName:   getEnv("DB_NAME", "portfolio_ledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:       parseBrokers(getEnv("KAFKA_BROKERS", "localhost:19092")),
			TradesTopic:   getEnv("KAFKA_TRADES_TOPIC", "ledger.trades"),
			QuotesTopic:   getEnv("KAFKA_QUOTES_TOPIC", "market.quotes"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "portfolio-ledger"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
		Market: MarketConfig{
			ProviderURL:  getEnv("MARKET_PROVIDER_URL", "http://localhost:9200"),
			ChunkSize:    getEnvInt("MARKET_CHUNK_SIZE", 20),
			FetchTimeout: time.Duration(getEnvInt("MARKET_FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
			CacheTTL:     time.Duration(getEnvInt("MARKET_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Tax: TaxConfig{
			ShortRate: getEnvDecimal("TAX_SHORT_RATE", "0.15"),
			LongRate:  getEnvDecimal("TAX_LONG_RATE", "0.10"),
		},
		Advisor: AdvisorConfig{
			Targets:              parseTargets(getEnv("ADVISOR_TARGETS", defaultTargets)),
			OverweightThreshold:  getEnvDecimal("ADVISOR_OVERWEIGHT_THRESHOLD", "15"),
			UnderweightThreshold: getEnvDecimal("ADVISOR_UNDERWEIGHT_THRESHOLD", "10"),
			CashFloor:            getEnvDecimal("ADVISOR_CASH_FLOOR", "25000"),
			CashReserve:          getEnvDecimal("ADVISOR_CASH_RESERVE", "10000"),
			MaxBuyAmount:         getEnvDecimal("ADVISOR_MAX_BUY_AMOUNT", "50000"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

// Address returns the Redis address in host:port format
func (r *RedisConfig) Address() string {
	return r.Host + ":" + r.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}

// parseBrokers splits a comma-separated broker list
func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseTargets parses an ordered "Sector:Percent,Sector:Percent" list,
// skipping malformed entries
func parseTargets(raw string) []SectorTarget {
	var targets []SectorTarget
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			continue
		}
		pct, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		targets = append(targets, SectorTarget{Sector: strings.TrimSpace(parts[0]), Percent: pct})
	}
	return targets
}
