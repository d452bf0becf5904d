package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/config"
)

// Client wraps the Redis client with quote-caching operations
type Client struct {
	rdb *redis.Client
}

// New creates a new Redis client
func New(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// CachedQuote is the quote snapshot stored per instrument
type CachedQuote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	DayChange decimal.Decimal `json:"day_change"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func quoteKey(symbol string) string {
	return fmt.Sprintf("instrument:%s:quote", symbol)
}

// SetQuote caches an instrument quote with TTL
func (c *Client) SetQuote(ctx context.Context, quote *CachedQuote, ttl time.Duration) error {
	jsonData, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}
	return c.rdb.Set(ctx, quoteKey(quote.Symbol), jsonData, ttl).Err()
}

// GetQuote retrieves a cached quote. Returns redis.Nil on a cache miss.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*CachedQuote, error) {
	jsonData, err := c.rdb.Get(ctx, quoteKey(symbol)).Bytes()
	if err != nil {
		return nil, err
	}

	var quote CachedQuote
	if err := json.Unmarshal(jsonData, &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
	}
	return &quote, nil
}

// InvalidateQuote drops a cached quote, forcing the next read to the database
func (c *Client) InvalidateQuote(ctx context.Context, symbol string) error {
	return c.rdb.Del(ctx, quoteKey(symbol)).Err()
}

// IsCacheMiss reports whether an error from GetQuote means the key was absent
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}
