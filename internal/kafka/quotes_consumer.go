package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// InstrumentRepository defines the interface for instrument quote updates
type InstrumentRepository interface {
	UpdateQuote(symbol string, price, dayChange, momentum decimal.Decimal) error
}

// quoteReader abstracts the Kafka reader so tests can inject a fake
type quoteReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Config() kafka.ReaderConfig
	Close() error
}

// QuoteEvent represents a quote event from the market-data publisher
type QuoteEvent struct {
	EventType string         `json:"event_type"`
	Source    string         `json:"source"`
	Timestamp string         `json:"timestamp"`
	Data      QuoteEventData `json:"data"`
}

// QuoteEventData holds one or more quote updates
type QuoteEventData struct {
	Quotes []QuoteUpdate `json:"quotes"`
}

// QuoteUpdate is one instrument's refreshed quote. Prices arrive as strings
// to keep exact decimal values on the wire.
type QuoteUpdate struct {
	Symbol    string `json:"symbol"`
	Price     string `json:"price"`
	DayChange string `json:"day_change"`
}

// QuotesConsumer ingests quote events and applies them to stored
// instruments. A bad update skips that instrument, never the batch.
type QuotesConsumer struct {
	reader quoteReader
	repo   InstrumentRepository
}

// NewQuotesConsumer creates a Kafka consumer for quote events
func NewQuotesConsumer(brokers []string, topic, groupID string, repo InstrumentRepository) *QuotesConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID + "-quotes",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
	})

	return &QuotesConsumer{
		reader: reader,
		repo:   repo,
	}
}

// Start begins consuming messages from Kafka
func (c *QuotesConsumer) Start(ctx context.Context) error {
	log.Printf("Starting quotes consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Quotes consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading quote message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing quote message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *QuotesConsumer) processMessage(msg kafka.Message) error {
	var event QuoteEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal quote event: %w", err)
	}

	if event.EventType != "QUOTES_UPDATED" {
		log.Printf("Ignoring event type: %s", event.EventType)
		return nil
	}

	return c.handleQuotesUpdated(event)
}

// handleQuotesUpdated applies each quote in the event, skipping bad ones
func (c *QuotesConsumer) handleQuotesUpdated(event QuoteEvent) error {
	applied := 0
	for _, q := range event.Data.Quotes {
		symbol := strings.ToUpper(q.Symbol)

		price, err := decimal.NewFromString(q.Price)
		if err != nil || !price.IsPositive() {
			log.Printf("Skipping quote for %s: bad price %q", symbol, q.Price)
			continue
		}

		dayChange := decimal.Zero
		if q.DayChange != "" {
			if dayChange, err = decimal.NewFromString(q.DayChange); err != nil {
				log.Printf("Skipping quote for %s: bad day change %q", symbol, q.DayChange)
				continue
			}
		}

		// Momentum score mirrors the day change, matching the batch refresher
		if err := c.repo.UpdateQuote(symbol, price, dayChange, dayChange); err != nil {
			log.Printf("Error updating quote for %s: %v", symbol, err)
			continue
		}
		applied++
	}

	log.Printf("Applied %d of %d quotes from event", applied, len(event.Data.Quotes))
	return nil
}

// Close closes the Kafka consumer
func (c *QuotesConsumer) Close() error {
	return c.reader.Close()
}
