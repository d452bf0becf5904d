package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// TradeEvent is the envelope published after a successful buy or sell
type TradeEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Source    string         `json:"source"`
	Timestamp string         `json:"timestamp"`
	Data      TradeEventData `json:"data"`
}

// TradeEventData carries the executed trade details
type TradeEventData struct {
	AccountID    int64           `json:"account_id"`
	InstrumentID int64           `json:"instrument_id"`
	Symbol       string          `json:"symbol"`
	TradeType    string          `json:"trade_type"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// Producer publishes trade events to Kafka
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Kafka producer for the trades topic
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// PublishTradeExecuted emits a TRADE_EXECUTED event. The trade has already
// committed; publish failures are the caller's to log, never to roll back.
func (p *Producer) PublishTradeExecuted(ctx context.Context, data TradeEventData) error {
	event := TradeEvent{
		EventID:   uuid.NewString(),
		EventType: "TRADE_EXECUTED",
		Source:    "portfolio-ledger",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal trade event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(data.Symbol),
		Value: payload,
	})
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
