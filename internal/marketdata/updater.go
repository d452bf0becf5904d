package marketdata

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/metrics"
	"github.com/trogers1052/portfolio-ledger/internal/models"
	"github.com/trogers1052/portfolio-ledger/internal/redis"
)

// InstrumentStore defines the database operations the updater needs
type InstrumentStore interface {
	GetAllInstruments() ([]*models.Instrument, error)
	UpdateQuote(symbol string, price, dayChange, momentum decimal.Decimal) error
}

// RefreshResult summarizes one batch refresh
type RefreshResult struct {
	Status  string `json:"status"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

// Updater refreshes stored instrument quotes from the external provider in
// symbol chunks. The feed is best-effort: a failed chunk or a symbol absent
// from the provider response is skipped and keeps its last stored values;
// the rest of the batch continues.
type Updater struct {
	store     InstrumentStore
	provider  QuoteProvider
	cache     *redis.Client
	chunkSize int
	cacheTTL  time.Duration
}

// NewUpdater creates a batch quote updater. cache may be nil, in which case
// refreshed quotes are only written to the database.
func NewUpdater(store InstrumentStore, provider QuoteProvider, cache *redis.Client, chunkSize int, cacheTTL time.Duration) *Updater {
	if chunkSize <= 0 {
		chunkSize = 20
	}
	return &Updater{
		store:     store,
		provider:  provider,
		cache:     cache,
		chunkSize: chunkSize,
		cacheTTL:  cacheTTL,
	}
}

// RefreshAll fetches quotes for every instrument and writes the refreshed
// price, day change and momentum score. Momentum mirrors the day change.
func (u *Updater) RefreshAll(ctx context.Context) (*RefreshResult, error) {
	instruments, err := u.store.GetAllInstruments()
	if err != nil {
		return nil, err
	}
	if len(instruments) == 0 {
		return &RefreshResult{Status: "skipped"}, nil
	}

	symbols := make([]string, 0, len(instruments))
	for _, i := range instruments {
		symbols = append(symbols, i.Symbol)
	}

	result := &RefreshResult{Status: "success"}
	for start := 0; start < len(symbols); start += u.chunkSize {
		end := start + u.chunkSize
		if end > len(symbols) {
			end = len(symbols)
		}
		chunk := symbols[start:end]

		quotes, err := u.provider.FetchQuotes(ctx, chunk)
		if err != nil {
			log.Printf("Quote fetch failed for chunk %v: %v", chunk, err)
			metrics.FeedFailures.Inc()
			result.Skipped += len(chunk)
			continue
		}

		for _, symbol := range chunk {
			quote, ok := quotes[symbol]
			if !ok {
				log.Printf("Provider returned no quote for %s, keeping stored values", symbol)
				metrics.QuoteRefreshes.WithLabelValues("skipped").Inc()
				result.Skipped++
				continue
			}
			if err := u.applyQuote(ctx, quote); err != nil {
				log.Printf("Failed to apply quote for %s: %v", symbol, err)
				metrics.QuoteRefreshes.WithLabelValues("failed").Inc()
				result.Skipped++
				continue
			}
			metrics.QuoteRefreshes.WithLabelValues("updated").Inc()
			result.Updated++
		}
	}
	return result, nil
}

// applyQuote writes one refreshed quote to the database and, best-effort,
// to the cache.
func (u *Updater) applyQuote(ctx context.Context, quote Quote) error {
	dayChange := quote.DayChange()
	// Momentum score mirrors the day change; it only ranks instruments
	// within a sector for the advisor's buy suggestion.
	if err := u.store.UpdateQuote(quote.Symbol, quote.Price, dayChange, dayChange); err != nil {
		return err
	}

	if u.cache != nil {
		cached := &redis.CachedQuote{
			Symbol:    quote.Symbol,
			Price:     quote.Price,
			DayChange: dayChange,
			UpdatedAt: time.Now(),
		}
		if err := u.cache.SetQuote(ctx, cached, u.cacheTTL); err != nil {
			log.Printf("Failed to cache quote for %s: %v", quote.Symbol, err)
		}
	}
	return nil
}
