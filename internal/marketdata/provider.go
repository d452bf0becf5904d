package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/ledger"
)

// Quote is one instrument's fetched market data
type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
}

// DayChange returns the day-over-day percentage move, zero when the
// previous close is missing or zero.
func (q Quote) DayChange() decimal.Decimal {
	if q.PreviousClose.IsZero() {
		return decimal.Zero
	}
	return q.Price.Sub(q.PreviousClose).Div(q.PreviousClose).Mul(decimal.NewFromInt(100))
}

// QuoteProvider fetches current quotes for a batch of symbols. Symbols the
// provider cannot resolve are simply absent from the result map.
type QuoteProvider interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// HTTPProvider fetches quotes from an HTTP quote API
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider against the given base URL
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type quoteResponse struct {
	Quotes []struct {
		Symbol        string `json:"symbol"`
		Price         string `json:"price"`
		PreviousClose string `json:"previous_close"`
	} `json:"quotes"`
}

// FetchQuotes requests a batch of symbols in one call. Individual symbols
// with unparseable prices are dropped from the result rather than failing
// the batch.
func (p *HTTPProvider) FetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if len(symbols) == 0 {
		return map[string]Quote{}, nil
	}

	endpoint := fmt.Sprintf("%s/v1/quotes?symbols=%s", p.baseURL, url.QueryEscape(strings.Join(symbols, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", ledger.ErrFeedUnavailable, resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: bad provider response: %v", ledger.ErrFeedUnavailable, err)
	}

	quotes := make(map[string]Quote, len(body.Quotes))
	for _, q := range body.Quotes {
		price, err := decimal.NewFromString(q.Price)
		if err != nil || !price.IsPositive() {
			continue
		}
		prevClose, err := decimal.NewFromString(q.PreviousClose)
		if err != nil {
			prevClose = decimal.Zero
		}
		quotes[strings.ToUpper(q.Symbol)] = Quote{
			Symbol:        strings.ToUpper(q.Symbol),
			Price:         price,
			PreviousClose: prevClose,
		}
	}
	return quotes, nil
}
