package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-ledger/internal/advisor"
	"github.com/trogers1052/portfolio-ledger/internal/database"
	"github.com/trogers1052/portfolio-ledger/internal/kafka"
	"github.com/trogers1052/portfolio-ledger/internal/ledger"
	"github.com/trogers1052/portfolio-ledger/internal/marketdata"
	"github.com/trogers1052/portfolio-ledger/internal/metrics"
	"github.com/trogers1052/portfolio-ledger/internal/models"
	"github.com/trogers1052/portfolio-ledger/internal/redis"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db        *database.DB
	advisor   *advisor.Engine
	updater   *marketdata.Updater
	producer  *kafka.Producer
	redis     *redis.Client
	taxPolicy ledger.TaxPolicy
}

// NewHandler creates a new Handler. producer and redisClient may be nil;
// the service degrades to no events / no cache.
func NewHandler(db *database.DB, adv *advisor.Engine, updater *marketdata.Updater, producer *kafka.Producer, redisClient *redis.Client, taxPolicy ledger.TaxPolicy) *Handler {
	return &Handler{
		db:        db,
		advisor:   adv,
		updater:   updater,
		producer:  producer,
		redis:     redisClient,
		taxPolicy: taxPolicy,
	}
}

type tradeRequest struct {
	AccountID    int64           `json:"account_id"`
	InstrumentID int64           `json:"instrument_id"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

func (r *tradeRequest) validate() error {
	if r.AccountID <= 0 {
		return errors.New("account_id is required")
	}
	if r.InstrumentID <= 0 {
		return errors.New("instrument_id is required")
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be a positive integer")
	}
	if !r.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	return nil
}

// CreateAccount handles POST /accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		respondMessage(w, http.StatusBadRequest, "name and email are required")
		return
	}

	account := &models.Account{Name: req.Name, Email: req.Email}
	if err := h.db.CreateAccount(account); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

// GetAccount handles GET /accounts/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	account, err := h.db.GetAccount(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// GetPortfolio handles GET /accounts/{id}/portfolio
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	holdings, err := h.db.GetHoldings(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if holdings == nil {
		holdings = []*models.Holding{}
	}
	respondJSON(w, http.StatusOK, holdings)
}

// GetTransactions handles GET /accounts/{id}/transactions
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	txns, err := h.db.GetTransactions(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if txns == nil {
		txns = []*models.Transaction{}
	}
	respondJSON(w, http.StatusOK, txns)
}

// GetTaxReport handles GET /accounts/{id}/tax-report
func (h *Handler) GetTaxReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	gains, err := h.db.GetRealizedGains(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if gains == nil {
		gains = []*models.RealizedGain{}
	}

	report := &models.TaxReport{
		Details: gains,
		Summary: ledger.SummarizeGains(gains, h.taxPolicy),
	}
	respondJSON(w, http.StatusOK, report)
}

// GetRecommendation handles GET /accounts/{id}/recommendation
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rec, err := h.advisor.Recommend(id)
	if err != nil {
		respondError(w, err)
		return
	}

	if rec.Action != "" {
		metrics.Recommendations.WithLabelValues(rec.Action).Inc()
	}
	respondJSON(w, http.StatusOK, rec)
}

// Buy handles POST /trades/buy
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	h.executeTrade(w, r, models.TradeTypeBuy)
}

// Sell handles POST /trades/sell
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	h.executeTrade(w, r, models.TradeTypeSell)
}

func (h *Handler) executeTrade(w http.ResponseWriter, r *http.Request, tradeType string) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	instrument, err := h.db.GetInstrumentByID(req.InstrumentID)
	if err != nil {
		metrics.TradesExecuted.WithLabelValues(tradeType, "rejected").Inc()
		respondError(w, err)
		return
	}

	if tradeType == models.TradeTypeBuy {
		err = h.db.ExecuteBuy(req.AccountID, req.InstrumentID, req.Quantity, req.Price)
	} else {
		err = h.db.ExecuteSellFIFO(req.AccountID, req.InstrumentID, req.Quantity, req.Price)
	}
	if err != nil {
		metrics.TradesExecuted.WithLabelValues(tradeType, "rejected").Inc()
		respondError(w, err)
		return
	}
	metrics.TradesExecuted.WithLabelValues(tradeType, "executed").Inc()
	if tradeType == models.TradeTypeSell {
		metrics.RealizedGainRecords.Inc()
	}

	if h.producer != nil {
		event := kafka.TradeEventData{
			AccountID:    req.AccountID,
			InstrumentID: req.InstrumentID,
			Symbol:       instrument.Symbol,
			TradeType:    tradeType,
			Quantity:     req.Quantity,
			Price:        req.Price,
		}
		if err := h.producer.PublishTradeExecuted(r.Context(), event); err != nil {
			// The trade is committed; event publishing is best-effort
			log.Printf("Failed to publish trade event for %s: %v", instrument.Symbol, err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": tradeType + " trade executed",
	})
}

// GetAllInstruments handles GET /instruments
func (h *Handler) GetAllInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.db.GetAllInstruments()
	if err != nil {
		respondError(w, err)
		return
	}
	if instruments == nil {
		instruments = []*models.Instrument{}
	}
	respondJSON(w, http.StatusOK, instruments)
}

// GetInstrument handles GET /instruments/{symbol}, overlaying the cached
// quote when one is fresher than the stored row.
func (h *Handler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	instrument, err := h.db.GetInstrument(symbol)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.redis != nil {
		if quote, err := h.redis.GetQuote(r.Context(), instrument.Symbol); err == nil {
			instrument.CurrentPrice = quote.Price
			instrument.DayChange = quote.DayChange
			instrument.LastUpdated = quote.UpdatedAt
		} else if !redis.IsCacheMiss(err) {
			log.Printf("Quote cache read failed for %s: %v", instrument.Symbol, err)
		}
	}
	respondJSON(w, http.StatusOK, instrument)
}

// RefreshMarketData handles POST /market/refresh
func (h *Handler) RefreshMarketData(w http.ResponseWriter, r *http.Request) {
	result, err := h.updater.RefreshAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  map[string]string{},
	}
	services := health["services"].(map[string]string)
	allHealthy := true

	// Check database
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			services["postgres"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			services["postgres"] = "healthy"
		}
	} else {
		services["postgres"] = "not configured"
		allHealthy = false
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "not configured"
	}

	// Check Kafka producer
	if h.producer != nil {
		services["kafka"] = "configured"
	} else {
		services["kafka"] = "not configured"
	}

	if !allHealthy {
		health["status"] = "degraded"
	}

	respondJSON(w, http.StatusOK, health)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		respondMessage(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"status": "error", "message": message})
}

// respondError maps the ledger error taxonomy onto HTTP statuses
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, ledger.ErrInsufficientShares):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrLedgerInconsistency):
		log.Printf("LEDGER INCONSISTENCY: %v", err)
		respondMessage(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, ledger.ErrFeedUnavailable):
		respondMessage(w, http.StatusBadGateway, err.Error())
	default:
		respondMessage(w, http.StatusInternalServerError, err.Error())
	}
}
