package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check and metrics
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Account routes
	api.HandleFunc("/accounts", handler.CreateAccount).Methods("POST")
	api.HandleFunc("/accounts/{id}", handler.GetAccount).Methods("GET")
	api.HandleFunc("/accounts/{id}/portfolio", handler.GetPortfolio).Methods("GET")
	api.HandleFunc("/accounts/{id}/transactions", handler.GetTransactions).Methods("GET")
	api.HandleFunc("/accounts/{id}/tax-report", handler.GetTaxReport).Methods("GET")
	api.HandleFunc("/accounts/{id}/recommendation", handler.GetRecommendation).Methods("GET")

	// Trade routes
	api.HandleFunc("/trades/buy", handler.Buy).Methods("POST")
	api.HandleFunc("/trades/sell", handler.Sell).Methods("POST")

	// Instrument and market-data routes
	api.HandleFunc("/instruments", handler.GetAllInstruments).Methods("GET")
	api.HandleFunc("/instruments/{symbol}", handler.GetInstrument).Methods("GET")
	api.HandleFunc("/market/refresh", handler.RefreshMarketData).Methods("POST")

	return r
}
