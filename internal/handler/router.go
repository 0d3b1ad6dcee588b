package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/config"
	"github.com/Dan9191/voucher-service/internal/middleware"
)

// NewRouter builds the HTTP routes. metrics may be nil.
func NewRouter(h *Handler, cfg *config.Config, log *logrus.Logger, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	r.HandleFunc("/health", h.Health).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	// Public routes
	api.HandleFunc("/uma", h.GetUMA).Methods("GET")
	api.HandleFunc("/vouchers/validate", h.ValidateVoucher).Methods("POST")
	api.HandleFunc("/vouchers/remaining", h.GetRemainingLimit).Methods("GET")
	api.HandleFunc("/login", h.Login).Methods("POST")

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg))
	protected.HandleFunc("/vouchers/transactions", h.CommitTransaction).Methods("POST")
	protected.HandleFunc("/uma/refresh", h.RefreshUMA).Methods("POST")

	return r
}
