package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/models"
	"github.com/Dan9191/voucher-service/internal/service"
	"github.com/Dan9191/voucher-service/internal/utils"
)

const maxBodyBytes = 1 << 16

// Handler serves the voucher API
type Handler struct {
	svc     *service.VoucherService
	updater *service.IndexUpdater
	auth    *service.AuthService
	log     *logrus.Logger
	now     func() time.Time
}

// NewHandler wires the handlers. updater may be nil when INEGI is not configured.
func NewHandler(svc *service.VoucherService, updater *service.IndexUpdater, auth *service.AuthService, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, updater: updater, auth: auth, log: log, now: time.Now}
}

// GetUMA returns the current UMA value and the limits derived from it
func (h *Handler) GetUMA(w http.ResponseWriter, r *http.Request) {
	limits, err := h.svc.CurrentLimits(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.UMAResponse{
		DailyValue:            money(limits.DailyValue),
		EffectiveDate:         utils.FormatDate(limits.EffectiveDate),
		MonthlyValue:          money(limits.PerTransactionCap),
		MaxMonthlyDeposit:     money(limits.PerTransactionCap),
		MaxAnnualDeposit:      money(limits.AnnualCap),
		AnnualDepositsAllowed: limits.DepositsPerYear,
	})
}

// ValidateVoucher checks whether an amount is within the deposit limits
func (h *Handler) ValidateVoucher(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVoucherAmount(w, r)
	if !ok {
		return
	}
	if req.Year != nil && *req.Year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	verdict, err := h.svc.Validate(r.Context(), utils.RoundAmount(req.Amount), req.Year)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if !verdict.IsValid {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, toLimitResponse(verdict))
}

// GetRemainingLimit returns the annual headroom for ?year= or the current year
func (h *Handler) GetRemainingLimit(w http.ResponseWriter, r *http.Request) {
	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = &y
	}

	remaining, err := h.svc.GetAnnualRemaining(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RemainingLimitResponse{
		Year:           remaining.Year,
		RemainingLimit: money(remaining.Remaining),
		AnnualLimit:    money(remaining.AnnualCap),
	})
}

// CommitTransaction records a deposit when it passes validation
func (h *Handler) CommitTransaction(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVoucherAmount(w, r)
	if !ok {
		return
	}

	date := h.now()
	if req.TransactionDate != "" {
		parsed, err := utils.ParseDate(req.TransactionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid transaction_date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	verdict, tx, err := h.svc.Commit(r.Context(), utils.RoundAmount(req.Amount), date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := models.CommitResponse{LimitResponse: toLimitResponse(verdict), Transaction: tx}
	if tx == nil {
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// RefreshUMA pulls the latest UMA value from INEGI
func (h *Handler) RefreshUMA(w http.ResponseWriter, r *http.Request) {
	if h.updater == nil {
		writeError(w, http.StatusServiceUnavailable, "INEGI integration not configured")
		return
	}

	value, created, err := h.updater.Update(r.Context())
	if err != nil {
		h.log.Errorf("UMA refresh failed: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to update UMA value")
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResponse{
		DailyValue:    money(value.DailyValue),
		EffectiveDate: utils.FormatDate(value.EffectiveDate),
		Created:       created,
	})
}

// Login issues an operator token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNoIndexAvailable) {
		writeError(w, http.StatusServiceUnavailable, "No UMA value found")
		return
	}
	h.log.Errorf("Request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeVoucherAmount reads a validate or commit body and rejects amounts
// too large or too precise to handle. It writes the 400 itself.
func decodeVoucherAmount(w http.ResponseWriter, r *http.Request) (models.VoucherAmount, bool) {
	var req models.VoucherAmount
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !utils.AmountInRange(req.Amount) {
		writeError(w, http.StatusBadRequest, "Invalid amount format")
		return models.VoucherAmount{}, false
	}
	return req, true
}

func toLimitResponse(v models.ValidationVerdict) models.LimitResponse {
	return models.LimitResponse{
		IsValid:             v.IsValid,
		CurrentAmount:       money(v.Amount),
		Limit:               money(v.Cap),
		PerTransactionLimit: money(v.PerTransactionCap),
		Remaining:           money(v.Remaining),
		Year:                v.Year,
		Message:             v.Reason,
		Violation:           v.Violation,
	}
}

func money(d decimal.Decimal) models.Money {
	return models.Money(utils.RoundAmount(d))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
