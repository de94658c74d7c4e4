package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/AlexZinkM/webthree/internal/common"
	"github.com/AlexZinkM/webthree/internal/model"
	"github.com/AlexZinkM/webthree/wallet"
)

const (
	defaultRateTTL = time.Minute
	maxQRSize      = 1024
)

// RateSource returns the price of 1 ETH in currency
type RateSource interface {
	GetETHRate(ctx context.Context, currency string) (string, error)
}

// SessionHandler exposes the wallet session over HTTP
type SessionHandler struct {
	controller *wallet.Controller
	rates      RateSource // optional (can be nil)
	currency   string
	rateTTL    time.Duration
	logger     *slog.Logger

	mu             sync.RWMutex
	rateCacheVal   string
	rateCacheUntil time.Time
}

// NewSessionHandler creates a new SessionHandler. Fiat fields are filled only
// when both rates and currency are set.
func NewSessionHandler(controller *wallet.Controller, rates RateSource, currency string, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		controller: controller,
		rates:      rates,
		currency:   currency,
		rateTTL:    defaultRateTTL,
		logger:     logger,
	}
}

// GetSession handles GET /api/session
// @Summary      Get wallet session
// @Description  Returns the current session: account, ETH balance, chain id and loading flag
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.response(r.Context()))
}

// Connect handles POST /api/session/connect
// @Summary      Connect wallet
// @Description  Requests account access from the wallet provider and loads balance and network
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /api/session/connect [post]
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if err := h.controller.Connect(r.Context()); err != nil {
		switch {
		case errors.Is(err, wallet.ErrProviderAbsent):
			writeError(w, http.StatusServiceUnavailable, model.CodeProviderAbsent, wallet.MessageProviderAbsent)
		case errors.Is(err, wallet.ErrAccessDenied):
			writeError(w, http.StatusForbidden, model.CodeAccessDenied, wallet.MessageConnectFailed)
		case errors.Is(err, wallet.ErrNotMounted), errors.Is(err, wallet.ErrClosed):
			writeError(w, http.StatusConflict, model.CodeSessionClosed, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, model.CodeInternal, err.Error())
		}
		return
	}

	h.wait(r.Context())
	writeJSON(w, http.StatusOK, h.response(r.Context()))
}

// Refresh handles POST /api/session/refresh
// @Summary      Refresh balance and network
// @Description  Fetches balance and chain id again and returns the updated session
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /api/session/refresh [post]
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.controller.FetchBalance()
	h.controller.FetchNetwork()
	h.wait(r.Context())

	writeJSON(w, http.StatusOK, h.response(r.Context()))
}

// QR handles GET /api/session/qr
// @Summary      Account QR code
// @Description  PNG QR code of the connected account address
// @Tags         session
// @Produce      png
// @Param        size  query     int  false  "Image size in pixels (default 256)"
// @Success      200
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/session/qr [get]
func (h *SessionHandler) QR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	size := common.DefaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxQRSize {
			writeError(w, http.StatusBadRequest, "", "invalid size: use 1-1024")
			return
		}
		size = n
	}

	session := h.controller.Snapshot()
	if !session.Connected() {
		writeError(w, http.StatusNotFound, model.CodeNotConnected, "wallet is not connected")
		return
	}

	png, err := common.AddressQR(session.Account, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.CodeInternal, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// wait lets in-flight fetches settle; a cancelled request just gets the current state
func (h *SessionHandler) wait(ctx context.Context) {
	if err := h.controller.Wait(ctx); err != nil {
		h.logger.Debug("session wait interrupted", slog.String("error", err.Error()))
	}
}

func (h *SessionHandler) response(ctx context.Context) model.SessionResponse {
	s := h.controller.Snapshot()
	resp := model.SessionResponse{
		ID:        s.ID,
		Connected: s.Connected(),
		Account:   s.Account,
		Balance:   s.Balance,
		Network:   s.Network,
		Loading:   s.Loading,
	}

	if h.rates == nil || h.currency == "" {
		return resp
	}
	rate := h.rate(ctx)
	if rate == "" {
		return resp
	}
	resp.Currency = h.currency
	resp.Rate = rate
	if s.Balance != "" {
		resp.BalanceFiat = multiply(s.Balance, rate)
	}
	return resp
}

// rate reads or refreshes the cached rate. Failures are logged and yield "".
func (h *SessionHandler) rate(ctx context.Context) string {
	h.mu.RLock()
	if time.Now().Before(h.rateCacheUntil) && h.rateCacheVal != "" {
		val := h.rateCacheVal
		h.mu.RUnlock()
		return val
	}
	h.mu.RUnlock()

	rate, err := h.rates.GetETHRate(ctx, h.currency)
	if err != nil {
		h.logger.Warn("failed to get ETH rate",
			slog.String("currency", h.currency),
			slog.String("error", err.Error()),
		)
		return ""
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.rateCacheVal = rate
	h.rateCacheUntil = time.Now().Add(h.rateTTL)
	return rate
}

// multiply returns a*b rounded to 2 decimals, "" if either is not a decimal
func multiply(a, b string) string {
	x, ok := new(big.Rat).SetString(a)
	if !ok {
		return ""
	}
	y, ok := new(big.Rat).SetString(b)
	if !ok {
		return ""
	}
	return new(big.Rat).Mul(x, y).FloatString(2)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}
