package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/billraya/ewallet-backend/internal/api/httpx"
	"github.com/billraya/ewallet-backend/internal/api/validate"
	"github.com/billraya/ewallet-backend/internal/middleware"
	"github.com/billraya/ewallet-backend/internal/services"
)

type TransferHandler struct {
	Svc *services.TransferService
}

func NewTransferHandler(svc *services.TransferService) *TransferHandler {
	return &TransferHandler{Svc: svc}
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user", nil)
		return
	}

	var req services.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
		return
	}

	if _, err := h.Svc.Transfer(r.Context(), uid, req); err != nil {
		writeTransferError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Transfer success"})
}

// writeTransferError maps the service taxonomy onto status classes. Internal
// causes never reach the response body; they are logged where they occur.
func writeTransferError(w http.ResponseWriter, err error) {
	var verrs validate.Errs
	switch {
	case errors.As(err, &verrs):
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "invalid request", verrs)
	case errors.Is(err, services.ErrInvalidPIN):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_pin", "Your pin is invalid", nil)
	case errors.Is(err, services.ErrSelfTransfer):
		httpx.WriteError(w, http.StatusBadRequest, "self_transfer", "You can not transfer to yourself", nil)
	case errors.Is(err, services.ErrInsufficientBalance):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_balance", "Your balance is not enough", nil)
	case errors.Is(err, services.ErrReceiverNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_not_found", "User not found", nil)
	case errors.Is(err, services.ErrTransferTimedOut):
		httpx.WriteError(w, http.StatusServiceUnavailable, "transfer_timeout", "transfer timed out, safe to retry", nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func (h *TransferHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user", nil)
		return
	}
	limit, offset := pagination(r)
	txs, err := h.Svc.Transactions(r.Context(), uid, limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txs)
}

func (h *TransferHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing user", nil)
		return
	}
	limit, offset := pagination(r)
	hs, err := h.Svc.History(r.Context(), uid, limit, offset)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hs)
}

// ByCode returns both ledger entries sharing one transaction code, the view
// a reconciliation check re-pairs transfers from.
func (h *TransferHandler) ByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	txs, err := h.Svc.TransactionsByCode(r.Context(), code)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
		return
	}
	if len(txs) == 0 {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txs)
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
