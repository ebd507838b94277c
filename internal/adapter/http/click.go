package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"repuestos-ads/internal/core/port"
)

// handleAdClick records a click for a serve token and redirects to the
// ad's navigation URL. A token with no matching impression is an integrity
// violation and yields HTTP 404; the click is never recorded. When the
// click budget is exhausted the event is dropped but the redirect still
// happens. Ads without a navigation URL answer 204.
func (h *Handler) handleAdClick(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}
	navigationURL, accepted, err := h.svc.RegisterClick(r.Context(), token)
	if errors.Is(err, port.ErrOrphanClick) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("click error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !accepted {
		h.logger.Debug("click not billed", slog.String("token", token))
	}
	if navigationURL == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, navigationURL, http.StatusFound)
}

// handleAdConversion attributes revenue (cents) to a serve token.
func (h *Handler) handleAdConversion(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}
	var body struct {
		Revenue int64 `json:"revenue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.Revenue < 0 {
		http.Error(w, "revenue must not be negative", http.StatusBadRequest)
		return
	}
	err := h.svc.RegisterConversion(r.Context(), token, body.Revenue)
	if errors.Is(err, port.ErrOrphanClick) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("conversion error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
