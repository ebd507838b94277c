package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"repuestos-ads/internal/core/domain"
	"repuestos-ads/internal/core/port"
)

// adPayload is the admin write model: everything an operator configures.
// Lifecycle status is deliberately absent, it only moves through the
// /status endpoint.
type adPayload struct {
	StoreID        uuid.UUID              `json:"storeId"`
	Creative       domain.Creative        `json:"creative"`
	DisplayType    domain.DisplayType     `json:"displayType"`
	TargetPlatform domain.Platform        `json:"targetPlatform"`
	Audience       domain.Audience        `json:"targetAudience"`
	Schedule       domain.Schedule        `json:"schedule"`
	Display        domain.DisplaySettings `json:"displaySettings"`
}

func (p adPayload) toDomain() domain.Advertisement {
	return domain.Advertisement{
		StoreID:        p.StoreID,
		Creative:       p.Creative,
		DisplayType:    p.DisplayType,
		TargetPlatform: p.TargetPlatform,
		Audience:       p.Audience,
		Schedule:       p.Schedule,
		Display:        p.Display,
	}
}

// handleCreateAd stores a new advertisement in draft state.
func (h *Handler) handleCreateAd(w http.ResponseWriter, r *http.Request) {
	var payload adPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ad := payload.toDomain()
	if err := h.svc.CreateAd(r.Context(), &ad); err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ad); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// handleUpdateAd replaces an ad's configuration. Active ads are rejected
// with 409: pause first, then edit.
func (h *Handler) handleUpdateAd(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var payload adPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ad := payload.toDomain()
	ad.ID = id
	if err := h.svc.UpdateAd(r.Context(), &ad); err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ad); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// handleDeleteAd removes an ad along with its counters and events.
func (h *Handler) handleDeleteAd(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteAd(r.Context(), id); err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetAd returns one ad's configuration and its live tracking view.
func (h *Handler) handleGetAd(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	details, err := h.svc.GetAd(r.Context(), id)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(details); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// handleListAds returns all advertisements.
func (h *Handler) handleListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.svc.ListAds(r.Context())
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ads); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// handleChangeStatus moves an ad through its lifecycle.
func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var body struct {
		Status domain.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.svc.ChangeStatus(r.Context(), id, body.Status); err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAdminError maps usecase errors onto status codes.
func (h *Handler) writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, port.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, port.ErrAdActive), errors.Is(err, port.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("admin error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
