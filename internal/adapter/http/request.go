package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"repuestos-ads/internal/core/domain"
)

// handleAdRequest runs the selection pipeline for one slot request. The
// body is decoded into a domain.SlotRequest. The response always carries
// the SelectionResult JSON; a null adId means no advertisement was
// eligible and the caller renders nothing. Parsing errors produce HTTP
// 400, internal errors HTTP 500.
func (h *Handler) handleAdRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !req.DisplayType.Valid() {
		http.Error(w, "unknown displayType", http.StatusBadRequest)
		return
	}
	if req.Platform != domain.PlatformAndroid && req.Platform != domain.PlatformIOS {
		http.Error(w, "platform must be android or ios", http.StatusBadRequest)
		return
	}

	resp, err := h.svc.RequestAd(r.Context(), req)
	if err != nil {
		h.logger.Error("request ad error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
