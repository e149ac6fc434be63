package assets

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/rl-allocator/internal/domain"
)

// Handler handles HTTP requests for asset diagnostics.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new assets handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("component", "assets_handler").Logger(),
	}
}

// HandleStats handles GET /api/assets/{exchange}/{symbol}/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	exchange := chi.URLParam(r, "exchange")
	symbol := chi.URLParam(r, "symbol")

	stats, err := h.service.Stats(exchange, symbol)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("exchange", exchange).
			Str("symbol", symbol).
			Msg("Failed to compute asset stats")

		status := http.StatusInternalServerError
		if domain.IsDataError(err) {
			status = http.StatusNotFound
		}
		h.writeError(w, status, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
