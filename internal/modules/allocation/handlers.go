package allocation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/rl-allocator/internal/domain"
)

// Handler handles HTTP requests for the allocation module.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new allocation handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("component", "allocation_handler").Logger(),
	}
}

// HandleOptimalWeights handles POST /api/optimal-weights.
func (h *Handler) HandleOptimalWeights(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Exchange == "" {
		h.writeError(w, http.StatusBadRequest, "exchange is required")
		return
	}
	if len(req.Symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "symbols are required")
		return
	}

	weights, cached, err := h.service.Allocate(req.Exchange, req.Symbols)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("exchange", req.Exchange).
			Strs("symbols", req.Symbols).
			Msg("Allocation failed")

		status := http.StatusInternalServerError
		if domain.IsDataError(err) {
			status = http.StatusBadRequest
		}
		h.writeError(w, status, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, Response{
		OptimalWeights: weights,
		Cached:         cached,
	})
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
