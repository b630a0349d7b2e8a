package territory

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// Handler serves read-only territory endpoints.
type Handler struct {
	source Lister
	logger *logging.Logger
}

// NewHandler creates the territory HTTP handler.
func NewHandler(source Lister, logger *logging.Logger) *Handler {
	if source == nil {
		panic("territory: source lister required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{source: source, logger: logger}
}

// Routes returns a chi router with territory routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCountries)
	r.Get("/{id}/divisions", h.ListDivisions)
	return r
}

// ListCountries returns every country.
// GET /countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.source.Countries(r.Context())
	if err != nil {
		h.logger.Error("failed to list countries", "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, countries, h.logger)
}

// ListDivisions returns the divisions of one country.
// GET /countries/{id}/divisions
func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	countryID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || countryID <= 0 {
		http.Error(w, `{"error": "invalid country id"}`, http.StatusBadRequest)
		return
	}

	divisions, err := h.source.DivisionsByCountry(r.Context(), countryID)
	if err != nil {
		h.logger.Error("failed to list divisions", "country_id", countryID, "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, divisions, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
