package reports

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// Handler serves the reporting endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates the reports HTTP handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("reports: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the upcoming-appointment clock; tests pin it.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	if now != nil {
		h.now = now
	}
	return h
}

// Routes returns a chi router with report routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/appointments-by-type-month", h.CountByTypeAndMonth)
	r.Get("/contact-schedule/{contactID}", h.ContactSchedule)
	r.Get("/upcoming", h.Upcoming)
	return r
}

// CountByTypeAndMonth serves the type-and-month aggregation.
// GET /reports/appointments-by-type-month
func (h *Handler) CountByTypeAndMonth(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.CountByTypeAndMonth(r.Context())
	if err != nil {
		h.logger.Error("failed to build type and month report", "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

// ContactSchedule serves one contact's appointment schedule.
// GET /reports/contact-schedule/{contactID}
func (h *Handler) ContactSchedule(w http.ResponseWriter, r *http.Request) {
	contactID, err := strconv.Atoi(chi.URLParam(r, "contactID"))
	if err != nil || contactID <= 0 {
		http.Error(w, `{"error": "invalid contact id"}`, http.StatusBadRequest)
		return
	}

	out, err := h.repo.ContactSchedule(r.Context(), contactID)
	if err != nil {
		h.logger.Error("failed to build contact schedule", "contact_id", contactID, "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

// Upcoming reports whether the user has an appointment starting soon.
// GET /reports/upcoming?user_id=1
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil || userID <= 0 {
		http.Error(w, `{"error": "user_id is required"}`, http.StatusBadRequest)
		return
	}

	upcoming, err := h.repo.UpcomingForUser(r.Context(), userID, h.now())
	if err != nil {
		h.logger.Error("failed to look up upcoming appointment", "user_id", userID, "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}

	resp := struct {
		HasUpcoming bool                 `json:"has_upcoming"`
		Appointment *UpcomingAppointment `json:"appointment,omitempty"`
	}{
		HasUpcoming: upcoming != nil,
		Appointment: upcoming,
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
