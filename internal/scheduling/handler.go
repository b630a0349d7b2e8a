package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apptbook/scheduling-platform/internal/timeutil"
	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// Handler exposes the scheduling engine over HTTP.
type Handler struct {
	service      *Service
	repo         *Repository
	norm         *timeutil.Normalizer
	logger       *logging.Logger
	defaultActor string
}

// NewHandler creates the appointment HTTP handler.
func NewHandler(service *Service, repo *Repository, norm *timeutil.Normalizer, logger *logging.Logger, defaultActor string) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultActor == "" {
		defaultActor = "system"
	}
	return &Handler{
		service:      service,
		repo:         repo,
		norm:         norm,
		logger:       logger,
		defaultActor: defaultActor,
	}
}

// Routes returns a chi router with appointment routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/", h.List)
	return r
}

type appointmentRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	ContactID   int       `json:"contact_id"`
	CustomerID  int       `json:"customer_id"`
	UserID      int       `json:"user_id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

func (req *appointmentRequest) toCandidate() Appointment {
	return Appointment{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		ContactID:   req.ContactID,
		CustomerID:  req.CustomerID,
		UserID:      req.UserID,
		Start:       req.Start,
		End:         req.End,
	}
}

func (h *Handler) actor(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get("X-Actor")); actor != "" {
		return actor
	}
	return h.defaultActor
}

// Create validates and persists a new appointment.
// POST /appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	decision, err := h.service.Schedule(r.Context(), req.toCandidate(), h.actor(r))
	h.writeDecision(w, decision, err, http.StatusCreated)
}

// Update validates and persists an edit to an existing appointment.
// PUT /appointments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, `{"error": "invalid appointment id"}`, http.StatusBadRequest)
		return
	}

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	candidate := req.toCandidate()
	candidate.ID = id
	decision, err := h.service.Reschedule(r.Context(), candidate, h.actor(r))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
		return
	}
	h.writeDecision(w, decision, err, http.StatusOK)
}

// Delete removes a single appointment.
// DELETE /appointments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, `{"error": "invalid appointment id"}`, http.StatusBadRequest)
		return
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete appointment", "appointment_id", id, "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List returns appointments, optionally restricted to a customer or to the
// current week/month view.
// GET /appointments?customer_id=3&view=week
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		appts []Appointment
		err   error
	)
	switch {
	case r.URL.Query().Get("customer_id") != "":
		var customerID int
		customerID, err = strconv.Atoi(r.URL.Query().Get("customer_id"))
		if err != nil || customerID <= 0 {
			http.Error(w, `{"error": "invalid customer_id"}`, http.StatusBadRequest)
			return
		}
		appts, err = h.repo.ListForCustomer(ctx, customerID)
	case r.URL.Query().Get("view") == "week":
		from, to := weekWindow(h.norm.ToLocal(time.Now()))
		appts, err = h.repo.ListBetween(ctx, from.UTC(), to.UTC())
	case r.URL.Query().Get("view") == "month":
		from, to := monthWindow(h.norm.ToLocal(time.Now()))
		appts, err = h.repo.ListBetween(ctx, from.UTC(), to.UTC())
	default:
		appts, err = h.repo.ListAll(ctx)
	}
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(appts); err != nil {
		h.logger.Error("failed to encode appointments", "error", err)
	}
}

func (h *Handler) writeDecision(w http.ResponseWriter, decision Decision, err error, acceptedStatus int) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case err != nil:
		h.logger.Error("scheduling store error", "error", err)
		w.WriteHeader(http.StatusBadGateway)
	case decision.Accepted:
		w.WriteHeader(acceptedStatus)
	default:
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	if err := json.NewEncoder(w).Encode(decision); err != nil {
		h.logger.Error("failed to encode decision", "error", err)
	}
}

// weekWindow returns the local Sunday..next-Sunday span containing t.
func weekWindow(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	from := day.AddDate(0, 0, -int(day.Weekday()))
	return from, from.AddDate(0, 0, 7)
}

// monthWindow returns the local first-of-month..first-of-next-month span
// containing t.
func monthWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}
