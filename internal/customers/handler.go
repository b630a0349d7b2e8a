package customers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// Handler provides HTTP endpoints for customer management.
type Handler struct {
	repo         *Repository
	deleter      *CascadeDeleter
	logger       *logging.Logger
	defaultActor string
	now          func() time.Time
}

// NewHandler creates the customer HTTP handler.
func NewHandler(repo *Repository, deleter *CascadeDeleter, logger *logging.Logger, defaultActor string) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultActor == "" {
		defaultActor = "system"
	}
	return &Handler{
		repo:         repo,
		deleter:      deleter,
		logger:       logger,
		defaultActor: defaultActor,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the audit clock; tests pin timestamps with it.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	if now != nil {
		h.now = now
	}
	return h
}

// Routes returns a chi router with customer routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/", h.List)
	return r
}

type customerRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	DivisionID int    `json:"division_id"`
}

func (req *customerRequest) validate() string {
	for _, field := range []string{req.Name, req.Address, req.PostalCode, req.Phone} {
		if strings.TrimSpace(field) == "" {
			return "name, address, postal_code and phone are required"
		}
	}
	if req.DivisionID <= 0 {
		return "division_id must resolve to an existing division"
	}
	return ""
}

func (h *Handler) actor(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get("X-Actor")); actor != "" {
		return actor
	}
	return h.defaultActor
}

// Create allocates a fresh customer id and inserts the row.
// POST /customers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	ctx := r.Context()
	id, err := h.repo.NextCustomerID(ctx)
	if err != nil {
		h.logger.Error("failed to allocate customer id", "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}

	stamp := h.now()
	actor := h.actor(r)
	customer := Customer{
		ID:         id,
		Name:       req.Name,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		DivisionID: req.DivisionID,
		CreatedAt:  stamp,
		CreatedBy:  actor,
		UpdatedAt:  stamp,
		UpdatedBy:  actor,
	}
	if err := h.repo.Insert(ctx, &customer); err != nil {
		h.logger.Error("failed to insert customer", "customer_id", id, "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}

	h.logger.Info("customer created", "customer_id", id, "actor", actor)
	writeJSON(w, http.StatusCreated, customer, h.logger)
}

// Update rewrites an existing customer and stamps the modification audit.
// PUT /customers/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, `{"error": "invalid customer id"}`, http.StatusBadRequest)
		return
	}

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	customer := Customer{
		ID:         id,
		Name:       req.Name,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		DivisionID: req.DivisionID,
		UpdatedAt:  h.now(),
		UpdatedBy:  h.actor(r),
	}
	if err := h.repo.Update(r.Context(), &customer); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error": "customer not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update customer", "customer_id", id, "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, customer, h.logger)
}

// Delete removes a customer and every appointment it owns.
// DELETE /customers/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, `{"error": "invalid customer id"}`, http.StatusBadRequest)
		return
	}

	result, err := h.deleter.DeleteCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error": "customer not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("cascade delete failed",
			"customer_id", id,
			"appointments_deleted", result.AppointmentsDeleted,
			"error", err,
		)
		writeJSON(w, http.StatusBadGateway, result, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result, h.logger)
}

// List returns customers, optionally filtered by a name fragment.
// GET /customers?name=da
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		out []Customer
		err error
	)
	if fragment := strings.TrimSpace(r.URL.Query().Get("name")); fragment != "" {
		out, err = h.repo.SearchByName(r.Context(), fragment)
	} else {
		out, err = h.repo.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, out, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
