package directory

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// Handler serves the read-only contact and user rosters.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates the directory HTTP handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("directory: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ContactRoutes returns a chi router serving the contact roster.
func (h *Handler) ContactRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListContacts)
	return r
}

// UserRoutes returns a chi router serving the user roster.
func (h *Handler) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListUsers)
	return r
}

// ListContacts returns every contact.
// GET /contacts
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.repo.Contacts(r.Context())
	if err != nil {
		h.logger.Error("failed to list contacts", "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, contacts, h.logger)
}

// ListUsers returns every user.
// GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.Users(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		http.Error(w, `{"error": "store unavailable"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, users, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
