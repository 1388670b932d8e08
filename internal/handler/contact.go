package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/getmelinks/getmelinks/internal/model"
	"github.com/getmelinks/getmelinks/internal/repository"
	"github.com/getmelinks/getmelinks/internal/service"
	"github.com/getmelinks/getmelinks/internal/validation"
)

// JSON helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func readJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}

// failure is the error response envelope shared by all contact routes
type failure struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failure{Success: false, Message: message})
}

// writeServerError writes a generic 500. The underlying error detail is
// only echoed in development mode.
func (h *Handler) writeServerError(w http.ResponseWriter, message string, err error) {
	resp := failure{Success: false, Message: message}
	if h.cfg.IsDevelopment() && err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

// --- Submit ---

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Service string `json:"service"`
	Budget  string `json:"budget"`
	Message string `json:"message"`
}

type submitSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Service   string    `json:"service"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitContact handles POST /api/contact
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := readJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Required fields first, before anything touches the store
	if req.Name == "" || req.Email == "" || req.Service == "" || req.Message == "" {
		h.log.Info().Str("email", req.Email).Msg("contact submission rejected: missing required fields")
		writeFailure(w, http.StatusBadRequest,
			"Please provide all required fields: name, email, service, and message")
		return
	}

	contact := &model.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Service: req.Service,
		Budget:  req.Budget,
		Message: req.Message,
	}

	created, err := h.contacts.Submit(r.Context(), contact)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, failure{
				Success: false,
				Message: "Validation error",
				Errors:  verrs.Messages(),
			})
		case errors.Is(err, service.ErrStoreUnavailable):
			h.log.Error().Err(err).Msg("contact store unreachable")
			writeFailure(w, http.StatusInternalServerError,
				"Database connection error. Please try again later.")
		default:
			h.log.Error().Err(err).Msg("contact submission failed")
			h.writeServerError(w, "Something went wrong. Please try again later.", err)
		}
		return
	}

	h.log.Info().Str("contact_id", created.ID).Str("service", created.Service).Msg("contact submission saved")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Thank you for contacting us! We will get back to you within 24 hours.",
		"data": submitSummary{
			ID:        created.ID,
			Name:      created.Name,
			Email:     created.Email,
			Service:   created.Service,
			CreatedAt: created.CreatedAt,
		},
	})
}

// --- Admin routes ---

// ListContacts handles GET /api/contact
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list contacts")
		h.writeServerError(w, "Error fetching contacts", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(contacts),
		"data":    contacts,
	})
}

// GetContact handles GET /api/contact/{id}
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	contact, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "Contact not found")
			return
		}
		h.log.Error().Err(err).Str("contact_id", id).Msg("failed to get contact")
		h.writeServerError(w, "Error fetching contact", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    contact,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateContactStatus handles PATCH /api/contact/{id}/status
func (h *Handler) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusRequest
	if err := readJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status := model.ContactStatus(req.Status)
	if !status.Valid() {
		writeFailure(w, http.StatusBadRequest, "Invalid status")
		return
	}

	contact, err := h.contacts.UpdateStatus(r.Context(), id, status)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			writeFailure(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, repository.ErrNotFound):
			writeFailure(w, http.StatusNotFound, "Contact not found")
		default:
			h.log.Error().Err(err).Str("contact_id", id).Msg("failed to update contact status")
			h.writeServerError(w, "Error updating status", err)
		}
		return
	}

	h.log.Info().Str("contact_id", id).Str("status", req.Status).Msg("contact status updated")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Status updated successfully",
		"data":    contact,
	})
}
