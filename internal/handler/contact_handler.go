package handler

import (
	"net/http"

	"krubolab/internal/model"
	"krubolab/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ContactHandler handles dashboard contact requests. All routes are admin only.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("handler", "contact").Logger(),
	}
}

func (h *ContactHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve contacts", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	contact, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve contact", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	contact, err := h.service.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, err, "failed to create contact", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	contact, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &in)
	if err != nil {
		writeServiceError(w, err, "failed to update contact", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete contact", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
