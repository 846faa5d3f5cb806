package handler

import (
	"net/http"
	"strings"

	"krubolab/internal/model"
	"krubolab/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OfferingHandler handles workshop service offering requests.
type OfferingHandler struct {
	service service.OfferingService
	logger  zerolog.Logger
}

// NewOfferingHandler creates a new offering handler.
func NewOfferingHandler(service service.OfferingService, logger zerolog.Logger) *OfferingHandler {
	return &OfferingHandler{
		service: service,
		logger:  logger.With().Str("handler", "offering").Logger(),
	}
}

// GetAll handles GET /api/services. A search parameter filters by name,
// category or duration.
func (h *OfferingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var (
		offerings []model.ServiceOffering
		err       error
	)
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		offerings, err = h.service.Search(r.Context(), search)
	} else {
		offerings, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve services", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, offerings)
}

// GetByID handles GET /api/services/{id}.
func (h *OfferingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	offering, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve service", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, offering)
}

// Create handles POST /api/admin/services.
func (h *OfferingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.OfferingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	offering, err := h.service.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, err, "failed to create service", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, offering)
}

// Update handles PUT /api/admin/services/{id}.
func (h *OfferingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.OfferingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	offering, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &in)
	if err != nil {
		writeServiceError(w, err, "failed to update service", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, offering)
}

// Delete handles DELETE /api/admin/services/{id}.
func (h *OfferingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete service", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
