package handler

import (
	"net/http"

	"krubolab/internal/config"

	"github.com/rs/zerolog"
)

// BackendConfigResponse tells browser clients where the hosted backend lives.
type BackendConfigResponse struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

// ConfigHandler serves public runtime configuration.
type ConfigHandler struct {
	backend config.BackendConfig
	logger  zerolog.Logger
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(backend config.BackendConfig, logger zerolog.Logger) *ConfigHandler {
	return &ConfigHandler{
		backend: backend,
		logger:  logger.With().Str("handler", "config").Logger(),
	}
}

// Backend handles GET /supabase-config.
func (h *ConfigHandler) Backend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", h.logger)
		return
	}

	if !h.backend.Configured() {
		writeError(w, http.StatusInternalServerError, "Server configuration error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, BackendConfigResponse{
		URL:     h.backend.URL,
		AnonKey: h.backend.AnonKey,
	})
}
