package handler

import (
	"net/http"

	"krubolab/internal/model"
	"krubolab/internal/service"

	"github.com/rs/zerolog"
)

// LoginResponse is returned on a successful admin login.
type LoginResponse struct {
	Success bool `json:"success"`
}

// AuthHandler serves the admin password check.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /admin-login. No token is issued; the caller records the
// session flag locally.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", h.logger)
		return
	}

	var body any
	if err := decodeJSON(w, r, &body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	var err error
	switch password := loginPassword(body).(type) {
	case string:
		err = h.service.Login(r.Context(), password)
	default:
		// A non-string password can never equal the configured one.
		err = model.ErrInvalidPassword
		if !h.service.Configured() {
			err = model.ErrAdminNotConfigured
		}
	}
	if err != nil {
		writeServiceError(w, err, "Server configuration error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// loginPassword extracts the password field of a decoded login body. Falsy
// JSON values (absent, null, false, 0, "") come back as the empty string so
// they read as a missing password.
func loginPassword(body any) any {
	fields, _ := body.(map[string]any)
	switch v := fields["password"].(type) {
	case nil:
		return ""
	case bool:
		if !v {
			return ""
		}
	case float64:
		if v == 0 {
			return ""
		}
	}
	return fields["password"]
}
