package middleware

import (
	"errors"
	"net/http"
	"time"

	"krubolab/internal/model"
	"krubolab/internal/service"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// AdminPasswordHeader carries the shared admin password on dashboard requests.
const AdminPasswordHeader = "X-Admin-Password"

// CORS allows browser clients from the given origins. Preflight requests are
// answered with 204 and never reach the next handler.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:       allowedOrigins,
		AllowedMethods:       []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:       []string{"Content-Type", AdminPasswordHeader},
		MaxAge:               300,
		OptionsSuccessStatus: http.StatusNoContent,
	})
}

// AdminAuth checks the admin password from the X-Admin-Password header.
func AdminAuth(auth service.AuthService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := auth.Login(r.Context(), r.Header.Get(AdminPasswordHeader))
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, model.ErrPasswordRequired):
				logger.Warn().Str("path", r.URL.Path).Msg("missing admin password")
				writeError(w, http.StatusUnauthorized, "unauthorised: missing admin password")
			case errors.Is(err, model.ErrAdminNotConfigured):
				writeError(w, http.StatusInternalServerError, "Server configuration error")
			default:
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Msg("invalid admin password")
				writeError(w, http.StatusUnauthorized, "unauthorised: invalid admin password")
			}
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Int("bytes", rw.bytes).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write counts the bytes written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}
