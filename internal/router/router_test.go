package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"krubolab/internal/config"
	"krubolab/internal/handler"
	"krubolab/internal/model"
	"krubolab/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// stubProducts serves a fixed catalogue.
type stubProducts struct {
	service.ProductService
}

func (stubProducts) GetAll(context.Context, int, int) ([]model.Product, error) {
	return []model.Product{{ID: "P001", Name: "Lámpara", Price: 60000}}, nil
}

func (stubProducts) GetByID(_ context.Context, id string) (*model.Product, error) {
	if id != "P001" {
		return nil, model.ErrProductNotFound
	}
	return &model.Product{ID: "P001", Name: "Lámpara", Price: 60000}, nil
}

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	auth := service.NewAuthService("s3cret", logger)

	return New(Handlers{
		Health:  handler.NewHealthHandler(nil, logger),
		Config:  handler.NewConfigHandler(config.BackendConfig{URL: "https://db.example.co", AnonKey: "anon"}, logger),
		Auth:    handler.NewAuthHandler(auth, logger),
		Product: handler.NewProductHandler(stubProducts{}, logger),
	}, Options{AllowedOrigins: []string{"*"}, Auth: auth}, logger)
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		headers        map[string]string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "health",
			method:         http.MethodGet,
			path:           "/health",
			expectedStatus: http.StatusOK,
			expectedBody:   "healthy",
		},
		{
			name:           "backend config",
			method:         http.MethodGet,
			path:           "/supabase-config",
			expectedStatus: http.StatusOK,
			expectedBody:   `"anonKey":"anon"`,
		},
		{
			name:           "admin login",
			method:         http.MethodPost,
			path:           "/admin-login",
			body:           `{"password":"s3cret"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"success":true`,
		},
		{
			name:           "admin login wrong method",
			method:         http.MethodGet,
			path:           "/admin-login",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "public product list",
			method:         http.MethodGet,
			path:           "/api/products",
			expectedStatus: http.StatusOK,
			expectedBody:   "Lámpara",
		},
		{
			name:           "public product by id",
			method:         http.MethodGet,
			path:           "/api/products/P001",
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"P001"`,
		},
		{
			name:           "unknown product",
			method:         http.MethodGet,
			path:           "/api/products/P404",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "admin route without password",
			method:         http.MethodGet,
			path:           "/api/admin/products",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "admin route with wrong password",
			method:         http.MethodGet,
			path:           "/api/admin/products",
			headers:        map[string]string{"X-Admin-Password": "nope"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "admin route with password",
			method:         http.MethodGet,
			path:           "/api/admin/products",
			headers:        map[string]string{"X-Admin-Password": "s3cret"},
			expectedStatus: http.StatusOK,
			expectedBody:   "Lámpara",
		},
		{
			name:   "preflight",
			method: http.MethodOptions,
			path:   "/api/orders",
			headers: map[string]string{
				"Origin":                        "https://krubolab.com",
				"Access-Control-Request-Method": "POST",
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "unknown route",
			method:         http.MethodGet,
			path:           "/api/unknown",
			expectedStatus: http.StatusNotFound,
		},
	}

	router := newTestRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}
