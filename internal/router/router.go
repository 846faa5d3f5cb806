package router

import (
	"net/http"

	"krubolab/internal/handler"
	"krubolab/internal/middleware"
	"krubolab/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Health   *handler.HealthHandler
	Config   *handler.ConfigHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Offering *handler.OfferingHandler
	Contact  *handler.ContactHandler
	Order    *handler.OrderHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	AllowedOrigins []string
	Auth           service.AuthService
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health check endpoint (no authentication required)
	r.Get("/health", h.Health.Health)

	// Edge functions answer 405 themselves for other methods.
	r.HandleFunc("/supabase-config", h.Config.Backend)
	r.HandleFunc("/admin-login", h.Auth.Login)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Product.GetAll)
		r.Get("/products/{id}", h.Product.GetByID)
		r.Get("/services", h.Offering.GetAll)
		r.Get("/services/{id}", h.Offering.GetByID)
		r.Post("/orders", h.Order.Create)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(opts.Auth, logger))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Product.GetAll)
				r.Post("/", h.Product.Create)
				r.Get("/{id}", h.Product.GetByID)
				r.Put("/{id}", h.Product.Update)
				r.Delete("/{id}", h.Product.Delete)
			})

			r.Route("/services", func(r chi.Router) {
				r.Get("/", h.Offering.GetAll)
				r.Post("/", h.Offering.Create)
				r.Get("/{id}", h.Offering.GetByID)
				r.Put("/{id}", h.Offering.Update)
				r.Delete("/{id}", h.Offering.Delete)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", h.Contact.GetAll)
				r.Post("/", h.Contact.Create)
				r.Get("/{id}", h.Contact.GetByID)
				r.Put("/{id}", h.Contact.Update)
				r.Delete("/{id}", h.Contact.Delete)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Order.List)
				r.Get("/{id}", h.Order.GetByID)
				r.Patch("/{id}/status", h.Order.UpdateStatus)
				r.Delete("/{id}", h.Order.Delete)
			})
		})
	})

	return r
}
