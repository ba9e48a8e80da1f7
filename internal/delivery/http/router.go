package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"marathonhub/internal/delivery/http/controllers"
	h "marathonhub/internal/delivery/http/helpers"
	"marathonhub/internal/delivery/http/middleware"
)

// RouterDeps holds everything NewRouter wires into routes.
type RouterDeps struct {
	Logger                 *slog.Logger
	AuthController         *controllers.AuthController
	MarathonController     *controllers.MarathonController
	RegistrationController *controllers.RegistrationController
	// Auth wraps handlers that need an authenticated user (RequireAuth or DemoAuth).
	Auth           func(http.HandlerFunc) http.HandlerFunc
	AllowedOrigins []string
	// Backend names the storage backend reported by /health.
	Backend string
}

// HealthResponse is the data payload of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(func(next http.Handler) http.Handler {
		return middleware.LoggingMiddleware(d.Logger, next)
	})

	auth := d.Auth

	// Auth
	r.Post("/api/auth/register", d.AuthController.Register)
	r.Get("/api/auth/me", auth(d.AuthController.Me))

	// Marathons
	r.Get("/api/marathons", d.MarathonController.ListMarathons)
	r.Post("/api/marathons", auth(d.MarathonController.CreateMarathon))
	r.Get("/api/marathons/user/{userId}", auth(d.MarathonController.ListByOwner))
	r.Get("/api/marathons/{id}", d.MarathonController.GetMarathon)
	r.Put("/api/marathons/{id}", auth(d.MarathonController.UpdateMarathon))
	r.Delete("/api/marathons/{id}", auth(d.MarathonController.DeleteMarathon))

	// Registrations
	r.Post("/api/registrations", auth(d.RegistrationController.CreateRegistration))
	r.Get("/api/registrations/user/{userId}", auth(d.RegistrationController.ListByUser))
	r.Get("/api/registrations/{id}", auth(d.RegistrationController.GetRegistration))
	r.Put("/api/registrations/{id}", auth(d.RegistrationController.UpdateRegistration))
	r.Delete("/api/registrations/{id}", auth(d.RegistrationController.DeleteRegistration))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		h.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok", Backend: d.Backend})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		h.WriteJSONError(w, http.StatusMethodNotAllowed, h.ErrCodeBadRequest, "method not allowed")
	})

	return middleware.CORS(d.AllowedOrigins, r)
}
