package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"fundwatch/internal/http/handlers"
	"fundwatch/internal/infra"
	"fundwatch/internal/middleware"
)

// RouterOptions carries the cross-cutting settings the router applies.
type RouterOptions struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Docs
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))

		r.Get("/donors", app.Donors)
		r.Route("/politicians", func(r chi.Router) {
			r.Get("/", app.Politicians)
			r.Get("/{cid}", app.PoliticianByID)
		})
	})

	return r
}
