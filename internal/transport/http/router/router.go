package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Authenticate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	FindByEmail(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Accounts AccountHandler
	Docs     http.Handler // optional

	RequestIDMW func(http.Handler) http.Handler
	MetricsMW   func(http.Handler) http.Handler
	BodyLimitMW func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Accounts == nil {
		return nil, fmt.Errorf("nil Accounts handler")
	}

	r := chi.NewRouter()
	if deps.RequestIDMW != nil {
		r.Use(deps.RequestIDMW)
	}
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if deps.MetricsMW != nil {
		r.Use(deps.MetricsMW)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/identity/v1", func(r chi.Router) {
		if deps.BodyLimitMW != nil {
			r.Use(deps.BodyLimitMW)
		}

		r.Post("/register", deps.Accounts.Register)
		r.Post("/authenticate", deps.Accounts.Authenticate)

		r.Get("/accounts", deps.Accounts.FindByEmail) // ?email=...
		r.Get("/accounts/{id}", deps.Accounts.Get)
		r.Patch("/accounts/{id}", deps.Accounts.UpdateProfile)

		if deps.Docs != nil {
			r.Method(http.MethodGet, "/openapi.json", deps.Docs)
		}
	})

	return r, nil
}
