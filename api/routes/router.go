package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carspace/carspace-backend/api/controllers"
	"github.com/carspace/carspace-backend/api/middleware"
	"github.com/carspace/carspace-backend/internal/auth"
	"github.com/carspace/carspace-backend/internal/cars"
	"github.com/carspace/carspace-backend/internal/live"
	"github.com/carspace/carspace-backend/internal/requests"
	"github.com/carspace/carspace-backend/pkg/auth/session"
	"github.com/carspace/carspace-backend/pkg/config"
	"github.com/carspace/carspace-backend/pkg/db"
	"github.com/carspace/carspace-backend/pkg/enums"
	"github.com/carspace/carspace-backend/pkg/logger"
	"github.com/carspace/carspace-backend/pkg/metrics"
	"github.com/carspace/carspace-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Params bundles everything the router wires together.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	AuthService    auth.Service
	SignupService  auth.SignupService
	CarsService    cars.Service
	RequestsSvc    requests.Service
	Hub            *live.Hub
	HTTPMetrics    *metrics.HTTPMetrics
	PromGatherer   prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.PromGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, p.Redis, logg)).Post("/signup", controllers.AuthSignup(p.SignupService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AdminAuthLogin(p.AuthService, logg))
	})

	r.Route("/api/v1/cars", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Get("/", controllers.CarsList(p.CarsService, logg))
		r.Get("/stream", controllers.StreamSnapshots(p.Hub, cars.Collection, logg))
		r.Post("/{carId}/buy", controllers.CarBuyNow(p.RequestsSvc, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.RequireRole(string(enums.SystemRoleAdmin), logg))

		r.Route("/cars", func(r chi.Router) {
			r.Get("/", controllers.AdminCarsList(p.CarsService, logg))
			r.Post("/", controllers.AdminCarCreate(p.CarsService, logg))
			r.Put("/{carId}", controllers.AdminCarUpdate(p.CarsService, logg))
			r.Delete("/{carId}", controllers.AdminCarDelete(p.CarsService, logg))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.AdminRequestsList(p.RequestsSvc, logg))
			r.Get("/approved", controllers.AdminApprovedRequestsList(p.RequestsSvc, logg))
			r.Get("/stream", controllers.StreamSnapshots(p.Hub, requests.Collection, logg))
			r.Post("/{requestId}/approve", controllers.AdminRequestApprove(p.RequestsSvc, logg))
			r.Delete("/{requestId}", controllers.AdminRequestDelete(p.RequestsSvc, logg))
		})
	})

	return r
}
