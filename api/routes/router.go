package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lopeshyago/fusionbackapp/api/controllers"
	"github.com/lopeshyago/fusionbackapp/api/middleware"
	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	"github.com/lopeshyago/fusionbackapp/internal/auth"
	"github.com/lopeshyago/fusionbackapp/internal/invites"
	"github.com/lopeshyago/fusionbackapp/internal/records"
	"github.com/lopeshyago/fusionbackapp/pkg/auth/session"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
	"github.com/lopeshyago/fusionbackapp/pkg/metrics"
)

// Services groups the domain services the HTTP layer dispatches to.
type Services struct {
	Auth     auth.Service
	Accounts accounts.Service
	Invites  invites.Service
	Records  records.Service
}

// Infra groups the optional infrastructure the router depends on. Redis-backed
// fields must be left nil, not typed nil, when Redis is not configured.
type Infra struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	RateLimits  middleware.RateLimitStore
	Revocations session.RevocationChecker
	Metrics     *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(infra.Metrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)
	authenticated := middleware.Auth(cfg.JWT, infra.Revocations, logg)
	adminOnly := middleware.RequireRole(logg, enums.RoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.DB, infra.Redis))
	})

	if infra.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, infra.RateLimits, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, infra.RateLimits, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
		r.With(authenticated).Post("/logout", controllers.AuthLogout(svc.Auth, logg))
		if cfg.App.IsDev() {
			r.Post("/admin/register", controllers.AdminAuthRegister(svc.Auth, logg))
		}
	})

	r.Route("/register", func(r chi.Router) {
		r.Use(middleware.AuthRateLimit(registerPolicy, infra.RateLimits, logg))
		r.Post("/student", controllers.RegisterStudent(svc.Auth, logg))
		r.Post("/instructor", controllers.RegisterInstructor(svc.Auth, logg))
	})

	r.Route("/invites", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/redeem", controllers.RedeemInvite(svc.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/instructor", controllers.InviteCreate(svc.Invites, enums.InviteKindInstructor, logg))
			r.Get("/instructor", controllers.InviteList(svc.Invites, enums.InviteKindInstructor, logg))
			r.Post("/generic", controllers.InviteCreate(svc.Invites, enums.InviteKindGeneric, logg))
			r.Get("/generic", controllers.InviteList(svc.Invites, enums.InviteKindGeneric, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/me", controllers.Me(svc.Accounts, logg))
		r.Put("/profile", controllers.UpdateProfile(svc.Accounts, logg))

		r.Route("/api/{table}", func(r chi.Router) {
			r.Get("/", controllers.RecordList(svc.Records, logg))
			r.Post("/", controllers.RecordCreate(svc.Records, logg))
			r.Put("/{id}", controllers.RecordUpdate(svc.Records, logg))
			r.Delete("/{id}", controllers.RecordDelete(svc.Records, logg))
		})
	})

	return r
}
