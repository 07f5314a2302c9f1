// Package httpapi assembles the chi router: the middleware chain (request id,
// logging, locale detection, session resolution, access gate) and the route
// table. Route prefixes here must stay in sync with the gate's rule table in
// internal/access.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mandalfund/internal/access"
	"mandalfund/internal/http/handlers"
	"mandalfund/internal/middleware"
	"mandalfund/internal/obs"
)

// Options carries router wiring beyond the handler container.
type Options struct {
	Gate           *access.Gate
	Metrics        *obs.Metrics
	Log            zerolog.Logger
	Locale         string
	CountryLookup  middleware.CountryLookup
	CORSOrigins    []string
	LoginRateLimit int
	StaticDir      string
}

// NewRouter builds the full route table.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}
	r.Use(middleware.Logger(opts.Log, opts.Metrics))
	r.Use(middleware.Locale(opts.Locale, opts.CountryLookup))
	r.Use(middleware.Session(app.Auth, app.Roles, opts.Metrics, opts.Log))
	r.Use(middleware.Gate(opts.Gate, opts.Metrics, opts.Log))

	// public
	r.Get("/healthz", app.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/dashboard/public", app.DashboardPublic)
	r.Get("/login", app.LoginPage)
	r.Get("/denied", app.DeniedPage)
	r.Post("/auth/signup", app.Signup)
	r.With(middleware.RateLimit(opts.LoginRateLimit, time.Minute)).Post("/auth/login", app.Login)
	r.Post("/auth/logout", app.Logout)

	// authenticated (enforced by the gate, not per-route)
	r.Route("/donate", func(r chi.Router) {
		r.Post("/", app.DonationsCreate)
		r.Get("/mine", app.DonationsMine)
	})
	r.Route("/expense", func(r chi.Router) {
		r.Post("/", app.ExpensesCreate)
		r.Get("/mine", app.ExpensesMine)
	})
	r.Get("/dashboard/user", app.DashboardUser)

	// admin-only (enforced by the gate)
	r.Get("/dashboard/internal", app.DashboardInternal)
	r.Route("/funds", func(r chi.Router) {
		r.Get("/", app.AllocationsList)
		r.Post("/", app.AllocationsCreate)
		r.Put("/{id}", app.AllocationsUpdate)
		r.Delete("/{id}", app.AllocationsDelete)
		r.Get("/export/{ledger}", app.ExportLedger)
	})
	r.Get("/audit/allocations", app.AuditAllocations)
	r.Route("/users/manage", func(r chi.Router) {
		r.Get("/", app.UsersList)
		r.Post("/", app.UsersCreate)
		r.Put("/{id}", app.UsersUpdate)
		r.Delete("/{id}", app.UsersDelete)
	})
	r.Route("/secret", func(r chi.Router) {
		r.Get("/sponsors", app.SponsorsList)
		r.Post("/sponsors", app.SponsorsCreate)
		r.Put("/sponsors/{id}", app.SponsorsUpdate)
		r.Delete("/sponsors/{id}", app.SponsorsDelete)
	})

	// tenant-scoped; the legacy paths /dashboard and /donate/list redirect
	// here via the gate's rewrite rules
	r.Route("/mandal", func(r chi.Router) {
		r.Post("/", app.MandalsCreate)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", app.MandalsGet)
			r.Get("/dashboard", app.DashboardPublic)
			r.Get("/donate/list", app.DonationsList)
			r.Get("/expense/list", app.ExpensesList)
			r.Put("/", app.MandalsUpdate)
			r.Delete("/", app.MandalsDelete)
			r.Post("/logo", app.MandalsUploadLogo)
			r.Post("/invite", app.MandalsInvite)
		})
	})

	// uploaded receipts and logos
	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
