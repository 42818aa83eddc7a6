// Package console serves the admin web console.
//
// The console is a thin server in front of the admin API: every page load
// runs one controller that fetches through apiclient with the calling
// browser's session and renders the result server side. A 401 that survives
// the refresh round sends the browser to /login.
package console

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/adminconsole/internal/apiclient"
	"github.com/dmitrijs2005/adminconsole/internal/cryptox"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/dmitrijs2005/adminconsole/internal/models"
	"github.com/dmitrijs2005/adminconsole/internal/storage"
	"github.com/dmitrijs2005/adminconsole/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// API is the part of apiclient.Client the console uses.
type API interface {
	Login(ctx context.Context, email, password string) (models.TokenPair, error)
	DashboardStats(ctx context.Context, tokens apiclient.TokenStore) (models.DashboardStats, error)
	ListUsers(ctx context.Context, tokens apiclient.TokenStore, f models.UserFilter) (models.Page[models.User], error)
	GetUser(ctx context.Context, tokens apiclient.TokenStore, id string) (models.UserDetail, error)
	ListUserSubscriptions(ctx context.Context, tokens apiclient.TokenStore, id string, p models.PageRequest) (models.Page[models.Subscription], error)
	ListUserTransactions(ctx context.Context, tokens apiclient.TokenStore, id string, p models.PageRequest) (models.Page[models.Transaction], error)
}

// CSRFField is the hidden form field carrying the CSRF token.
const CSRFField = "csrf_token"

type Options struct {
	API       API
	Storage   storage.Repository
	Sealer    *cryptox.Sealer // nil stores tokens in clear text
	Formatter view.Formatter
	Logger    logging.Logger
	CSRFKey   []byte // empty disables CSRF checks
}

type Console struct {
	api       API
	repo      storage.Repository
	sealer    *cryptox.Sealer
	format    view.Formatter
	logger    logging.Logger
	csrfKey   []byte
	templates map[view.PageID]*template.Template
	pages     map[view.PageID]controller
}

func New(o Options) (*Console, error) {
	if o.API == nil {
		return nil, errors.New("console: api client is required")
	}
	if o.Storage == nil {
		return nil, errors.New("console: storage is required")
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	c := &Console{
		api:       o.API,
		repo:      o.Storage,
		sealer:    o.Sealer,
		format:    o.Formatter,
		logger:    o.Logger,
		csrfKey:   o.CSRFKey,
		templates: templates,
	}
	c.pages = c.controllers()
	return c, nil
}

// Handler returns the full HTTP surface, traced with otelhttp.
func (c *Console) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(c.withSession, c.logRequests)
		if len(c.csrfKey) > 0 {
			r.Use(csrf.Protect(c.csrfKey,
				csrf.FieldName(CSRFField),
				csrf.Path("/"),
				csrf.Secure(false),
				csrf.SameSite(csrf.SameSiteLaxMode),
			))
		}

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		})
		r.Get("/login", c.loginPage)
		r.Post("/login", c.login)
		r.Post("/admin/logout", c.logout)

		r.Get("/admin/dashboard", c.page(view.PageDashboard, "Dashboard"))
		r.Get("/admin/users", c.page(view.PageUsers, "Users"))
		r.Post("/admin/users", c.filterUsers)
		r.Get("/admin/users/{id}", c.page(view.PageUserDetail, "User"))
		r.Get("/admin/users/{id}/subscriptions", c.page(view.PageUserSubscriptions, "Subscriptions"))
		r.Get("/admin/users/{id}/transactions", c.page(view.PageUserTransactions, "Transactions"))
	})

	var h http.Handler = r
	if len(c.csrfKey) > 0 {
		h = markPlaintext(h)
	}
	return otelhttp.NewHandler(h, "admin-console")
}

// markPlaintext tells gorilla/csrf which requests arrived without TLS so it
// skips the https-only referer check for them.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}
