package console

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/adminconsole/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = map[view.PageID]string{
	view.PageLogin:             "login.html",
	view.PageDashboard:         "dashboard.html",
	view.PageUsers:             "users.html",
	view.PageUserDetail:        "user_detail.html",
	view.PageUserSubscriptions: "user_subscriptions.html",
	view.PageUserTransactions:  "user_transactions.html",
}

type tristateField struct {
	Name  string
	Label string
	Value string
}

var funcs = template.FuncMap{
	"tristate": func(name, label, value string) tristateField {
		return tristateField{Name: name, Label: label, Value: value}
	},
}

// parseTemplates builds one template set per page on top of the shared
// layout.
func parseTemplates() (map[view.PageID]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	out := make(map[view.PageID]*template.Template, len(pageFiles))
	for id, file := range pageFiles {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		out[id] = t
	}
	return out, nil
}

// pageData is everything a page template can see. Only the fields of the
// current page are set; a nil section means its fetch did not succeed.
type pageData struct {
	Page     view.PageID
	Title    string
	UserID   string
	UserHref string
	Admin    string
	CSRF     template.HTML

	Login         *loginForm
	Stats         *view.Stats
	Users         *usersPage
	Detail        *detailPage
	Subscriptions *view.Table[view.SubscriptionRow]
	Transactions  *view.Table[view.TransactionRow]
}

type loginForm struct {
	Email string
	Error string
}

type usersPage struct {
	Filter view.UsersFilter
	Table  *view.Table[view.UserRow]
}

type detailPage struct {
	Profile       *view.UserProfile
	Subscriptions *view.Summary
	Transactions  *view.Summary
}

// render executes into a buffer first so a template error never leaves a
// half written page.
func (c *Console) render(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	t, ok := c.templates[data.Page]
	if !ok {
		c.logger.Error(r.Context(), "no template for page", "page", data.Page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		requestLogger(r.Context(), c.logger).Error(r.Context(), "render failed", "page", data.Page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
