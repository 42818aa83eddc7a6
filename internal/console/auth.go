package console

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/adminconsole/internal/apiclient"
	"github.com/dmitrijs2005/adminconsole/internal/view"
	"github.com/gorilla/csrf"
)

func (c *Console) loginPage(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, &pageData{
		Page:  view.PageLogin,
		Title: "Sign in",
		CSRF:  csrf.TemplateField(r),
		Login: &loginForm{},
	})
}

// login posts the credentials to the API. A rejection re-renders the form
// with the API's message; success stores the tokens and opens the
// dashboard.
func (c *Console) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := &loginForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	data := &pageData{Page: view.PageLogin, Title: "Sign in", CSRF: csrf.TemplateField(r), Login: form}

	pair, err := c.api.Login(ctx, form.Email, r.PostFormValue("password"))
	if err != nil {
		var le *apiclient.LoginError
		if errors.As(err, &le) {
			requestLogger(ctx, c.logger).Info(ctx, "login rejected", "status", le.StatusCode)
			form.Error = le.Error()
			c.render(w, r, http.StatusUnauthorized, data)
			return
		}
		requestLogger(ctx, c.logger).Error(ctx, "login failed", "error", err)
		form.Error = apiclient.LoginFailedMessage
		c.render(w, r, http.StatusBadGateway, data)
		return
	}

	if err := sessionFrom(ctx).SetTokens(ctx, pair.Token, pair.RefreshToken); err != nil {
		requestLogger(ctx, c.logger).Error(ctx, "store tokens", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (c *Console) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := sessionFrom(ctx).Clear(ctx); err != nil {
		requestLogger(ctx, c.logger).Error(ctx, "clear tokens", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
