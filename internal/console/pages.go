package console

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/adminconsole/internal/apiclient"
	"github.com/dmitrijs2005/adminconsole/internal/models"
	"github.com/dmitrijs2005/adminconsole/internal/session"
	"github.com/dmitrijs2005/adminconsole/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"golang.org/x/sync/errgroup"
)

type pageRequest struct {
	sess   *session.Session
	userID string
	query  url.Values
}

// controller fills data for one page. Only apiclient.ErrLoginRequired or a
// failure outside the API comes back as an error; unavailable sections are
// logged and left nil.
type controller func(ctx context.Context, req pageRequest, data *pageData) error

func (c *Console) controllers() map[view.PageID]controller {
	return map[view.PageID]controller{
		view.PageDashboard:         c.loadDashboard,
		view.PageUsers:             c.loadUsers,
		view.PageUserDetail:        c.loadUserDetail,
		view.PageUserSubscriptions: c.loadUserSubscriptions,
		view.PageUserTransactions:  c.loadUserTransactions,
	}
}

func (c *Console) page(id view.PageID, title string) http.HandlerFunc {
	load := c.pages[id]

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := sessionFrom(ctx)

		userID, err := url.PathUnescape(chi.URLParam(r, "id"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		data := &pageData{Page: id, Title: title, UserID: userID, CSRF: csrf.TemplateField(r)}
		if userID != "" {
			data.UserHref = view.UserHref(userID)
		}

		if err := load(ctx, pageRequest{sess: sess, userID: userID, query: r.URL.Query()}, data); err != nil {
			if errors.Is(err, apiclient.ErrLoginRequired) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			requestLogger(ctx, c.logger).Error(ctx, "page failed", "page", id, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		data.Admin = c.identity(ctx, sess)
		c.render(w, r, http.StatusOK, data)
	}
}

// degrade swallows a section failure after logging it. ErrLoginRequired is
// passed through.
func (c *Console) degrade(ctx context.Context, section string, err error) error {
	if errors.Is(err, apiclient.ErrLoginRequired) {
		return err
	}

	l := requestLogger(ctx, c.logger)
	var se *apiclient.StatusError
	if errors.As(err, &se) {
		l.Warn(ctx, "section unavailable", "section", section, "status", se.StatusCode)
	} else {
		l.Error(ctx, "section failed", "section", section, "error", err)
	}
	return nil
}

func (c *Console) identity(ctx context.Context, sess *session.Session) string {
	access, err := sess.AccessToken(ctx)
	if err != nil {
		return ""
	}
	return session.Identity(access)
}

func (c *Console) loadDashboard(ctx context.Context, req pageRequest, data *pageData) error {
	stats, err := c.api.DashboardStats(ctx, req.sess)
	if err != nil {
		return c.degrade(ctx, "dashboard", err)
	}
	data.Stats = view.BuildStats(stats)
	return nil
}

func (c *Console) loadUsers(ctx context.Context, req pageRequest, data *pageData) error {
	data.Users = &usersPage{Filter: view.BuildUsersFilter(req.query)}

	page, err := c.api.ListUsers(ctx, req.sess, models.UserFilterFrom(req.query))
	if err != nil {
		return c.degrade(ctx, "users", err)
	}
	data.Users.Table = view.BuildUsersTable(c.format, page, req.query)
	return nil
}

// loadUserDetail needs the user before anything else. The two short lists
// are then fetched side by side and each renders on its own.
func (c *Console) loadUserDetail(ctx context.Context, req pageRequest, data *pageData) error {
	detail := &detailPage{}
	data.Detail = detail
	if req.userID == "" {
		return nil
	}

	user, err := c.api.GetUser(ctx, req.sess, req.userID)
	if err != nil {
		return c.degrade(ctx, "user", err)
	}
	detail.Profile = view.BuildUserProfile(c.format, user)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		subs, err := c.api.ListUserSubscriptions(gctx, req.sess, req.userID, apiclient.DetailPreview)
		if err != nil {
			return c.degrade(gctx, "subscriptions", err)
		}
		detail.Subscriptions = view.BuildSubscriptionSummary(c.format, subs)
		return nil
	})
	g.Go(func() error {
		txs, err := c.api.ListUserTransactions(gctx, req.sess, req.userID, apiclient.DetailPreview)
		if err != nil {
			return c.degrade(gctx, "transactions", err)
		}
		detail.Transactions = view.BuildTransactionSummary(txs)
		return nil
	})
	return g.Wait()
}

func (c *Console) loadUserSubscriptions(ctx context.Context, req pageRequest, data *pageData) error {
	if req.userID == "" {
		return nil
	}
	page, err := c.api.ListUserSubscriptions(ctx, req.sess, req.userID, models.PageRequestFrom(req.query))
	if err != nil {
		return c.degrade(ctx, "subscriptions", err)
	}
	data.Subscriptions = view.BuildSubscriptionsTable(c.format, req.userID, page, req.query)
	return nil
}

func (c *Console) loadUserTransactions(ctx context.Context, req pageRequest, data *pageData) error {
	if req.userID == "" {
		return nil
	}
	page, err := c.api.ListUserTransactions(ctx, req.sess, req.userID, models.PageRequestFrom(req.query))
	if err != nil {
		return c.degrade(ctx, "transactions", err)
	}
	data.Transactions = view.BuildTransactionsTable(c.format, req.userID, page, req.query)
	return nil
}

// filterUsers turns a submitted filter form into a fresh first page.
func (c *Console) filterUsers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := view.FilterRedirect(r.PostForm, CSRFField)
	http.Redirect(w, r, "/admin/users?"+q.Encode(), http.StatusSeeOther)
}
