package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/adminconsole/internal/models"
)

// DetailPreview is the page used for the short lists on the user page.
var DetailPreview = models.PageRequest{Limit: "5", Offset: "0"}

func getJSON[T any](ctx context.Context, c *Client, tokens TokenStore, path string, query url.Values) (T, error) {
	var out T

	resp, err := c.Fetch(ctx, tokens, http.MethodGet, path, query, nil)
	if err != nil {
		return out, err
	}
	defer drain(resp)

	if !ok(resp.StatusCode) {
		return out, &StatusError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func userPath(id string, rest string) string {
	return "/users/" + url.PathEscape(id) + rest
}

func (c *Client) DashboardStats(ctx context.Context, tokens TokenStore) (models.DashboardStats, error) {
	return getJSON[models.DashboardStats](ctx, c, tokens, "/dashboard/stats", nil)
}

func (c *Client) ListUsers(ctx context.Context, tokens TokenStore, f models.UserFilter) (models.Page[models.User], error) {
	return getJSON[models.Page[models.User]](ctx, c, tokens, "/users", f.Query())
}

func (c *Client) GetUser(ctx context.Context, tokens TokenStore, id string) (models.UserDetail, error) {
	return getJSON[models.UserDetail](ctx, c, tokens, userPath(id, ""), nil)
}

func (c *Client) ListUserSubscriptions(ctx context.Context, tokens TokenStore, id string, p models.PageRequest) (models.Page[models.Subscription], error) {
	return getJSON[models.Page[models.Subscription]](ctx, c, tokens, userPath(id, "/subscriptions"), p.Query())
}

func (c *Client) ListUserTransactions(ctx context.Context, tokens TokenStore, id string, p models.PageRequest) (models.Page[models.Transaction], error) {
	return getJSON[models.Page[models.Transaction]](ctx, c, tokens, userPath(id, "/transactions"), p.Query())
}
