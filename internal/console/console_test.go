package console

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/apiclient"
	"github.com/dmitrijs2005/adminconsole/internal/session"
	"github.com/dmitrijs2005/adminconsole/internal/storage"
	"github.com/dmitrijs2005/adminconsole/internal/view"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a scripted admin API that records what it was asked.
type fakeAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	queries  map[string][]string
	bodies   map[string][]string
	handlers map[string]http.HandlerFunc
	srv      *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		calls:    map[string]int{},
		queries:  map[string][]string{},
		bodies:   map[string][]string{},
		handlers: map[string]http.HandlerFunc{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls[r.URL.Path]++
		f.queries[r.URL.Path] = append(f.queries[r.URL.Path], r.URL.RawQuery)
		f.bodies[r.URL.Path] = append(f.bodies[r.URL.Path], string(body))
		h := f.handlers[r.URL.Path]
		f.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) handle(path string, h http.HandlerFunc) { f.handlers[path] = h }

func (f *fakeAPI) json(path string, status int, body string) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) lastQuery(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queries[path]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func (f *fakeAPI) lastBody(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bodies[path]
	if len(b) == 0 {
		return ""
	}
	return b[len(b)-1]
}

type harness struct {
	api     *fakeAPI
	repo    *storage.MemoryRepository
	handler http.Handler
	sid     string
}

func newHarness(t *testing.T, opts ...func(*Options)) *harness {
	t.Helper()
	api := newFakeAPI(t)
	client, err := apiclient.New(api.srv.URL, apiclient.WithHTTPClient(api.srv.Client()))
	require.NoError(t, err)

	repo := storage.NewMemoryRepository()
	o := Options{
		API:       client,
		Storage:   repo,
		Formatter: view.NewFormatter(time.UTC, ""),
	}
	for _, opt := range opts {
		opt(&o)
	}
	c, err := New(o)
	require.NoError(t, err)

	return &harness{api: api, repo: repo, handler: c.Handler(), sid: uuid.NewString()}
}

func (h *harness) ns() string { return BrowserNamespace(h.sid) }

func (h *harness) seed(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		require.NoError(t, h.repo.Set(context.Background(), h.ns(), k, []byte(v)))
	}
}

func (h *harness) stored(t *testing.T) map[string]string {
	t.Helper()
	raw, err := h.repo.List(context.Background(), h.ns())
	require.NoError(t, err)
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = string(v)
	}
	return out
}

func (h *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: session.BrowserCookie, Value: h.sid})
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func token(t *testing.T, email string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": email, "sub": "1"}).SignedString([]byte("test"))
	require.NoError(t, err)
	return s
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{Storage: storage.NewMemoryRepository()})
	require.Error(t, err)

	client, err := apiclient.New("http://127.0.0.1:1")
	require.NoError(t, err)
	_, err = New(Options{API: client})
	require.Error(t, err)
}

func TestRootAndHealth(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	rec = h.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestBrowserCookieIssuedOnFirstVisit(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	sid := responseCookie(rec, session.BrowserCookie)
	require.NotNil(t, sid)
	_, err := uuid.Parse(sid.Value)
	assert.NoError(t, err)
	assert.True(t, sid.HttpOnly)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Contains(t, rec.Body.String(), `data-page="login"`)
}

func TestLogin_Success(t *testing.T) {
	h := newHarness(t)
	h.api.json("/login", http.StatusOK, `{"token":"acc","refresh_token":"ref"}`)

	rec := h.do(http.MethodPost, "/login", url.Values{"email": {"  admin@example.com "}, "password": {"pw"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(h.api.lastBody("/login")), &sent))
	assert.Equal(t, map[string]string{"email": "admin@example.com", "password": "pw"}, sent)

	assert.Equal(t, map[string]string{"access_token": "acc", "refresh_token": "ref"}, h.stored(t))
	c := responseCookie(rec, session.CookieAccessToken)
	require.NotNil(t, c)
	assert.Equal(t, "acc", c.Value)
	assert.Equal(t, "/", c.Path)
}

func TestLogin_Rejected(t *testing.T) {
	t.Run("body text shown", func(t *testing.T) {
		h := newHarness(t)
		h.api.json("/login", http.StatusUnauthorized, `Invalid credentials`)

		rec := h.do(http.MethodPost, "/login", url.Values{"email": {"a@b.c"}, "password": {"x"}})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
		assert.Contains(t, rec.Body.String(), `value="a@b.c"`)
		assert.Empty(t, h.stored(t))
		assert.Nil(t, responseCookie(rec, session.CookieAccessToken))
	})

	t.Run("empty body falls back", func(t *testing.T) {
		h := newHarness(t)
		h.api.json("/login", http.StatusBadRequest, ``)

		rec := h.do(http.MethodPost, "/login", url.Values{"email": {"a@b.c"}, "password": {"x"}})

		assert.Contains(t, rec.Body.String(), apiclient.LoginFailedMessage)
	})
}

func TestDashboard(t *testing.T) {
	t.Run("renders stats and identity", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, map[string]string{"access_token": token(t, "admin@example.com")})
		h.api.json("/dashboard/stats", http.StatusOK, `{"users":12,"payments":3}`)

		rec := h.do(http.MethodGet, "/admin/dashboard", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `data-page="dashboard"`)
		assert.Contains(t, body, `id="stat-users">12<`)
		assert.Contains(t, body, `id="stat-subscriptions">0<`)
		assert.Contains(t, body, `id="stat-payments">3<`)
		assert.Contains(t, body, "Signed in as admin@example.com")
	})

	t.Run("non-OK degrades silently", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, map[string]string{"access_token": "acc"})
		h.api.json("/dashboard/stats", http.StatusInternalServerError, `{}`)

		rec := h.do(http.MethodGet, "/admin/dashboard", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="stat-users">--<`)
	})

	t.Run("401 without refresh token redirects", func(t *testing.T) {
		h := newHarness(t)
		h.api.json("/dashboard/stats", http.StatusUnauthorized, `{}`)

		rec := h.do(http.MethodGet, "/admin/dashboard", nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Zero(t, h.api.count("/refresh-token"))
	})
}

func TestDashboard_RefreshesAndRetries(t *testing.T) {
	h := newHarness(t)
	h.seed(t, map[string]string{"access_token": "stale", "refresh_token": "r1"})
	h.api.handle("/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"users":1,"subscriptions":2,"payments":3}`)
	})
	h.api.json("/refresh-token", http.StatusOK, `{"token":"fresh","refresh_token":"r2"}`)

	rec := h.do(http.MethodGet, "/admin/dashboard", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="stat-subscriptions">2<`)
	assert.Equal(t, "token=r1", h.api.lastQuery("/refresh-token"))
	assert.Equal(t, 2, h.api.count("/dashboard/stats"))
	assert.Equal(t, map[string]string{"access_token": "fresh", "refresh_token": "r2"}, h.stored(t))
	c := responseCookie(rec, session.CookieAccessToken)
	require.NotNil(t, c)
	assert.Equal(t, "fresh", c.Value)
}

func TestUsers(t *testing.T) {
	t.Run("empty list renders one row", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, map[string]string{"access_token": "acc"})
		h.api.json("/users", http.StatusOK, `{"total":0,"data":[]}`)

		rec := h.do(http.MethodGet, "/admin/users?is_active=&limit=25", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, "limit=25", h.api.lastQuery("/users"))
		assert.Equal(t, 1, strings.Count(body, view.NoUsers))
		assert.Contains(t, body, `colspan="6"`)
		assert.Contains(t, body, "0 total users")
		assert.Contains(t, body, `id="limit" name="limit" value="25"`)
	})

	t.Run("rows and next link", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, map[string]string{"access_token": "acc"})
		h.api.json("/users", http.StatusOK, `{"total":11,"data":[{"id":7,"email":"u@x.io","is_admin":true,"created_at":"2024-01-01T00:00:00Z"}],"next_offset":10}`)

		rec := h.do(http.MethodGet, "/admin/users?is_admin=true", nil)

		body := rec.Body.String()
		assert.Equal(t, "is_admin=true", h.api.lastQuery("/users"))
		assert.Contains(t, body, `<a href="/admin/users/7">u@x.io</a>`)
		assert.Contains(t, body, "1/1/2024, 12:00:00 AM")
		assert.Contains(t, body, `href="/admin/users?is_admin=true&amp;offset=10">Next</a>`)
		assert.NotContains(t, body, "Previous")
		assert.Contains(t, body, `<option value="true" selected>Yes</option>`)
	})

	t.Run("filter submit redirects without fetching", func(t *testing.T) {
		h := newHarness(t)

		rec := h.do(http.MethodPost, "/admin/users", url.Values{
			"limit": {"5"}, "is_admin": {"true"}, "is_active": {""}, "is_verified": {""},
		})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/users?is_admin=true&limit=5&offset=0", rec.Header().Get("Location"))
		assert.Zero(t, h.api.count("/users"))
	})
}

func TestUserDetail(t *testing.T) {
	t.Run("one failing list does not hide the other", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, map[string]string{"access_token": "acc"})
		h.api.json("/users/7", http.StatusOK, `{"user":{"id":7,"email":"u@x.io","is_verified":true},"transactions_count":1}`)
		h.api.json("/users/7/subscriptions", http.StatusInternalServerError, `{}`)
		h.api.json("/users/7/transactions", http.StatusOK, `{"total":1,"data":[{"status":"paid","provider":"paypal","amount_cents":500,"currency":"EUR"}]}`)

		rec := h.do(http.MethodGet, "/admin/users/7", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `data-page="user-detail" data-user-id="7"`)
		assert.Contains(t, body, `id="detail-email">u@x.io<`)
		assert.Contains(t, body, `id="detail-username">--<`)
		assert.Contains(t, body, `id="detail-subscriptions-count">0<`)
		assert.Contains(t, body, "paypal - 5 EUR")
		assert.NotContains(t, body, view.NoSubscriptions)
		assert.Equal(t, "limit=5&offset=0", h.api.lastQuery("/users/7/subscriptions"))
		assert.Equal(t, "limit=5&offset=0", h.api.lastQuery("/users/7/transactions"))
	})

	t.Run("failed user fetch skips the lists", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, map[string]string{"access_token": "acc"})
		h.api.json("/users/7", http.StatusNotFound, `{}`)

		rec := h.do(http.MethodGet, "/admin/users/7", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="detail-email">--<`)
		assert.Zero(t, h.api.count("/users/7/subscriptions"))
		assert.Zero(t, h.api.count("/users/7/transactions"))
	})

	t.Run("login required from a list redirects", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, map[string]string{"access_token": "acc"})
		h.api.json("/users/7", http.StatusOK, `{"user":{"id":7,"email":"u@x.io"}}`)
		h.api.json("/users/7/subscriptions", http.StatusUnauthorized, `{}`)
		h.api.json("/users/7/transactions", http.StatusOK, `{"total":0,"data":[]}`)

		rec := h.do(http.MethodGet, "/admin/users/7", nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestUserCollections(t *testing.T) {
	h := newHarness(t)
	h.seed(t, map[string]string{"access_token": "acc"})
	h.api.json("/users/7/subscriptions", http.StatusOK, `{"total":0,"data":null}`)
	h.api.json("/users/7/transactions", http.StatusOK, `{"total":12,"data":[{"amount_cents":1999,"currency":"USD"}],"prev_offset":0,"next_offset":20}`)

	rec := h.do(http.MethodGet, "/admin/users/7/subscriptions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "limit=10&offset=0", h.api.lastQuery("/users/7/subscriptions"))
	assert.Contains(t, rec.Body.String(), view.NoSubscriptions)
	assert.Contains(t, rec.Body.String(), `colspan="4"`)

	rec = h.do(http.MethodGet, "/admin/users/7/transactions?offset=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "limit=10&offset=10", h.api.lastQuery("/users/7/transactions"))
	assert.Contains(t, body, "12 total transactions")
	assert.Contains(t, body, "<td>19.99 USD</td>")
	assert.Contains(t, body, "<td>--</td>")
	assert.Contains(t, body, `href="/admin/users/7/transactions?offset=0">Previous</a>`)
	assert.Contains(t, body, `href="/admin/users/7/transactions?offset=20">Next</a>`)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.seed(t, map[string]string{"access_token": "a", "refresh_token": "r", "token": "legacy"})

	rec := h.do(http.MethodPost, "/admin/logout", url.Values{})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Empty(t, h.stored(t))

	c := responseCookie(rec, session.CookieAccessToken)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Contains(t, rec.Header().Values("Set-Cookie"), "access_token=; Path=/; Max-Age=0")
}

func TestSealedStorage(t *testing.T) {
	sealer, err := storage.NewSealer("s3cret")
	require.NoError(t, err)
	h := newHarness(t, func(o *Options) { o.Sealer = sealer })
	h.api.json("/login", http.StatusOK, `{"token":"acc","refresh_token":"ref"}`)
	h.api.handle("/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"users":5}`)
	})

	rec := h.do(http.MethodPost, "/login", url.Values{"email": {"a@b.c"}, "password": {"x"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	raw := h.stored(t)
	require.Contains(t, raw, "access_token")
	assert.NotEqual(t, "acc", raw["access_token"])

	rec = h.do(http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="stat-users">5<`)
}

func TestCSRF(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.CSRFKey = []byte("0123456789abcdef0123456789abcdef") })

	rec := h.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="csrf_token"`)

	rec = h.do(http.MethodPost, "/admin/logout", url.Values{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
