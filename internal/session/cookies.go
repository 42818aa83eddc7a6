package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HTTPJar serves one request/response pair. Cookies written during the
// request are visible to later reads in the same request, as they would be
// in a browser. It is safe for concurrent use.
type HTTPJar struct {
	mu      sync.Mutex
	r       *http.Request
	w       http.ResponseWriter
	written map[string]*http.Cookie
}

func NewHTTPJar(w http.ResponseWriter, r *http.Request) *HTTPJar {
	return &HTTPJar{r: r, w: w, written: make(map[string]*http.Cookie)}
}

func (j *HTTPJar) Cookie(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if c, ok := j.written[name]; ok {
		if c.MaxAge < 0 {
			return "", false
		}
		return c.Value, true
	}
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j *HTTPJar) SetCookie(c *http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.written[c.Name] = c
	http.SetCookie(j.w, c)
}

// BrowserCookie names the cookie that ties a browser to its storage
// namespace.
const BrowserCookie = "console_sid"

const browserCookieTTL = 365 * 24 * time.Hour

// BrowserID returns the namespace for the calling browser, issuing a new
// one when the cookie is missing or not a UUID.
func BrowserID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(BrowserCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     BrowserCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(browserCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
