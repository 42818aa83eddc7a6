package console

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/dmitrijs2005/adminconsole/internal/session"
	"github.com/dmitrijs2005/adminconsole/internal/storage"
	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionKey
)

const HeaderRequestID = "X-Request-Id"

// BrowserNamespace is the storage namespace of one browser.
func BrowserNamespace(browserID string) string {
	return "browser:" + browserID
}

// withRequestID keeps a well formed incoming id, otherwise issues one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger tags l with the request id carried by ctx.
func requestLogger(ctx context.Context, l logging.Logger) logging.Logger {
	if id := requestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}

// withSession binds the browser's storage namespace and cookies to the
// request.
func (c *Console) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kv := storage.Scope(c.repo, BrowserNamespace(session.BrowserID(w, r)))
		if c.sealer != nil {
			kv = storage.Sealed(kv, c.sealer)
		}
		sess := session.New(kv, session.NewHTTPJar(w, r))
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// logRequests writes one line per request once the handler is done. It runs
// inside withSession so the admin identity can be attached.
func (c *Console) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(writer, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", writer.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if sess := sessionFrom(r.Context()); sess != nil {
			if access, err := sess.AccessToken(r.Context()); err == nil {
				if admin := session.Identity(access); admin != "" {
					args = append(args, "admin", admin)
				}
			}
		}
		requestLogger(r.Context(), c.logger).Info(r.Context(), "request", args...)
	})
}
