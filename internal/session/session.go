// Package session is the console's token store.
//
// Tokens live in a namespaced storage.KV, one namespace per browser (or
// "cli" for the terminal client). The access token is also mirrored into an
// access_token cookie scoped to "/", which is the last place AccessToken
// looks.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/adminconsole/internal/storage"
)

const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	// KeyLegacyToken is read as a fallback and removed on logout.
	KeyLegacyToken = "token"

	CookieAccessToken = "access_token"
)

// CookieJar reads request cookies and writes response cookies. A nil
// CookieJar turns the cookie mirror off.
type CookieJar interface {
	Cookie(name string) (string, bool)
	SetCookie(c *http.Cookie)
}

// Tokens is the persisted pair.
type Tokens struct {
	Access  string
	Refresh string
}

type Session struct {
	kv  storage.KV
	jar CookieJar
}

func New(kv storage.KV, jar CookieJar) *Session {
	return &Session{kv: kv, jar: jar}
}

// AccessToken returns the first non-empty of storage "access_token",
// storage "token" and the access_token cookie, or "".
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	for _, key := range []string{KeyAccessToken, KeyLegacyToken} {
		v, err := s.kv.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", key, err)
		}
		if len(v) > 0 {
			return string(v), nil
		}
	}
	if s.jar != nil {
		if v, ok := s.jar.Cookie(CookieAccessToken); ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}

func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	v, err := s.kv.Get(ctx, KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", KeyRefreshToken, err)
	}
	return string(v), nil
}

// SetTokens stores whichever of the two tokens is non-empty. A new access
// token is also written to a session cookie with no explicit expiry.
func (s *Session) SetTokens(ctx context.Context, access, refresh string) error {
	if access != "" {
		if err := s.kv.Set(ctx, KeyAccessToken, []byte(access)); err != nil {
			return fmt.Errorf("store %s: %w", KeyAccessToken, err)
		}
		if s.jar != nil {
			s.jar.SetCookie(&http.Cookie{Name: CookieAccessToken, Value: access, Path: "/"})
		}
	}
	if refresh != "" {
		if err := s.kv.Set(ctx, KeyRefreshToken, []byte(refresh)); err != nil {
			return fmt.Errorf("store %s: %w", KeyRefreshToken, err)
		}
	}
	return nil
}

// Clear removes all three storage keys and expires the cookie at once.
func (s *Session) Clear(ctx context.Context) error {
	if s.jar != nil {
		s.jar.SetCookie(&http.Cookie{Name: CookieAccessToken, Value: "", Path: "/", MaxAge: -1})
	}
	if err := s.kv.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyLegacyToken); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

func (s *Session) Load(ctx context.Context) (Tokens, error) {
	access, err := s.AccessToken(ctx)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.RefreshToken(ctx)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

func (s *Session) Save(ctx context.Context, t Tokens) error {
	return s.SetTokens(ctx, t.Access, t.Refresh)
}
