package models

import (
	"net/url"
	"strings"
)

// UserFilter is the users list query. Empty fields are left out of the API
// request.
type UserFilter struct {
	Limit      string
	Offset     string
	IsActive   string
	IsVerified string
	IsAdmin    string
}

// UserFilterFrom reads a filter from page query parameters.
func UserFilterFrom(q url.Values) UserFilter {
	return UserFilter{
		Limit:      strings.TrimSpace(q.Get("limit")),
		Offset:     strings.TrimSpace(q.Get("offset")),
		IsActive:   strings.TrimSpace(q.Get("is_active")),
		IsVerified: strings.TrimSpace(q.Get("is_verified")),
		IsAdmin:    strings.TrimSpace(q.Get("is_admin")),
	}
}

// Query returns the API parameters, skipping empty ones.
func (f UserFilter) Query() url.Values {
	q := url.Values{}
	for _, p := range []struct{ key, value string }{
		{"limit", f.Limit},
		{"offset", f.Offset},
		{"is_active", f.IsActive},
		{"is_verified", f.IsVerified},
		{"is_admin", f.IsAdmin},
	} {
		if p.value != "" {
			q.Set(p.key, p.value)
		}
	}
	return q
}

// PageRequest is a limit/offset pair for the per-user collections.
type PageRequest struct {
	Limit  string
	Offset string
}

const (
	DefaultLimit  = "10"
	DefaultOffset = "0"
)

// PageRequestFrom reads limit and offset, falling back to 10 and 0.
func PageRequestFrom(q url.Values) PageRequest {
	p := PageRequest{
		Limit:  strings.TrimSpace(q.Get("limit")),
		Offset: strings.TrimSpace(q.Get("offset")),
	}
	if p.Limit == "" {
		p.Limit = DefaultLimit
	}
	if p.Offset == "" {
		p.Offset = DefaultOffset
	}
	return p
}

func (p PageRequest) Query() url.Values {
	return url.Values{"limit": {p.Limit}, "offset": {p.Offset}}
}
