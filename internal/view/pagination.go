package view

import (
	"net/url"
	"strconv"
)

type Link struct {
	Label string
	Href  string
	Class string
}

// Pagination builds the Previous and Next links. Each keeps every current
// query parameter and overrides offset; a nil offset drops its link.
func Pagination(basePath string, current url.Values, prev, next *int) []Link {
	var links []Link
	if prev != nil {
		links = append(links, Link{Label: "Previous", Href: withOffset(basePath, current, *prev), Class: "btn btn-outline-dark"})
	}
	if next != nil {
		links = append(links, Link{Label: "Next", Href: withOffset(basePath, current, *next), Class: "btn btn-dark"})
	}
	return links
}

func withOffset(basePath string, current url.Values, offset int) string {
	q := make(url.Values, len(current)+1)
	for k, v := range current {
		q[k] = append([]string(nil), v...)
	}
	q.Set("offset", strconv.Itoa(offset))
	return basePath + "?" + q.Encode()
}

// FilterRedirect rebuilds a list query from a submitted filter form: empty
// fields and the names in skip are dropped, the last value of a repeated
// field wins, and offset is reset to 0.
func FilterRedirect(form url.Values, skip ...string) url.Values {
	skipped := make(map[string]bool, len(skip))
	for _, k := range skip {
		skipped[k] = true
	}

	q := url.Values{}
	for key, values := range form {
		if skipped[key] {
			continue
		}
		for _, v := range values {
			if v != "" {
				q.Set(key, v)
			}
		}
	}
	q.Set("offset", "0")
	return q
}
