package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLoginRequired means the API still answered 401 after the single
// refresh-and-retry round. Callers send the user back to the login page.
var ErrLoginRequired = errors.New("login required")

// LoginFailedMessage is shown when a failed login carries no body text.
const LoginFailedMessage = "Login failed. Check your credentials."

// StatusError is a non-2xx, non-401 answer from a read endpoint.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// LoginError is a rejected POST /login. Message is the raw response body.
type LoginError struct {
	StatusCode int
	Message    string
}

func (e *LoginError) Error() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return LoginFailedMessage
}
