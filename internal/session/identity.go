package session

import "github.com/golang-jwt/jwt/v5"

// Identity reads the email (or subject) claim of an access token for display
// and log context. The signature is not checked; the API does that.
func Identity(accessToken string) string {
	if accessToken == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return ""
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
