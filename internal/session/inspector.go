package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspector decides whether a bearer token is still usable. The agent holds
// no signing key, so claims are decoded without signature verification; the
// backend remains the authority, this check only avoids doomed requests.
type Inspector struct {
	now func() time.Time
}

func NewInspector(now func() time.Time) *Inspector {
	if now == nil {
		now = time.Now
	}
	return &Inspector{now: now}
}

// IsExpired is fail-closed: a token that cannot be decoded, carries no exp
// claim, or whose exp is not in the future counts as expired.
func (i *Inspector) IsExpired(token string) bool {
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !exp.Time.After(i.now())
}
