package models

import "time"

// TokenPair is the upstream-issued session: a short-lived access token plus
// the refresh token used to renew it. ExpiresAt is derived from the access
// token's exp claim when present.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the access token is usable at the given instant,
// keeping the provided leeway before the hard expiry.
func (t TokenPair) Valid(now time.Time, leeway time.Duration) bool {
	if t.AccessToken == "" {
		return false
	}
	if t.ExpiresAt.IsZero() {
		return true
	}
	return now.Add(leeway).Before(t.ExpiresAt)
}
