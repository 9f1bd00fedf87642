// Package auth reads the claims of the backend's access tokens. Tokens are
// not verified here; the backend remains the authority.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Polqt/aica-bot-sub001/internal/apperr"
)

// TokenInfo is what the client learns from an access token
type TokenInfo struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token has no exp claim
}

// Expired reports whether the token is past its expiry at now.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Remaining returns how long the token stays valid, or zero.
func (t *TokenInfo) Remaining(now time.Time) time.Duration {
	if t.ExpiresAt.IsZero() || t.Expired(now) {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Inspect decodes token without checking its signature.
func Inspect(token string) (*TokenInfo, error) {
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, "Your saved session is invalid. Please log in again.",
			fmt.Errorf("parse access token: %w", err))
	}

	info := &TokenInfo{Subject: c.Subject, Email: c.Email}
	if c.IssuedAt != nil {
		info.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		info.ExpiresAt = c.ExpiresAt.Time
	}
	return info, nil
}

// CheckUsable returns an AUTH_ERROR when token cannot be used at now.
func CheckUsable(token string, now time.Time) (*TokenInfo, error) {
	if token == "" {
		return nil, apperr.New(apperr.KindAuth, "You are not logged in. Run 'aica auth login' first.")
	}
	info, err := Inspect(token)
	if err != nil {
		return nil, err
	}
	if info.Expired(now) {
		return info, apperr.New(apperr.KindAuth, "Your session has expired. Please log in again.")
	}
	return info, nil
}
