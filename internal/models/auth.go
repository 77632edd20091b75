package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds the credentials forwarded to the platform token
// endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the platform's token-endpoint reply.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Credential is the platform bearer token held by a workspace. The expiry is
// read from the token's claims without verifying the signature; only the
// platform holds the signing secret.
type Credential struct {
	Token  string
	Expiry time.Time
}

// Valid reports whether a usable credential is present at the given instant.
func (c Credential) Valid(now time.Time) bool {
	if c.Token == "" {
		return false
	}
	return c.Expiry.IsZero() || now.Before(c.Expiry)
}

// ParseCredential extracts the expiry claim from a bearer token. Tokens that
// do not parse as JWTs are kept with no expiry rather than rejected.
func ParseCredential(raw string) Credential {
	cred := Credential{Token: raw}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return cred
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		cred.Expiry = exp.Time
	}
	return cred
}

// LoginResponse is what the console returns to the browser after login.
type LoginResponse struct {
	SessionID   string    `json:"session_id"`
	TokenExpiry time.Time `json:"token_expiry,omitempty"`
}
