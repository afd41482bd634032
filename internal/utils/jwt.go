package utils // package utils provides token and password helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed identity token and its expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken signs an HS256 identity token carrying the provider
// subject and email, the claims IdentityAuth requires.  It stands in for
// the external identity provider in development and tests.
func NewSessionToken(secret, subject, email string, ttl time.Duration) (SessionToken, error) {
	if secret == "" {
		return SessionToken{}, errors.New("empty signing secret")
	}
	if subject == "" || email == "" {
		return SessionToken{}, errors.New("subject and email are required")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
