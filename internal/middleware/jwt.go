package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by IdentityAuth.
const (
	CtxExternalID = "external_id"
	CtxEmail      = "email"
)

// IdentityAuth validates the identity provider's session token (HS256
// Bearer JWT) and stores its subject and email claims in the context under
// CtxExternalID and CtxEmail.  The subject is the provider's stable user
// identifier; handlers map it to a local user with get-or-create.
func IdentityAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			email, _ := claims["email"].(string)
			if strings.TrimSpace(sub) == "" || strings.TrimSpace(email) == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token must carry sub and email"})
			}

			c.Set(CtxExternalID, sub)
			c.Set(CtxEmail, email)
			return next(c)
		}
	}
}
