package middleware

// identity.go holds helpers shared by the middleware that key on who is
// calling.

import "github.com/labstack/echo/v4"

// callerID returns the identity-provider subject set by IdentityAuth, the
// admin user set by AdminAuth, or "anon".
func callerID(c echo.Context) string {
	if s, ok := c.Get(CtxExternalID).(string); ok && s != "" {
		return s
	}
	if s, ok := c.Get(CtxAdminUser).(string); ok && s != "" {
		return "admin:" + s
	}
	return "anon"
}
