package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/aerial-tour-booking/internal/utils"
)

// CtxAdminUser is the context key holding the authenticated admin name.
const CtxAdminUser = "admin_user"

// AdminAuth protects administrative routes with HTTP basic auth checked
// against a bcrypt hash.  With an empty hash every request is refused with
// 403, so admin routes stay closed until a password is configured.
func AdminAuth(user, passwordHash string) echo.MiddlewareFunc {
	if passwordHash == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access is not configured"})
			}
		}
	}
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "aerial-admin",
		Validator: func(u, p string, c echo.Context) (bool, error) {
			nameOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
			// Always run bcrypt so a wrong name costs the same as a wrong password.
			passOK := utils.VerifyPassword(passwordHash, p)
			if nameOK && passOK {
				c.Set(CtxAdminUser, u)
				return true, nil
			}
			return false, nil
		},
	})
}
