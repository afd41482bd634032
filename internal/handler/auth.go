package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Me handles GET /v1/me.  Sign-in happens at the identity provider; this
// returns the local account the session token maps to, creating it on
// first use.
func (h *BookingHandler) Me(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, errUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, user)
}
