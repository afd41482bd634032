package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
)

// ListHelipads handles GET /v1/helipads with an optional ?type= filter
// (e.g. Commercial, Scenic, Nature).
func ListHelipads(c echo.Context) error {
	items := model.Helipads(c.QueryParam("type"))
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}
