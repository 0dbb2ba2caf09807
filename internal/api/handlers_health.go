package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	loaded := h.sessions.Current() != nil
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"provider": h.insights.Provider(),
		"loaded":   loaded,
	})
}
