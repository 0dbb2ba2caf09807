package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// HandleAsk answers a free-form question about the active dataset using a
// small sample as context.
func (h *Handler) HandleAsk(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return NewBadRequest("Query parameter is required.")
	}

	if h.sessions.Current() == nil {
		return NewBadRequest("No CSV uploaded yet.")
	}

	sample := h.sessions.Sample(h.cfg.Analysis.SampleRows)
	answer, err := h.insights.Answer(c.Request().Context(), query, sample)
	if err != nil {
		return NewInternal(fmt.Sprintf("AI query failed: %v", err))
	}

	return c.JSON(http.StatusOK, map[string]string{"response": answer})
}
