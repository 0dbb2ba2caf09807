// Package api exposes the analyst HTTP endpoints.
package api

import (
	"github.com/csv-analyst/backend/internal/config"
	"github.com/csv-analyst/backend/internal/insights"
	"github.com/csv-analyst/backend/internal/plot"
	"github.com/csv-analyst/backend/internal/session"
	"github.com/csv-analyst/backend/internal/storage"
)

// Handler handles API requests.
type Handler struct {
	sessions  *session.Manager
	plots     *storage.PlotStore
	insights  *insights.Service
	generator *plot.Generator
	cfg       *config.Config
	progress  *ProgressHub
	version   string
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, sessions *session.Manager, plots *storage.PlotStore, svc *insights.Service, generator *plot.Generator) *Handler {
	return &Handler{
		sessions:  sessions,
		plots:     plots,
		insights:  svc,
		generator: generator,
		cfg:       cfg,
		progress:  NewProgressHub(),
		version:   "1.0.0",
	}
}
