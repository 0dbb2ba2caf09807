package api

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/csv-analyst/backend/internal/analysis"
	"github.com/csv-analyst/backend/internal/dataset"
	"github.com/csv-analyst/backend/internal/models"
	"github.com/csv-analyst/backend/internal/plot"
	"github.com/csv-analyst/backend/internal/session"
	"github.com/csv-analyst/backend/internal/storage"
)

// UploadResponse is the body of a successful CSV upload.
type UploadResponse struct {
	Message  string      `json:"message"`
	Dataset  string      `json:"dataset"`
	EDA      *models.EDA `json:"eda"`
	Insights string      `json:"insights"`
	Plots    []string    `json:"plots"`
}

// HandleUpload accepts a CSV file, runs the analysis pipeline, and replaces
// the active dataset. The response carries the EDA summary, the AI insight
// text, and the URLs of the generated plot gallery.
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequest("No file provided.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return NewBadRequest("Only CSV files are supported.")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return NewBadRequest(fmt.Sprintf("Failed to read CSV: %v", err))
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return NewBadRequest(fmt.Sprintf("Failed to read CSV: %v", err))
	}

	datasetName := storage.SafeDatasetName(fileHeader.Filename)
	h.progress.Publish(StageReading, datasetName, 10)

	frame, err := dataset.ReadCSV(datasetName, data)
	if err != nil {
		return NewBadRequest(fmt.Sprintf("Failed to read CSV: %v", err))
	}

	if _, err := h.plots.ResetDataset(datasetName); err != nil {
		return NewInternal(fmt.Sprintf("Failed to prepare plot directory: %v", err))
	}

	h.progress.Publish(StageAnalyzing, datasetName, 30)
	eda := analysis.Perform(frame)

	h.progress.Publish(StagePlotting, datasetName, 50)
	var plotURLs []string
	for _, r := range h.generator.GenerateAll(frame, eda) {
		name, err := h.plots.Save(datasetName, r.Prefix, r.PNG)
		if err != nil {
			continue
		}
		plotURLs = append(plotURLs, path.Join("/plots", datasetName, name))
	}

	h.progress.Publish(StageInsights, datasetName, 70)
	insightText, err := h.insights.GenerateInsights(c.Request().Context(), eda)
	if err != nil {
		// The upload still succeeds; the summary degrades to an error note.
		insightText = fmt.Sprintf("AI insights generation failed: %v", err)
	}

	rows, cols := frame.Shape()
	state := &session.State{
		Info: models.DatasetInfo{
			ID:          uuid.New().String(),
			Name:        datasetName,
			RowCount:    rows,
			ColumnCount: cols,
			SourceSize:  fileHeader.Size,
			UploadedAt:  time.Now(),
		},
		EDA:      eda,
		Insights: insightText,
		PlotURLs: plotURLs,
		Frame:    frame,
	}

	if h.cfg.Storage.EnableDuckDB {
		store, err := dataset.NewDuckStore(h.cfg.Storage.TempDirectory, state.Info.ID, frame.ColumnNames())
		if err == nil {
			if err := store.IngestFrame(frame); err == nil {
				state.Rows = store
			} else {
				store.Close()
			}
		}
	}

	if old := h.sessions.Replace(state); old != nil && old.Info.Name != datasetName {
		h.plots.Prune(old.Info.Name)
	}
	h.progress.Publish(StageComplete, datasetName, 100)

	return c.JSON(http.StatusOK, UploadResponse{
		Message:  "CSV uploaded successfully",
		Dataset:  datasetName,
		EDA:      eda,
		Insights: insightText,
		Plots:    plotURLs,
	})
}

// HandleGenerateChart renders a single chart on demand for the active
// dataset and returns its URL.
func (h *Handler) HandleGenerateChart(c echo.Context) error {
	var req struct {
		ChartType string   `json:"chart_type"`
		Columns   []string `json:"columns"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequest("Invalid request body.")
	}

	state := h.sessions.Current()
	if state == nil {
		return NewBadRequest("No dataset uploaded yet. Use /upload first.")
	}

	chartType := plot.ChartType(strings.ToLower(strings.TrimSpace(req.ChartType)))
	if err := plot.Validate(chartType, req.Columns, state.Frame); err != nil {
		return NewBadRequest(err.Error())
	}

	png, err := plot.Render(chartType, req.Columns, state.Frame)
	if err != nil {
		return NewInternal(fmt.Sprintf("Chart generation failed: %v", err))
	}

	name, err := h.plots.Save(state.Info.Name, string(chartType), png)
	if err != nil {
		return NewInternal(fmt.Sprintf("Chart generation failed: %v", err))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"chart_url": path.Join("/plots", state.Info.Name, name),
	})
}
