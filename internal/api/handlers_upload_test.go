// handlers_upload_test.go - Tests for the upload and chart endpoints
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/csv-analyst/backend/internal/config"
	"github.com/csv-analyst/backend/internal/insights"
	"github.com/csv-analyst/backend/internal/plot"
	"github.com/csv-analyst/backend/internal/session"
	"github.com/csv-analyst/backend/internal/storage"
	"github.com/csv-analyst/backend/internal/testutil"
)

const testCSV = "price,qty,city\n10,1,osaka\n20,2,tokyo\n30,3,tokyo\n40,4,kyoto\n"

func newTestHandler(t *testing.T, mock *testutil.MockLLM) *Handler {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Storage.PlotsDirectory = t.TempDir()
	cfg.Storage.TempDirectory = t.TempDir()
	cfg.Storage.EnableDuckDB = false

	plots, err := storage.NewPlotStore(cfg.Storage.PlotsDirectory)
	if err != nil {
		t.Fatalf("creating plot store: %v", err)
	}

	var svc *insights.Service
	if mock != nil {
		svc = insights.NewService(mock, 5*time.Second)
	} else {
		svc = insights.NewService(nil, 5*time.Second)
	}

	return NewHandler(cfg, session.NewManager(), plots, svc, plot.NewGenerator(plot.DefaultPolicy))
}

func multipartCSV(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("building form: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()
	return &body, mw.FormDataContentType()
}

func doUpload(t *testing.T, h *Handler, fileName, content string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	body, contentType := multipartCSV(t, fileName, content)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return rec, h.HandleUpload(c)
}

func TestHandleUpload_Success(t *testing.T) {
	mock := &testutil.MockLLM{Response: "Looks healthy."}
	h := newTestHandler(t, mock)

	rec, err := doUpload(t, h, "sales.csv", testCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Message != "CSV uploaded successfully" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.Dataset != "sales" {
		t.Errorf("unexpected dataset name: %q", resp.Dataset)
	}
	if resp.EDA == nil || resp.EDA.Shape != [2]int{4, 3} {
		t.Errorf("unexpected eda shape: %+v", resp.EDA)
	}
	if resp.Insights != "Looks healthy." {
		t.Errorf("unexpected insights: %q", resp.Insights)
	}
	if len(resp.Plots) == 0 {
		t.Error("expected generated plots")
	}
	for _, p := range resp.Plots {
		if !strings.HasPrefix(p, "/plots/sales/") {
			t.Errorf("unexpected plot url: %s", p)
		}
	}

	if h.sessions.Current() == nil {
		t.Error("expected dataset state to be installed")
	}
}

func TestHandleUpload_Validation(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		content    string
		wantDetail string
	}{
		{"non-csv extension", "report.pdf", "x", "Only CSV files are supported."},
		{"unreadable csv", "empty.csv", "", "no columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &testutil.MockLLM{Response: "ok"})

			_, err := doUpload(t, h, tt.fileName, tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", apiErr.Status)
			}
			if !strings.Contains(apiErr.Detail, tt.wantDetail) {
				t.Errorf("expected detail containing %q, got %q", tt.wantDetail, apiErr.Detail)
			}
		})
	}
}

func TestHandleUpload_NoFile(t *testing.T) {
	h := newTestHandler(t, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleUpload(c)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected 400 APIError, got %v", err)
	}
}

func TestHandleUpload_InsightFailureDegrades(t *testing.T) {
	mock := &testutil.MockLLM{Err: errors.New("quota exceeded")}
	h := newTestHandler(t, mock)

	rec, err := doUpload(t, h, "sales.csv", testCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite insight failure, got %d", rec.Code)
	}

	var resp UploadResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.HasPrefix(resp.Insights, "AI insights generation failed:") {
		t.Errorf("expected degraded insights text, got %q", resp.Insights)
	}
}

func TestHandleUpload_ReplacesPreviousDataset(t *testing.T) {
	h := newTestHandler(t, &testutil.MockLLM{Response: "ok"})

	if _, err := doUpload(t, h, "first.csv", testCSV); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if _, err := doUpload(t, h, "second.csv", "a,b\n1,2\n"); err != nil {
		t.Fatalf("second upload: %v", err)
	}

	state := h.sessions.Current()
	if state == nil || state.Info.Name != "second" {
		t.Errorf("expected second dataset to be active, got %+v", state)
	}

	// Plots of the replaced dataset are pruned with it.
	if names, _ := h.plots.List("first"); len(names) != 0 {
		t.Errorf("expected first dataset plots to be pruned, got %v", names)
	}
}

func TestHandleGenerateChart(t *testing.T) {
	h := newTestHandler(t, &testutil.MockLLM{Response: "ok"})
	if _, err := doUpload(t, h, "sales.csv", testCSV); err != nil {
		t.Fatalf("upload: %v", err)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{"valid scatter", `{"chart_type":"scatter","columns":["price","qty"]}`, http.StatusOK, ""},
		{"unsupported type", `{"chart_type":"violin","columns":["price"]}`, http.StatusBadRequest, "Unsupported chart type: violin"},
		{"wrong arity", `{"chart_type":"scatter","columns":["price"]}`, http.StatusBadRequest, "requires between 2 and 2 columns"},
		{"unknown column", `{"chart_type":"histogram","columns":["weight"]}`, http.StatusBadRequest, "Column 'weight' not found in dataset."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/generate_chart", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.HandleGenerateChart(c)
			if tt.wantStatus == http.StatusOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				var resp map[string]string
				json.Unmarshal(rec.Body.Bytes(), &resp)
				if !strings.HasPrefix(resp["chart_url"], "/plots/sales/") {
					t.Errorf("unexpected chart url: %q", resp["chart_url"])
				}
				return
			}

			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
			}
			if !strings.Contains(apiErr.Detail, tt.wantDetail) {
				t.Errorf("expected detail containing %q, got %q", tt.wantDetail, apiErr.Detail)
			}
		})
	}
}

func TestHandleGenerateChart_NoDataset(t *testing.T) {
	h := newTestHandler(t, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/generate_chart", strings.NewReader(`{"chart_type":"histogram","columns":["a"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleGenerateChart(c)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Detail != "No dataset uploaded yet. Use /upload first." {
		t.Errorf("unexpected detail: %q", apiErr.Detail)
	}
}
