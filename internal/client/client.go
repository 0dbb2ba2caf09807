// Package client is a Go client for the analyst HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/csv-analyst/backend/internal/models"
)

// Client calls the analyst server.
type Client struct {
	origin string
	http   *http.Client
}

// New creates a client for the given server origin, e.g.
// "http://localhost:8000".
func New(origin string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		http:   &http.Client{Timeout: timeout},
	}
}

// UploadResult is the server's response to a CSV upload.
type UploadResult struct {
	Message  string      `json:"message"`
	Dataset  string      `json:"dataset"`
	EDA      *models.EDA `json:"eda"`
	Insights string      `json:"insights"`
	Plots    []string    `json:"plots"`
}

// Upload sends a CSV file and returns the analysis result.
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading upload data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.origin+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ask sends a question about the loaded dataset and returns the answer.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	q := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+"/ask?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// GenerateChart requests an on-demand chart and returns its URL path.
func (c *Client) GenerateChart(ctx context.Context, chartType string, columns []string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"chart_type": chartType,
		"columns":    columns,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.origin+"/generate_chart", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		ChartURL string `json:"chart_url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.ChartURL, nil
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlotURL resolves a plot path returned by the server against the origin.
func (c *Client) PlotURL(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return c.origin + rel
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeError surfaces the server's detail message when one is present.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, payload.Detail)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
