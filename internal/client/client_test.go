package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer file.Close()
		if header.Filename != "sales.csv" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}
		body, _ := io.ReadAll(file)
		if string(body) != "a,b\n1,2\n" {
			t.Errorf("unexpected file body: %q", body)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":  "CSV uploaded successfully",
			"dataset":  "sales",
			"eda":      map[string]interface{}{"shape": []int{1, 2}, "columns": []string{"a", "b"}},
			"insights": "ok",
			"plots":    []string{"/plots/sales/1.png"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	result, err := c.Upload(context.Background(), "sales.csv", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Dataset != "sales" {
		t.Errorf("unexpected dataset: %s", result.Dataset)
	}
	if result.EDA == nil || result.EDA.Shape != [2]int{1, 2} {
		t.Errorf("unexpected eda: %+v", result.EDA)
	}
	if len(result.Plots) != 1 || result.Plots[0] != "/plots/sales/1.png" {
		t.Errorf("unexpected plots: %v", result.Plots)
	}
}

func TestClient_Ask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ask" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "how many rows?" {
			t.Errorf("unexpected query: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "42"})
	}))
	defer srv.Close()

	answer, err := New(srv.URL, 5*time.Second).Ask(context.Background(), "how many rows?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "42" {
		t.Errorf("expected 42, got %q", answer)
	}
}

func TestClient_GenerateChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ChartType string   `json:"chart_type"`
			Columns   []string `json:"columns"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.ChartType != "scatter" || len(req.Columns) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"chart_url": "/plots/d/2.png"})
	}))
	defer srv.Close()

	url, err := New(srv.URL, 5*time.Second).GenerateChart(context.Background(), "scatter", []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/plots/d/2.png" {
		t.Errorf("unexpected url: %s", url)
	}
}

func TestClient_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Only CSV files are supported."})
	}))
	defer srv.Close()

	_, err := New(srv.URL, 5*time.Second).Ask(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Only CSV files are supported.") {
		t.Errorf("expected detail in error, got %q", err)
	}
}

func TestClient_ErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 5*time.Second).Ask(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status in error, got %q", err)
	}
}

func TestClient_PlotURL(t *testing.T) {
	c := New("http://example.com:8000/", 0)

	tests := []struct {
		in   string
		want string
	}{
		{"/plots/d/1.png", "http://example.com:8000/plots/d/1.png"},
		{"plots/d/1.png", "http://example.com:8000/plots/d/1.png"},
		{"https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
	}
	for _, tt := range tests {
		if got := c.PlotURL(tt.in); got != tt.want {
			t.Errorf("PlotURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
