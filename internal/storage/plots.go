// Package storage manages generated plot images on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// PlotStore writes generated PNGs under per-dataset directories.
type PlotStore struct {
	mu      sync.Mutex
	baseDir string
}

// NewPlotStore creates a plot store rooted at baseDir.
func NewPlotStore(baseDir string) (*PlotStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating plots directory: %w", err)
	}
	return &PlotStore{baseDir: baseDir}, nil
}

// BaseDir returns the root plots directory.
func (s *PlotStore) BaseDir() string {
	return s.baseDir
}

// ResetDataset removes any previous plots for the dataset and returns a
// fresh directory for it.
func (s *PlotStore) ResetDataset(dataset string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.baseDir, dataset)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clearing plot directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating plot directory: %w", err)
	}
	return dir, nil
}

// Save writes a PNG into the dataset directory under a unique name and
// returns the file name.
func (s *PlotStore) Save(dataset, prefix string, data []byte) (string, error) {
	name := fmt.Sprintf("%s_%s.png", strings.ReplaceAll(uuid.New().String(), "-", ""), prefix)
	path := filepath.Join(s.baseDir, dataset, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing plot file: %w", err)
	}
	return name, nil
}

// List returns the plot file names of a dataset, sorted by name.
func (s *PlotStore) List(dataset string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, dataset))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing plot directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Prune removes a dataset's plot directory entirely.
func (s *PlotStore) Prune(dataset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(filepath.Join(s.baseDir, dataset))
}

// SafeDatasetName sanitizes an upload file name into a directory-safe
// dataset name: alphanumerics, spaces, underscores and dashes survive.
func SafeDatasetName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = "dataset"
	}
	return name
}
