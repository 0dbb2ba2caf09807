// Package session holds the currently loaded dataset and its derived
// analysis artifacts.
package session

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/csv-analyst/backend/internal/dataset"
	"github.com/csv-analyst/backend/internal/models"
)

// State is everything derived from one uploaded CSV. A new upload replaces
// the whole state at once so the summary, insights, and plots always refer
// to the same dataset.
type State struct {
	Info     models.DatasetInfo
	EDA      *models.EDA
	Insights string
	PlotURLs []string
	Frame    *dataset.Frame
	Rows     *dataset.DuckStore // optional columnar row store, may be nil

	lastAccessed time.Time
}

// Manager guards the active dataset state. The app is single-dataset: the
// newest upload wins.
type Manager struct {
	mu      sync.RWMutex
	current *State
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{}
}

// Replace installs a new state, releases the resources of the old one, and
// returns the replaced state so callers can clean up artifacts tied to it.
func (m *Manager) Replace(s *State) *State {
	m.mu.Lock()
	old := m.current
	if s != nil {
		s.lastAccessed = time.Now()
	}
	m.current = s
	m.mu.Unlock()

	if old != nil && old.Rows != nil {
		old.Rows.Close()
	}
	return old
}

// Current returns the active state, or nil when nothing is loaded, and
// marks it as accessed.
func (m *Manager) Current() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.lastAccessed = time.Now()
	}
	return m.current
}

// Sample builds a prompt-sized sample of the active dataset: sorted column
// names, the first n rows, and the shape.
func (m *Manager) Sample(n int) *models.Sample {
	s := m.Current()
	if s == nil {
		return nil
	}

	columns := s.Frame.ColumnNames()
	sort.Slice(columns, func(i, j int) bool {
		return strings.ToLower(columns[i]) < strings.ToLower(columns[j])
	})

	rows, cols := s.Frame.Shape()
	return &models.Sample{
		Columns: columns,
		Head:    s.Frame.Head(n),
		Shape:   [2]int{rows, cols},
	}
}

// ReleaseIdleRows closes the row store of a state that has not been
// touched for maxAge. The in-memory frame stays, so analysis and chat keep
// working; only the on-disk pager is released. The Rows pointer is left in
// place because concurrent preview requests may still hold the state; a
// closed store fails their Page call and they fall back to the frame.
func (m *Manager) ReleaseIdleRows(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.Rows == nil || m.current.Rows.Closed() {
		return 0
	}
	if time.Since(m.current.lastAccessed) < maxAge {
		return 0
	}
	m.current.Rows.Close()
	return 1
}
