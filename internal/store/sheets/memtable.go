package sheets

import (
	"context"
	"sync"
)

// MemTable is an in-memory Table for tests and local runs without credentials.
type MemTable struct {
	mu   sync.Mutex
	tabs map[string][][]string

	// Err, when set, fails every call.
	Err error
}

// NewMemTable returns an empty spreadsheet.
func NewMemTable() *MemTable {
	return &MemTable{tabs: make(map[string][][]string)}
}

// Seed replaces a tab with header plus rows.
func (m *MemTable) Seed(tab string, header []string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grid := [][]string{append([]string(nil), header...)}
	for _, r := range rows {
		grid = append(grid, append([]string(nil), r...))
	}
	m.tabs[tab] = grid
}

func (m *MemTable) Rows(_ context.Context, tab string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	src := m.tabs[tab]
	out := make([][]string, len(src))
	for i, r := range src {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *MemTable) Append(_ context.Context, tab string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.tabs[tab] = append(m.tabs[tab], append([]string(nil), row...))
	return nil
}

func (m *MemTable) UpdateRow(_ context.Context, tab string, rowNumber int, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	grid := m.tabs[tab]
	for len(grid) < rowNumber {
		grid = append(grid, nil)
	}
	grid[rowNumber-1] = append([]string(nil), row...)
	m.tabs[tab] = grid
	return nil
}

// Len returns the number of data rows (header excluded) in tab.
func (m *MemTable) Len(tab string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.tabs[tab]); n > 0 {
		return n - 1
	}
	return 0
}
