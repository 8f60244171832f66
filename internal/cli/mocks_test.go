package cli

import (
	"github.com/clean-dependency-project/wwwserve/internal/storage"
)

// mockAccessReader implements AccessReader for testing.
type mockAccessReader struct {
	records         []storage.AccessRecord
	counts          []storage.StatusCount
	listRecentFn    func(limit int) ([]storage.AccessRecord, error)
	countByStatusFn func() ([]storage.StatusCount, error)
}

// ListRecent implements AccessReader.
func (m *mockAccessReader) ListRecent(limit int) ([]storage.AccessRecord, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(limit)
	}
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

// ListByStatus implements AccessReader.
func (m *mockAccessReader) ListByStatus(status int) ([]storage.AccessRecord, error) {
	var out []storage.AccessRecord
	for _, r := range m.records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountByStatus implements AccessReader.
func (m *mockAccessReader) CountByStatus() ([]storage.StatusCount, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn()
	}
	return m.counts, nil
}
