package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// MockActivitySearcher is an in-memory dedup.ActivitySearcher for testing.
// It serves pages out of Activities and records every call.
type MockActivitySearcher struct {
	mu sync.Mutex
	// Activities is the history served to every account
	Activities []model.Activity
	// MockError is returned from Search when set
	MockError error
	// Pages records the page numbers requested, in order
	Pages []int
}

// NewMockActivitySearcher creates a mock serving the given history.
func NewMockActivitySearcher(activities ...model.Activity) *MockActivitySearcher {
	return &MockActivitySearcher{Activities: activities}
}

// Search returns the requested zero-based page of Activities.
func (m *MockActivitySearcher) Search(_ context.Context, _ string, page, pageSize int) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Pages = append(m.Pages, page)
	if m.MockError != nil {
		return nil, m.MockError
	}

	start := page * pageSize
	if start >= len(m.Activities) {
		return []model.Activity{}, nil
	}
	end := min(start+pageSize, len(m.Activities))
	return m.Activities[start:end], nil
}

// QueryCount returns how many pages were requested.
func (m *MockActivitySearcher) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Pages)
}

// WithError configures the mock to return the specified error.
func (m *MockActivitySearcher) WithError(err error) *MockActivitySearcher {
	m.MockError = err
	return m
}
