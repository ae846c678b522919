package store

import (
	"fjacquet/osp-migrate/internal/models"
)

// MockChartStore is a mock implementation of ChartLoader for testing.
type MockChartStore struct {
	Chart *models.ChartOfAccounts

	// LoadChartError is returned by LoadChart when set
	LoadChartError error
}

// LoadChart returns the mock chart, or DefaultChart when none is set.
func (m *MockChartStore) LoadChart() (models.ChartOfAccounts, error) {
	if m.LoadChartError != nil {
		return models.ChartOfAccounts{}, m.LoadChartError
	}
	if m.Chart == nil {
		return DefaultChart(), nil
	}
	return *m.Chart, nil
}
