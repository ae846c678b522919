package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.NoError(t, chart.Validate())

	tests := []struct {
		cat   models.BudgetCategory
		plan  string
		below string
		above string
	}{
		{models.Salary, "693541", "691641", "697141"},
		{models.Fringe, "693542", "691642", "697142"},
		{models.Supplies, "693545", "691645", "697145"},
		{models.Travel, "693550", "691650", "697150"},
		{models.Consulting, "693543", "691643", "697143"},
		{models.ODC, "693548", "691648", "697148"},
		{models.IDC, "693558", "691658", "697158"},
		{models.Equipment, "693547", "691647", "697147"},
		{models.Misc, "693559", "691659", "697159"},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			acct := chart.Account(tt.cat)
			assert.Equal(t, tt.plan, acct.Plan)
			assert.Equal(t, tt.below, acct.Below)
			assert.Equal(t, tt.above, acct.Above)
		})
	}
	assert.Equal(t, "099650", chart.BudgetDiff)
}

func TestChartStore_LoadChart_NoOverride(t *testing.T) {
	chart, err := NewChartStore("", logging.NewMockLogger()).LoadChart()
	require.NoError(t, err)
	assert.Equal(t, DefaultChart(), chart)
}

func TestChartStore_LoadChart_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.yaml")
	content := `
budget_diff: "099651"
accounts:
  supplies:
    plan: "793545"
  misc: {below: "791659", above: "797159"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	mockLog := logging.NewMockLogger()
	chart, err := NewChartStore(path, mockLog).LoadChart()
	require.NoError(t, err)

	assert.Equal(t, "099651", chart.BudgetDiff)
	assert.Equal(t, models.GLAccount{Plan: "793545", Below: "691645", Above: "697145"}, chart.Account(models.Supplies))
	assert.Equal(t, models.GLAccount{Plan: "693559", Below: "791659", Above: "797159"}, chart.Account(models.Misc))
	assert.Equal(t, DefaultChart().Account(models.Salary), chart.Account(models.Salary))
	assert.True(t, mockLog.HasEntry("INFO", "Loaded chart of accounts override"))

	// the default chart is not modified by an override
	assert.Equal(t, "693545", DefaultChart().Account(models.Supplies).Plan)
}

func TestChartStore_LoadChart_Errors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("accounts:\n  rent: {plan: \"1\"}\n"), 0600))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("accounts: [not, a, map"), 0600))

	tests := []struct {
		name string
		file string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"unknown category", unknown},
		{"invalid yaml", broken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChartStore(tt.file, logging.NewMockLogger()).LoadChart()
			assert.Error(t, err)
		})
	}
}

func TestMockChartStore(t *testing.T) {
	chart, err := (&MockChartStore{}).LoadChart()
	require.NoError(t, err)
	assert.Equal(t, DefaultChart(), chart)

	custom := DefaultChart()
	custom.BudgetDiff = "1"
	chart, err = (&MockChartStore{Chart: &custom}).LoadChart()
	require.NoError(t, err)
	assert.Equal(t, "1", chart.BudgetDiff)

	_, err = (&MockChartStore{LoadChartError: errors.New("boom")}).LoadChart()
	assert.EqualError(t, err, "boom")

	var _ ChartLoader = &MockChartStore{}
	var _ ChartLoader = &ChartStore{}
}
