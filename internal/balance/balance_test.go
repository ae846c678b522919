package balance

import (
	"testing"

	"fjacquet/osp-migrate/internal/budget"
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWith(cats ...models.BudgetCategory) budget.Plan {
	plan := budget.Plan{
		WBSE: "2000001",
		Last: budget.PeriodContext{FiscalPeriod: 9, Start: "07/01/2016", End: "06/30/2017"},
	}
	for _, cat := range cats {
		plan.Lines = append(plan.Lines, models.BudgetLine{Kind: models.PlanLine, Category: cat, Amount: decimal.NewFromInt(5)})
	}
	return plan
}

func generator() *budget.Generator {
	return budget.NewGenerator(store.DefaultChart(), 2017, nil, dateutils.DefaultWindow(), diagnostics.NewSink(nil))
}

func TestCorrect_SuppliesWithoutBudget(t *testing.T) {
	sink := diagnostics.NewSink(logging.NewMockLogger())
	plan := planWith(models.Salary)
	actual := map[models.BudgetCategory]bool{models.Salary: true, models.Supplies: true}

	lines := Correct(plan, actual, generator(), sink)

	require.Len(t, lines, 2)
	assert.Equal(t, "693545", lines[0].CostElement)
	assert.Equal(t, "1.00", lines[0].Amount.StringFixed(2))
	assert.Equal(t, "693558", lines[1].CostElement)
	assert.Equal(t, "-1.00", lines[1].Amount.StringFixed(2))
	for _, l := range lines {
		assert.Equal(t, models.CorrectionLine, l.Kind)
		assert.Equal(t, 9, l.FiscalPeriod)
	}
	assert.Equal(t, 1, sink.Count(diagnostics.BalanceCorrection))
}

func TestCorrect_SumsToZero(t *testing.T) {
	actual := map[models.BudgetCategory]bool{
		models.Travel: true, models.Misc: true, models.Equipment: true, models.IDC: true,
	}

	lines := Correct(planWith(models.Salary), actual, generator(), diagnostics.NewSink(nil))

	require.Len(t, lines, 4)
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount)
	}
	assert.True(t, sum.IsZero())
	assert.Equal(t, "-3.00", lines[3].Amount.StringFixed(2))
}

func TestCorrect_NothingMissing(t *testing.T) {
	tests := map[string]map[models.BudgetCategory]bool{
		"no actuals":    nil,
		"all budgeted":  {models.Salary: true},
		"only indirect": {models.IDC: true},
	}
	for name, actual := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, Correct(planWith(models.Salary), actual, generator(), diagnostics.NewSink(nil)))
		})
	}
}

func TestMissing_CategoryOrder(t *testing.T) {
	actual := map[models.BudgetCategory]bool{models.Misc: true, models.Fringe: true, models.Travel: true}

	assert.Equal(t,
		[]models.BudgetCategory{models.Fringe, models.Misc},
		Missing(planWith(models.Travel), actual))
}
