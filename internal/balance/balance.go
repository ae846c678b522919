// Package balance adds the budget entries SAP needs for categories that were
// invoiced without ever being budgeted.
package balance

import (
	"fjacquet/osp-migrate/internal/budget"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/models"

	"github.com/shopspring/decimal"
)

// LineBuilder builds a correction line anchored to a plan.
type LineBuilder interface {
	CorrectionLine(plan budget.Plan, cat models.BudgetCategory, amount decimal.Decimal) models.BudgetLine
}

// Missing returns the categories with actual postings and no plan line, in
// category order. IDC is never reported.
func Missing(plan budget.Plan, actual map[models.BudgetCategory]bool) []models.BudgetCategory {
	planned := plan.PlannedCategories()
	var missing []models.BudgetCategory
	for _, cat := range models.Categories {
		if cat == models.IDC {
			continue
		}
		if actual[cat] && !planned[cat] {
			missing = append(missing, cat)
		}
	}
	return missing
}

// Correct returns one +1 line per missing category and a single offsetting
// line on the IDC plan code, so the corrections sum to zero. It returns nil
// when nothing is missing.
func Correct(plan budget.Plan, actual map[models.BudgetCategory]bool, b LineBuilder, sink *diagnostics.Sink) []models.BudgetLine {
	missing := Missing(plan, actual)
	if len(missing) == 0 {
		return nil
	}

	lines := make([]models.BudgetLine, 0, len(missing)+1)
	for _, cat := range missing {
		sink.Subaward(diagnostics.BalanceCorrection, plan.WBSE,
			"Sub wbse=%s has %s actuals without a budget; added a 1.00 correction", plan.WBSE, cat)
		lines = append(lines, b.CorrectionLine(plan, cat, decimal.NewFromInt(1)))
	}
	lines = append(lines, b.CorrectionLine(plan, models.IDC, decimal.NewFromInt(int64(-len(missing)))))
	return lines
}
