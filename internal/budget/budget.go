// Package budget derives the per-period committed budget lines of a subaward.
package budget

import (
	"time"

	"fjacquet/osp-migrate/internal/currencyutils"
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/refdata"

	"github.com/shopspring/decimal"
)

// PeriodContext is the period a line is anchored to.
type PeriodContext struct {
	FiscalPeriod int
	Start        string
	End          string
	IDCRate      decimal.Decimal
}

// Plan is the budget of one subaward.
type Plan struct {
	WBSE  string
	Lines []models.BudgetLine
	// Last is the context of the most recent period, numbered 9.
	Last PeriodContext
}

// HasBudget reports whether any category carried a nonzero amount. The diff
// line does not count.
func (p Plan) HasBudget() bool {
	for _, l := range p.Lines {
		if l.Kind == models.PlanLine {
			return true
		}
	}
	return false
}

// PlannedCategories returns the categories with at least one plan line.
func (p Plan) PlannedCategories() map[models.BudgetCategory]bool {
	planned := make(map[models.BudgetCategory]bool)
	for _, l := range p.Lines {
		if l.Kind == models.PlanLine {
			planned[l.Category] = true
		}
	}
	return planned
}

// Total sums every line amount.
func (p Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// Generator turns subaward periods into budget lines.
type Generator struct {
	chart      models.ChartOfAccounts
	fiscalYear int
	diffs      refdata.BudgetDiffs
	window     dateutils.Window
	sink       *diagnostics.Sink
}

// NewGenerator returns a Generator posting to chart for fiscalYear.
func NewGenerator(chart models.ChartOfAccounts, fiscalYear int, diffs refdata.BudgetDiffs, window dateutils.Window, sink *diagnostics.Sink) *Generator {
	return &Generator{
		chart:      chart,
		fiscalYear: fiscalYear,
		diffs:      diffs,
		window:     window,
		sink:       sink,
	}
}

// Generate builds the budget of a reconciled subaward, oldest period first.
// The most recent valid period is fiscal period 9 and carries the SAP diff
// line when one is recorded for the WBSE.
func (g *Generator) Generate(sub models.Subaward) Plan {
	plan := Plan{WBSE: sub.WBSE()}
	first := sub.FirstFiscalPeriod()

	for i := 0; i < sub.ValidPeriods(); i++ {
		ctx := g.periodContext(sub, i, first+i)

		var direct []decimal.Decimal
		for _, cat := range models.Categories {
			switch cat {
			case models.IDC:
				idc, ok := g.indirect(sub, i, ctx.IDCRate, direct)
				if ok {
					plan.Lines = append(plan.Lines, g.line(sub, ctx, cat, idc))
				}
			default:
				amount := g.amount(sub, i, cat)
				if amount.IsZero() {
					continue
				}
				if isDirect(cat) {
					direct = append(direct, amount)
				}
				plan.Lines = append(plan.Lines, g.line(sub, ctx, cat, amount))
			}
		}

		if ctx.FiscalPeriod == models.LastFiscalPeriod {
			plan.Last = ctx
			if diff, ok := g.diffs.Lookup(sub.WBSE()); ok {
				plan.Lines = append(plan.Lines, models.BudgetLine{
					WBSE:         sub.WBSE(),
					FiscalPeriod: ctx.FiscalPeriod,
					FiscalYear:   g.fiscalYear,
					PeriodStart:  ctx.Start,
					PeriodEnd:    ctx.End,
					Amount:       diff,
					CostElement:  g.chart.BudgetDiff,
					IDCRate:      ctx.IDCRate,
					Kind:         models.DiffLine,
				})
			}
		}
	}

	return plan
}

// CorrectionLine builds a balancing line anchored to the plan's period 9.
func (g *Generator) CorrectionLine(plan Plan, cat models.BudgetCategory, amount decimal.Decimal) models.BudgetLine {
	return models.BudgetLine{
		WBSE:         plan.WBSE,
		FiscalPeriod: plan.Last.FiscalPeriod,
		FiscalYear:   g.fiscalYear,
		PeriodStart:  plan.Last.Start,
		PeriodEnd:    plan.Last.End,
		Amount:       amount,
		CostElement:  g.chart.Account(cat).Plan,
		IDCRate:      plan.Last.IDCRate,
		Kind:         models.CorrectionLine,
		Category:     cat,
	}
}

func (g *Generator) line(sub models.Subaward, ctx PeriodContext, cat models.BudgetCategory, amount decimal.Decimal) models.BudgetLine {
	return models.BudgetLine{
		WBSE:         sub.WBSE(),
		FiscalPeriod: ctx.FiscalPeriod,
		FiscalYear:   g.fiscalYear,
		PeriodStart:  ctx.Start,
		PeriodEnd:    ctx.End,
		Amount:       amount,
		CostElement:  g.chart.Account(cat).Plan,
		IDCRate:      ctx.IDCRate,
		Kind:         models.PlanLine,
		Category:     cat,
	}
}

// indirect computes sum(direct) * rate + adjustment. It applies only when the
// rate or the adjustment is set and some direct cost exists.
func (g *Generator) indirect(sub models.Subaward, period int, rate decimal.Decimal, direct []decimal.Decimal) (decimal.Decimal, bool) {
	adjustment := g.parse(sub, period, models.SubIDCAdjustment, "IDC adjustment")
	if rate.IsZero() && adjustment.IsZero() {
		return decimal.Zero, false
	}
	base := currencyutils.Sum(direct...)
	if base.IsZero() {
		return decimal.Zero, false
	}
	idc := currencyutils.RoundCents(base.Mul(rate).Add(adjustment))
	return idc, !idc.IsZero()
}

func (g *Generator) amount(sub models.Subaward, period int, cat models.BudgetCategory) decimal.Decimal {
	return currencyutils.RoundCents(g.parse(sub, period, models.BudgetColumns[cat], cat.String()))
}

func (g *Generator) parse(sub models.Subaward, period, base int, label string) decimal.Decimal {
	text := sub.PeriodCell(base, period)
	amount, ok := currencyutils.MustParseAmount(text)
	if !ok {
		g.sink.Subaward(diagnostics.UnparseableValue, sub.WBSE(),
			"Sub wbse=%s period %d has an unreadable %s amount: %s", sub.WBSE(), period+1, label, text)
	}
	return amount
}

func (g *Generator) periodContext(sub models.Subaward, period, fiscal int) PeriodContext {
	ctx := PeriodContext{
		FiscalPeriod: fiscal,
		Start:        dateutils.DateText(sub.PeriodStart(period)),
		End:          dateutils.DateText(sub.PeriodEnd(period)),
		IDCRate:      g.parse(sub, period, models.SubIDCRate, "IDC rate"),
	}

	start, startOK := g.checkDate(sub.WBSE(), "Start", ctx.Start)
	end, endOK := g.checkDate(sub.WBSE(), "End", ctx.End)
	if startOK && endOK && !end.After(start) {
		g.sink.Subaward(diagnostics.InvertedRange, sub.WBSE(),
			"Sub wbse=%s has a strange Start-End date range", sub.WBSE())
	}
	return ctx
}

// checkDate reports dates that cannot be read or fall outside the window.
func (g *Generator) checkDate(wbse, label, text string) (time.Time, bool) {
	date, err := dateutils.ParseUS(text)
	if err != nil {
		g.sink.Subaward(diagnostics.UnparseableValue, wbse,
			"Sub wbse=%s has an unreadable %s date: %s", wbse, label, text)
		return time.Time{}, false
	}
	if !g.window.Contains(date) {
		g.sink.Subaward(diagnostics.UnreasonableDate, wbse,
			"Sub wbse=%s has an unreasonable %s date: %s", wbse, label, text)
	}
	return date, true
}

func isDirect(cat models.BudgetCategory) bool {
	for _, d := range models.DirectCategories {
		if d == cat {
			return true
		}
	}
	return false
}
