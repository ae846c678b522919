// Package engine runs a complete conversion over records already in memory.
// It performs no IO; the caller renders the Result to the output streams.
package engine

import (
	"context"
	"fmt"
	"time"

	"fjacquet/osp-migrate/internal/balance"
	"fjacquet/osp-migrate/internal/budget"
	"fjacquet/osp-migrate/internal/currencyutils"
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/filter"
	"fjacquet/osp-migrate/internal/invoice"
	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/refdata"
)

// Inputs are the parsed records and lookup tables of a run.
type Inputs struct {
	Subawards []models.Subaward
	Invoices  []models.Invoice
	Reference refdata.Reference
}

// Options are the business rules of a run.
type Options struct {
	Chart          models.ChartOfAccounts
	FiscalYear     int
	ActivityCutoff time.Time
	Window         dateutils.Window
	// RunDate is written as the received date of every subaward.
	RunDate       time.Time
	IncludeState  bool
	DropZeroTotal bool
}

// Stats extends the filter counts with what the conversion emitted.
type Stats struct {
	filter.Stats
	DroppedNoBudget    int            `json:"dropped_no_budget"`
	ZeroTotalInvoices  int            `json:"zero_total_invoices"`
	DroppedZeroTotal   int            `json:"dropped_zero_total"`
	CorrectedSubawards int            `json:"corrected_subawards"`
	CorrectionLines    int            `json:"correction_lines"`
	SubawardRows       int            `json:"subaward_rows"`
	BudgetLines        int            `json:"budget_lines"`
	InvoiceRows        int            `json:"invoice_rows"`
	CostLines          int            `json:"cost_lines"`
	Diagnostics        map[string]int `json:"diagnostics"`
}

// Result holds the four output streams in emission order plus the
// diagnostics recorded along the way.
type Result struct {
	Subawards   []models.SubawardRow
	BudgetLines []models.BudgetLine
	Invoices    []models.InvoiceRow
	CostLines   []models.CostLine
	Stats       Stats
	Diagnostics *diagnostics.Sink
}

// Engine converts subawards and invoices.
type Engine struct {
	opts   Options
	logger logging.Logger
}

// New returns an Engine. A nil logger falls back to an info-level text logger.
func New(opts Options, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{opts: opts, logger: logger}
}

// Run filters the inputs and converts every surviving subaward in WBSE
// order. A subaward without any nonzero budget line is skipped along with
// its invoices. The context is checked between subawards.
func (e *Engine) Run(ctx context.Context, in Inputs) (*Result, error) {
	if err := e.opts.Chart.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart of accounts: %w", err)
	}

	sink := diagnostics.NewSink(e.logger)
	filtered := filter.NewPipeline(in.Reference, e.opts.ActivityCutoff, sink, e.logger).
		Run(in.Subawards, in.Invoices)

	bySub := make(map[string][]models.Invoice)
	for _, inv := range filtered.Invoices {
		bySub[inv.SubID()] = append(bySub[inv.SubID()], inv)
	}

	gen := budget.NewGenerator(e.opts.Chart, e.opts.FiscalYear, in.Reference.BudgetDiffs, e.opts.Window, sink)
	alloc := invoice.NewAllocator(e.opts.Chart, e.opts.Window, e.opts.DropZeroTotal, sink)

	res := &Result{Diagnostics: sink}
	res.Stats.Stats = filtered.Stats

	for _, sub := range filtered.Subawards {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("conversion interrupted: %w", err)
		}

		plan := gen.Generate(sub)
		if !plan.HasBudget() {
			res.Stats.DroppedNoBudget++
			sink.Subaward(diagnostics.DroppedRecord, sub.WBSE(),
				"Sub wbse=%s skipped for not having any non-zero budgets", sub.WBSE())
			continue
		}

		res.Subawards = append(res.Subawards, e.summaryRow(sub))
		res.BudgetLines = append(res.BudgetLines, plan.Lines...)

		posted := alloc.Allocate(sub, bySub[sub.ID()])
		res.Invoices = append(res.Invoices, posted.Rows...)
		res.CostLines = append(res.CostLines, posted.Lines...)
		res.Stats.ZeroTotalInvoices += posted.ZeroTotal
		res.Stats.DroppedZeroTotal += posted.Dropped

		if corrections := balance.Correct(plan, posted.Actual, gen, sink); len(corrections) > 0 {
			res.BudgetLines = append(res.BudgetLines, corrections...)
			res.Stats.CorrectedSubawards++
			res.Stats.CorrectionLines += len(corrections)
		}
	}

	res.Stats.SubawardRows = len(res.Subawards)
	res.Stats.BudgetLines = len(res.BudgetLines)
	res.Stats.InvoiceRows = len(res.Invoices)
	res.Stats.CostLines = len(res.CostLines)
	res.Stats.Diagnostics = make(map[string]int)
	for kind, n := range sink.Counts() {
		res.Stats.Diagnostics[string(kind)] = n
	}

	e.logger.Info("Conversion complete",
		logging.F("subawards", res.Stats.SubawardRows),
		logging.F("budget_lines", res.Stats.BudgetLines),
		logging.F("invoices", res.Stats.InvoiceRows),
		logging.F("cost_lines", res.Stats.CostLines),
		logging.F("diagnostics", sink.Len()))

	return res, nil
}

// summaryRow renders the subaward summary. An unreadable amount renders as 0.00;
// the allocator reports it.
func (e *Engine) summaryRow(sub models.Subaward) models.SubawardRow {
	glBreak, _ := currencyutils.MustParseAmount(sub.Field(models.SubGLBreak))
	priorExp, _ := currencyutils.MustParseAmount(sub.Field(models.SubManualPriorExp))

	row := models.SubawardRow{
		WBSE:            sub.WBSE(),
		Country:         sub.Country(),
		SubawardNumber:  sub.Field(models.SubAwardNumber),
		FFATA:           sub.Field(models.SubFFATA),
		FinalInvoiceDue: sub.Field(models.SubFinalInvoiceDue),
		GLBreak:         currencyutils.FormatAmount(glBreak),
		PriorYearWBSE:   sub.Field(models.SubPriorYearWBSE),
		OSPNotes:        sub.Field(models.SubOSPNotes),
		IDCDefault:      models.IDCDefault,
		ReceivedDate:    dateutils.FormatUS(e.opts.RunDate),
		ManualPriorExp:  currencyutils.FormatAmount(priorExp),
	}
	if e.opts.IncludeState {
		row.State = sub.Field(models.SubState)
	}
	return row
}
