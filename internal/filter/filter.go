// Package filter narrows the parsed subawards and invoices down to the set
// that is migrated, keeping both streams consistent at every stage.
package filter

import (
	"sort"
	"time"

	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/period"
	"fjacquet/osp-migrate/internal/refdata"
)

// Stage names used in logs.
const (
	StageRange     = "range"
	StagePeriods   = "periods"
	StageActivity  = "activity"
	StageEnrich    = "enrich"
	StageSelection = "selection"
	StageSort      = "sort"
)

// Stats counts what each stage kept and removed.
type Stats struct {
	SubawardsRead              int    `json:"subawards_read"`
	InvoicesRead               int    `json:"invoices_read"`
	RemovedByRange             int    `json:"removed_by_range"`
	InvoicesRemovedByRange     int    `json:"invoices_removed_by_range"`
	PeriodsReconciled          int    `json:"periods_reconciled"`
	PeriodStartsRepaired       int    `json:"period_starts_repaired"`
	DroppedNoPeriods           int    `json:"dropped_no_periods"`
	Inactive                   int    `json:"inactive"`
	InvoicesRemovedInactive    int    `json:"invoices_removed_inactive"`
	AdjustedInvoiceType        int    `json:"adjusted_invoice_type"`
	SelectionMode              string `json:"selection_mode"`
	SelectionListSize          int    `json:"selection_list_size"`
	RemovedBySelection         int    `json:"removed_by_selection"`
	InvoicesRemovedBySelection int    `json:"invoices_removed_by_selection"`
	Subawards                  int    `json:"subawards"`
	Invoices                   int    `json:"invoices"`
}

// Result is the surviving data, subawards sorted by WBSE.
type Result struct {
	Subawards []models.Subaward
	Invoices  []models.Invoice
	Stats     Stats
}

// Pipeline runs the filter stages in their fixed order.
type Pipeline struct {
	reconciler *period.Reconciler
	ref        refdata.Reference
	cutoff     time.Time
	sink       *diagnostics.Sink
	logger     logging.Logger
}

// NewPipeline builds a pipeline. Subawards whose last valid period ends
// before cutoff are inactive.
func NewPipeline(ref refdata.Reference, cutoff time.Time, sink *diagnostics.Sink, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{
		reconciler: period.NewReconciler(sink),
		ref:        ref,
		cutoff:     cutoff,
		sink:       sink,
		logger:     logger,
	}
}

// Run applies, in order: WBSE range, invoice cascade, period reconciliation,
// activity cutoff, invoice cascade, enrichment, include/exclude selection
// and the WBSE sort.
func (p *Pipeline) Run(subs []models.Subaward, invs []models.Invoice) Result {
	stats := Stats{SubawardsRead: len(subs), InvoicesRead: len(invs)}

	subs, stats.RemovedByRange = KeepInRange(subs)
	invs, stats.InvoicesRemovedByRange = KeepInvoicesOf(invs, subs)
	p.logStage(StageRange, len(subs), stats.RemovedByRange)

	subs, stats.PeriodStartsRepaired, stats.DroppedNoPeriods = p.reconcile(subs)
	stats.PeriodsReconciled = len(subs)
	p.logStage(StagePeriods, len(subs), stats.DroppedNoPeriods)

	subs, stats.Inactive = p.keepActive(subs)
	invs, stats.InvoicesRemovedInactive = KeepInvoicesOf(invs, subs)
	p.logStage(StageActivity, len(subs), stats.Inactive)

	subs = Enrich(subs, p.ref)
	for _, s := range subs {
		if s.InvoiceType() == models.InvoiceTypeAdjusted {
			stats.AdjustedInvoiceType++
		}
	}
	p.logStage(StageEnrich, len(subs), 0)

	stats.SelectionMode = p.ref.SelectionMode()
	switch stats.SelectionMode {
	case refdata.SelectInclude:
		stats.SelectionListSize = len(p.ref.Include)
	case refdata.SelectExclude:
		stats.SelectionListSize = len(p.ref.Exclude)
	}
	before := len(invs)
	subs, stats.RemovedBySelection = Select(subs, p.ref)
	invs, _ = KeepInvoicesOf(invs, subs)
	stats.InvoicesRemovedBySelection = before - len(invs)
	p.logStage(StageSelection, len(subs), stats.RemovedBySelection)

	SortByWBSE(subs)

	stats.Subawards = len(subs)
	stats.Invoices = len(invs)
	p.logger.Info("Records to convert",
		logging.F(logging.FieldStage, StageSort),
		logging.F("subawards", stats.Subawards),
		logging.F("invoices", stats.Invoices))

	return Result{Subawards: subs, Invoices: invs, Stats: stats}
}

func (p *Pipeline) logStage(stage string, kept, removed int) {
	p.logger.Info("Filter stage complete",
		logging.F(logging.FieldStage, stage),
		logging.F(logging.FieldCount, kept),
		logging.F(logging.FieldRemoved, removed))
}

// KeepInRange keeps subawards whose WBSE starts with 2 or 3.
func KeepInRange(subs []models.Subaward) (kept []models.Subaward, removed int) {
	for _, s := range subs {
		if InRange(s.WBSE()) {
			kept = append(kept, s)
		} else {
			removed++
		}
	}
	return kept, removed
}

// InRange reports whether a WBSE's leading character is 2 or 3.
func InRange(wbse string) bool {
	return wbse != "" && (wbse[0] == '2' || wbse[0] == '3')
}

// KeepInvoicesOf keeps invoices whose subaward id belongs to subs.
func KeepInvoicesOf(invs []models.Invoice, subs []models.Subaward) (kept []models.Invoice, removed int) {
	ids := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		ids[s.ID()] = struct{}{}
	}
	for _, inv := range invs {
		if _, ok := ids[inv.SubID()]; ok {
			kept = append(kept, inv)
		} else {
			removed++
		}
	}
	return kept, removed
}

func (p *Pipeline) reconcile(subs []models.Subaward) (kept []models.Subaward, repaired, dropped int) {
	for _, s := range subs {
		res := p.reconciler.Reconcile(s)
		repaired += res.Repaired
		if res.Valid == 0 {
			dropped++
			p.sink.Subaward(diagnostics.DroppedRecord, s.WBSE(),
				"Sub wbse=%s skipped for not having valid budget periods", s.WBSE())
			continue
		}
		kept = append(kept, res.Subaward)
	}
	return kept, repaired, dropped
}

func (p *Pipeline) keepActive(subs []models.Subaward) (kept []models.Subaward, removed int) {
	for _, s := range subs {
		lastEnd := s.PeriodEnd(s.LastPeriodIndex())
		end, err := dateutils.ParseUS(lastEnd)
		if err != nil {
			removed++
			p.sink.Subaward(diagnostics.DroppedRecord, s.WBSE(),
				"Sub wbse=%s skipped for an unreadable last period End date: %s", s.WBSE(), lastEnd)
			continue
		}
		if end.Before(p.cutoff) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	return kept, removed
}

// Enrich tags each subaward with its invoice type and country code.
func Enrich(subs []models.Subaward, ref refdata.Reference) []models.Subaward {
	out := make([]models.Subaward, len(subs))
	for i, s := range subs {
		tag := models.InvoiceTypeDatabase
		if ref.ZFR1D.Contains(s.WBSE()) {
			tag = models.InvoiceTypeAdjusted
		}
		out[i] = s.
			WithInvoiceType(tag).
			WithCountry(ref.Countries.Lookup(s.Field(models.SubRecipientID)))
	}
	return out
}

// Select applies the include or exclude list.
func Select(subs []models.Subaward, ref refdata.Reference) (kept []models.Subaward, removed int) {
	for _, s := range subs {
		if ref.Selected(s.WBSE()) {
			kept = append(kept, s)
		} else {
			removed++
		}
	}
	return kept, removed
}

// SortByWBSE sorts subawards by WBSE, keeping input order among equal keys.
func SortByWBSE(subs []models.Subaward) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].WBSE() < subs[j].WBSE()
	})
}
