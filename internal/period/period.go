// Package period counts and repairs the contiguous budget periods of a subaward.
package period

import (
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/models"
)

// Result describes what reconciliation found for one subaward.
type Result struct {
	// Subaward carries the valid-period count and any repaired starts.
	Subaward models.Subaward
	Valid    int
	Repaired int
}

// Reconciler scans the six positional budget periods of subawards.
type Reconciler struct {
	sink *diagnostics.Sink
}

// NewReconciler returns a Reconciler reporting anomalies to sink.
func NewReconciler(sink *diagnostics.Sink) *Reconciler {
	return &Reconciler{sink: sink}
}

// Reconcile counts the valid periods of sub.
//
// Period 1 needs both dates or the subaward has no valid period. A later
// period with both dates is valid; one with only an end date gets its start
// set to the prior period's end plus one day and is valid. The first period
// without an end date closes the window; later periods showing any date are
// reported but never counted.
func (r *Reconciler) Reconcile(sub models.Subaward) Result {
	if sub.PeriodStart(0) == "" || sub.PeriodEnd(0) == "" {
		return Result{Subaward: sub.WithValidPeriods(0)}
	}

	valid, repaired := 1, 0
	for i := 1; i < models.MaxPeriods; i++ {
		start, end := sub.PeriodStart(i), sub.PeriodEnd(i)
		if start != "" && end != "" {
			valid++
			continue
		}
		if start == "" && end != "" {
			priorEnd := sub.PeriodEnd(i - 1)
			prior, err := dateutils.ParseUS(priorEnd)
			if err != nil {
				r.sink.Subaward(diagnostics.UnparseableValue, sub.WBSE(),
					"Sub wbse=%s period %d start cannot be repaired from end date: %s", sub.WBSE(), i, priorEnd)
				r.scanTrailing(sub, i+1)
				break
			}
			sub = sub.WithRepairedStart(i, dateutils.FormatUSFull(dateutils.NextDay(prior)))
			valid++
			repaired++
			continue
		}
		r.scanTrailing(sub, i+1)
		break
	}

	return Result{Subaward: sub.WithValidPeriods(valid), Valid: valid, Repaired: repaired}
}

// scanTrailing reports every period from index from on that shows a date.
func (r *Reconciler) scanTrailing(sub models.Subaward, from int) {
	for j := from; j < models.MaxPeriods; j++ {
		if sub.PeriodStart(j) != "" || sub.PeriodEnd(j) != "" {
			r.sink.Subaward(diagnostics.IgnoredPeriod, sub.WBSE(),
				"Sub %s may have periods ignored by tool", sub.WBSE())
		}
	}
}
