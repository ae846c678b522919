// Package invoice orders the invoices of a subaward and posts their costs to
// the GL accounts on either side of the subaward's GL break.
package invoice

import (
	"sort"
	"time"

	"fjacquet/osp-migrate/internal/currencyutils"
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/models"

	"github.com/shopspring/decimal"
)

// Allocation is everything posted for one subaward's invoices.
type Allocation struct {
	Rows  []models.InvoiceRow
	Lines []models.CostLine
	// Actual holds the non-IDC categories that received a nonzero posting.
	Actual map[models.BudgetCategory]bool
	// SeedExp is the manual prior expense the state started from.
	SeedExp decimal.Decimal
	// Allocated sums every category amount posted, in processing order.
	Allocated decimal.Decimal
	// State is the threshold state after the last invoice.
	State     ThresholdState
	ZeroTotal int
	Dropped   int
}

// Allocator posts invoice costs.
type Allocator struct {
	chart         models.ChartOfAccounts
	window        dateutils.Window
	dropZeroTotal bool
	sink          *diagnostics.Sink
}

// NewAllocator returns an Allocator. Zero-total invoices are kept unless dropZeroTotal is set.
func NewAllocator(chart models.ChartOfAccounts, window dateutils.Window, dropZeroTotal bool, sink *diagnostics.Sink) *Allocator {
	return &Allocator{chart: chart, window: window, dropZeroTotal: dropZeroTotal, sink: sink}
}

// costs are the amounts of an invoice in category order, IDC already computed.
type costs struct {
	amounts [9]decimal.Decimal
	rate    decimal.Decimal
	total   decimal.Decimal
}

// Allocate posts the invoices of sub in (end date, id) order. The GL break
// threshold advances after each category, so later categories of the same
// invoice see the expense of earlier ones.
func (a *Allocator) Allocate(sub models.Subaward, invs []models.Invoice) Allocation {
	state := NewThresholdState(
		a.parse(sub.WBSE(), "", sub.Field(models.SubGLBreak), "G/L break"),
		a.parse(sub.WBSE(), "", sub.Field(models.SubManualPriorExp), "manual prior expense"),
	)
	alloc := Allocation{
		Actual:    make(map[models.BudgetCategory]bool),
		SeedExp:   state.PriorExp,
		Allocated: decimal.Zero,
	}

	for _, inv := range Sort(invs) {
		c := a.costs(sub.WBSE(), inv)
		if c.total.IsZero() {
			alloc.ZeroTotal++
			a.sink.Invoice(diagnostics.ZeroTotalInvoice, sub.WBSE(), inv.ID(),
				"Inv id=%s has a total amount of 0", inv.ID())
			if a.dropZeroTotal {
				alloc.Dropped++
				continue
			}
		}

		alloc.Rows = append(alloc.Rows, a.row(sub, inv, c.rate))

		for idx, cat := range models.Categories {
			amount := currencyutils.RoundCents(c.amounts[idx])
			if amount.IsZero() {
				continue
			}
			acct := a.chart.Account(cat)
			for _, split := range state.Allocate(amount) {
				alloc.Lines = append(alloc.Lines, models.CostLine{
					WBSE:          sub.WBSE(),
					InvoiceID:     inv.ID(),
					InvoiceNumber: inv.Number(),
					Amount:        split.Amount,
					CostElement:   acct.Bucket(split.Bucket),
					Category:      cat,
					Bucket:        split.Bucket,
				})
			}
			alloc.Allocated = alloc.Allocated.Add(amount)
			if cat != models.IDC {
				alloc.Actual[cat] = true
			}
		}
	}

	alloc.State = *state
	return alloc
}

// Sort returns the invoices ordered by end date, then numeric id. Invoices
// whose end date cannot be read sort first; the row check reports them.
func Sort(invs []models.Invoice) []models.Invoice {
	type keyed struct {
		inv models.Invoice
		end time.Time
		id  decimal.Decimal
	}
	keys := make([]keyed, len(invs))
	for i, inv := range invs {
		end, _ := dateutils.ParseUS(inv.Field(models.InvEndDate))
		keys[i] = keyed{inv: inv, end: end, id: inv.NumericID()}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if !keys[i].end.Equal(keys[j].end) {
			return keys[i].end.Before(keys[j].end)
		}
		return keys[i].id.LessThan(keys[j].id)
	})

	out := make([]models.Invoice, len(keys))
	for i, k := range keys {
		out[i] = k.inv
	}
	return out
}

func (a *Allocator) costs(wbse string, inv models.Invoice) costs {
	var raw [10]decimal.Decimal
	for i, pos := range models.InvoiceCostFields {
		raw[i] = a.parse(wbse, inv.ID(), inv.Field(pos), "cost")
	}

	direct := currencyutils.Sum(raw[:6]...)
	rate, adjustment := raw[6], raw[7]
	idc := direct.Mul(rate).Add(adjustment)

	var c costs
	copy(c.amounts[:6], raw[:6])
	c.amounts[6] = idc
	c.amounts[7] = raw[8]
	c.amounts[8] = raw[9]
	c.rate = rate
	c.total = direct.Add(idc).Add(raw[8]).Add(raw[9])
	return c
}

func (a *Allocator) row(sub models.Subaward, inv models.Invoice, rate decimal.Decimal) models.InvoiceRow {
	id := inv.ID()
	received := dateutils.DateText(inv.Field(models.InvReceivedDate))
	startText := dateutils.DateText(inv.Field(models.InvStartDate))
	endText := dateutils.DateText(inv.Field(models.InvEndDate))

	if received != "" {
		a.checkDate(sub.WBSE(), id, "Received", received)
	}
	start, startOK := a.checkDate(sub.WBSE(), id, "Start", startText)
	end, endOK := a.checkDate(sub.WBSE(), id, "End", endText)
	if endOK {
		endText = dateutils.FormatUS(end)
	}
	if startOK && endOK && !end.After(start) {
		a.sink.Invoice(diagnostics.InvertedRange, sub.WBSE(), id,
			"Inv id=%s has a strange Start-End date range", id)
	}

	return models.InvoiceRow{
		WBSE:              sub.WBSE(),
		InvoiceNumber:     inv.Number(),
		APCheckRequest:    inv.Field(models.InvAPCheckRequest),
		ReceivedDate:      received,
		Final:             inv.Field(models.InvFinal),
		InitiallyAccurate: inv.Field(models.InvInitiallyAccurate),
		Notes:             inv.Field(models.InvNotes),
		StartDate:         startText,
		EndDate:           endText,
		OSPInvoiceType:    sub.InvoiceType(),
		IDCRate:           currencyutils.FormatRate(rate),
	}
}

func (a *Allocator) checkDate(wbse, id, label, text string) (time.Time, bool) {
	date, err := dateutils.ParseUS(text)
	if err != nil {
		a.sink.Invoice(diagnostics.UnparseableValue, wbse, id,
			"Inv id=%s has an unreadable %s date: %s", id, label, text)
		return time.Time{}, false
	}
	if !a.window.Contains(date) {
		a.sink.Invoice(diagnostics.UnreasonableDate, wbse, id,
			"Inv id=%s has an unreasonable %s date: %s", id, label, text)
	}
	return date, true
}

func (a *Allocator) parse(wbse, id, text, label string) decimal.Decimal {
	amount, ok := currencyutils.MustParseAmount(text)
	if !ok {
		if id == "" {
			a.sink.Subaward(diagnostics.UnparseableValue, wbse,
				"Sub wbse=%s has an unreadable %s amount: %s", wbse, label, text)
		} else {
			a.sink.Invoice(diagnostics.UnparseableValue, wbse, id,
				"Inv id=%s has an unreadable %s amount: %s", id, label, text)
		}
	}
	return amount
}
