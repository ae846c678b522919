package invoice

import (
	"testing"

	"fjacquet/osp-migrate/internal/currencyutils"
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBucket(t *testing.T) {
	tests := []struct {
		name   string
		prior  string
		amount string
		want   int
	}{
		{"well below", "0", "100", BucketBelow},
		{"reaches break exactly", "900", "100", BucketBelow},
		{"prior at break", "1000", "1", BucketAbove},
		{"prior past break", "1500", "10", BucketAbove},
		{"straddles", "900", "300", BucketSplit},
		{"credit below break", "1200", "-300", BucketBelow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bucket(dec("1000"), dec(tt.prior), dec(tt.amount)))
		})
	}
}

func TestThresholdState_AllocateSplit(t *testing.T) {
	state := NewThresholdState(dec("1000"), dec("900"))

	splits := state.Allocate(dec("300"))

	require.Len(t, splits, 2)
	assert.Equal(t, BucketBelow, splits[0].Bucket)
	assert.Equal(t, "100.00", splits[0].Amount.StringFixed(2))
	assert.Equal(t, BucketAbove, splits[1].Bucket)
	assert.Equal(t, "200.00", splits[1].Amount.StringFixed(2))
	assert.Equal(t, "1200.00", state.PriorExp.StringFixed(2))
}

func TestThresholdState_SplitsSumToAmount(t *testing.T) {
	amounts := []string{"10.01", "333.33", "0.07", "1250", "-40", "999.99"}
	state := NewThresholdState(dec("1234.56"), dec("0"))
	seed := state.PriorExp

	total := decimal.Zero
	for _, a := range amounts {
		amount := dec(a)
		var sum decimal.Decimal
		for _, s := range state.Allocate(amount) {
			sum = sum.Add(s.Amount)
		}
		assert.True(t, sum.Equal(amount), "splits of %s sum to %s", a, sum)
		total = total.Add(amount)
	}
	assert.True(t, state.PriorExp.Equal(seed.Add(total)))
}

func newAllocator(dropZero bool) (*Allocator, *diagnostics.Sink) {
	sink := diagnostics.NewSink(logging.NewMockLogger())
	return NewAllocator(store.DefaultChart(), dateutils.DefaultWindow(), dropZero, sink), sink
}

func subaward(t *testing.T, glBreak, prior string) models.Subaward {
	t.Helper()
	sub, err := models.NewSubawardBuilder().
		WithID("1").
		WithWBSE("2000001").
		WithGLBreak(glBreak).
		WithManualPriorExp(prior).
		Build()
	require.NoError(t, err)
	return sub.WithInvoiceType(models.InvoiceTypeDatabase)
}

func invoice(t *testing.T, b *models.InvoiceBuilder) models.Invoice {
	t.Helper()
	inv, err := b.WithSubID("1").Build()
	require.NoError(t, err)
	return inv
}

type posted struct {
	number  string
	amount  string
	element string
}

func postings(lines []models.CostLine) []posted {
	out := make([]posted, 0, len(lines))
	for _, l := range lines {
		out = append(out, posted{l.InvoiceNumber, currencyutils.FormatAmount(l.Amount), l.CostElement})
	}
	return out
}

func TestAllocator_Allocate(t *testing.T) {
	later := invoice(t, models.NewInvoiceBuilder().
		WithID("2").WithNumber("INV-2").
		WithDates("01/01/2016", "06/30/2016 00:00:00").
		WithCost(models.Salary, "$300.00"))
	earlier := invoice(t, models.NewInvoiceBuilder().
		WithID("1").WithNumber("INV-1").
		WithDates("07/01/2015", "12/31/2015").
		WithCost(models.Supplies, "50").
		WithIDC("0.1", ""))

	alloc, sink := newAllocator(false)
	res := alloc.Allocate(subaward(t, "1,000.00", "900"), []models.Invoice{later, earlier})

	assert.Equal(t, []posted{
		{"INV-1", "50.00", "691645"},
		{"INV-1", "5.00", "691658"},
		{"INV-2", "45.00", "691641"},
		{"INV-2", "255.00", "697141"},
	}, postings(res.Lines))

	require.Len(t, res.Rows, 2)
	assert.Equal(t, models.InvoiceRow{
		WBSE:           "2000001",
		InvoiceNumber:  "INV-1",
		StartDate:      "07/01/2015",
		EndDate:        "12/31/2015",
		OSPInvoiceType: "DB",
		IDCRate:        "10.00",
	}, res.Rows[0])
	assert.Equal(t, "06/30/2016", res.Rows[1].EndDate)
	assert.Equal(t, "0.00", res.Rows[1].IDCRate)

	assert.Equal(t, map[models.BudgetCategory]bool{models.Supplies: true, models.Salary: true}, res.Actual)
	assert.Equal(t, "355.00", res.Allocated.StringFixed(2))
	assert.True(t, res.State.PriorExp.Equal(res.SeedExp.Add(res.Allocated)))
	assert.Zero(t, sink.Len())
}

func TestAllocator_LinesMatchInvoiceTotals(t *testing.T) {
	inv := invoice(t, models.NewInvoiceBuilder().
		WithID("5").WithNumber("INV-5").
		WithDates("07/01/2015", "06/30/2016").
		WithCost(models.Salary, "120.10").
		WithCost(models.Fringe, "33.33").
		WithCost(models.Equipment, "700").
		WithCost(models.Misc, "(10.00)").
		WithIDC("0.265", "1.5"))

	alloc, _ := newAllocator(false)
	res := alloc.Allocate(subaward(t, "500", "0"), []models.Invoice{inv})

	total := decimal.Zero
	for _, l := range res.Lines {
		total = total.Add(l.Amount)
	}
	assert.True(t, total.Equal(res.Allocated))
	// 153.43 direct, 42.16 IDC, 700 equipment, -10 misc
	assert.Equal(t, "885.59", total.StringFixed(2))
}

func TestAllocator_ZeroTotal(t *testing.T) {
	inv := invoice(t, models.NewInvoiceBuilder().WithID("3").WithDates("07/01/2015", "06/30/2016"))

	t.Run("kept by default", func(t *testing.T) {
		alloc, sink := newAllocator(false)
		res := alloc.Allocate(subaward(t, "0", "0"), []models.Invoice{inv})

		assert.Len(t, res.Rows, 1)
		assert.Empty(t, res.Lines)
		assert.Equal(t, 1, res.ZeroTotal)
		assert.Zero(t, res.Dropped)
		assert.Equal(t, 1, sink.Count(diagnostics.ZeroTotalInvoice))
	})

	t.Run("dropped when configured", func(t *testing.T) {
		alloc, _ := newAllocator(true)
		res := alloc.Allocate(subaward(t, "0", "0"), []models.Invoice{inv})

		assert.Empty(t, res.Rows)
		assert.Equal(t, 1, res.Dropped)
	})
}

func TestAllocator_DateDiagnostics(t *testing.T) {
	odd := invoice(t, models.NewInvoiceBuilder().
		WithID("7").
		WithReceived("01/01/1900").
		WithDates("07/01/2016", "06/30/2016").
		WithCost(models.Travel, "1"))
	noReceived := invoice(t, models.NewInvoiceBuilder().
		WithID("8").
		WithDates("07/01/2015", "garbage").
		WithCost(models.Travel, "1"))

	alloc, sink := newAllocator(false)
	alloc.Allocate(subaward(t, "0", "0"), []models.Invoice{odd, noReceived})

	assert.Equal(t, 1, sink.Count(diagnostics.UnreasonableDate))
	assert.Equal(t, 1, sink.Count(diagnostics.InvertedRange))
	assert.Equal(t, 1, sink.Count(diagnostics.UnparseableValue))

	messages := make([]string, 0, sink.Len())
	for _, e := range sink.Entries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Inv id=7 has an unreasonable Received date: 01/01/1900")
	assert.Contains(t, messages, "Inv id=7 has a strange Start-End date range")
}

func TestSort(t *testing.T) {
	mk := func(id, end string) models.Invoice {
		return invoice(t, models.NewInvoiceBuilder().WithID(id).WithDates("", end))
	}
	invs := []models.Invoice{
		mk("10", "06/30/2016"),
		mk("9", "06/30/2016"),
		mk("4", "12/31/2015"),
		mk("12", ""),
		mk("2", "07/31/2016"),
	}

	ids := make([]string, 0, len(invs))
	for _, inv := range Sort(invs) {
		ids = append(ids, inv.ID())
	}
	assert.Equal(t, []string{"12", "4", "9", "10", "2"}, ids)
	assert.Equal(t, "10", invs[0].ID(), "input is not reordered")
}
