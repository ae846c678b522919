package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blankSubawardFields() []string {
	return make([]string, SubawardFieldCount)
}

func TestSubaward_OverlayLeavesFieldsUntouched(t *testing.T) {
	fields := blankSubawardFields()
	fields[SubID] = " 17 "
	fields[SubWBSE] = "2000123"
	fields[SubCountry] = "XX"
	fields[SubPeriodEnd+1] = "06/30/2016 00:00:00"

	original := NewSubaward(fields, 4)
	fields[SubWBSE] = "mutated after construction"

	repaired := original.
		WithRepairedStart(1, "07/01/2015 00:00:00").
		WithValidPeriods(2).
		WithInvoiceType(InvoiceTypeAdjusted).
		WithCountry("CA")

	assert.Equal(t, "17", original.ID())
	assert.Equal(t, "2000123", original.WBSE())
	assert.Equal(t, 4, original.Line())

	assert.Equal(t, "", original.PeriodStart(1))
	assert.False(t, original.IsRepaired(1))
	assert.Equal(t, 0, original.ValidPeriods())
	assert.Equal(t, "XX", original.Country())

	assert.Equal(t, "07/01/2015 00:00:00", repaired.PeriodStart(1))
	assert.True(t, repaired.IsRepaired(1))
	assert.Equal(t, "06/30/2016 00:00:00", repaired.PeriodEnd(1))
	assert.Equal(t, 2, repaired.ValidPeriods())
	assert.Equal(t, InvoiceTypeAdjusted, repaired.InvoiceType())
	assert.Equal(t, "CA", repaired.Country())
	assert.Equal(t, "XX", repaired.Field(SubCountry))
}

func TestSubaward_FiscalNumbering(t *testing.T) {
	for n := 1; n <= MaxPeriods; n++ {
		sub := NewSubaward(blankSubawardFields(), 1).WithValidPeriods(n)
		assert.Equal(t, 10-n, sub.FirstFiscalPeriod())
		assert.Equal(t, n-1, sub.LastPeriodIndex())
		assert.Equal(t, LastFiscalPeriod, sub.FirstFiscalPeriod()+sub.LastPeriodIndex())
	}
}

func TestSubaward_RawOutOfRange(t *testing.T) {
	sub := NewSubaward([]string{"1", "2"}, 1)
	assert.Equal(t, "", sub.Raw(-1))
	assert.Equal(t, "", sub.Raw(5))
	assert.Equal(t, "", sub.PeriodStart(MaxPeriods))
}

func TestInvoice_Accessors(t *testing.T) {
	fields := make([]string, InvoiceFieldCount)
	fields[InvID] = "1,042"
	fields[InvSubID] = " 17"
	fields[InvNumber] = "INV-9 "

	inv := NewInvoice(fields, 3)
	assert.Equal(t, "17", inv.SubID())
	assert.Equal(t, "INV-9", inv.Number())
	assert.Equal(t, "1042", inv.NumericID().String())

	fields[InvID] = "abc"
	assert.True(t, NewInvoice(fields, 3).NumericID().IsZero())
}

func TestCategories(t *testing.T) {
	require.Len(t, Categories, 9)
	assert.Equal(t, "supplies", Supplies.String())

	c, err := ParseCategory("equipment")
	require.NoError(t, err)
	assert.Equal(t, Equipment, c)

	_, err = ParseCategory("rent")
	assert.Error(t, err)

	for _, cat := range Categories {
		_, positional := BudgetColumns[cat]
		assert.Equal(t, cat != IDC, positional, "category %s", cat)
	}
}

func TestGLAccountBucket(t *testing.T) {
	acct := GLAccount{Plan: "693545", Below: "691645", Above: "697145"}
	assert.Equal(t, "691645", acct.Bucket(1))
	assert.Equal(t, "697145", acct.Bucket(2))
}
