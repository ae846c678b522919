package models

import (
	"fmt"
	"strings"
)

// SubawardBuilder provides a fluent API for constructing subaward records
// field by field, mainly for fixtures and reprocessing tools.
type SubawardBuilder struct {
	fields []string
	line   int
	err    error
}

// NewSubawardBuilder creates a builder with all 96 fields empty.
func NewSubawardBuilder() *SubawardBuilder {
	return &SubawardBuilder{fields: make([]string, SubawardFieldCount), line: 1}
}

// WithID sets the legacy primary key.
func (b *SubawardBuilder) WithID(id string) *SubawardBuilder {
	return b.set(SubID, id)
}

// WithWBSE sets the business key.
func (b *SubawardBuilder) WithWBSE(wbse string) *SubawardBuilder {
	return b.set(SubWBSE, wbse)
}

// WithRecipientID sets the subrecipient id used for the country lookup.
func (b *SubawardBuilder) WithRecipientID(id string) *SubawardBuilder {
	return b.set(SubRecipientID, id)
}

// WithGLBreak sets the GL break amount text.
func (b *SubawardBuilder) WithGLBreak(amount string) *SubawardBuilder {
	return b.set(SubGLBreak, amount)
}

// WithManualPriorExp sets the manual prior expense text.
func (b *SubawardBuilder) WithManualPriorExp(amount string) *SubawardBuilder {
	return b.set(SubManualPriorExp, amount)
}

// WithPeriod sets the start and end date cells of a 1-based period.
func (b *SubawardBuilder) WithPeriod(period int, start, end string) *SubawardBuilder {
	if !b.validPeriod(period) {
		return b
	}
	b.set(SubPeriodStart+period-1, start)
	return b.set(SubPeriodEnd+period-1, end)
}

// WithBudget sets a positional category amount of a 1-based period.
func (b *SubawardBuilder) WithBudget(period int, cat BudgetCategory, amount string) *SubawardBuilder {
	if !b.validPeriod(period) {
		return b
	}
	base, ok := BudgetColumns[cat]
	if !ok {
		b.err = fmt.Errorf("category %s has no budget column", cat)
		return b
	}
	return b.set(base+period-1, amount)
}

// WithIDC sets the indirect cost rate and adjustment of a 1-based period.
func (b *SubawardBuilder) WithIDC(period int, rate, adjustment string) *SubawardBuilder {
	if !b.validPeriod(period) {
		return b
	}
	b.set(SubIDCRate+period-1, rate)
	return b.set(SubIDCAdjustment+period-1, adjustment)
}

// WithField sets any field by position.
func (b *SubawardBuilder) WithField(pos int, value string) *SubawardBuilder {
	return b.set(pos, value)
}

// AtLine sets the source line number of the built record.
func (b *SubawardBuilder) AtLine(line int) *SubawardBuilder {
	b.line = line
	return b
}

// Build returns the subaward or the first error recorded by a With* call.
func (b *SubawardBuilder) Build() (Subaward, error) {
	if b.err != nil {
		return Subaward{}, b.err
	}
	return NewSubaward(b.fields, b.line), nil
}

// Line renders the record as an export line.
func (b *SubawardBuilder) Line(delimiter string) string {
	return strings.Join(b.fields, delimiter)
}

func (b *SubawardBuilder) validPeriod(period int) bool {
	if b.err != nil {
		return false
	}
	if period < 1 || period > MaxPeriods {
		b.err = fmt.Errorf("period %d out of range 1-%d", period, MaxPeriods)
		return false
	}
	return true
}

func (b *SubawardBuilder) set(pos int, value string) *SubawardBuilder {
	if b.err != nil {
		return b
	}
	if pos < 0 || pos >= len(b.fields) {
		b.err = fmt.Errorf("field %d out of range", pos)
		return b
	}
	b.fields[pos] = value
	return b
}

// InvoiceBuilder provides a fluent API for constructing invoice records.
type InvoiceBuilder struct {
	fields []string
	line   int
	err    error
}

// NewInvoiceBuilder creates a builder with all 35 fields empty.
func NewInvoiceBuilder() *InvoiceBuilder {
	return &InvoiceBuilder{fields: make([]string, InvoiceFieldCount), line: 1}
}

// WithID sets the invoice id.
func (b *InvoiceBuilder) WithID(id string) *InvoiceBuilder { return b.set(InvID, id) }

// WithSubID sets the owning subaward id.
func (b *InvoiceBuilder) WithSubID(id string) *InvoiceBuilder { return b.set(InvSubID, id) }

// WithNumber sets the invoice number.
func (b *InvoiceBuilder) WithNumber(number string) *InvoiceBuilder { return b.set(InvNumber, number) }

// WithDates sets the start and end date cells.
func (b *InvoiceBuilder) WithDates(start, end string) *InvoiceBuilder {
	b.set(InvStartDate, start)
	return b.set(InvEndDate, end)
}

// WithReceived sets the received date cell.
func (b *InvoiceBuilder) WithReceived(date string) *InvoiceBuilder {
	return b.set(InvReceivedDate, date)
}

// WithCost sets the amount of a category. IDC is set through WithIDC.
func (b *InvoiceBuilder) WithCost(cat BudgetCategory, amount string) *InvoiceBuilder {
	pos, ok := invoiceCostColumns[cat]
	if !ok {
		if b.err == nil {
			b.err = fmt.Errorf("category %s has no invoice cost column", cat)
		}
		return b
	}
	return b.set(pos, amount)
}

// WithIDC sets the indirect cost rate and adjustment.
func (b *InvoiceBuilder) WithIDC(rate, adjustment string) *InvoiceBuilder {
	b.set(InvIDCRate, rate)
	return b.set(InvIDCAdjustment, adjustment)
}

// WithField sets any field by position.
func (b *InvoiceBuilder) WithField(pos int, value string) *InvoiceBuilder {
	return b.set(pos, value)
}

// AtLine sets the source line number of the built record.
func (b *InvoiceBuilder) AtLine(line int) *InvoiceBuilder {
	b.line = line
	return b
}

// Build returns the invoice or the first error recorded by a With* call.
func (b *InvoiceBuilder) Build() (Invoice, error) {
	if b.err != nil {
		return Invoice{}, b.err
	}
	return NewInvoice(b.fields, b.line), nil
}

// Line renders the record as an export line.
func (b *InvoiceBuilder) Line(delimiter string) string {
	return strings.Join(b.fields, delimiter)
}

func (b *InvoiceBuilder) set(pos int, value string) *InvoiceBuilder {
	if b.err != nil {
		return b
	}
	if pos < 0 || pos >= len(b.fields) {
		b.err = fmt.Errorf("field %d out of range", pos)
		return b
	}
	b.fields[pos] = value
	return b
}

var invoiceCostColumns = map[BudgetCategory]int{
	Salary:     InvSalary,
	Fringe:     InvFringe,
	Supplies:   InvSupplies,
	Travel:     InvTravel,
	Consulting: InvConsulting,
	ODC:        InvODC,
	Equipment:  InvEquipment,
	Misc:       InvMisc,
}
