package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Invoice is one row of the legacy Invoices export.
type Invoice struct {
	raw  []string
	line int
}

// NewInvoice wraps the positional fields of one export line.
func NewInvoice(fields []string, line int) Invoice {
	raw := make([]string, len(fields))
	copy(raw, fields)
	return Invoice{raw: raw, line: line}
}

// Line is the 1-based line number in the source stream.
func (i Invoice) Line() int { return i.line }

// Raw returns the untouched text of a field, or "" if pos is out of range.
func (i Invoice) Raw(pos int) string {
	if pos < 0 || pos >= len(i.raw) {
		return ""
	}
	return i.raw[pos]
}

// Field returns a field with surrounding whitespace removed.
func (i Invoice) Field(pos int) string {
	return strings.TrimSpace(i.Raw(pos))
}

// ID is the legacy invoice id.
func (i Invoice) ID() string { return i.Field(InvID) }

// NumericID is the id as a number, used as the secondary sort key.
// Non-numeric ids sort as zero.
func (i Invoice) NumericID() decimal.Decimal {
	id, err := decimal.NewFromString(strings.ReplaceAll(i.ID(), ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return id
}

// SubID references the owning subaward.
func (i Invoice) SubID() string { return i.Field(InvSubID) }

// Number is the human invoice number.
func (i Invoice) Number() string { return i.Field(InvNumber) }
