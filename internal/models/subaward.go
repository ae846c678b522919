package models

import "strings"

// Invoice type tags appended to a subaward during enrichment.
const (
	InvoiceTypeAdjusted = "ADJ"
	InvoiceTypeDatabase = "DB"
)

// DefaultCountry is used when the subrecipient has no country on file.
const DefaultCountry = "US"

// Subaward is one row of the legacy Subcontracts export.
//
// The parsed fields are never modified. Pipeline stages derive values such as
// repaired period starts or the valid-period count and record them in an
// overlay through the With* methods, each of which returns a new Subaward.
type Subaward struct {
	raw  []string
	line int

	repairedStarts [MaxPeriods]string
	validPeriods   int
	invoiceType    string
	country        string
}

// NewSubaward wraps the positional fields of one export line.
func NewSubaward(fields []string, line int) Subaward {
	raw := make([]string, len(fields))
	copy(raw, fields)
	return Subaward{raw: raw, line: line}
}

// Line is the 1-based line number in the source stream.
func (s Subaward) Line() int { return s.line }

// Raw returns the untouched text of a field, or "" if pos is out of range.
func (s Subaward) Raw(pos int) string {
	if pos < 0 || pos >= len(s.raw) {
		return ""
	}
	return s.raw[pos]
}

// Field returns a field with surrounding whitespace removed.
func (s Subaward) Field(pos int) string {
	return strings.TrimSpace(s.Raw(pos))
}

// ID is the legacy primary key.
func (s Subaward) ID() string { return s.Field(SubID) }

// WBSE is the business key.
func (s Subaward) WBSE() string { return s.Field(SubWBSE) }

// PeriodCell returns the cell of a per-period block for the 0-based period index.
func (s Subaward) PeriodCell(base, period int) string {
	return s.Field(base + period)
}

// PeriodStart returns the start date cell of a 0-based period, repaired if a
// repair was recorded.
func (s Subaward) PeriodStart(period int) string {
	if period >= 0 && period < MaxPeriods && s.repairedStarts[period] != "" {
		return s.repairedStarts[period]
	}
	return s.PeriodCell(SubPeriodStart, period)
}

// PeriodEnd returns the end date cell of a 0-based period.
func (s Subaward) PeriodEnd(period int) string {
	return s.PeriodCell(SubPeriodEnd, period)
}

// IsRepaired reports whether the start of a 0-based period was repaired.
func (s Subaward) IsRepaired(period int) bool {
	return period >= 0 && period < MaxPeriods && s.repairedStarts[period] != ""
}

// WithRepairedStart records a repaired start date for a 0-based period.
func (s Subaward) WithRepairedStart(period int, start string) Subaward {
	if period >= 0 && period < MaxPeriods {
		s.repairedStarts[period] = start
	}
	return s
}

// ValidPeriods is the number of contiguous valid budget periods.
func (s Subaward) ValidPeriods() int { return s.validPeriods }

// WithValidPeriods records the valid-period count.
func (s Subaward) WithValidPeriods(n int) Subaward {
	s.validPeriods = n
	return s
}

// InvoiceType is ADJ or DB once enrichment ran.
func (s Subaward) InvoiceType() string { return s.invoiceType }

// WithInvoiceType records the invoice type tag.
func (s Subaward) WithInvoiceType(tag string) Subaward {
	s.invoiceType = tag
	return s
}

// Country returns the enriched country code, or the exported value before enrichment.
func (s Subaward) Country() string {
	if s.country != "" {
		return s.country
	}
	return s.Field(SubCountry)
}

// WithCountry records the country code.
func (s Subaward) WithCountry(code string) Subaward {
	s.country = code
	return s
}

// LastPeriodIndex is the 0-based index of the last valid period, or -1.
func (s Subaward) LastPeriodIndex() int {
	return s.validPeriods - 1
}

// FirstFiscalPeriod is the fiscal period number of the oldest valid period.
func (s Subaward) FirstFiscalPeriod() int {
	return LastFiscalPeriod + 1 - s.validPeriods
}
