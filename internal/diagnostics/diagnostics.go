// Package diagnostics collects the data-quality anomalies found during a run
// and writes them once, at the end, to the append-only log stream.
package diagnostics

import (
	"fmt"
	"io"
	"sort"
	"time"

	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/logging"
)

// Kind classifies an anomaly.
type Kind string

const (
	UnreasonableDate  Kind = "unreasonable_date"
	InvertedRange     Kind = "inverted_range"
	IgnoredPeriod     Kind = "ignored_period"
	DroppedRecord     Kind = "dropped_record"
	ZeroTotalInvoice  Kind = "zero_total_invoice"
	BalanceCorrection Kind = "balance_correction"
	UnparseableValue  Kind = "unparseable_value"
)

// Entry is one anomaly.
type Entry struct {
	Kind      Kind
	WBSE      string
	InvoiceID string
	Message   string
}

// Sink accumulates entries in the order they are found.
type Sink struct {
	entries []Entry
	logger  logging.Logger
}

// NewSink returns an empty sink. Every entry is mirrored to logger at debug level.
func NewSink(logger logging.Logger) *Sink {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Sink{logger: logger}
}

// Add records an entry.
func (s *Sink) Add(entry Entry) {
	s.entries = append(s.entries, entry)

	fields := []logging.Field{logging.F(logging.FieldKind, string(entry.Kind))}
	if entry.WBSE != "" {
		fields = append(fields, logging.F(logging.FieldWBSE, entry.WBSE))
	}
	if entry.InvoiceID != "" {
		fields = append(fields, logging.F(logging.FieldInvoiceID, entry.InvoiceID))
	}
	s.logger.Debug(entry.Message, fields...)
}

// Subaward records an anomaly of a subaward.
func (s *Sink) Subaward(kind Kind, wbse, format string, args ...interface{}) {
	s.Add(Entry{Kind: kind, WBSE: wbse, Message: fmt.Sprintf(format, args...)})
}

// Invoice records an anomaly of an invoice.
func (s *Sink) Invoice(kind Kind, wbse, invoiceID, format string, args ...interface{}) {
	s.Add(Entry{Kind: kind, WBSE: wbse, InvoiceID: invoiceID, Message: fmt.Sprintf(format, args...)})
}

// Entries returns a copy of the recorded entries.
func (s *Sink) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len is the number of recorded entries.
func (s *Sink) Len() int { return len(s.entries) }

// Count returns the number of entries of a kind.
func (s *Sink) Count(kind Kind) int {
	n := 0
	for _, e := range s.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns the number of entries per kind.
func (s *Sink) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range s.entries {
		counts[e.Kind]++
	}
	return counts
}

// Kinds returns the kinds present, sorted by name.
func (s *Sink) Kinds() []Kind {
	counts := s.Counts()
	kinds := make([]Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Flush writes every entry between start and end markers:
//
//	----- Start: 2017-03-16 09:12:44.000000 run=<id> -----
//	Sub wbse=2000001 has an unreasonable Start date: 01/01/1970
//	----- End: 2017-03-16 09:12:45.000000 run=<id> -----
func (s *Sink) Flush(w io.Writer, runID string, started, finished time.Time) error {
	if _, err := fmt.Fprintf(w, "----- Start: %s run=%s -----\n", started.Format(dateutils.DateLayoutLogStamp), runID); err != nil {
		return fmt.Errorf("writing diagnostics: %w", err)
	}
	for _, e := range s.entries {
		if _, err := fmt.Fprintln(w, e.Message); err != nil {
			return fmt.Errorf("writing diagnostics: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "----- End: %s run=%s -----\n", finished.Format(dateutils.DateLayoutLogStamp), runID); err != nil {
		return fmt.Errorf("writing diagnostics: %w", err)
	}
	return nil
}
