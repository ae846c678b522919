// Package common renders conversion results to the pipe-delimited output streams.
package common

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/osp-migrate/internal/engine"
	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"

	"github.com/gocarina/gocsv"
)

// OutputDelimiter separates the fields of every output stream.
const OutputDelimiter = "|"

// Stream names used in logs.
const (
	StreamSubawards       = "subawards"
	StreamSubawardDetails = "subaward_details"
	StreamInvoices        = "invoices"
	StreamInvoiceDetails  = "invoice_details"
)

// pipeWriter is a gocsv.CSVWriter that joins fields with a delimiter and
// never quotes them. Field values are written as they are.
type pipeWriter struct {
	w         *bufio.Writer
	delimiter string
	err       error
}

func newPipeWriter(w io.Writer, delimiter string) *pipeWriter {
	return &pipeWriter{w: bufio.NewWriter(w), delimiter: delimiter}
}

func (p *pipeWriter) Write(row []string) error {
	if p.err != nil {
		return p.err
	}
	if _, err := p.w.WriteString(strings.Join(row, p.delimiter) + "\n"); err != nil {
		p.err = err
	}
	return p.err
}

func (p *pipeWriter) Flush() {
	if p.err != nil {
		return
	}
	p.err = p.w.Flush()
}

func (p *pipeWriter) Error() error { return p.err }

// WriteRows marshals a slice of row structs, header first. An empty slice
// still produces the header line.
func WriteRows(out io.Writer, rows interface{}) error {
	pw := newPipeWriter(out, OutputDelimiter)
	if err := gocsv.MarshalCSV(rows, pw); err != nil {
		return fmt.Errorf("error writing rows: %w", err)
	}
	pw.Flush()
	if err := pw.Error(); err != nil {
		return fmt.Errorf("error flushing rows: %w", err)
	}
	return nil
}

// Streams are the four destinations of a conversion.
type Streams struct {
	Subawards       io.Writer
	SubawardDetails io.Writer
	Invoices        io.Writer
	InvoiceDetails  io.Writer
}

// StreamWriter writes a Result to its streams.
type StreamWriter struct {
	logger logging.Logger
}

// NewStreamWriter returns a StreamWriter logging to logger.
func NewStreamWriter(logger logging.Logger) *StreamWriter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &StreamWriter{logger: logger}
}

// Write renders res to the four streams in a fixed order.
func (w *StreamWriter) Write(res *engine.Result, s Streams) error {
	if res == nil {
		return fmt.Errorf("cannot write nil result")
	}

	outputs := []struct {
		name  string
		out   io.Writer
		rows  interface{}
		count int
	}{
		{StreamSubawards, s.Subawards, res.Subawards, len(res.Subawards)},
		{StreamSubawardDetails, s.SubawardDetails, BudgetRows(res.BudgetLines), len(res.BudgetLines)},
		{StreamInvoices, s.Invoices, res.Invoices, len(res.Invoices)},
		{StreamInvoiceDetails, s.InvoiceDetails, DetailRows(res.CostLines), len(res.CostLines)},
	}

	for _, o := range outputs {
		if o.out == nil {
			return fmt.Errorf("no destination for %s stream", o.name)
		}
		if err := WriteRows(o.out, o.rows); err != nil {
			w.logger.WithError(err).Error("Failed to write stream",
				logging.F(logging.FieldStream, o.name))
			return fmt.Errorf("%s: %w", o.name, err)
		}
		w.logger.Info("Wrote stream",
			logging.F(logging.FieldStream, o.name),
			logging.F(logging.FieldCount, o.count))
	}
	return nil
}

// BudgetRows renders budget lines.
func BudgetRows(lines []models.BudgetLine) []models.BudgetDetailRow {
	rows := make([]models.BudgetDetailRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, l.Row())
	}
	return rows
}

// DetailRows renders invoice cost lines.
func DetailRows(lines []models.CostLine) []models.InvoiceDetailRow {
	rows := make([]models.InvoiceDetailRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, l.Row())
	}
	return rows
}
