package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/parsererror"
)

// DefaultDelimiter separates fields in the legacy exports.
const DefaultDelimiter = "|"

// Stream names used in errors and logs.
const (
	StreamSubawards = "subawards"
	StreamInvoices  = "invoices"
)

// maxLineBytes bounds a single export line; wide subaward rows with long
// notes exceed bufio's 64KiB default.
const maxLineBytes = 4 * 1024 * 1024

// Record is one split line of an export.
type Record struct {
	Line   int
	Fields []string
}

// RecordParser implements FullParser for the pipe-delimited exports.
type RecordParser struct {
	BaseParser
	delimiter string
}

// NewRecordParser returns a parser splitting on delimiter ("|" when empty).
func NewRecordParser(logger logging.Logger, delimiter string) *RecordParser {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &RecordParser{
		BaseParser: NewBaseParser(logger),
		delimiter:  delimiter,
	}
}

// Delimiter returns the field separator in use.
func (p *RecordParser) Delimiter() string {
	return p.delimiter
}

// ParseSubawards implements SubawardParser.
func (p *RecordParser) ParseSubawards(r io.Reader) ([]models.Subaward, error) {
	records, err := p.ReadRecords(r, StreamSubawards, models.SubawardFieldCount)
	if err != nil {
		return nil, err
	}
	subs := make([]models.Subaward, 0, len(records))
	for _, rec := range records {
		subs = append(subs, models.NewSubaward(rec.Fields, rec.Line))
	}
	return subs, nil
}

// ParseInvoices implements InvoiceParser.
func (p *RecordParser) ParseInvoices(r io.Reader) ([]models.Invoice, error) {
	records, err := p.ReadRecords(r, StreamInvoices, models.InvoiceFieldCount)
	if err != nil {
		return nil, err
	}
	invs := make([]models.Invoice, 0, len(records))
	for _, rec := range records {
		invs = append(invs, models.NewInvoice(rec.Fields, rec.Line))
	}
	return invs, nil
}

// ReadRecords splits every non-blank line of r and checks it has exactly
// arity fields. The first mismatch aborts with a *parsererror.FieldCountError.
func (p *RecordParser) ReadRecords(r io.Reader, stream string, arity int) ([]Record, error) {
	logger := p.GetLogger().WithField(logging.FieldStream, stream)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, p.delimiter)
		if len(fields) != arity {
			err := &parsererror.FieldCountError{
				Stream:   stream,
				Line:     lineNo,
				RecordID: strings.TrimSpace(fields[0]),
				Expected: arity,
				Actual:   len(fields),
			}
			logger.WithError(err).Error("Record has wrong number of fields")
			return nil, err
		}
		records = append(records, Record{Line: lineNo, Fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", stream, err)
	}

	logger.Info("Records read", logging.F(logging.FieldCount, len(records)))
	return records, nil
}
