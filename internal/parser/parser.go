package parser

import (
	"io"

	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"
)

// SubawardParser reads the Subcontracts export.
type SubawardParser interface {
	// ParseSubawards reads every line of r as a subaward record. A line with
	// the wrong number of fields fails the whole stream with a
	// *parsererror.FieldCountError.
	ParseSubawards(r io.Reader) ([]models.Subaward, error)
}

// InvoiceParser reads the Invoices export.
type InvoiceParser interface {
	// ParseInvoices reads every line of r as an invoice record, with the same
	// arity contract as ParseSubawards.
	ParseInvoices(r io.Reader) ([]models.Invoice, error)
}

// LoggerConfigurable is implemented by parsers whose logger can be replaced.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FullParser combines every parser capability.
type FullParser interface {
	SubawardParser
	InvoiceParser
	LoggerConfigurable
}
