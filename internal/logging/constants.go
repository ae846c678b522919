package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldStage      = "stage"
	FieldStream     = "stream"
	FieldWBSE       = "wbse"
	FieldSubID      = "sub_id"
	FieldInvoiceID  = "invoice_id"
	FieldCategory   = "category"
	FieldKind       = "kind"
	FieldReason     = "reason"
	FieldRunID      = "run_id"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldRemoved    = "removed"
	FieldDelimiter  = "delimiter"
	FieldEncoding   = "encoding"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
