package parsererror

import "fmt"

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldCountError is raised when a record does not have the arity of its stream.
// The legacy layout is positional, so a single short or long line makes every
// later field lookup meaningless and the run must stop.
type FieldCountError struct {
	Stream   string
	Line     int
	RecordID string
	Expected int
	Actual   int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("%s line %d (id %s) has odd number of fields: %d, expected %d",
		e.Stream, e.Line, e.RecordID, e.Actual, e.Expected)
}

// MissingInputError is raised when a required input stream does not exist.
type MissingInputError struct {
	Name     string
	FilePath string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input %s is missing: %s", e.Name, e.FilePath)
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an error where a reference file does not conform
// to its expected line format.
type InvalidFormatError struct {
	FilePath             string
	Line                 int
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s' line %d. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Line, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s' line %d. Expected: %s",
		e.FilePath, e.Line, e.ExpectedFormat)
}
