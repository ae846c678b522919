// Package report renders the run summary as JSON or as an audit workbook.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"fjacquet/osp-migrate/internal/diagnostics"
	"fjacquet/osp-migrate/internal/engine"
	"fjacquet/osp-migrate/internal/logging"

	"github.com/xuri/excelize/v2"
)

// Report formats.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Sheet names of the audit workbook.
const (
	SheetSummary     = "Summary"
	SheetDiagnostics = "Diagnostics"
)

// Summary describes one run.
type Summary struct {
	RunID      string       `json:"run_id"`
	RunDate    string       `json:"run_date"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Stats      engine.Stats `json:"stats"`
}

// ReportGenerator renders run summaries.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

// GenerateReport renders a summary in the given format (json or xlsx). The
// workbook also lists every diagnostic entry.
func (g *ReportGenerator) GenerateReport(summary Summary, entries []diagnostics.Entry, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSONReport(summary)
	case FormatXLSX:
		return g.generateWorkbook(summary, entries)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(summary Summary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *ReportGenerator) generateWorkbook(summary Summary, entries []diagnostics.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for i, row := range SummaryRows(summary) {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(SheetDiagnostics); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics sheet: %w", err)
	}
	if err := setRow(f, SheetDiagnostics, 1, []interface{}{"Kind", "WBSE", "Invoice ID", "Message"}); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if err := setRow(f, SheetDiagnostics, i+2, []interface{}{string(e.Kind), e.WBSE, e.InvoiceID, e.Message}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		g.logger.WithError(err).Error("Failed to render workbook")
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// SummaryRows lists the summary as label/value pairs in a fixed order.
// Diagnostic counts follow, sorted by kind.
func SummaryRows(s Summary) [][]interface{} {
	st := s.Stats
	rows := [][]interface{}{
		{"Run ID", s.RunID},
		{"Run date", s.RunDate},
		{"Started", s.StartedAt.Format(time.RFC3339)},
		{"Finished", s.FinishedAt.Format(time.RFC3339)},
		{"Subawards read", st.SubawardsRead},
		{"Invoices read", st.InvoicesRead},
		{"Subawards removed by WBSE range", st.RemovedByRange},
		{"Invoices removed by WBSE range", st.InvoicesRemovedByRange},
		{"Period starts repaired", st.PeriodStartsRepaired},
		{"Subawards dropped for no valid periods", st.DroppedNoPeriods},
		{"Inactive subawards", st.Inactive},
		{"Invoices of inactive subawards", st.InvoicesRemovedInactive},
		{"Adjusted invoice type", st.AdjustedInvoiceType},
		{"Selection mode", st.SelectionMode},
		{"Selection list size", st.SelectionListSize},
		{"Subawards removed by selection", st.RemovedBySelection},
		{"Invoices removed by selection", st.InvoicesRemovedBySelection},
		{"Subawards dropped for empty budgets", st.DroppedNoBudget},
		{"Zero-total invoices", st.ZeroTotalInvoices},
		{"Zero-total invoices dropped", st.DroppedZeroTotal},
		{"Subawards with balance corrections", st.CorrectedSubawards},
		{"Output records - subs", st.SubawardRows},
		{"Output records - subs_details", st.BudgetLines},
		{"Output records - invs", st.InvoiceRows},
		{"Output records - invs_details", st.CostLines},
	}

	kinds := make([]string, 0, len(st.Diagnostics))
	for k := range st.Diagnostics {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		rows = append(rows, []interface{}{"Diagnostics - " + k, st.Diagnostics[k]})
	}
	return rows
}
