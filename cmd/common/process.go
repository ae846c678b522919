// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"time"

	"fjacquet/osp-migrate/internal/container"
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/engine"
	"fjacquet/osp-migrate/internal/fileutils"
	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"
	"fjacquet/osp-migrate/internal/report"

	"github.com/google/uuid"
)

// RunOptions controls a conversion run.
type RunOptions struct {
	// RunDate is written as the received date of every subaward.
	RunDate time.Time
	// SummaryPath, when set, receives the JSON run summary.
	SummaryPath string
	// WorkbookPath, when set, receives the XLSX audit workbook.
	WorkbookPath string
	// RunID tags the diagnostics markers. A random UUID is used when empty.
	RunID string
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Outcome is what a successful run produced.
type Outcome struct {
	RunID   string
	Result  *engine.Result
	Summary report.Summary
}

// Convert loads every input, runs the engine and, only once it succeeded,
// truncates and writes the four output streams, appends the diagnostics to
// the log file and writes the optional reports. A fatal error returns before
// any file is created.
func Convert(ctx context.Context, c *container.Container, opts RunOptions) (*Outcome, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := c.GetLogger().WithField(logging.FieldRunID, runID)

	started := now()
	log.Info("Conversion started", logging.F("run_date", dateutils.FormatUS(opts.RunDate)))

	in, err := c.LoadInputs()
	if err != nil {
		log.WithError(err).Error("Failed to load inputs")
		return nil, err
	}

	eng, err := c.NewEngine(opts.RunDate)
	if err != nil {
		return nil, err
	}

	res, err := eng.Run(ctx, in)
	if err != nil {
		log.WithError(err).Error("Conversion failed")
		return nil, err
	}

	if err := c.WriteOutputs(res); err != nil {
		return nil, fmt.Errorf("writing outputs: %w", err)
	}

	finished := now()
	if err := appendDiagnostics(c, res, runID, started, finished); err != nil {
		return nil, err
	}

	out := &Outcome{
		RunID:  runID,
		Result: res,
		Summary: report.Summary{
			RunID:      runID,
			RunDate:    dateutils.FormatUS(opts.RunDate),
			StartedAt:  started,
			FinishedAt: finished,
			Stats:      res.Stats,
		},
	}

	reports := []struct {
		path   string
		format string
	}{
		{opts.SummaryPath, report.FormatJSON},
		{opts.WorkbookPath, report.FormatXLSX},
	}
	for _, r := range reports {
		if r.path == "" {
			continue
		}
		data, err := c.GetReportGenerator().GenerateReport(out.Summary, res.Diagnostics.Entries(), r.format)
		if err != nil {
			return nil, err
		}
		if err := fileutils.WriteFile(r.path, data, models.PermissionReportFile); err != nil {
			return nil, fmt.Errorf("writing %s report: %w", r.format, err)
		}
		log.Info("Wrote report", logging.F(logging.FieldOutputFile, r.path))
	}

	LogSummary(log, res.Stats)
	log.Info("Conversion completed", logging.F(logging.FieldDuration, finished.Sub(started).Milliseconds()))
	return out, nil
}

func appendDiagnostics(c *container.Container, res *engine.Result, runID string, started, finished time.Time) error {
	_, logPath := c.OutputPaths()
	f, err := fileutils.AppendFile(logPath)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	if err := res.Diagnostics.Flush(f, runID, started, finished); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

// LogSummary logs the run counts at info level.
func LogSummary(log logging.Logger, st engine.Stats) {
	log.Info("Run summary",
		logging.F("subawards_read", st.SubawardsRead),
		logging.F("invoices_read", st.InvoicesRead),
		logging.F("removed_by_range", st.RemovedByRange),
		logging.F("period_starts_repaired", st.PeriodStartsRepaired),
		logging.F("dropped_no_periods", st.DroppedNoPeriods),
		logging.F("inactive", st.Inactive),
		logging.F("selection_mode", st.SelectionMode),
		logging.F("removed_by_selection", st.RemovedBySelection),
		logging.F("dropped_no_budget", st.DroppedNoBudget),
		logging.F("zero_total_invoices", st.ZeroTotalInvoices),
		logging.F("correction_lines", st.CorrectionLines))
	log.Info("Output records created",
		logging.F("subs", st.SubawardRows),
		logging.F("subs_details", st.BudgetLines),
		logging.F("invs", st.InvoiceRows),
		logging.F("invs_details", st.CostLines))
}

// CheckResult counts what a check run read.
type CheckResult struct {
	Subawards int
	Invoices  int
}

// Check reads and validates every input without converting or writing anything.
func Check(c *container.Container) (CheckResult, error) {
	in, err := c.LoadInputs()
	if err != nil {
		return CheckResult{}, err
	}
	if _, err := c.EngineOptions(time.Time{}); err != nil {
		return CheckResult{}, err
	}
	res := CheckResult{Subawards: len(in.Subawards), Invoices: len(in.Invoices)}
	c.GetLogger().Info("Inputs are valid",
		logging.F("subawards", res.Subawards),
		logging.F("invoices", res.Invoices))
	return res, nil
}
