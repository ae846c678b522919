// Package convert handles the conversion command
package convert

import (
	"fmt"
	"time"

	"fjacquet/osp-migrate/cmd/common"
	"fjacquet/osp-migrate/cmd/root"
	"fjacquet/osp-migrate/internal/dateutils"
	"fjacquet/osp-migrate/internal/logging"

	"github.com/spf13/cobra"
)

// Flags of the convert command.
type Flags struct {
	RunDate  string
	Summary  string
	Workbook string
	RunID    string
}

var flags Flags

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the legacy exports into the SAP load files",
	Long: `Convert reads every input file, filters and reconciles the subawards,
derives their budget lines, posts the invoices against the GL break and
writes the four output files. Diagnostics are appended to the log file.

Nothing is written when an input is missing or malformed.`,
	RunE: convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&flags.RunDate, "run-date", "", "Received date written on every subaward, MM/DD/YYYY (default today)")
	Cmd.Flags().StringVar(&flags.Summary, "summary", "", "Write the run summary as JSON to this file")
	Cmd.Flags().StringVar(&flags.Workbook, "workbook", "", "Write the XLSX audit workbook to this file")
	Cmd.Flags().StringVar(&flags.RunID, "run-id", "", "Run id written in the log markers (default a random UUID)")
}

func convertFunc(cmd *cobra.Command, args []string) error {
	if root.AppContainer == nil {
		return fmt.Errorf("application is not initialized")
	}

	opts, err := Options(flags, time.Now)
	if err != nil {
		return err
	}

	out, err := common.Convert(cmd.Context(), root.AppContainer, opts)
	if err != nil {
		return err
	}

	root.Log.Info("SAP migration files written", logging.F(logging.FieldRunID, out.RunID))
	return nil
}

// Options turns the command flags into run options. An empty run date is
// today in local time.
func Options(f Flags, now func() time.Time) (common.RunOptions, error) {
	opts := common.RunOptions{
		SummaryPath:  f.Summary,
		WorkbookPath: f.Workbook,
		RunID:        f.RunID,
	}
	if f.RunDate == "" {
		t := now()
		opts.RunDate = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return opts, nil
	}
	date, err := dateutils.ParseUS(f.RunDate)
	if err != nil {
		return common.RunOptions{}, fmt.Errorf("invalid --run-date %q, expected MM/DD/YYYY: %w", f.RunDate, err)
	}
	opts.RunDate = date
	return opts, nil
}
