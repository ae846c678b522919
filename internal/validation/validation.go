// Package validation checks the run environment before anything is read or written.
package validation

import (
	"fmt"
	"os"

	"fjacquet/osp-migrate/internal/config"
	"fjacquet/osp-migrate/internal/parsererror"
)

// Input names.
const (
	InputSubawards   = "subawards"
	InputInvoices    = "invoices"
	InputZFR1D       = "zfr1d"
	InputCountries   = "countries"
	InputBudgetDiffs = "budget_diffs"
	InputInclude     = "include"
	InputExclude     = "exclude"
)

// Input is one input stream of a run.
type Input struct {
	Name     string
	Path     string
	Required bool
}

// Inputs lists the input streams configured in cfg. The selection lists are optional.
func Inputs(cfg *config.Config) []Input {
	return []Input{
		{Name: InputSubawards, Path: cfg.InputPath(cfg.Input.Subawards), Required: true},
		{Name: InputInvoices, Path: cfg.InputPath(cfg.Input.Invoices), Required: true},
		{Name: InputZFR1D, Path: cfg.InputPath(cfg.Input.ZFR1D), Required: true},
		{Name: InputCountries, Path: cfg.InputPath(cfg.Input.Countries), Required: true},
		{Name: InputBudgetDiffs, Path: cfg.InputPath(cfg.Input.BudgetDiffs), Required: true},
		{Name: InputInclude, Path: cfg.InputPath(cfg.Input.Include)},
		{Name: InputExclude, Path: cfg.InputPath(cfg.Input.Exclude)},
	}
}

// CheckInputs returns a *parsererror.MissingInputError for the first required
// input that is not a readable regular file.
func CheckInputs(inputs []Input) error {
	for _, in := range inputs {
		if !in.Required {
			continue
		}
		if err := IsRegularFile(in.Path); err != nil {
			return &parsererror.MissingInputError{Name: in.Name, FilePath: in.Path}
		}
	}
	return nil
}

// IsRegularFile checks that path exists and is a regular file.
func IsRegularFile(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidOutputDir checks that dir is a directory or does not exist yet.
func IsValidOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", dir)
	}
	return nil
}
