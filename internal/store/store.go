// Package store provides the chart of accounts used to post budget and
// invoice lines, with an optional YAML override file.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultBudgetDiffCode is the GL code of the SAP reconciliation line.
const DefaultBudgetDiffCode = "099650"

// ChartLoader is implemented by anything able to provide a chart of accounts.
type ChartLoader interface {
	LoadChart() (models.ChartOfAccounts, error)
}

// DefaultChart returns the chart of accounts of the SAP migration.
func DefaultChart() models.ChartOfAccounts {
	return models.ChartOfAccounts{
		Accounts: map[models.BudgetCategory]models.GLAccount{
			models.Salary:     {Plan: "693541", Below: "691641", Above: "697141"},
			models.Fringe:     {Plan: "693542", Below: "691642", Above: "697142"},
			models.Supplies:   {Plan: "693545", Below: "691645", Above: "697145"},
			models.Travel:     {Plan: "693550", Below: "691650", Above: "697150"},
			models.Consulting: {Plan: "693543", Below: "691643", Above: "697143"},
			models.ODC:        {Plan: "693548", Below: "691648", Above: "697148"},
			models.IDC:        {Plan: "693558", Below: "691658", Above: "697158"},
			models.Equipment:  {Plan: "693547", Below: "691647", Above: "697147"},
			models.Misc:       {Plan: "693559", Below: "691659", Above: "697159"},
		},
		BudgetDiff: DefaultBudgetDiffCode,
	}
}

// chartFile is the YAML layout of a chart override:
//
//	budget_diff: "099650"
//	accounts:
//	  supplies: {plan: "693545", below: "691645", above: "697145"}
//
// Categories not listed keep their default codes; listed codes replace only
// the non-empty fields given.
type chartFile struct {
	BudgetDiff string                      `yaml:"budget_diff"`
	Accounts   map[string]models.GLAccount `yaml:"accounts"`
}

// ChartStore loads the chart of accounts.
type ChartStore struct {
	ChartFile string
	logger    logging.Logger
}

// NewChartStore creates a store reading overrides from chartFile ("" for defaults only).
func NewChartStore(chartFile string, logger logging.Logger) *ChartStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ChartStore{ChartFile: chartFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *ChartStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "osp-migrate", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadChart returns the default chart merged with the override file, if any.
// A configured override that cannot be found is an error.
func (s *ChartStore) LoadChart() (models.ChartOfAccounts, error) {
	chart := DefaultChart()
	if s.ChartFile == "" {
		return chart, nil
	}

	filePath, err := s.FindConfigFile(s.ChartFile)
	if err != nil {
		return models.ChartOfAccounts{}, fmt.Errorf("chart of accounts file %s: %w", s.ChartFile, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.ChartOfAccounts{}, fmt.Errorf("error reading chart of accounts file: %w", err)
	}

	var override chartFile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return models.ChartOfAccounts{}, fmt.Errorf("error parsing chart of accounts file %s: %w", filePath, err)
	}

	if err := merge(&chart, override); err != nil {
		return models.ChartOfAccounts{}, fmt.Errorf("chart of accounts file %s: %w", filePath, err)
	}
	if err := chart.Validate(); err != nil {
		return models.ChartOfAccounts{}, err
	}

	s.logger.Info("Loaded chart of accounts override",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(override.Accounts)))
	return chart, nil
}

func merge(chart *models.ChartOfAccounts, override chartFile) error {
	if override.BudgetDiff != "" {
		chart.BudgetDiff = override.BudgetDiff
	}
	for name, acct := range override.Accounts {
		cat, err := models.ParseCategory(name)
		if err != nil {
			return err
		}
		current := chart.Accounts[cat]
		if acct.Plan != "" {
			current.Plan = acct.Plan
		}
		if acct.Below != "" {
			current.Below = acct.Below
		}
		if acct.Above != "" {
			current.Above = acct.Above
		}
		chart.Accounts[cat] = current
	}
	return nil
}
