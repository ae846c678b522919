// Package container provides dependency injection for the osp-migrate application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"io"
	"os"
	"time"

	"fjacquet/osp-migrate/internal/common"
	"fjacquet/osp-migrate/internal/config"
	"fjacquet/osp-migrate/internal/engine"
	"fjacquet/osp-migrate/internal/fileutils"
	"fjacquet/osp-migrate/internal/logging"
	"fjacquet/osp-migrate/internal/parser"
	"fjacquet/osp-migrate/internal/refdata"
	"fjacquet/osp-migrate/internal/report"
	"fjacquet/osp-migrate/internal/store"
	"fjacquet/osp-migrate/internal/validation"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; dependencies are reached through
// getter methods.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	parser  *parser.RecordParser
	chart   store.ChartLoader
	writer  *common.StreamWriter
	reports *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies with a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	c := &Container{
		logger:  logger,
		config:  cfg,
		parser:  parser.NewRecordParser(logger, cfg.Delimiter()),
		chart:   store.NewChartStore(cfg.Rules.ChartFile, logger),
		writer:  common.NewStreamWriter(logger),
		reports: report.NewReportGenerator(logger),
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldDelimiter, cfg.Delimiter()),
		logging.F(logging.FieldEncoding, cfg.Input.Encoding))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetParser returns the record parser.
func (c *Container) GetParser() *parser.RecordParser { return c.parser }

// GetChartStore returns the chart-of-accounts loader.
func (c *Container) GetChartStore() store.ChartLoader { return c.chart }

// GetStreamWriter returns the output stream writer.
func (c *Container) GetStreamWriter() *common.StreamWriter { return c.writer }

// GetReportGenerator returns the run report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator { return c.reports }

// WithChartStore returns a copy of the container using chart.
func (c *Container) WithChartStore(chart store.ChartLoader) *Container {
	cp := *c
	cp.chart = chart
	return &cp
}

// LoadInputs checks the required inputs and reads every stream. Missing
// optional selection lists stay nil.
func (c *Container) LoadInputs() (engine.Inputs, error) {
	inputs := validation.Inputs(c.config)
	if err := validation.CheckInputs(inputs); err != nil {
		return engine.Inputs{}, err
	}

	paths := make(map[string]string, len(inputs))
	for _, in := range inputs {
		paths[in.Name] = in.Path
	}

	var in engine.Inputs
	steps := []struct {
		name string
		read func(io.Reader) error
	}{
		{validation.InputSubawards, func(r io.Reader) (err error) {
			in.Subawards, err = c.parser.ParseSubawards(r)
			return err
		}},
		{validation.InputInvoices, func(r io.Reader) (err error) {
			in.Invoices, err = c.parser.ParseInvoices(r)
			return err
		}},
		{validation.InputZFR1D, func(r io.Reader) (err error) {
			in.Reference.ZFR1D, err = refdata.LoadWBSESet(r)
			return err
		}},
		{validation.InputCountries, func(r io.Reader) (err error) {
			in.Reference.Countries, err = refdata.LoadCountries(r, paths[validation.InputCountries])
			return err
		}},
		{validation.InputBudgetDiffs, func(r io.Reader) (err error) {
			in.Reference.BudgetDiffs, err = refdata.LoadBudgetDiffs(r, paths[validation.InputBudgetDiffs])
			return err
		}},
		{validation.InputInclude, func(r io.Reader) (err error) {
			in.Reference.Include, err = refdata.LoadWBSESet(r)
			return err
		}},
		{validation.InputExclude, func(r io.Reader) (err error) {
			in.Reference.Exclude, err = refdata.LoadWBSESet(r)
			return err
		}},
	}

	for _, step := range steps {
		path := paths[step.name]
		if path == "" || !fileutils.FileExists(path) {
			continue
		}
		if err := c.readInput(path, step.read); err != nil {
			return engine.Inputs{}, fmt.Errorf("reading %s: %w", step.name, err)
		}
		c.logger.Debug("Loaded input",
			logging.F(logging.FieldInputFile, path),
			logging.F(logging.FieldStream, step.name))
	}

	return in, nil
}

func (c *Container) readInput(path string, read func(io.Reader) error) error {
	rc, err := fileutils.OpenInput(path, c.config.Input.Encoding)
	if err != nil {
		return err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close input", logging.F(logging.FieldInputFile, path))
		}
	}()
	return read(rc)
}

// EngineOptions builds the business rules of a run from the configuration.
func (c *Container) EngineOptions(runDate time.Time) (engine.Options, error) {
	chart, err := c.chart.LoadChart()
	if err != nil {
		return engine.Options{}, fmt.Errorf("loading chart of accounts: %w", err)
	}
	cutoff, err := c.config.ActivityCutoff()
	if err != nil {
		return engine.Options{}, fmt.Errorf("activity cutoff: %w", err)
	}
	window, err := c.config.DateWindow()
	if err != nil {
		return engine.Options{}, fmt.Errorf("date window: %w", err)
	}
	return engine.Options{
		Chart:          chart,
		FiscalYear:     c.config.Rules.FiscalYear,
		ActivityCutoff: cutoff,
		Window:         window,
		RunDate:        runDate,
		IncludeState:   c.config.Output.IncludeState,
		DropZeroTotal:  c.config.Invoices.DropZeroTotal,
	}, nil
}

// NewEngine returns an engine configured for a run on runDate.
func (c *Container) NewEngine(runDate time.Time) (*engine.Engine, error) {
	opts, err := c.EngineOptions(runDate)
	if err != nil {
		return nil, err
	}
	return engine.New(opts, c.logger), nil
}

// OutputPaths returns the four stream paths and the log path.
func (c *Container) OutputPaths() (streams [4]string, log string) {
	o := c.config.Output
	return [4]string{
		c.config.OutputPath(o.Subawards),
		c.config.OutputPath(o.SubawardDetails),
		c.config.OutputPath(o.Invoices),
		c.config.OutputPath(o.InvoiceDetails),
	}, c.config.OutputPath(o.Log)
}

// WriteOutputs creates (truncating) the four stream files and writes res.
func (c *Container) WriteOutputs(res *engine.Result) error {
	if err := validation.IsValidOutputDir(c.config.Output.Dir); err != nil {
		return err
	}

	paths, _ := c.OutputPaths()
	files := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range files {
			if err := f.Close(); err != nil {
				c.logger.WithError(err).Warn("Failed to close output", logging.F(logging.FieldOutputFile, f.Name()))
			}
		}
	}()

	for _, p := range paths {
		f, err := fileutils.CreateFile(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	return c.writer.Write(res, common.Streams{
		Subawards:       files[0],
		SubawardDetails: files[1],
		Invoices:        files[2],
		InvoiceDetails:  files[3],
	})
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
