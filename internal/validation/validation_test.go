package validation_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/osp-migrate/internal/config"
	"fjacquet/osp-migrate/internal/parsererror"
	"fjacquet/osp-migrate/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte{}, 0600))
}

func testConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Input.Dir = dir
	cfg.Input.Subawards = "input_subs.txt"
	cfg.Input.Invoices = "input_invs.txt"
	cfg.Input.ZFR1D = "input_zfr1d.txt"
	cfg.Input.Countries = "input_subs_countries.txt"
	cfg.Input.BudgetDiffs = "input_budget_diffs.txt"
	cfg.Input.Include = "subs_include.txt"
	cfg.Input.Exclude = "subs_exclude.txt"
	return cfg
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	inputs := validation.Inputs(cfg)
	require.Len(t, inputs, 7)

	err := validation.CheckInputs(inputs)
	var missing *parsererror.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, validation.InputSubawards, missing.Name)
	assert.Equal(t, filepath.Join(dir, "input_subs.txt"), missing.FilePath)

	for _, in := range inputs {
		if in.Required {
			touch(t, in.Path)
		}
	}
	assert.NoError(t, validation.CheckInputs(inputs), "selection lists are optional")
}

func TestCheckInputs_ReportsFirstMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	touch(t, filepath.Join(dir, "input_subs.txt"))
	touch(t, filepath.Join(dir, "input_invs.txt"))

	err := validation.CheckInputs(validation.Inputs(cfg))

	var missing *parsererror.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, validation.InputZFR1D, missing.Name)
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.txt")
	touch(t, file)

	tests := []struct {
		name        string
		path        string
		expectError bool
	}{
		{"regular file", file, false},
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "missing.txt"), true},
		{"empty path", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsRegularFile(tt.path)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidOutputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	touch(t, file)

	assert.NoError(t, validation.IsValidOutputDir(dir))
	assert.NoError(t, validation.IsValidOutputDir(filepath.Join(dir, "not-yet")))
	assert.Error(t, validation.IsValidOutputDir(file))
}
