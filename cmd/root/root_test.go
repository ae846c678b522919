package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/osp-migrate/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "osp-migrate", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "SAP migration files")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestInit_Flags(t *testing.T) {
	if root.Cmd.PersistentFlags().Lookup("config") == nil {
		root.Init()
	}

	tests := []struct {
		name      string
		shorthand string
	}{
		{"config", "c"},
		{"log-level", ""},
		{"log-format", ""},
		{"input-dir", "i"},
		{"output-dir", "o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log:
  level: warn
input:
  dir: /data/in
  encoding: windows-1252
rules:
  fiscal_year: 2018
`)

	tests := []struct {
		name       string
		flags      root.CommonFlags
		wantLevel  string
		wantFormat string
		wantIn     string
		wantOut    string
	}{
		{
			name:       "file values",
			flags:      root.CommonFlags{ConfigFile: path},
			wantLevel:  "warn",
			wantFormat: "text",
			wantIn:     "/data/in",
			wantOut:    ".",
		},
		{
			name: "flags override the file",
			flags: root.CommonFlags{
				ConfigFile: path,
				LogLevel:   "debug",
				LogFormat:  "json",
				InputDir:   "/tmp/in",
				OutputDir:  "/tmp/out",
			},
			wantLevel:  "debug",
			wantFormat: "json",
			wantIn:     "/tmp/in",
			wantOut:    "/tmp/out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := root.LoadConfig(tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, cfg.Log.Level)
			assert.Equal(t, tt.wantFormat, cfg.Log.Format)
			assert.Equal(t, tt.wantIn, cfg.Input.Dir)
			assert.Equal(t, tt.wantOut, cfg.Output.Dir)
			assert.Equal(t, "windows-1252", cfg.Input.Encoding)
			assert.Equal(t, 2018, cfg.Rules.FiscalYear)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	valid := writeConfig(t, "log:\n  level: info\n")

	tests := []struct {
		name     string
		flags    root.CommonFlags
		errorMsg string
	}{
		{"missing explicit file", root.CommonFlags{ConfigFile: filepath.Join(t.TempDir(), "none.yaml")}, "failed to read config file"},
		{"bad level flag", root.CommonFlags{ConfigFile: valid, LogLevel: "loud"}, "invalid log level"},
		{"bad format flag", root.CommonFlags{ConfigFile: valid, LogFormat: "xml"}, "invalid log format"},
		{"bad file value", root.CommonFlags{ConfigFile: writeConfig(t, "input:\n  delimiter: '||'\n")}, "single character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := root.LoadConfig(tt.flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestRootCommand_PersistentPreRunE(t *testing.T) {
	original := root.SharedFlags
	originalContainer := root.AppContainer
	defer func() {
		root.SharedFlags = original
		root.AppContainer = originalContainer
	}()

	root.SharedFlags = root.CommonFlags{ConfigFile: writeConfig(t, "log:\n  level: error\n")}
	require.NoError(t, root.Cmd.PersistentPreRunE(&cobra.Command{Use: "check"}, nil))

	require.NotNil(t, root.AppContainer)
	assert.Equal(t, "error", root.AppContainer.GetConfig().Log.Level)
	assert.NotPanics(t, func() {
		root.Cmd.PersistentPostRun(&cobra.Command{}, nil)
	})
}
