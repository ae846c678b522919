package fileutils_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/osp-migrate/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestCreateFile_TruncatesAndCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "output_subs.txt")

	f, err := fileutils.CreateFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("first run, longer content\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = fileutils.CreateFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestAppendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	for _, line := range []string{"one\n", "two\n"} {
		f, err := fileutils.AppendFile(path)
		require.NoError(t, err)
		_, err = f.WriteString(line)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestOpenFile_Missing(t *testing.T) {
	_, err := fileutils.OpenFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestNewDecodingReader(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		input    []byte
		want     string
		wantErr  bool
	}{
		{"default is utf-8", "", []byte("Zürich"), "Zürich", false},
		{"utf-8", "UTF-8", []byte("Zürich"), "Zürich", false},
		{"windows-1252", "windows-1252", []byte{'Z', 0xFC, 'r', 'i', 'c', 'h', ' ', 0x80}, "Zürich €", false},
		{"unknown", "latin-9", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := fileutils.NewDecodingReader(strings.NewReader(string(tt.input)), tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestOpenInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input_subs.txt")
	require.NoError(t, os.WriteFile(path, []byte{'C', 'a', 'f', 0xE9}, 0600))

	rc, err := fileutils.OpenInput(path, fileutils.EncodingWindows1252)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Café", string(data))
}
