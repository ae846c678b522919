// Package fileutils provides the file operations at the edge of a run:
// opening and decoding inputs, creating outputs and appending to the log.
package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/osp-migrate/internal/models"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Supported input encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// WriteFile writes data to a file, creating any parent directories if needed
func WriteFile(filePath string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// OpenFile opens a file for reading, returning an error if the file doesn't exist
func OpenFile(filePath string) (*os.File, error) {
	if !FileExists(filePath) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	file, err := os.Open(filePath) // #nosec G304 -- input paths come from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// CreateFile creates or truncates a file for writing
func CreateFile(filePath string) (*os.File, error) {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return nil, err
	}

	file, err := os.Create(filePath) // #nosec G304 -- output paths come from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// AppendFile opens a file for appending, creating it if needed.
func AppendFile(filePath string) (*os.File, error) {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, models.PermissionReportFile) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open file for append: %w", err)
	}
	return file, nil
}

// NewDecodingReader wraps r so that it yields UTF-8 text.
func NewDecodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8:
		return r, nil
	case EncodingWindows1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported input encoding: %s", encoding)
	}
}

// decodedFile closes the underlying file of a decoding reader.
type decodedFile struct {
	io.Reader
	file *os.File
}

func (d decodedFile) Close() error { return d.file.Close() }

// OpenInput opens an input file and decodes it from encoding.
func OpenInput(filePath, encoding string) (io.ReadCloser, error) {
	file, err := OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	r, err := NewDecodingReader(file, encoding)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return decodedFile{Reader: r, file: file}, nil
}
