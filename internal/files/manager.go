package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rptcli/internal/config"
)

// Manager provides staging and naming operations around the working
// folders.
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// Stage copies an input file into the input folder and returns the staged
// path. A file already inside the input folder is used in place: both sides
// of that check are resolved to absolute paths, and the copy is refused
// outright when source and destination are the same file, since CopyFile
// truncates the destination before reading.
func (m *Manager) Stage(src string) (string, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", fmt.Errorf("failed to resolve input path: %w", err)
	}

	inputDir, err := filepath.Abs(m.paths.InputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve input directory: %w", err)
	}

	dst := filepath.Join(inputDir, filepath.Base(absSrc))
	if filepath.Dir(absSrc) == inputDir || sameFile(absSrc, dst) {
		return absSrc, nil
	}

	if err := CopyFile(absSrc, dst); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", src, err)
	}

	slog.Info("staged input file",
		slog.String("src", absSrc),
		slog.String("dst", dst))

	return dst, nil
}

// OutputName derives the output file name for an input path by swapping its
// extension, e.g. "orders.rpt" with ext "xlsx" becomes "orders.xlsx".
func OutputName(inputPath, ext string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + ext
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// sameFile reports whether two paths name the same existing file, e.g.
// through a symlinked directory.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// CopyFile copies a file from source to destination, creating the
// destination directory when needed.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return dstFile.Sync()
}
