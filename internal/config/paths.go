package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the application's working directories. This is the single
// source of truth for file locations: inputs are staged into InputDir,
// workbooks land in OutputDir.
type Paths struct {
	BaseDir   string
	InputDir  string
	OutputDir string
	LogsDir   string
}

// Working folder names, created next to the executable on demand.
const (
	inputDirName  = "rpt"
	outputDirName = "excel"
	logsDirName   = "logs"
)

// GetPaths returns the application paths relative to the executable
// location, never the current working directory, so the tool behaves the
// same when a file is dropped onto it from anywhere.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths builds the path set under an explicit base directory.
func NewPaths(baseDir string) *Paths {
	return &Paths{
		BaseDir:   baseDir,
		InputDir:  filepath.Join(baseDir, inputDirName),
		OutputDir: filepath.Join(baseDir, outputDirName),
		LogsDir:   filepath.Join(baseDir, logsDirName),
	}
}

// EnsureDirectories creates all working directories that do not exist yet.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.InputDir, p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetInputPath returns the full path of a file in the input folder.
func (p *Paths) GetInputPath(filename string) string {
	return filepath.Join(p.InputDir, filename)
}

// GetOutputPath returns the full path of a file in the output folder.
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the full path of a file in the logs folder.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
