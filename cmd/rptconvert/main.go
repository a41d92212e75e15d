// rptconvert converts RPT report files to spreadsheet workbooks.
//
// Usage:
//
//	rptconvert [flags] file.rpt [file2.rpt ...]
//	rptconvert -all
//
// Dropped files are staged into the rpt/ folder next to the executable and
// the converted workbooks land in excel/.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"rptcli/internal/config"
	"rptcli/internal/exporter"
	"rptcli/internal/files"
	"rptcli/internal/infrastructure"
	"rptcli/internal/report"
)

func main() {
	inDir := flag.String("in", "", "input directory for .rpt files (defaults to rpt/ relative to executable)")
	outDir := flag.String("out", "", "output directory for workbooks (defaults to excel/ relative to executable)")
	all := flag.Bool("all", false, "convert every .rpt file in the input directory")
	format := flag.String("format", "xlsx", "output format: xlsx or csv")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	// Flag values become part of Paths, so resolve them up front: staging
	// and discovery both assume the configured directories are absolute.
	if *inDir != "" {
		if paths.InputDir, err = filepath.Abs(*inDir); err != nil {
			slog.Error("Failed to resolve input directory", "error", err)
			os.Exit(1)
		}
	}
	if *outDir != "" {
		if paths.OutputDir, err = filepath.Abs(*outDir); err != nil {
			slog.Error("Failed to resolve output directory", "error", err)
			os.Exit(1)
		}
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create working directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "both",
				FilePath: paths.GetLogPath("rptconvert.log"),
			},
			Convert: config.ConvertConfig{Workers: 4, SheetName: exporter.DefaultSheetName},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *format != "xlsx" && *format != "csv" {
		logger.Error("Unsupported output format", slog.String("format", *format))
		os.Exit(1)
	}

	inputs, err := collectInputs(paths, *all, flag.Args())
	if err != nil {
		logger.Error("Failed to collect inputs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: rptconvert [flags] <file.rpt> [...]")
		fmt.Fprintln(os.Stderr, "   or: rptconvert -all   (convert everything in the rpt folder)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger.Info("Starting RPT conversion",
		slog.Int("files", len(inputs)),
		slog.String("format", *format),
		slog.String("input_dir", paths.InputDir),
		slog.String("output_dir", paths.OutputDir))

	conv := &converter{
		paths:   paths,
		manager: files.NewManager(paths),
		excel:   exporter.NewExcelWriter(paths, cfg.Convert.SheetName),
		csv:     exporter.NewCSVWriter(paths),
		format:  *format,
		logger:  logger,
	}

	// A failed file is logged and skipped; the batch keeps going. Each
	// conversion is fully independent.
	var failures atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(cfg.Convert.Workers)
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			if err := conv.convertFile(input); err != nil {
				logger.Error("Conversion failed",
					slog.String("file", input),
					slog.String("error", err.Error()))
				failures.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	succeeded := int64(len(inputs)) - failures.Load()
	logger.Info("Conversion run complete",
		slog.Int64("succeeded", succeeded),
		slog.Int64("failed", failures.Load()))

	if succeeded == 0 {
		os.Exit(1)
	}
}

// collectInputs resolves the file list: explicit arguments, or everything in
// the input folder when -all is set.
func collectInputs(paths *config.Paths, all bool, args []string) ([]string, error) {
	if !all {
		return args, nil
	}

	discovered, err := files.NewDiscovery(paths.BaseDir).FindReportFiles(paths.InputDir)
	if err != nil {
		return nil, err
	}

	inputs := make([]string, 0, len(discovered))
	for _, f := range discovered {
		inputs = append(inputs, f.Path)
	}
	return inputs, nil
}

// converter holds the collaborators one conversion needs.
type converter struct {
	paths   *config.Paths
	manager *files.Manager
	excel   *exporter.ExcelWriter
	csv     *exporter.CSVWriter
	format  string
	logger  *slog.Logger
}

// convertFile runs one conversion end to end: stage, read, detect, extract,
// render.
func (c *converter) convertFile(input string) error {
	if !files.IsReportFile(input) {
		return fmt.Errorf("not an RPT file: %s", input)
	}
	if !files.FileExists(input) {
		return fmt.Errorf("file not found: %s", input)
	}

	staged, err := c.manager.Stage(input)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", staged, err)
	}

	detected := report.DetectFormat(staged)
	table, err := report.Extract(string(content), detected)
	if err != nil {
		return err
	}

	outName := files.OutputName(staged, c.format)
	if c.format == "csv" {
		err = c.csv.Write(outName, table)
	} else {
		err = c.excel.Write(outName, table)
	}
	if err != nil {
		return err
	}

	c.logger.Info("Converted",
		slog.String("input", staged),
		slog.String("output", c.paths.GetOutputPath(outName)),
		slog.String("report_format", detected.String()),
		slog.Int("rows", len(table.Rows)))

	return nil
}
