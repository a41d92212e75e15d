// Package exporter renders extracted report tables to spreadsheet files.
//
// ExcelWriter: xlsx output with bold headers, content-sized columns, and a
// filter toggle on the header row.
//
// CSVWriter: CSV output with a UTF-8 BOM so Excel recognizes the encoding.
//
// Both writers accept an immutable report.Table and either save to a path
// resolved against the configured output folder or stream to an io.Writer.
// Workbook resources are released on all exit paths, including write
// failure.
package exporter
