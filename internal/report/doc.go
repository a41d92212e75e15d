// Package report parses RPT files (plain-text tabular dumps from database
// query exports) into in-memory tables.
//
// Two extractors are provided:
//
// ExtractOrderPayments: handles the one known order-payments dump whose rows
// follow a rigid seven-column token layout. Rows are recovered by a single
// pattern match over the whole document, then the trailing tokens are
// regrouped into the two timestamp columns.
//
// ExtractGeneric: handles any tabular dump with a header line, a dash
// separator, a data block, and a trailing "(N rows affected)" summary.
// Columns are delimited by runs of two or more whitespace characters, since
// individual values may contain single spaces.
//
// Which extractor runs is decided up front by DetectFormat, a pure function
// of the input's file name. Callers select the format once and pass it to
// Extract; the extractors never re-dispatch.
//
// Example:
//
//	content, _ := os.ReadFile("orders.rpt")
//	table, err := report.Extract(string(content), report.DetectFormat("orders.rpt"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Each call is stateless and isolated: parsing the same content twice yields
// identical tables, and nothing is shared between conversions.
package report
