package report

import "fmt"

// Table pairs an ordered column schema with extracted rows. Column identity
// is positional; duplicate names are legal. Every row has exactly
// len(Columns) fields.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ParseError reports a structural failure to recover a schema from a report.
// It is fatal for the conversion; there is no partial-result recovery.
type ParseError struct {
	Reason string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("rpt parse failed: %s", e.Reason)
}
