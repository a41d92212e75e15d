package report

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	// lineBreakRe splits on any of the three line-ending conventions.
	lineBreakRe = regexp.MustCompile(`\r\n|\r|\n`)

	// fieldSplitRe is the whitespace-run column delimiter: two or more
	// whitespace characters end a field, so values may contain single
	// spaces.
	fieldSplitRe = regexp.MustCompile(`\s{2,}`)

	// rowsAffectedRe matches the summary line that terminates the data
	// section, e.g. "(12 rows affected)".
	rowsAffectedRe = regexp.MustCompile(`^\(\d+ rows? affected\)$`)
)

// ExtractGeneric parses a tabular RPT dump: a header line, a dash separator,
// data rows, and a trailing row-count summary. It returns a *ParseError when
// no header line or no columns can be recovered; a valid header with zero
// data rows is not an error.
func ExtractGeneric(content string) (*Table, error) {
	content = strings.TrimPrefix(content, "\uFEFF")
	lines := splitLines(content)

	headerIdx := findHeaderLine(lines)
	if headerIdx < 0 {
		return nil, &ParseError{Reason: "no header found"}
	}

	columns := splitFields(lines[headerIdx])
	if len(columns) == 0 {
		return nil, &ParseError{Reason: "no columns extracted"}
	}

	slog.Info("header located",
		slog.Int("line", headerIdx),
		slog.Int("columns", len(columns)))

	table := &Table{Columns: columns}

	inData := false
	for _, line := range lines[headerIdx+1:] {
		trimmed := strings.TrimSpace(line)

		if !inData {
			// Lines between the header and the dash separator are skipped.
			if isSeparatorLine(trimmed) {
				inData = true
			}
			continue
		}

		if rowsAffectedRe.MatchString(trimmed) {
			break
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "Completion time:") {
			continue
		}

		table.Rows = append(table.Rows, extractRow(trimmed, len(columns)))
	}

	slog.Info("generic extraction complete",
		slog.Int("columns", len(columns)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// splitLines splits report content on \r\n, \r, or \n.
func splitLines(content string) []string {
	return lineBreakRe.Split(content, -1)
}

// findHeaderLine returns the index of the first line with at least two
// whitespace-separated tokens that is not a dash separator, or -1.
func findHeaderLine(lines []string) int {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isSeparatorLine(trimmed) {
			continue
		}
		if len(strings.Fields(trimmed)) >= 2 {
			return i
		}
	}
	return -1
}

// isSeparatorLine reports whether a trimmed line is the dash rule under the
// header: nothing but dashes and whitespace, with at least one run of two.
func isSeparatorLine(trimmed string) bool {
	if !strings.Contains(trimmed, "--") {
		return false
	}
	return strings.Trim(trimmed, "- \t") == ""
}

// splitFields splits a line on whitespace runs, trims each piece, and drops
// empties.
func splitFields(line string) []string {
	var fields []string
	for _, piece := range fieldSplitRe.Split(line, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			fields = append(fields, piece)
		}
	}
	return fields
}

// extractRow splits one data line into exactly width fields: short rows are
// right-padded with empty strings, extra values are dropped, and a value of
// exactly NULL is blanked the way the source renders SQL NULLs.
func extractRow(trimmed string, width int) []string {
	raw := fieldSplitRe.Split(trimmed, -1)

	row := make([]string, width)
	for i := 0; i < width && i < len(raw); i++ {
		value := strings.TrimSpace(raw[i])
		if value == "NULL" {
			value = ""
		}
		row[i] = value
	}
	return row
}
