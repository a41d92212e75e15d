package report

import (
	"log/slog"
	"regexp"
	"strings"
)

// OrderPaymentsColumns is the fixed schema of the order-payments report.
var OrderPaymentsColumns = []string{
	"OrderCode",
	"CompanyId",
	"Amount",
	"PaymentStatus",
	"PaymentGateway",
	"CreateDate",
	"UpdateDate",
}

// timestampPattern matches the dump's timestamp rendering, e.g.
// "2024-01-01 10:00:00.000".
const timestampPattern = `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}`

var (
	// orderRowRe matches one order-payments row anywhere in the document:
	// order code, company id, amount, status, gateway, create timestamp,
	// then either NULL or an update timestamp. \s+ deliberately crosses
	// line boundaries; a row is a match over the whole text, not a line.
	orderRowRe = regexp.MustCompile(
		`SO-\S+\s+\d+\s+\d+(?:\.\d+)?\s+\S+\s+\S+\s+` +
			timestampPattern + `\s+(?:NULL|` + timestampPattern + `)`)

	// bareDateRe matches the date half of a timestamp on its own.
	bareDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// orderCodeRe spots lines that look like they carry a row, used only to
	// count candidates the row pattern rejected.
	orderCodeRe = regexp.MustCompile(`^SO-\S+`)
)

// ExtractOrderPayments parses the order-payments dump into a seven-column
// table, in document order. It never fails structurally: zero matches yield
// an empty table. The second return value counts lines that start with an
// order code but were not covered by any row match, for observability.
//
// A row with no update timestamp keeps the literal "NULL" as its UpdateDate.
// That mirrors the source system's rendering and deliberately differs from
// the generic extractor, which blanks NULL fields.
func ExtractOrderPayments(content string) (*Table, int) {
	content = strings.TrimPrefix(content, "\uFEFF")

	table := &Table{Columns: append([]string(nil), OrderPaymentsColumns...)}

	matches := orderRowRe.FindAllString(content, -1)
	for _, match := range matches {
		if row, ok := splitOrderRow(match); ok {
			table.Rows = append(table.Rows, row)
		}
	}

	skipped := countSkippedOrderLines(content, len(matches))
	if skipped > 0 {
		slog.Warn("order-payments rows did not match the row pattern",
			slog.Int("skipped_lines", skipped),
			slog.Int("matched_rows", len(table.Rows)))
	}

	slog.Info("order-payments extraction complete",
		slog.Int("rows", len(table.Rows)))

	return table, skipped
}

// splitOrderRow decomposes one matched row into its seven fields. The first
// five whitespace-separated tokens map directly; the rest jointly encode the
// two timestamp columns and are regrouped: tokens accumulate into CreateDate
// until either the literal NULL appears (it becomes the entire UpdateDate)
// or a bare date past the create-timestamp tokens opens the UpdateDate
// group. Each group is rejoined with single spaces.
func splitOrderRow(match string) ([]string, bool) {
	tokens := strings.Fields(match)
	if len(tokens) < 7 {
		return nil, false
	}

	row := append([]string(nil), tokens[:5]...)

	var createDate, updateDate []string
	inUpdate := false
	for i := 5; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "NULL" {
			updateDate = []string{"NULL"}
			break
		}
		if !inUpdate && i >= 7 && bareDateRe.MatchString(tok) {
			inUpdate = true
		}
		if inUpdate {
			updateDate = append(updateDate, tok)
		} else {
			createDate = append(createDate, tok)
		}
	}

	row = append(row, strings.Join(createDate, " "), strings.Join(updateDate, " "))
	return row, true
}

// countSkippedOrderLines counts lines that start with an order-code token in
// excess of the rows the pattern matched. Malformed rows are dropped from
// the table either way; the count only feeds diagnostics.
func countSkippedOrderLines(content string, matched int) int {
	candidates := 0
	for _, line := range splitLines(content) {
		if orderCodeRe.MatchString(strings.TrimSpace(line)) {
			candidates++
		}
	}
	if candidates <= matched {
		return 0
	}
	return candidates - matched
}
