package report

import (
	"path/filepath"
	"strings"
)

// Format identifies which extractor handles an input file.
type Format int

const (
	// FormatGeneric is any tabular RPT dump with a header line, a dash
	// separator, and a trailing row-count summary.
	FormatGeneric Format = iota
	// FormatOrderPayments is the known order-payments dump parsed by the
	// fixed seven-column pattern.
	FormatOrderPayments
)

// String returns a human-readable format name for logging.
func (f Format) String() string {
	switch f {
	case FormatOrderPayments:
		return "order_payments"
	default:
		return "generic"
	}
}

// orderPaymentsName is the base file name (extension stripped, lowercased)
// that selects the fixed-schema path.
const orderPaymentsName = "orderpayments"

// DetectFormat selects the extractor for an input based on its file name.
// The decision is a pure function of the name: the base name is lowercased
// and stripped of its extension before comparison, so "OrderPayments.rpt"
// and "orderpayments.RPT" both select the fixed-schema path. Everything
// else gets the generic extractor.
func DetectFormat(name string) Format {
	base := strings.ToLower(filepath.Base(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == orderPaymentsName {
		return FormatOrderPayments
	}
	return FormatGeneric
}

// Extract runs the extractor selected by format over the report content.
// The fixed-schema path never fails structurally; the generic path returns
// a *ParseError when no header or no columns can be recovered.
func Extract(content string, format Format) (*Table, error) {
	if format == FormatOrderPayments {
		table, _ := ExtractOrderPayments(content)
		return table, nil
	}
	return ExtractGeneric(content)
}
