package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderPaymentsReport = `OrderCode  CompanyId  Amount  PaymentStatus  PaymentGateway  CreateDate  UpdateDate
---------  ---------  ------  -------------  --------------  ----------  ----------
SO-1001 55 120.50 PAID STRIPE 2024-01-01 10:00:00.000 NULL
SO-1002 207 99.99 PENDING PAYPAL 2024-02-10 08:15:30.123 2024-02-11 09:00:00.456
SO-1003 55 1500 REFUNDED STRIPE 2024-03-05 23:59:59.999 NULL

(3 rows affected)
`

func TestExtractOrderPayments_Schema(t *testing.T) {
	table, _ := ExtractOrderPayments(orderPaymentsReport)

	assert.Equal(t, OrderPaymentsColumns, table.Columns)
	for i, row := range table.Rows {
		assert.Len(t, row, 7, "row %d", i)
	}
}

func TestExtractOrderPayments_NullUpdateDate(t *testing.T) {
	table, _ := ExtractOrderPayments("SO-1001 55 120.50 PAID STRIPE 2024-01-01 10:00:00.000 NULL")

	require.Len(t, table.Rows, 1)
	assert.Equal(t,
		[]string{"SO-1001", "55", "120.50", "PAID", "STRIPE", "2024-01-01 10:00:00.000", "NULL"},
		table.Rows[0])

	// Unlike the generic extractor, a missing update timestamp stays the
	// literal string "NULL", never the empty string.
	assert.Equal(t, "NULL", table.Rows[0][6])
	assert.NotEqual(t, "", table.Rows[0][6])
}

func TestExtractOrderPayments_BothTimestamps(t *testing.T) {
	table, _ := ExtractOrderPayments("SO-2000 7 10.00 PAID ADYEN 2024-05-01 12:00:00.000 2024-05-02 13:30:00.500")

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2024-05-01 12:00:00.000", table.Rows[0][5])
	assert.Equal(t, "2024-05-02 13:30:00.500", table.Rows[0][6])
}

func TestExtractOrderPayments_DocumentOrder(t *testing.T) {
	table, _ := ExtractOrderPayments(orderPaymentsReport)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "SO-1001", table.Rows[0][0])
	assert.Equal(t, "SO-1002", table.Rows[1][0])
	assert.Equal(t, "SO-1003", table.Rows[2][0])
}

func TestExtractOrderPayments_IntegerAmount(t *testing.T) {
	table, _ := ExtractOrderPayments(orderPaymentsReport)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "1500", table.Rows[2][2])
}

func TestExtractOrderPayments_NoMatchesYieldsEmptyTable(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty input", content: ""},
		{name: "unrelated text", content: "Name  Age\n----  ---\nAlice  30\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, skipped := ExtractOrderPayments(tt.content)
			assert.Equal(t, OrderPaymentsColumns, table.Columns)
			assert.Empty(t, table.Rows)
			assert.Zero(t, skipped)
		})
	}
}

func TestExtractOrderPayments_CountsSkippedCandidates(t *testing.T) {
	content := "SO-1001 55 120.50 PAID STRIPE 2024-01-01 10:00:00.000 NULL\n" +
		"SO-9999 malformed row without timestamps\n"

	table, skipped := ExtractOrderPayments(content)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, 1, skipped)
}

func TestExtractOrderPayments_MatchesAcrossLineBreaks(t *testing.T) {
	// Row recognition is a pattern match over the whole document, so a row
	// wrapped onto a second line still matches.
	content := "SO-3000 12 45.00 PAID\nSTRIPE 2024-06-01 09:00:00.000 NULL"

	table, _ := ExtractOrderPayments(content)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "SO-3000", table.Rows[0][0])
	assert.Equal(t, "NULL", table.Rows[0][6])
}

func TestExtractOrderPayments_Idempotent(t *testing.T) {
	first, _ := ExtractOrderPayments(orderPaymentsReport)
	second, _ := ExtractOrderPayments(orderPaymentsReport)

	assert.Equal(t, first, second)
}
