package transport

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rptcli/internal/config"
	"rptcli/internal/exporter"
)

func setupHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.MaxUploadBytes = 1 << 20
	cfg.Server.RateLimit.Enabled = false
	cfg.Convert.SheetName = exporter.DefaultSheetName

	paths := config.NewPaths(t.TempDir())
	return NewHandler(cfg,
		exporter.NewExcelWriter(paths, cfg.Convert.SheetName),
		exporter.NewCSVWriter(paths))
}

func uploadRequest(t *testing.T, filename, content, query string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestConvert_GenericToXlsx(t *testing.T) {
	content := "Name  Age  City\n----  ---  ----\nAlice   30   NULL\n(1 row affected)\n"
	req := uploadRequest(t, "people.rpt", content, "")

	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "people.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exporter.DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Age", "City"}, rows[0])
	assert.Equal(t, "Alice", rows[1][0])
}

func TestConvert_OrderPaymentsByFilename(t *testing.T) {
	content := "SO-1001 55 120.50 PAID STRIPE 2024-01-01 10:00:00.000 NULL\n"
	req := uploadRequest(t, "OrderPayments.rpt", content, "?format=csv")

	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "OrderCode,CompanyId,Amount")
	assert.Contains(t, body, "SO-1001,55,120.50,PAID,STRIPE,2024-01-01 10:00:00.000,NULL")
}

func TestConvert_NoHeaderReturns422(t *testing.T) {
	req := uploadRequest(t, "broken.rpt", "justoneword\n", "")

	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "PARSE_FAILED")
}

func TestConvert_MissingFileReturns400(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvert_UnknownFormatReturns400(t *testing.T) {
	req := uploadRequest(t, "people.rpt", "Name  Age\n----  ---\n(0 rows affected)\n", "?format=pdf")

	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_FORMAT")
}

func TestRequestID_Generated(t *testing.T) {
	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	rec := httptest.NewRecorder()
	setupHandler(t).Router().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.MaxUploadBytes = 1 << 20
	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RPS = 0.001
	cfg.Server.RateLimit.Burst = 1
	cfg.Convert.SheetName = exporter.DefaultSheetName

	paths := config.NewPaths(t.TempDir())
	router := NewHandler(cfg,
		exporter.NewExcelWriter(paths, cfg.Convert.SheetName),
		exporter.NewCSVWriter(paths)).Router()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
