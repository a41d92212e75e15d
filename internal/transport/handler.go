// Package transport exposes the converter over HTTP: a multipart upload is
// parsed and streamed back as a workbook in one synchronous round trip.
package transport

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"rptcli/internal/config"
	apierrors "rptcli/internal/errors"
	"rptcli/internal/exporter"
	"rptcli/internal/files"
	"rptcli/internal/report"
)

// Handler serves the conversion API.
type Handler struct {
	cfg   *config.Config
	excel *exporter.ExcelWriter
	csv   *exporter.CSVWriter
}

// NewHandler creates a handler over the configured writers.
func NewHandler(cfg *config.Config, excel *exporter.ExcelWriter, csv *exporter.CSVWriter) *Handler {
	return &Handler{cfg: cfg, excel: excel, csv: csv}
}

// Router assembles the chi router with the middleware stack.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging)
	if h.cfg.Server.RateLimit.Enabled {
		r.Use(RateLimit(h.cfg.Server.RateLimit.RPS, h.cfg.Server.RateLimit.Burst))
	}

	r.Get("/api/healthz", h.Healthz)
	r.Post("/api/convert", h.Convert)

	return r
}

// Healthz reports service liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// Convert accepts a multipart upload under the "file" field and responds
// with the converted spreadsheet as an attachment. The output format is
// selected by the "format" query parameter (xlsx, the default, or csv); the
// report format is detected from the uploaded file's name.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.cfg.Server.MaxUploadBytes); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	outFormat := r.URL.Query().Get("format")
	if outFormat == "" {
		outFormat = "xlsx"
	}
	if outFormat != "xlsx" && outFormat != "csv" {
		render.Render(w, r, apierrors.New(http.StatusBadRequest, "INVALID_FORMAT",
			fmt.Sprintf("unsupported output format %q", outFormat)))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}

	detected := report.DetectFormat(header.Filename)
	table, err := report.Extract(string(content), detected)
	if err != nil {
		render.Render(w, r, apierrors.ParseFailed(err))
		return
	}

	slog.Info("converted upload",
		slog.String("request_id", GetRequestID(r.Context())),
		slog.String("file", header.Filename),
		slog.String("report_format", detected.String()),
		slog.Int("rows", len(table.Rows)))

	outName := files.OutputName(header.Filename, outFormat)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outName))

	if outFormat == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := h.csv.WriteTo(w, table); err != nil {
			slog.Error("failed streaming CSV response", slog.String("error", err.Error()))
		}
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.excel.WriteTo(w, table); err != nil {
		slog.Error("failed streaming workbook response", slog.String("error", err.Error()))
	}
}
