package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// reportPeriod reads year/month query params, defaulting to the current month.
func reportPeriod(r *http.Request) (int, int, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year: %s", v)
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month: %s", v)
		}
		month = m
	}
	return year, month, nil
}

// apiStockValue handles GET /api/reports/stock-value.
func (h *Handler) apiStockValue(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetStockValue(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

// apiSalesPerformance handles GET /api/reports/sales-performance?year=2026&month=8.
func (h *Handler) apiSalesPerformance(w http.ResponseWriter, r *http.Request) {
	year, month, err := reportPeriod(r)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	report, err := h.svc.GetSalesPerformance(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

// apiExportReports handles GET /api/reports/export?year=2026&month=8 —
// streams an xlsx workbook with the stock value, low stock and sales
// performance reports.
func (h *Handler) apiExportReports(w http.ResponseWriter, r *http.Request) {
	year, month, err := reportPeriod(r)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("reports-%d-%02d.xlsx", year, month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.svc.ExportReports(r.Context(), year, month, w); err != nil {
		// Headers are already written; the most we can do is log.
		h.logger.Error("report export failed", zap.Error(err))
	}
}
