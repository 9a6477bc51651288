package handlers

import (
	"net/http"
	"time"

	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/services"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	Reports *services.ReportService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{Reports: services.NewReportService(db)}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.DashboardStats(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "dashboard_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// SalesReport accepts optional ?start=YYYY-MM-DD&end=YYYY-MM-DD bounds.
func (h *DashboardHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", map[string]any{"start": s})
			return
		}
		start = &t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", map[string]any{"end": s})
			return
		}
		// make the end bound inclusive of the whole day
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	report, err := h.Reports.Sales(r.Context(), start, end)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
