package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	dashboard *service.DashboardService
	reports   *service.ReportService
}

func NewDashboardHandler(dashboard *service.DashboardService, reports *service.ReportService) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		reports:   reports,
	}
}

// Stats returns the portfolio overview
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	stats, err := h.dashboard.Stats(r.Context(), principal.OwnerID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, stats)
}

// LoansReport downloads the portfolio as an XLSX workbook
func (h *DashboardHandler) LoansReport(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reports.LoansWorkbook(r.Context(), principal.OwnerID, &buf); err != nil {
		response.FromError(w, r, err)
		return
	}

	filename := fmt.Sprintf("loans-%s.xlsx", time.Now().Format(time.DateOnly))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
