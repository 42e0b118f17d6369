package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/relief-api/internal/service"
	"github.com/schoolops/relief-api/pkg/response"
)

// ReportHandler streams rendered reports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Substitutions godoc
// @Summary Download the day's substitution report
// @Tags Reports
// @Produce text/csv,application/pdf
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /reports/substitutions [get]
func (h *ReportHandler) Substitutions(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	report, err := h.reports.SubstitutionReport(c.Request.Context(), date, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
