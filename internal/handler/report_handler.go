package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// ReportHandler exposes the supervisor dashboard's report rows and exports.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// List godoc
// @Summary List reports
// @Tags Reports
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// SetStatus godoc
// @Summary Move a report through review
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param status query string false "View status filter"
// @Param payload body statusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /reports/{id}/status [patch]
func (h *ReportHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.service.SetStatus(c.Request.Context(), c.Query("status"), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ExportCSV godoc
// @Summary Download the mirrored reports as CSV
// @Tags Reports
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {file} file
// @Router /reports/export/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reports.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Download the mirrored reports as PDF
// @Tags Reports
// @Produce application/pdf
// @Param status query string false "Filter by status"
// @Success 200 {file} file
// @Router /reports/export/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	data, err := h.service.ExportPDF(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reports.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Reconcile godoc
// @Summary Force an authoritative refresh of the report mirror
// @Tags Reports
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /reports/reconcile [post]
func (h *ReportHandler) Reconcile(c *gin.Context) {
	reports, err := h.service.Reconcile(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}
