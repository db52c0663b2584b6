package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetmate/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves XLSX report downloads.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// DownloadMyReport streams the authenticated user's financial report.
// @Summary     Download my report
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Success     200 {file} file "XLSX workbook"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/me [get]
func (h *ReportHandler) DownloadMyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.serveReport(c, userID)
}

// DownloadUserReport streams any user's report for admins.
// @Summary     Download a user's report
// @Tags        admin
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {file} file "XLSX workbook"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /reports/user/{id} [get]
func (h *ReportHandler) DownloadUserReport(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.serveReport(c, userID)
}

func (h *ReportHandler) serveReport(c *gin.Context, userID uint) {
	payload, filename, err := h.reportService.BuildUserReport(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, payload)
}
