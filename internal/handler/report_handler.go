package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/internal/middleware"
	"github.com/noah-isme/advisor-assessment/internal/service"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/response"
)

type reportService interface {
	TeacherPDF(ctx context.Context, roundID int64) (*service.Report, error)
	StatisticsPDF(ctx context.Context, roundID int64) (*service.Report, error)
	StatisticsCSV(ctx context.Context, roundID int64) (*service.Report, error)
}

// ReportHandler streams printable and downloadable reports. Routes must sit behind
// middleware.Area or middleware.RequireRole.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// TeacherPrint renders /dashboard-teacher/report/:roundId/print.
func (h *ReportHandler) TeacherPrint(c *gin.Context) {
	h.stream(c, h.service.TeacherPDF, false)
}

// StatisticsPrint renders /admin/statistics/:roundId/print.
func (h *ReportHandler) StatisticsPrint(c *gin.Context) {
	h.stream(c, h.service.StatisticsPDF, false)
}

// StatisticsExport downloads /admin/statistics/:roundId/export as CSV.
func (h *ReportHandler) StatisticsExport(c *gin.Context) {
	h.stream(c, h.service.StatisticsCSV, true)
}

func (h *ReportHandler) stream(c *gin.Context, build func(context.Context, int64) (*service.Report, error), download bool) {
	if _, ok := middleware.RoleFrom(c); !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	roundID, err := roundParam(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := build(c.Request.Context(), roundID)
	if err != nil {
		renderError(c, err)
		return
	}
	if download {
		response.Attachment(c, report.Filename, report.ContentType, report.Body)
		return
	}
	response.Inline(c, report.Filename, report.ContentType, report.Body)
}
