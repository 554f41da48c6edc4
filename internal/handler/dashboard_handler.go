package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/internal/dto"
)

type dashboardService interface {
	Student(ctx context.Context) (*dto.StudentDashboard, error)
	Teacher(ctx context.Context) (*dto.TeacherDashboard, error)
	Admin(ctx context.Context, selected int64) (*dto.AdminDashboard, error)
	Executive(ctx context.Context, selected int64) (*dto.ExecutiveDashboard, error)
}

// DashboardHandler renders the four role home pages.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Student renders /dashboard.
func (h *DashboardHandler) Student(c *gin.Context) {
	view, err := h.service.Student(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "student.html", view)
}

// Teacher renders /dashboard-teacher.
func (h *DashboardHandler) Teacher(c *gin.Context) {
	view, err := h.service.Teacher(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "teacher.html", view)
}

// Admin renders /admin. The optional round query parameter selects the statistics round.
func (h *DashboardHandler) Admin(c *gin.Context) {
	view, err := h.service.Admin(c.Request.Context(), roundQuery(c, "round"))
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "admin.html", view)
}

// Executive renders /dashboard-executive.
func (h *DashboardHandler) Executive(c *gin.Context) {
	view, err := h.service.Executive(c.Request.Context(), roundQuery(c, "round"))
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "executive.html", view)
}
