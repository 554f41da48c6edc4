package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/internal/dto"
	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/response"
)

type evaluationService interface {
	Form(ctx context.Context, roundID, teacherID int64) (*dto.EvaluationForm, error)
	Submit(ctx context.Context, req models.EvaluationRequest) error
}

// EvaluationHandler serves the student evaluation form and its submission.
type EvaluationHandler struct {
	service evaluationService
}

// NewEvaluationHandler constructs an EvaluationHandler.
func NewEvaluationHandler(svc evaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: svc}
}

// Form renders /dashboard/evaluate/:roundId/:teacherId.
func (h *EvaluationHandler) Form(c *gin.Context) {
	roundID, err := roundParam(c, "roundId")
	if err != nil {
		renderError(c, err)
		return
	}
	teacherID, err := strconv.ParseInt(c.Param("teacherId"), 10, 64)
	if err != nil || teacherID <= 0 {
		renderError(c, appErrors.Clone(appErrors.ErrValidation, "invalid teacher id"))
		return
	}
	form, err := h.service.Form(c.Request.Context(), roundID, teacherID)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "evaluate.html", form)
}

// Submit godoc
// @Summary Submit an advisor evaluation
// @Description Students only. Resubmitting replaces earlier answers.
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body models.EvaluationRequest true "Evaluation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /evaluations [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	var req models.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evaluation payload"))
		return
	}
	if err := h.service.Submit(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"saved": len(req.Answers)})
}
