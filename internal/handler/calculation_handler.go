package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/pkg/response"
	"github.com/noah-isme/advisor-assessment/pkg/session"
	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

type calculationService interface {
	Run(ctx context.Context, roundID int64, requestedBy string) models.CalculationResult
	Status(ctx context.Context, roundID int64) (*models.CalculationStatus, error)
}

// CalculationHandler exposes the average recomputation trigger.
type CalculationHandler struct {
	service  calculationService
	validate *validator.Validate
}

// NewCalculationHandler constructs a CalculationHandler.
func NewCalculationHandler(svc calculationService, validate *validator.Validate) *CalculationHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &CalculationHandler{service: svc, validate: validate}
}

// Trigger godoc
// @Summary Recompute averages
// @Description Recompute teacher, major and faculty averages of a round. Admin only.
// @Tags Calculations
// @Accept json
// @Produce json
// @Param payload body models.CalculationRequest false "Round and invoker (POST)"
// @Param around_id query string false "Round id (GET)"
// @Param calculated_by query string false "Invoker label (GET)"
// @Success 200 {object} models.CalculationResult
// @Failure 400 {object} models.CalculationResult
// @Failure 401 {object} models.CalculationResult
// @Failure 403 {object} models.CalculationResult
// @Failure 404 {object} models.CalculationResult
// @Failure 500 {object} models.CalculationResult
// @Router /calculate-averages [post]
// @Router /calculate-averages [get]
func (h *CalculationHandler) Trigger(c *gin.Context) {
	if _, ok := session.Token(c); !ok {
		c.JSON(http.StatusUnauthorized, models.CalculationResult{Success: false, Message: "Unauthorized", Status: http.StatusUnauthorized})
		return
	}

	var req models.CalculationRequest
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		badRequest(c, "Invalid or missing around_id")
		return
	}
	roundID, err := thaifmt.ParseRoundID(req.RoundID.String())
	if err != nil {
		badRequest(c, "Invalid or missing around_id")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, "calculated_by must be at most 100 characters")
		return
	}

	res := h.service.Run(c.Request.Context(), roundID, req.CalculatedBy)
	c.JSON(res.Status, res)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.CalculationResult{Success: false, Message: message, Status: http.StatusBadRequest})
}

// Status godoc
// @Summary Last calculation outcome
// @Tags Calculations
// @Produce json
// @Param roundId path int true "Round id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /calculate-averages/{roundId}/status [get]
func (h *CalculationHandler) Status(c *gin.Context) {
	roundID, err := roundParam(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := h.service.Status(c.Request.Context(), roundID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}
