package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/response"
	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

type roundService interface {
	List(ctx context.Context) ([]models.Round, error)
	Create(ctx context.Context, req models.RoundRequest) (*models.Round, error)
	Update(ctx context.Context, id int64, req models.RoundRequest) (*models.Round, error)
	Delete(ctx context.Context, id int64) error
	Questions(ctx context.Context, roundID int64) ([]models.Question, error)
	AddQuestion(ctx context.Context, roundID int64, req models.QuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

// RoundHandler exposes round and question administration.
type RoundHandler struct {
	service roundService
}

// NewRoundHandler constructs a RoundHandler.
func NewRoundHandler(svc roundService) *RoundHandler {
	return &RoundHandler{service: svc}
}

// List godoc
// @Summary List rounds
// @Tags Rounds
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rounds [get]
func (h *RoundHandler) List(c *gin.Context) {
	rounds, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	labels := make(map[string]string, len(rounds))
	for _, r := range rounds {
		labels[strconv.FormatInt(r.ID, 10)] = thaifmt.FormatRoundID(r.ID)
	}
	response.JSON(c, http.StatusOK, rounds, map[string]interface{}{"labels": labels})
}

// Create godoc
// @Summary Create round
// @Tags Rounds
// @Accept json
// @Produce json
// @Param payload body models.RoundRequest true "Round"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rounds [post]
func (h *RoundHandler) Create(c *gin.Context) {
	var req models.RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid round payload"))
		return
	}
	round, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, round)
}

// Update godoc
// @Summary Update round window
// @Tags Rounds
// @Accept json
// @Produce json
// @Param roundId path int true "Round id"
// @Param payload body models.RoundRequest true "Round"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rounds/{roundId} [put]
func (h *RoundHandler) Update(c *gin.Context) {
	id, err := roundParam(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid round payload"))
		return
	}
	round, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, round)
}

// Delete godoc
// @Summary Delete round
// @Tags Rounds
// @Param roundId path int true "Round id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /rounds/{roundId} [delete]
func (h *RoundHandler) Delete(c *gin.Context) {
	id, err := roundParam(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Questions godoc
// @Summary List questions of a round
// @Tags Rounds
// @Produce json
// @Param roundId path int true "Round id"
// @Success 200 {object} response.Envelope
// @Router /rounds/{roundId}/questions [get]
func (h *RoundHandler) Questions(c *gin.Context) {
	id, err := roundParam(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}
	questions, err := h.service.Questions(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions)
}

// AddQuestion godoc
// @Summary Add question to a round
// @Tags Rounds
// @Accept json
// @Produce json
// @Param roundId path int true "Round id"
// @Param payload body models.QuestionRequest true "Question"
// @Success 201 {object} response.Envelope
// @Router /rounds/{roundId}/questions [post]
func (h *RoundHandler) AddQuestion(c *gin.Context) {
	id, err := roundParam(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question payload"))
		return
	}
	q, err := h.service.AddQuestion(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, q)
}

// DeleteQuestion godoc
// @Summary Delete question
// @Tags Rounds
// @Param id path int true "Question id"
// @Success 204
// @Router /questions/{id} [delete]
func (h *RoundHandler) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid question id"))
		return
	}
	if err := h.service.DeleteQuestion(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
