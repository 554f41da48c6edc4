package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

const pqUniqueViolation = "23505"

type roundRepository interface {
	List(ctx context.Context) ([]models.Round, error)
	FindByID(ctx context.Context, id int64) (*models.Round, error)
	Create(ctx context.Context, round *models.Round) error
	Update(ctx context.Context, round *models.Round) error
	Delete(ctx context.Context, id int64) error
	Questions(ctx context.Context, roundID int64) ([]models.Question, error)
	CreateQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

type statusForgetter interface {
	Forget(ctx context.Context, roundID int64) error
}

// RoundService manages assessment rounds and their questions.
type RoundService struct {
	repo      roundRepository
	status    statusForgetter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoundService constructs a RoundService. status, when set, loses the calculation
// outcome of a round once the round is deleted.
func NewRoundService(repo roundRepository, status statusForgetter, validate *validator.Validate, logger *zap.Logger) *RoundService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoundService{repo: repo, status: status, validator: validate, logger: logger}
}

// List returns every round, newest first.
func (s *RoundService) List(ctx context.Context) ([]models.Round, error) {
	rounds, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rounds")
	}
	return rounds, nil
}

// Get returns one round.
func (s *RoundService) Get(ctx context.Context, id int64) (*models.Round, error) {
	round, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, roundError(err, "failed to load round")
	}
	return round, nil
}

// Create opens a new round.
func (s *RoundService) Create(ctx context.Context, req models.RoundRequest) (*models.Round, error) {
	if err := s.validateRound(req); err != nil {
		return nil, err
	}
	round := &models.Round{ID: req.RoundID, StartDate: req.StartDate, EndDate: req.EndDate}
	if err := s.repo.Create(ctx, round); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, appErrors.Clone(appErrors.ErrConflict, "round already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create round")
	}
	s.logger.Info("round created", zap.Int64("around_id", round.ID))
	return round, nil
}

// Update moves the window of an existing round.
func (s *RoundService) Update(ctx context.Context, id int64, req models.RoundRequest) (*models.Round, error) {
	req.RoundID = id
	if err := s.validateRound(req); err != nil {
		return nil, err
	}
	round := &models.Round{ID: id, StartDate: req.StartDate, EndDate: req.EndDate}
	if err := s.repo.Update(ctx, round); err != nil {
		return nil, roundError(err, "failed to update round")
	}
	return round, nil
}

// Delete removes a round.
func (s *RoundService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return roundError(err, "failed to delete round")
	}
	if s.status != nil {
		if err := s.status.Forget(ctx, id); err != nil {
			s.logger.Warn("calculation status not cleared", zap.Int64("around_id", id), zap.Error(err))
		}
	}
	s.logger.Info("round deleted", zap.Int64("around_id", id))
	return nil
}

// Questions lists the questions of a round.
func (s *RoundService) Questions(ctx context.Context, roundID int64) ([]models.Question, error) {
	if _, err := s.Get(ctx, roundID); err != nil {
		return nil, err
	}
	questions, err := s.repo.Questions(ctx, roundID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return questions, nil
}

// AddQuestion appends a question to a round.
func (s *RoundService) AddQuestion(ctx context.Context, roundID int64, req models.QuestionRequest) (*models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question end must be after its start")
	}
	if _, err := s.Get(ctx, roundID); err != nil {
		return nil, err
	}
	q := &models.Question{RoundID: roundID, Text: req.Text, Type: req.Type, StartDate: req.StartDate, EndDate: req.EndDate}
	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	return q, nil
}

// DeleteQuestion removes a question.
func (s *RoundService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}
	return nil
}

// validateRound checks the payload and that the id decodes to a year from 2000 on and
// a term of 1, 2 or 3.
func (s *RoundService) validateRound(req models.RoundRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid round payload")
	}
	year, term, ok := thaifmt.RoundParts(req.RoundID)
	if !ok || year < 2000 || term < 1 || term > 3 {
		return appErrors.Clone(appErrors.ErrValidation, "round id must be a year followed by term 1, 2 or 3")
	}
	return nil
}

func roundError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "round not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
