package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/dto"
	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
)

type questionReader interface {
	FindByID(ctx context.Context, id int64) (*models.Round, error)
	Questions(ctx context.Context, roundID int64) ([]models.Question, error)
}

type answerWriter interface {
	Exists(ctx context.Context, studentID, teacherID, roundID int64) (bool, error)
	Upsert(ctx context.Context, answers []models.Answer) error
}

type studentDirectory interface {
	Student(ctx context.Context, id int64) (*models.Student, error)
	AdvisorsByRoom(ctx context.Context, roomID int64) ([]models.Teacher, error)
}

type sessionIdentity interface {
	Resolve(ctx context.Context) (models.Role, bool)
	CurrentID(ctx context.Context) (int64, bool)
}

// EvaluationService lets students evaluate their advisors.
type EvaluationService struct {
	identity  sessionIdentity
	students  studentDirectory
	rounds    questionReader
	answers   answerWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEvaluationService constructs an EvaluationService.
func NewEvaluationService(identity sessionIdentity, students studentDirectory, rounds questionReader, answers answerWriter, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		identity:  identity,
		students:  students,
		rounds:    rounds,
		answers:   answers,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Form returns the questions a student answers about one advisor in one round.
func (s *EvaluationService) Form(ctx context.Context, roundID, teacherID int64) (*dto.EvaluationForm, error) {
	student, err := s.currentStudent(ctx)
	if err != nil {
		return nil, err
	}
	advisor, err := s.advisor(ctx, student, teacherID)
	if err != nil {
		return nil, err
	}
	round, err := s.round(ctx, roundID)
	if err != nil {
		return nil, err
	}
	questions, err := s.rounds.Questions(ctx, round.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
	}
	done, err := s.answers.Exists(ctx, student.ID, advisor.ID, round.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation progress")
	}
	return &dto.EvaluationForm{
		Round:     RoundView(*round, s.now()),
		TeacherID: advisor.ID,
		Teacher:   advisor.FullName(),
		Completed: done,
		Questions: questions,
	}, nil
}

// Submit stores a student's answers about one advisor. Resubmitting replaces earlier
// answers for the same questions.
func (s *EvaluationService) Submit(ctx context.Context, req models.EvaluationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}
	student, err := s.currentStudent(ctx)
	if err != nil {
		return err
	}
	round, err := s.round(ctx, req.RoundID)
	if err != nil {
		return err
	}
	now := s.now()
	if !round.Active(now) {
		return appErrors.ErrRoundClosed
	}
	if _, err := s.advisor(ctx, student, req.TeacherID); err != nil {
		return err
	}

	questions, err := s.rounds.Questions(ctx, round.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
	}
	byID := make(map[int64]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answers := make([]models.Answer, 0, len(req.Answers))
	for _, in := range req.Answers {
		q, ok := byID[in.DetailID]
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %d does not belong to this round", in.DetailID))
		}
		if !q.OpenAt(now) {
			return appErrors.Clone(appErrors.ErrRoundClosed, fmt.Sprintf("question %d is not open", in.DetailID))
		}
		answer := models.Answer{StudentID: student.ID, TeacherID: req.TeacherID, RoundID: round.ID, DetailID: q.ID, CreatedAt: now.UTC()}
		switch q.Type {
		case models.QuestionText:
			if in.Text == nil || strings.TrimSpace(*in.Text) == "" {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %d requires text", in.DetailID))
			}
			text := strings.TrimSpace(*in.Text)
			answer.Text = &text
		default:
			if in.Score == nil {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %d requires a score", in.DetailID))
			}
			answer.Score = in.Score
		}
		answers = append(answers, answer)
	}

	if err := s.answers.Upsert(ctx, answers); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save evaluation")
	}
	s.logger.Info("evaluation submitted",
		zap.Int64("student_id", student.ID),
		zap.Int64("teacher_id", req.TeacherID),
		zap.Int64("around_id", round.ID),
		zap.Int("answers", len(answers)))
	return nil
}

func (s *EvaluationService) currentStudent(ctx context.Context) (*models.Student, error) {
	role, ok := s.identity.Resolve(ctx)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	if role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can submit evaluations")
	}
	id, ok := s.identity.CurrentID(ctx)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has no profile")
	}
	student, err := s.students.Student(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student profile not found")
	}
	return student, nil
}

func (s *EvaluationService) advisor(ctx context.Context, student *models.Student, teacherID int64) (*models.Teacher, error) {
	advisors, err := s.students.AdvisorsByRoom(ctx, student.RoomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load advisors")
	}
	for i := range advisors {
		if advisors[i].ID == teacherID {
			return &advisors[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher is not an advisor of your room")
}

func (s *EvaluationService) round(ctx context.Context, roundID int64) (*models.Round, error) {
	round, err := s.rounds.FindByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "round not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load round")
	}
	return round, nil
}
