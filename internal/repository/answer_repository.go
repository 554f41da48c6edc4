package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/pkg/database"
)

// AnswerRepository provides access to assessment answers.
type AnswerRepository struct {
	clients *database.Factory
}

// NewAnswerRepository constructs an AnswerRepository.
func NewAnswerRepository(clients *database.Factory) *AnswerRepository {
	return &AnswerRepository{clients: clients}
}

// CountByRound returns the number of answer rows recorded for a round.
func (r *AnswerRepository) CountByRound(ctx context.Context, roundID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM assessment_answer WHERE around_id = $1`
	var count int
	if err := r.clients.FromContext(ctx).Get(ctx, &count, query, roundID); err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return count, nil
}

// Exists reports whether the student has answered anything about the teacher in the round.
func (r *AnswerRepository) Exists(ctx context.Context, studentID, teacherID, roundID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM assessment_answer WHERE student_id = $1 AND teacher_id = $2 AND around_id = $3)`
	var exists bool
	if err := r.clients.FromContext(ctx).Get(ctx, &exists, query, studentID, teacherID, roundID); err != nil {
		return false, fmt.Errorf("check answer: %w", err)
	}
	return exists, nil
}

// Upsert stores a full evaluation atomically; resubmitting overwrites earlier answers.
func (r *AnswerRepository) Upsert(ctx context.Context, answers []models.Answer) error {
	const query = `INSERT INTO assessment_answer (student_id, teacher_id, around_id, detail_id, score, answer_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (student_id, teacher_id, around_id, detail_id)
DO UPDATE SET score = EXCLUDED.score, answer_text = EXCLUDED.answer_text, created_at = EXCLUDED.created_at`

	now := time.Now().UTC()
	return r.clients.FromContext(ctx).Transact(ctx, func(q sqlx.ExtContext) error {
		for _, a := range answers {
			if a.CreatedAt.IsZero() {
				a.CreatedAt = now
			}
			if _, err := q.ExecContext(ctx, query, a.StudentID, a.TeacherID, a.RoundID, a.DetailID, a.Score, a.Text, a.CreatedAt); err != nil {
				return fmt.Errorf("upsert answer for detail %d: %w", a.DetailID, err)
			}
		}
		return nil
	})
}

// Comments returns the free-text answers about a teacher in a round, newest first.
func (r *AnswerRepository) Comments(ctx context.Context, teacherID, roundID int64) ([]models.Comment, error) {
	const query = `SELECT d.question, a.answer_text, a.created_at
FROM assessment_answer a
JOIN assessment_detail d ON d.detail_id = a.detail_id
WHERE a.teacher_id = $1 AND a.around_id = $2 AND a.answer_text IS NOT NULL AND a.answer_text <> ''
ORDER BY a.created_at DESC`
	var comments []models.Comment
	if err := r.clients.FromContext(ctx).Select(ctx, &comments, query, teacherID, roundID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
