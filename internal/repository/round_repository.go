package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/pkg/database"
)

// RoundRepository provides access to assessment rounds and their questions.
type RoundRepository struct {
	clients *database.Factory
}

// NewRoundRepository constructs a RoundRepository.
func NewRoundRepository(clients *database.Factory) *RoundRepository {
	return &RoundRepository{clients: clients}
}

// List returns every round, newest first.
func (r *RoundRepository) List(ctx context.Context) ([]models.Round, error) {
	const query = `SELECT around_id, start_date, end_date FROM assessment_around ORDER BY around_id DESC`
	var rounds []models.Round
	if err := r.clients.FromContext(ctx).Select(ctx, &rounds, query); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return rounds, nil
}

// FindByID returns a single round.
func (r *RoundRepository) FindByID(ctx context.Context, id int64) (*models.Round, error) {
	const query = `SELECT around_id, start_date, end_date FROM assessment_around WHERE around_id = $1`
	var round models.Round
	if err := r.clients.FromContext(ctx).Get(ctx, &round, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find round: %w", err)
	}
	return &round, nil
}

// Create inserts a round.
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	const query = `INSERT INTO assessment_around (around_id, start_date, end_date) VALUES ($1, $2, $3)`
	if _, err := r.clients.FromContext(ctx).Exec(ctx, query, round.ID, round.StartDate, round.EndDate); err != nil {
		return fmt.Errorf("create round: %w", err)
	}
	return nil
}

// Update changes the window of a round. It returns sql.ErrNoRows when nothing matched.
func (r *RoundRepository) Update(ctx context.Context, round *models.Round) error {
	const query = `UPDATE assessment_around SET start_date = $2, end_date = $3 WHERE around_id = $1`
	affected, err := r.clients.FromContext(ctx).Exec(ctx, query, round.ID, round.StartDate, round.EndDate)
	if err != nil {
		return fmt.Errorf("update round: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a round. It returns sql.ErrNoRows when nothing matched.
func (r *RoundRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM assessment_around WHERE around_id = $1`
	affected, err := r.clients.FromContext(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete round: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Questions lists the questions of a round in display order.
func (r *RoundRepository) Questions(ctx context.Context, roundID int64) ([]models.Question, error) {
	const query = `SELECT detail_id, around_id, question, question_type, start_date, end_date FROM assessment_detail WHERE around_id = $1 ORDER BY detail_id`
	var questions []models.Question
	if err := r.clients.FromContext(ctx).Select(ctx, &questions, query, roundID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// CreateQuestion inserts a question and fills its generated id.
func (r *RoundRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	const query = `INSERT INTO assessment_detail (around_id, question, question_type, start_date, end_date) VALUES ($1, $2, $3, $4, $5) RETURNING detail_id`
	if err := r.clients.FromContext(ctx).Get(ctx, &q.ID, query, q.RoundID, q.Text, q.Type, q.StartDate, q.EndDate); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question. It returns sql.ErrNoRows when nothing matched.
func (r *RoundRepository) DeleteQuestion(ctx context.Context, id int64) error {
	const query = `DELETE FROM assessment_detail WHERE detail_id = $1`
	affected, err := r.clients.FromContext(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
