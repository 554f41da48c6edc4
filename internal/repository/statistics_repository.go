package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/pkg/database"
)

// Recomputation procedures owned by the database. Each overwrites the averages of a round.
const (
	ProcTeacherAverages = "calculate_teacher_averages"
	ProcMajorAverages   = "calculate_major_averages"
	ProcFacultyAverages = "calculate_faculty_averages"
)

// StatisticsRepository reads the roll-up tables and invokes their recomputation procedures.
type StatisticsRepository struct {
	clients *database.Factory
}

// NewStatisticsRepository constructs a StatisticsRepository.
func NewStatisticsRepository(clients *database.Factory) *StatisticsRepository {
	return &StatisticsRepository{clients: clients}
}

// Recompute invokes one recomputation procedure for a round on behalf of calculatedBy.
func (r *StatisticsRepository) Recompute(ctx context.Context, procedure string, roundID int64, calculatedBy string) error {
	switch procedure {
	case ProcTeacherAverages, ProcMajorAverages, ProcFacultyAverages:
	default:
		return fmt.Errorf("unknown recomputation procedure %q", procedure)
	}
	return r.clients.FromContext(ctx).Call(ctx, nil, procedure, roundID, calculatedBy)
}

// TeacherAverage returns the roll-up of one teacher in one round.
func (r *StatisticsRepository) TeacherAverage(ctx context.Context, teacherID, roundID int64) (*models.TeacherAverage, error) {
	const query = `SELECT around_id, teacher_id, average_score, respondents, calculated_by, calculated_at FROM teacher_average WHERE teacher_id = $1 AND around_id = $2`
	var avg models.TeacherAverage
	if err := r.clients.FromContext(ctx).Get(ctx, &avg, query, teacherID, roundID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher average: %w", err)
	}
	return &avg, nil
}

// FacultyAverages lists faculty roll-ups for a round, best first.
func (r *StatisticsRepository) FacultyAverages(ctx context.Context, roundID int64) ([]models.FacultyAverage, error) {
	const query = `SELECT fa.around_id, fa.faculty_id, f.faculty_name, fa.average_score, fa.respondents
FROM faculty_average fa
JOIN faculty f ON f.faculty_id = fa.faculty_id
WHERE fa.around_id = $1
ORDER BY fa.average_score DESC, f.faculty_name`
	var rows []models.FacultyAverage
	if err := r.clients.FromContext(ctx).Select(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("list faculty averages: %w", err)
	}
	return rows, nil
}

// MajorAverages lists major roll-ups for a round grouped by faculty.
func (r *StatisticsRepository) MajorAverages(ctx context.Context, roundID int64) ([]models.MajorAverage, error) {
	const query = `SELECT ma.around_id, ma.major_id, m.major_name, f.faculty_name, ma.average_score, ma.respondents
FROM major_average ma
JOIN major m ON m.major_id = ma.major_id
JOIN faculty f ON f.faculty_id = m.faculty_id
WHERE ma.around_id = $1
ORDER BY f.faculty_name, ma.average_score DESC`
	var rows []models.MajorAverage
	if err := r.clients.FromContext(ctx).Select(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("list major averages: %w", err)
	}
	return rows, nil
}
