package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/pkg/database"
)

// ProfileRepository reads profile rows and the room → major → faculty hierarchy.
// Each lookup is a separate point query; callers join the results themselves.
type ProfileRepository struct {
	clients *database.Factory
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(clients *database.Factory) *ProfileRepository {
	return &ProfileRepository{clients: clients}
}

func (r *ProfileRepository) get(ctx context.Context, dest interface{}, label, query string, id int64) error {
	if err := r.clients.FromContext(ctx).Get(ctx, dest, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("find %s: %w", label, err)
	}
	return nil
}

// Student returns a student profile.
func (r *ProfileRepository) Student(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT student_id, student_code, first_name, last_name, room_id FROM student WHERE student_id = $1`
	var s models.Student
	if err := r.get(ctx, &s, "student", query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// Teacher returns a teacher profile.
func (r *ProfileRepository) Teacher(ctx context.Context, id int64) (*models.Teacher, error) {
	const query = `SELECT teacher_id, prefix, first_name, last_name FROM teacher WHERE teacher_id = $1`
	var t models.Teacher
	if err := r.get(ctx, &t, "teacher", query, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// Admin returns an admin profile.
func (r *ProfileRepository) Admin(ctx context.Context, id int64) (*models.Staff, error) {
	const query = `SELECT admin_id AS id, first_name, last_name FROM admin WHERE admin_id = $1`
	var s models.Staff
	if err := r.get(ctx, &s, "admin", query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// Executive returns an executive profile.
func (r *ProfileRepository) Executive(ctx context.Context, id int64) (*models.Staff, error) {
	const query = `SELECT executive_id AS id, first_name, last_name FROM executive WHERE executive_id = $1`
	var s models.Staff
	if err := r.get(ctx, &s, "executive", query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// Room returns a room.
func (r *ProfileRepository) Room(ctx context.Context, id int64) (*models.Room, error) {
	const query = `SELECT room_id, room_name, major_id FROM room WHERE room_id = $1`
	var room models.Room
	if err := r.get(ctx, &room, "room", query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// Major returns a major.
func (r *ProfileRepository) Major(ctx context.Context, id int64) (*models.Major, error) {
	const query = `SELECT major_id, major_name, faculty_id FROM major WHERE major_id = $1`
	var major models.Major
	if err := r.get(ctx, &major, "major", query, id); err != nil {
		return nil, err
	}
	return &major, nil
}

// Faculty returns a faculty.
func (r *ProfileRepository) Faculty(ctx context.Context, id int64) (*models.Faculty, error) {
	const query = `SELECT faculty_id, faculty_name FROM faculty WHERE faculty_id = $1`
	var faculty models.Faculty
	if err := r.get(ctx, &faculty, "faculty", query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// AdvisorsByRoom lists the teachers advising a room.
func (r *ProfileRepository) AdvisorsByRoom(ctx context.Context, roomID int64) ([]models.Teacher, error) {
	const query = `SELECT t.teacher_id, t.prefix, t.first_name, t.last_name
FROM room_advisor ra
JOIN teacher t ON t.teacher_id = ra.teacher_id
WHERE ra.room_id = $1
ORDER BY t.first_name, t.last_name`
	var teachers []models.Teacher
	if err := r.clients.FromContext(ctx).Select(ctx, &teachers, query, roomID); err != nil {
		return nil, fmt.Errorf("list advisors: %w", err)
	}
	return teachers, nil
}
