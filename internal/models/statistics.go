package models

import "time"

// TeacherAverage is the per-teacher roll-up written by calculate_teacher_averages.
type TeacherAverage struct {
	RoundID      int64     `db:"around_id" json:"around_id"`
	TeacherID    int64     `db:"teacher_id" json:"teacher_id"`
	AverageScore float64   `db:"average_score" json:"average_score"`
	Respondents  int       `db:"respondents" json:"respondents"`
	CalculatedBy string    `db:"calculated_by" json:"calculated_by"`
	CalculatedAt time.Time `db:"calculated_at" json:"calculated_at"`
}

// MajorAverage is the per-major roll-up written by calculate_major_averages.
type MajorAverage struct {
	RoundID      int64   `db:"around_id" json:"around_id"`
	MajorID      int64   `db:"major_id" json:"major_id"`
	MajorName    string  `db:"major_name" json:"major_name"`
	FacultyName  string  `db:"faculty_name" json:"faculty_name"`
	AverageScore float64 `db:"average_score" json:"average_score"`
	Respondents  int     `db:"respondents" json:"respondents"`
}

// FacultyAverage is the per-faculty roll-up written by calculate_faculty_averages.
type FacultyAverage struct {
	RoundID      int64   `db:"around_id" json:"around_id"`
	FacultyID    int64   `db:"faculty_id" json:"faculty_id"`
	FacultyName  string  `db:"faculty_name" json:"faculty_name"`
	AverageScore float64 `db:"average_score" json:"average_score"`
	Respondents  int     `db:"respondents" json:"respondents"`
}
