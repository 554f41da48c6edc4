package dto

import (
	"time"

	"github.com/noah-isme/advisor-assessment/internal/models"
)

// RoundView is a round decorated for display.
type RoundView struct {
	RoundID    int64     `json:"around_id"`
	Label      string    `json:"label"`
	Status     string    `json:"status"`
	Active     bool      `json:"active"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	StartLabel string    `json:"start_label"`
	EndLabel   string    `json:"end_label"`
}

// AdvisorProgress tells a student whether one advisor has been evaluated in a round.
type AdvisorProgress struct {
	TeacherID int64  `json:"teacher_id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// StudentRound lists a round together with the student's progress per advisor.
type StudentRound struct {
	RoundView
	Advisors []AdvisorProgress `json:"advisors"`
}

// StudentDashboard is the payload of /dashboard.
type StudentDashboard struct {
	StudentID    int64          `json:"student_id"`
	StudentCode  string         `json:"student_code"`
	Name         string         `json:"name"`
	RoomName     string         `json:"room_name"`
	MajorName    string         `json:"major_name"`
	FacultyName  string         `json:"faculty_name"`
	AdvisorNames string         `json:"advisor_names"`
	Rounds       []StudentRound `json:"rounds"`
}

// CommentView is an anonymous free-text answer.
type CommentView struct {
	Question  string `json:"question"`
	Text      string `json:"text"`
	DateLabel string `json:"date_label"`
}

// TeacherRound carries a teacher's result for one round. Average is nil until the
// round has been calculated.
type TeacherRound struct {
	RoundView
	Average  *models.TeacherAverage `json:"average,omitempty"`
	Comments []CommentView          `json:"comments"`
}

// TeacherDashboard is the payload of /dashboard-teacher.
type TeacherDashboard struct {
	TeacherID int64          `json:"teacher_id"`
	Name      string         `json:"name"`
	Rounds    []TeacherRound `json:"rounds"`
}

// AdminRound is a round with its answer count.
type AdminRound struct {
	RoundView
	Answers int `json:"answers"`
}

// Statistics holds the faculty and major roll-ups of one round.
type Statistics struct {
	RoundID   int64                   `json:"around_id"`
	Label     string                  `json:"label"`
	Faculties []models.FacultyAverage `json:"faculties"`
	Majors    []models.MajorAverage   `json:"majors"`
}

// AdminDashboard is the payload of /admin.
type AdminDashboard struct {
	Name       string       `json:"name"`
	Rounds     []AdminRound `json:"rounds"`
	Statistics *Statistics  `json:"statistics,omitempty"`
}

// ExecutiveDashboard is the payload of /dashboard-executive.
type ExecutiveDashboard struct {
	Name       string      `json:"name"`
	Rounds     []RoundView `json:"rounds"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

// EvaluationForm is the payload of the student evaluation page.
type EvaluationForm struct {
	Round     RoundView         `json:"round"`
	TeacherID int64             `json:"teacher_id"`
	Teacher   string            `json:"teacher"`
	Completed bool              `json:"completed"`
	Questions []models.Question `json:"questions"`
}
