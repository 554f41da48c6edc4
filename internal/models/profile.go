package models

import "strings"

// Student is the profile row of a student account.
type Student struct {
	ID        int64  `db:"student_id" json:"student_id"`
	Code      string `db:"student_code" json:"student_code"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	RoomID    int64  `db:"room_id" json:"room_id"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return joinName(s.FirstName, s.LastName)
}

// Teacher is the profile row of a teacher (advisor).
type Teacher struct {
	ID        int64  `db:"teacher_id" json:"teacher_id"`
	Prefix    string `db:"prefix" json:"prefix"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// FullName includes the academic prefix when present.
func (t Teacher) FullName() string {
	return joinName(t.Prefix+t.FirstName, t.LastName)
}

// Staff covers the admin and executive profile tables, which share a shape.
type Staff struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// FullName joins first and last name.
func (s Staff) FullName() string {
	return joinName(s.FirstName, s.LastName)
}

type Room struct {
	ID      int64  `db:"room_id" json:"room_id"`
	Name    string `db:"room_name" json:"room_name"`
	MajorID int64  `db:"major_id" json:"major_id"`
}

type Major struct {
	ID        int64  `db:"major_id" json:"major_id"`
	Name      string `db:"major_name" json:"major_name"`
	FacultyID int64  `db:"faculty_id" json:"faculty_id"`
}

type Faculty struct {
	ID   int64  `db:"faculty_id" json:"faculty_id"`
	Name string `db:"faculty_name" json:"faculty_name"`
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
