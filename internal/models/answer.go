package models

import "time"

// Answer is one student's response to one question about one teacher in one round.
type Answer struct {
	ID        int64     `db:"answer_id" json:"answer_id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	TeacherID int64     `db:"teacher_id" json:"teacher_id"`
	RoundID   int64     `db:"around_id" json:"around_id"`
	DetailID  int64     `db:"detail_id" json:"detail_id"`
	Score     *int      `db:"score" json:"score,omitempty"`
	Text      *string   `db:"answer_text" json:"answer_text,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EvaluationRequest submits a full evaluation of one advisor.
type EvaluationRequest struct {
	RoundID   int64             `json:"around_id" validate:"required,gt=0"`
	TeacherID int64             `json:"teacher_id" validate:"required,gt=0"`
	Answers   []EvaluationInput `json:"answers" validate:"required,min=1,dive"`
}

// EvaluationInput is the answer to a single question.
type EvaluationInput struct {
	DetailID int64   `json:"detail_id" validate:"required,gt=0"`
	Score    *int    `json:"score" validate:"omitempty,min=1,max=5"`
	Text     *string `json:"text" validate:"omitempty,max=2000"`
}

// Comment is a free-text answer shown to the evaluated teacher without student identity.
type Comment struct {
	Question  string    `db:"question" json:"question"`
	Text      string    `db:"answer_text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
