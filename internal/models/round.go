package models

import "time"

// Round is one assessment period. ID encodes the Gregorian year followed by the term digit.
type Round struct {
	ID        int64     `db:"around_id" json:"around_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
}

// Active reports whether the round is still accepting answers at now.
func (r Round) Active(now time.Time) bool {
	return !now.After(r.EndDate)
}

// QuestionType distinguishes rated questions from free-text ones.
type QuestionType string

const (
	QuestionRating QuestionType = "rating"
	QuestionText   QuestionType = "text"
)

// Question is one assessment detail row of a round, optionally with its own window.
type Question struct {
	ID        int64        `db:"detail_id" json:"detail_id"`
	RoundID   int64        `db:"around_id" json:"around_id"`
	Text      string       `db:"question" json:"question"`
	Type      QuestionType `db:"question_type" json:"question_type"`
	StartDate *time.Time   `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time   `db:"end_date" json:"end_date,omitempty"`
}

// OpenAt applies the question's own window when it has one.
func (q Question) OpenAt(now time.Time) bool {
	if q.StartDate != nil && now.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && now.After(*q.EndDate) {
		return false
	}
	return true
}

// RoundRequest creates or updates a round.
type RoundRequest struct {
	RoundID   int64     `json:"around_id" validate:"required,gt=0"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// QuestionRequest adds a question to a round.
type QuestionRequest struct {
	Text      string       `json:"question" validate:"required,max=500"`
	Type      QuestionType `json:"question_type" validate:"required,oneof=rating text"`
	StartDate *time.Time   `json:"start_date"`
	EndDate   *time.Time   `json:"end_date"`
}
