package models

import (
	"encoding/json"
	"time"
)

// DefaultCalculatedBy labels recomputations whose invoker did not identify itself.
const DefaultCalculatedBy = "admin"

// CalculationRequest triggers average recomputation for a round. around_id may arrive
// as a JSON number or a numeric string.
type CalculationRequest struct {
	RoundID      json.Number `json:"around_id" form:"around_id" swaggertype:"string" example:"202501"`
	CalculatedBy string      `json:"calculated_by" form:"calculated_by" validate:"max=100"`
}

// CalculationResult is the flat response contract of the calculation trigger.
type CalculationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// CalculationStatus records the latest recomputation outcome for a round.
type CalculationStatus struct {
	RoundID      int64     `json:"around_id"`
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	Status       int       `json:"status"`
	CalculatedBy string    `json:"calculated_by"`
	Errors       []string  `json:"errors,omitempty"`
	FinishedAt   time.Time `json:"finished_at"`
}
