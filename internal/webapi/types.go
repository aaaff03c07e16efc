package webapi

import (
	"time"

	"github.com/taskeval/evalboard/internal/models"
)

// EvaluationView is the API shape of a persisted evaluation.
type EvaluationView struct {
	ID        int64     `json:"id"`
	TaskID    string    `json:"taskId"`
	IsCorrect bool      `json:"isCorrect"`
	Feedback  *string   `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func toView(e models.Evaluation) EvaluationView {
	return EvaluationView{
		ID:        e.ID,
		TaskID:    e.TaskID,
		IsCorrect: e.IsCorrect,
		Feedback:  e.Feedback,
		Timestamp: e.Timestamp,
	}
}

// SummaryResponse is the aggregate KPI response.
type SummaryResponse struct {
	Total         int     `json:"total"`
	Correct       int     `json:"correct"`
	Incorrect     int     `json:"incorrect"`
	CorrectRate   float64 `json:"correctRate"`
	IncorrectRate float64 `json:"incorrectRate"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
