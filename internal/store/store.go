package store

import (
	"errors"
	"time"

	"github.com/prepquest/prepquest-backend/internal/model"
)

var ErrNotFound = errors.New("not found")

// Attempt is one finished session's outcome as recorded in history. Live
// session state is never persisted; only the compiled result of a submitted
// exam lands here, for the performance screen.
type Attempt struct {
	ID         int64                 `json:"id"`
	SessionID  string                `json:"session_id"`
	UserID     string                `json:"user_id"`
	Exam       string                `json:"exam"`
	Mode       string                `json:"mode"`
	Score      int                   `json:"score"`
	Total      int                   `json:"total"`
	Percentage int                   `json:"percentage"`
	Grade      string                `json:"grade"`
	TakenAt    time.Time             `json:"taken_at"`
	Subjects   []model.SubjectResult `json:"subjects"`
}

// SubjectSummary aggregates a user's attempts for one subject.
type SubjectSummary struct {
	Subject        string `json:"subject"`
	Attempts       int    `json:"attempts"`
	AvgPercentage  int    `json:"avg_percentage"`
	BestPercentage int    `json:"best_percentage"`
}
