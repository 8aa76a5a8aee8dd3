package session

import (
	"fmt"

	"github.com/prepquest/prepquest-backend/internal/model"
	"github.com/prepquest/prepquest-backend/internal/quest"
)

// Snapshot is the UI-facing view of a session at a point in time: position,
// the loaded page, derived labels and navigation affordances.
type Snapshot struct {
	ID            string            `json:"id"`
	Exam          string            `json:"exam"`
	Mode          model.Mode        `json:"mode"`
	Subjects      []string          `json:"subjects"`
	SubjectIndex  int               `json:"subject_index"`
	Subject       string            `json:"subject"`
	Page          int               `json:"page"`
	TotalPages    int               `json:"total_pages"`
	QuestionIndex int               `json:"question_index"`
	Ordinal       int               `json:"ordinal"`
	Label         string            `json:"label"`
	Questions     []model.Question  `json:"questions"`
	Answers       map[string]string `json:"answers"`
	PrevEnabled   bool              `json:"prev_enabled"`
	NextEnabled   bool              `json:"next_enabled"`
	TimeRemaining *int              `json:"time_remaining,omitempty"`
	Clock         string            `json:"clock,omitempty"`
	Submitted     bool              `json:"submitted"`
}

// Snapshot captures the current state for the UI.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	subject := s.subjects[s.subjectIdx]
	totalPages := s.pages.TotalPages(subject)
	ordinal := (s.page-1)*quest.PageSize + s.questionIdx

	snap := Snapshot{
		ID:            s.ID.String(),
		Exam:          s.Exam,
		Mode:          s.Mode,
		Subjects:      append([]string(nil), s.subjects...),
		SubjectIndex:  s.subjectIdx,
		Subject:       subject,
		Page:          s.page,
		TotalPages:    totalPages,
		QuestionIndex: s.questionIdx,
		Ordinal:       ordinal,
		Questions:     append([]model.Question(nil), s.loaded...),
		Answers:       make(map[string]string, len(s.answers)),
		Submitted:     s.submitted,
	}
	for k, v := range s.answers {
		snap.Answers[k] = v
	}

	if s.Mode == model.ModeExam {
		count := s.optionForLocked(subject).Count
		snap.Label = fmt.Sprintf("Question %d of %d", ordinal+1, count)
		snap.PrevEnabled = !(s.questionIdx == 0 && s.page <= 1 && s.subjectIdx == 0)
		// Forward navigation pins at the configured count, or earlier when the
		// bank runs out of pages first.
		countReached := ordinal+1 >= count
		pagesExhausted := s.page >= totalPages && s.questionIdx >= len(s.loaded)-1
		lastSubject := s.subjectIdx >= len(s.subjects)-1
		snap.NextEnabled = !(lastSubject && (countReached || pagesExhausted))
	} else {
		snap.Label = fmt.Sprintf("Page %d of %d", s.page, totalPages)
		snap.PrevEnabled = s.page > 1
		snap.NextEnabled = s.page < totalPages
	}

	if s.timer != nil {
		remaining := s.timer.Remaining()
		snap.TimeRemaining = &remaining
		snap.Clock = FormatClock(remaining)
	}

	return snap
}
