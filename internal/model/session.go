package model

// Mode selects the stepping granularity of a session: study mode pages through
// ten questions at a time, exam mode advances one question at a time.
type Mode string

const (
	ModeStudy Mode = "study"
	ModeExam  Mode = "exam"
)

// SubjectOption is the per-subject configuration chosen on the options screen.
// Immutable once the session starts.
type SubjectOption struct {
	Subject          string `json:"subject" binding:"required,min=1,max=100"`
	Year             string `json:"year"`
	Topic            string `json:"topic"`
	Count            int    `json:"count" binding:"required,min=1"`
	ShuffleQuestions bool   `json:"shuffle_questions"`
	ShuffleOptions   bool   `json:"shuffle_options"`
}

// CreateSessionRequest is the payload for starting a study or exam session.
type CreateSessionRequest struct {
	Exam         string          `json:"exam" binding:"required,min=1,max=50"`
	Mode         string          `json:"mode" binding:"required,oneof=study exam"`
	Subjects     []SubjectOption `json:"subjects" binding:"required,min=1,dive"`
	TimerEnabled bool            `json:"timer_enabled"`
	// Duration is a human-readable duration such as "30 mins" or "1 hr 30 mins".
	// Only meaningful in exam mode with the timer enabled.
	Duration string `json:"duration"`
}

// AnswerRequest records the selected option for one question.
type AnswerRequest struct {
	Subject string `json:"subject" binding:"required"`
	Ordinal *int   `json:"ordinal" binding:"required,min=0"`
	Option  string `json:"option" binding:"required"`
}

// ChangeSubjectRequest switches the active subject tab.
type ChangeSubjectRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// ChangePageRequest jumps to a page of the active subject.
type ChangePageRequest struct {
	Page *int `json:"page" binding:"required,min=1"`
}
