package model

// SubjectResult is the scored outcome for one subject of a submitted session.
// Total is the configured question count for the subject, not the number of
// questions actually seen: an abandoned or time-expired exam counts unseen
// questions as wrong.
type SubjectResult struct {
	Subject    string `json:"subject"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// Correction is one entry of the post-exam review dataset. It covers every
// question the candidate saw, answered or not, correct or not.
type Correction struct {
	Subject     string   `json:"subject"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	AnswerLabel string   `json:"answer_label,omitempty"`
	UserAnswer  string   `json:"user_answer,omitempty"`
	Instruction string   `json:"instruction,omitempty"`
	Correction  string   `json:"correction,omitempty"`
}

// ResultSet is the immutable outcome of a submitted session.
type ResultSet struct {
	PerSubject   []SubjectResult `json:"per_subject"`
	OverallScore int             `json:"overall_score"`
	OverallTotal int             `json:"overall_total"`
	Corrections  []Correction    `json:"corrections"`
}

// OverallPercentage returns the rounded overall percentage, 0 when no
// questions were configured.
func (r *ResultSet) OverallPercentage() int {
	if r.OverallTotal == 0 {
		return 0
	}
	return int(float64(r.OverallScore)/float64(r.OverallTotal)*100 + 0.5)
}

// Grade maps a percentage to the display grade band.
func Grade(percentage int) string {
	switch {
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}
