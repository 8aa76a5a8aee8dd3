package session

import (
	"testing"

	"github.com/prepquest/prepquest-backend/internal/model"
)

func seenFor(subject string, answers ...string) []seenQuestion {
	seen := make([]seenQuestion, len(answers))
	for i, ans := range answers {
		seen[i] = seenQuestion{
			subject: subject,
			ordinal: i,
			question: model.Question{
				Text:    "q",
				Options: []string{"right", "wrong"},
				Answer:  ans,
			},
		}
	}
	return seen
}

func TestCompileAllCorrect(t *testing.T) {
	opts := []model.SubjectOption{{Subject: "Biology", Count: 10}}
	seen := seenFor("Biology", "a", "a", "a", "a", "a", "a", "a", "a", "a", "a")
	answers := make(map[string]string)
	for i := 0; i < 10; i++ {
		answers[answerKey("Biology", i)] = "a"
	}

	rs := Compile(opts, seen, answers)
	if rs.OverallScore != 10 || rs.OverallTotal != 10 {
		t.Fatalf("overall = %d/%d, want 10/10", rs.OverallScore, rs.OverallTotal)
	}
	if rs.PerSubject[0].Percentage != 100 {
		t.Errorf("percentage = %d, want 100", rs.PerSubject[0].Percentage)
	}
	if rs.OverallPercentage() != 100 {
		t.Errorf("overall percentage = %d, want 100", rs.OverallPercentage())
	}
	if len(rs.Corrections) != 10 {
		t.Errorf("corrections = %d, want 10", len(rs.Corrections))
	}
}

func TestCompileUnansweredCountsWrong(t *testing.T) {
	opts := []model.SubjectOption{{Subject: "Physics", Count: 4}}
	seen := seenFor("Physics", "a", "a", "a", "a")
	answers := map[string]string{
		answerKey("Physics", 0): "a",
		answerKey("Physics", 1): "b",
		// ordinals 2 and 3 unanswered
	}

	rs := Compile(opts, seen, answers)
	if rs.OverallScore != 1 {
		t.Fatalf("score = %d, want 1", rs.OverallScore)
	}
	if rs.PerSubject[0].Percentage != 25 {
		t.Errorf("percentage = %d, want 25", rs.PerSubject[0].Percentage)
	}
}

func TestCompileDenominatorIsConfiguredCount(t *testing.T) {
	// The candidate never reached questions 5..9: they still count against the
	// configured total.
	opts := []model.SubjectOption{{Subject: "Chemistry", Count: 10}}
	seen := seenFor("Chemistry", "a", "a", "a", "a", "a")
	answers := make(map[string]string)
	for i := 0; i < 5; i++ {
		answers[answerKey("Chemistry", i)] = "a"
	}

	rs := Compile(opts, seen, answers)
	if rs.PerSubject[0].Score != 5 {
		t.Fatalf("score = %d, want 5", rs.PerSubject[0].Score)
	}
	if rs.PerSubject[0].Total != 10 {
		t.Fatalf("total = %d, want 10", rs.PerSubject[0].Total)
	}
	if rs.PerSubject[0].Percentage != 50 {
		t.Errorf("percentage = %d, want 50", rs.PerSubject[0].Percentage)
	}
	if len(rs.Corrections) != 5 {
		t.Errorf("corrections = %d, want 5 (only seen questions)", len(rs.Corrections))
	}
}

func TestCompileMultipleSubjects(t *testing.T) {
	opts := []model.SubjectOption{
		{Subject: "English", Count: 2},
		{Subject: "Maths", Count: 2},
	}
	seen := append(seenFor("English", "a", "a"), seenFor("Maths", "a", "a")...)
	answers := map[string]string{
		answerKey("English", 0): "a",
		answerKey("English", 1): "a",
		answerKey("Maths", 0):   "a",
		answerKey("Maths", 1):   "x",
	}

	rs := Compile(opts, seen, answers)
	if len(rs.PerSubject) != 2 {
		t.Fatalf("subjects = %d, want 2", len(rs.PerSubject))
	}
	if rs.PerSubject[0].Score != 2 || rs.PerSubject[1].Score != 1 {
		t.Errorf("scores = %d/%d, want 2/1", rs.PerSubject[0].Score, rs.PerSubject[1].Score)
	}
	if rs.OverallScore != 3 || rs.OverallTotal != 4 {
		t.Errorf("overall = %d/%d, want 3/4", rs.OverallScore, rs.OverallTotal)
	}
	if rs.OverallPercentage() != 75 {
		t.Errorf("overall percentage = %d, want 75", rs.OverallPercentage())
	}
}

func TestCompileEmptyAnswerIsWrong(t *testing.T) {
	opts := []model.SubjectOption{{Subject: "Govt", Count: 1}}
	seen := []seenQuestion{{
		subject:  "Govt",
		ordinal:  0,
		question: model.Question{Answer: ""},
	}}
	answers := map[string]string{answerKey("Govt", 0): ""}

	// An empty selection never matches, even against an empty answer key.
	rs := Compile(opts, seen, answers)
	if rs.OverallScore != 0 {
		t.Errorf("score = %d, want 0", rs.OverallScore)
	}
}

func TestCompileCorrectionsCarryUserAnswer(t *testing.T) {
	opts := []model.SubjectOption{{Subject: "CRS", Count: 2}}
	seen := []seenQuestion{
		{subject: "CRS", ordinal: 0, question: model.Question{
			Text: "first", Options: []string{"no", "yes"}, Answer: "yes", Correction: "because",
		}},
		{subject: "CRS", ordinal: 1, question: model.Question{Text: "second", Answer: "no"}},
	}
	answers := map[string]string{answerKey("CRS", 0): "maybe"}

	rs := Compile(opts, seen, answers)
	if len(rs.Corrections) != 2 {
		t.Fatalf("corrections = %d, want 2", len(rs.Corrections))
	}
	if rs.Corrections[0].UserAnswer != "maybe" {
		t.Errorf("user answer = %q, want %q", rs.Corrections[0].UserAnswer, "maybe")
	}
	if rs.Corrections[0].Correction != "because" {
		t.Errorf("correction text = %q, want %q", rs.Corrections[0].Correction, "because")
	}
	if rs.Corrections[0].AnswerLabel != "B" {
		t.Errorf("answer label = %q, want B", rs.Corrections[0].AnswerLabel)
	}
	if rs.Corrections[1].AnswerLabel != "" {
		t.Errorf("answer label = %q, want empty when answer not among options", rs.Corrections[1].AnswerLabel)
	}
	if rs.Corrections[1].UserAnswer != "" {
		t.Errorf("unanswered user answer = %q, want empty", rs.Corrections[1].UserAnswer)
	}
}

func TestGradeBands(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{100, "A"},
		{80, "A"},
		{79, "B"},
		{70, "B"},
		{69, "C"},
		{60, "C"},
		{59, "D"},
		{50, "D"},
		{49, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := model.Grade(tt.percentage); got != tt.want {
			t.Errorf("Grade(%d) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}
