package session

import (
	"github.com/prepquest/prepquest-backend/internal/model"
)

// seenQuestion pairs a question with the subject it was served under, in the
// exact form (post-shuffle) it was presented.
type seenQuestion struct {
	subject  string
	ordinal  int
	question model.Question
}

// Compile reconciles recorded answers against every question seen during the
// session and produces the immutable ResultSet.
//
// Scoring is an exact string match between the recorded answer and the
// question's canonical answer; unanswered questions count as wrong. The
// percentage denominator is the configured per-subject count, not the number
// of questions actually seen, so unseen questions of an abandoned exam are
// penalized.
func Compile(options []model.SubjectOption, seen []seenQuestion, answers map[string]string) *model.ResultSet {
	rs := &model.ResultSet{
		PerSubject:  make([]model.SubjectResult, 0, len(options)),
		Corrections: make([]model.Correction, 0, len(seen)),
	}

	for _, opt := range options {
		score := 0
		for _, sq := range seen {
			if sq.subject != opt.Subject {
				continue
			}
			got, ok := answers[answerKey(sq.subject, sq.ordinal)]
			if ok && got != "" && got == sq.question.Answer {
				score++
			}
		}

		percentage := 0
		if opt.Count > 0 {
			percentage = int(float64(score)/float64(opt.Count)*100 + 0.5)
		}

		rs.PerSubject = append(rs.PerSubject, model.SubjectResult{
			Subject:    opt.Subject,
			Score:      score,
			Total:      opt.Count,
			Percentage: percentage,
		})
		rs.OverallScore += score
		rs.OverallTotal += opt.Count
	}

	for _, sq := range seen {
		rs.Corrections = append(rs.Corrections, model.Correction{
			Subject:     sq.subject,
			Question:    sq.question.Text,
			Options:     sq.question.Options,
			Answer:      sq.question.Answer,
			AnswerLabel: answerLabel(sq.question),
			UserAnswer:  answers[answerKey(sq.subject, sq.ordinal)],
			Instruction: sq.question.Instruction,
			Correction:  sq.question.Correction,
		})
	}

	return rs
}

// answerLabel locates the correct answer among the question's options (in the
// order the candidate saw them) and returns its display letter; empty when the
// answer does not appear among the options.
func answerLabel(q model.Question) string {
	for i, opt := range q.Options {
		if opt == q.Answer {
			return model.OptionLabel(i)
		}
	}
	return ""
}
