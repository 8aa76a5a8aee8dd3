package session

import "github.com/prepquest/prepquest-backend/internal/quest"

// navigator is the mode-dependent stepping strategy. Implementations are
// called with the session lock held, mutate only the position fields and
// report whether the move requires a page load. Boundary violations are
// no-ops, never errors.
type navigator interface {
	next(s *Session) (needLoad bool)
	prev(s *Session) (needLoad bool)
}

// studyNavigator pages through questions ten at a time. There is no
// cross-subject auto-advance; switching subjects is an explicit tab action.
type studyNavigator struct{}

func (studyNavigator) next(s *Session) bool {
	subject := s.subjects[s.subjectIdx]
	target := s.pages.Clamp(subject, s.page+1)
	if target == s.page {
		return false
	}
	s.page = target
	return true
}

func (studyNavigator) prev(s *Session) bool {
	if s.page <= 1 {
		return false
	}
	s.page--
	return true
}

// examNavigator steps a single question at a time, crossing page and subject
// boundaries. Forward progress within a subject stops at its configured
// count; at the last question of the last subject the session is pinned.
type examNavigator struct{}

func (examNavigator) next(s *Session) bool {
	subject := s.subjects[s.subjectIdx]
	opt := s.optionForLocked(subject)

	overall := (s.page-1)*quest.PageSize + s.questionIdx + 1
	if overall >= opt.Count {
		// Configured quota for this subject reached.
		if s.subjectIdx < len(s.subjects)-1 {
			s.subjectIdx++
			s.page = 1
			s.questionIdx = 0
			return true
		}
		return false
	}

	if s.questionIdx < len(s.loaded)-1 {
		s.questionIdx++
		return false
	}

	if s.page < s.pages.TotalPages(subject) {
		s.page++
		s.questionIdx = 0
		return true
	}

	if s.subjectIdx < len(s.subjects)-1 {
		s.subjectIdx++
		s.page = 1
		s.questionIdx = 0
		return true
	}

	return false
}

func (examNavigator) prev(s *Session) bool {
	if s.questionIdx > 0 {
		s.questionIdx--
		return false
	}

	if s.page > 1 {
		// Land on the last slot of the previous page. A short page pulls the
		// cursor in once the load completes.
		s.page--
		s.questionIdx = quest.PageSize - 1
		return true
	}

	if s.subjectIdx > 0 {
		// The previous subject restarts at its first page; the position the
		// user last held there is not restored.
		s.subjectIdx--
		s.page = 1
		s.questionIdx = 0
		return true
	}

	return false
}
