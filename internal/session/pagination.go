package session

import "github.com/prepquest/prepquest-backend/internal/quest"

// PageTracker maintains the total page count per subject, derived from the
// upstream total question count. Page numbers are 1-based and never leave
// [1, totalPages].
type PageTracker struct {
	totals map[string]int
}

// NewPageTracker returns an empty tracker. Subjects with no recorded total
// report a single page.
func NewPageTracker() *PageTracker {
	return &PageTracker{totals: make(map[string]int)}
}

// RecordTotal stores the page count for a subject from an upstream total
// question count. A total of zero still yields one page.
func (t *PageTracker) RecordTotal(subject string, totalCount int) {
	pages := (totalCount + quest.PageSize - 1) / quest.PageSize
	if pages < 1 {
		pages = 1
	}
	t.totals[subject] = pages
}

// TotalPages returns the recorded page count for a subject, minimum 1.
func (t *PageTracker) TotalPages(subject string) int {
	if n, ok := t.totals[subject]; ok {
		return n
	}
	return 1
}

// Clamp forces a requested page into the valid range for a subject.
func (t *PageTracker) Clamp(subject string, page int) int {
	total := t.TotalPages(subject)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
