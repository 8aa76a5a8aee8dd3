package session_test

import (
	"testing"

	"github.com/prepquest/prepquest-backend/internal/session"
)

func TestRecordTotal(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		wantPages int
	}{
		{"zero total still one page", 0, 1},
		{"under one page", 7, 1},
		{"exactly one page", 10, 1},
		{"one over", 11, 2},
		{"several pages", 45, 5},
		{"exact multiple", 50, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := session.NewPageTracker()
			tr.RecordTotal("Physics", tt.total)
			if got := tr.TotalPages("Physics"); got != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got, tt.wantPages)
			}
		})
	}
}

func TestTotalPagesUnknownSubject(t *testing.T) {
	tr := session.NewPageTracker()
	if got := tr.TotalPages("Chemistry"); got != 1 {
		t.Errorf("TotalPages for unknown subject = %d, want 1", got)
	}
}

func TestClamp(t *testing.T) {
	tr := session.NewPageTracker()
	tr.RecordTotal("English", 40) // 4 pages

	tests := []struct {
		page int
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{4, 4},
		{5, 4},
		{99, 4},
	}

	for _, tt := range tests {
		if got := tr.Clamp("English", tt.page); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.page, got, tt.want)
		}
	}

	// Unknown subject clamps everything to page 1.
	if got := tr.Clamp("Unknown", 7); got != 1 {
		t.Errorf("Clamp on unknown subject = %d, want 1", got)
	}
}
