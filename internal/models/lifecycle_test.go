package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"draft to active", StatusDraft, StatusActive, true},
		{"draft to archived", StatusDraft, StatusArchived, true},
		{"draft to suspended", StatusDraft, StatusSuspended, false},
		{"active to suspended", StatusActive, StatusSuspended, true},
		{"active to archived", StatusActive, StatusArchived, true},
		{"active back to draft", StatusActive, StatusDraft, false},
		{"suspended to active", StatusSuspended, StatusActive, true},
		{"suspended to archived", StatusSuspended, StatusArchived, true},
		{"suspended back to draft", StatusSuspended, StatusDraft, false},
		{"archived to active", StatusArchived, StatusActive, false},
		{"archived to suspended", StatusArchived, StatusSuspended, false},
		{"archived to draft", StatusArchived, StatusDraft, false},
		{"same state draft", StatusDraft, StatusDraft, true},
		{"same state archived", StatusArchived, StatusArchived, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.allowed {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses() {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "deleted", "Active", "DRAFT"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}
