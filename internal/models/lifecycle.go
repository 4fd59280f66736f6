package models

// Status is the lifecycle state shared by every managed resource.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusArchived  Status = "archived"
)

// legalTransitions is the fixed transition graph. Archived is terminal and
// nothing re-enters draft once left.
var legalTransitions = map[Status]map[Status]bool{
	StatusDraft: {
		StatusActive:   true,
		StatusArchived: true,
	},
	StatusActive: {
		StatusSuspended: true,
		StatusArchived:  true,
	},
	StatusSuspended: {
		StatusActive:   true,
		StatusArchived: true,
	},
	StatusArchived: {},
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusActive, StatusSuspended, StatusArchived:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
// Staying in the same state is not a transition and is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return legalTransitions[from][to]
}

// Statuses returns every lifecycle state, for filter validation.
func Statuses() []string {
	return []string{
		string(StatusDraft),
		string(StatusActive),
		string(StatusSuspended),
		string(StatusArchived),
	}
}
