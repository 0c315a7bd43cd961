package entity

import "time"

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "APPLIED"
	StatusShortlisted ApplicationStatus = "SHORTLISTED"
	StatusSelected    ApplicationStatus = "SELECTED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusWithdrawn   ApplicationStatus = "WITHDRAWN"
)

// recruiterTransitions is the recruiter-driven state machine. Terminal states
// have no entry.
var recruiterTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:     {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusSelected, StatusRejected},
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusSelected, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// IsRecruiterTarget reports whether a recruiter may request s at all.
func (s ApplicationStatus) IsRecruiterTarget() bool {
	return s == StatusShortlisted || s == StatusSelected || s == StatusRejected
}

// CanTransitionTo reports whether a recruiter may move s to target.
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	for _, next := range recruiterTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// CanWithdraw reports whether a student may withdraw from s.
func (s ApplicationStatus) CanWithdraw() bool {
	return s == StatusApplied || s == StatusShortlisted
}

func (s ApplicationStatus) Terminal() bool {
	return len(recruiterTransitions[s]) == 0
}

type Application struct {
	ID        string
	StudentID string
	JobID     string
	Status    ApplicationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
