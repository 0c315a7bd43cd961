package entity

import (
	"errors"
	"time"
)

type JobType string

const (
	JobTypeInternship JobType = "Internship"
	JobTypeFullTime   JobType = "Full-Time"
)

func (t JobType) Valid() bool { return t == JobTypeInternship || t == JobTypeFullTime }

type JobStatus string

const (
	JobOpen      JobStatus = "OPEN"
	JobClosed    JobStatus = "CLOSED"
	JobWithdrawn JobStatus = "WITHDRAWN"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobOpen, JobClosed, JobWithdrawn:
		return true
	}
	return false
}

var (
	ErrNoBranches        = errors.New("eligibility.branches must not be empty")
	ErrUnknownBranch     = errors.New("eligibility.branches contains an unknown branch")
	ErrMinCGPAOutOfRange = errors.New("eligibility.minCgpa must be between 0 and 10")
)

// Eligibility is the predicate a student must satisfy to apply.
type Eligibility struct {
	Branches []Branch `json:"branches"`
	MinCGPA  *float64 `json:"minCgpa,omitempty"`
}

func (e Eligibility) Validate() error {
	if len(e.Branches) == 0 {
		return ErrNoBranches
	}
	for _, b := range e.Branches {
		if !b.Valid() {
			return ErrUnknownBranch
		}
	}
	if e.MinCGPA != nil && !ValidCGPA(*e.MinCGPA) {
		return ErrMinCGPAOutOfRange
	}
	return nil
}

func (e Eligibility) AllowsBranch(b Branch) bool {
	for _, v := range e.Branches {
		if v == b {
			return true
		}
	}
	return false
}

// MeetsCGPA reports whether cgpa satisfies the threshold. No threshold
// admits everyone; a threshold rejects a student without a recorded cgpa.
func (e Eligibility) MeetsCGPA(cgpa *float64) bool {
	if e.MinCGPA == nil {
		return true
	}
	return cgpa != nil && *e.MinCGPA <= *cgpa
}

type Job struct {
	ID          string
	RecruiterID string
	Title       string
	Description string
	Eligibility Eligibility
	JobType     JobType
	Location    string
	CTC         string
	Deadline    time.Time
	Status      JobStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeadlinePassed reports whether the job's deadline is strictly before now.
func (j *Job) DeadlinePassed(now time.Time) bool { return j.Deadline.Before(now) }

// JobUpdate is a partial update applied by the owning recruiter.
type JobUpdate struct {
	Title       *string
	Description *string
	Eligibility *Eligibility
	JobType     *JobType
	Location    *string
	CTC         *string
	Deadline    *time.Time
	Status      *JobStatus
}

func (u JobUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Eligibility == nil && u.JobType == nil &&
		u.Location == nil && u.CTC == nil && u.Deadline == nil && u.Status == nil
}

func (j *Job) Apply(u JobUpdate) {
	if u.Title != nil {
		j.Title = *u.Title
	}
	if u.Description != nil {
		j.Description = *u.Description
	}
	if u.Eligibility != nil {
		j.Eligibility = *u.Eligibility
	}
	if u.JobType != nil {
		j.JobType = *u.JobType
	}
	if u.Location != nil {
		j.Location = *u.Location
	}
	if u.CTC != nil {
		j.CTC = *u.CTC
	}
	if u.Deadline != nil {
		j.Deadline = *u.Deadline
	}
	if u.Status != nil {
		j.Status = *u.Status
	}
}

// Company is the owning recruiter summary attached to job listings.
type Company struct {
	CompanyName    string `json:"companyName"`
	RecruitingYear int    `json:"recruitingYear"`
}
