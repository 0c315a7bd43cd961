package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrConditionFailed = errors.New("conditional write failed")
)

// Unique keys reported by DuplicateError.
const (
	KeyEmail             = "email"
	KeyRollNumber        = "roll_number"
	KeyStudentIdentity   = "student_identity"
	KeyRecruiterIdentity = "recruiter_identity"
	KeyCompanyYear       = "company_year"
	KeyApplication       = "student_job"
)

// DuplicateError is a uniqueness violation on Key. It matches ErrDuplicate.
type DuplicateError struct {
	Key string
}

func (e *DuplicateError) Error() string { return "duplicate key: " + e.Key }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// DuplicateKey returns the violated key of err, if it is a DuplicateError.
func DuplicateKey(err error) (string, bool) {
	var de *DuplicateError
	if errors.As(err, &de) {
		return de.Key, true
	}
	return "", false
}
