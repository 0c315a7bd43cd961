package entity

import (
	"strings"
	"time"
)

type RecruiterProfile struct {
	ID             string
	IdentityID     string
	CompanyName    string
	RecruitingYear int
	CompanyWebsite string
	ContactPerson  string
	ContactEmail   string
	ContactNumber  string
	IsVerified     bool
	VerifiedBy     *string
	VerifiedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RecruiterUpdate is a partial update of the recruiter-editable fields.
type RecruiterUpdate struct {
	CompanyWebsite *string
	ContactPerson  *string
	ContactEmail   *string
	ContactNumber  *string
}

func (u RecruiterUpdate) Empty() bool {
	return u.CompanyWebsite == nil && u.ContactPerson == nil && u.ContactEmail == nil && u.ContactNumber == nil
}

func (r *RecruiterProfile) Apply(u RecruiterUpdate) {
	if u.CompanyWebsite != nil {
		r.CompanyWebsite = strings.TrimSpace(*u.CompanyWebsite)
	}
	if u.ContactPerson != nil {
		r.ContactPerson = strings.TrimSpace(*u.ContactPerson)
	}
	if u.ContactEmail != nil {
		r.ContactEmail = NormalizeEmail(*u.ContactEmail)
	}
	if u.ContactNumber != nil {
		r.ContactNumber = strings.TrimSpace(*u.ContactNumber)
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
