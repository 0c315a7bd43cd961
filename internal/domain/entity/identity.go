package entity

import "time"

// Role is the immutable authorization role of an Identity.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOfficer   Role = "OFFICER"
	RoleStudent   Role = "STUDENT"
	RoleRecruiter Role = "RECRUITER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOfficer, RoleStudent, RoleRecruiter:
		return true
	}
	return false
}

// In reports whether r is one of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Identity is the root account record. Passwords, refresh tokens and reset
// tokens are stored hashed.
type Identity struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	Role               Role
	VerificationStatus VerificationStatus
	IsActive           bool

	VerifiedBy         *string
	VerifiedAt         *time.Time
	DeactivatedBy      *string
	DeactivatedAt      *time.Time
	DeactivationReason string

	RefreshTokenHash    string
	ResetTokenHash      string
	ResetTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Identity) IsVerified() bool { return i.VerificationStatus == VerificationVerified }

// MarkVerified records a verification by actor. A nil actor means the
// account verified itself (password reset).
func (i *Identity) MarkVerified(actor *string, at time.Time) {
	i.VerificationStatus = VerificationVerified
	i.VerifiedBy = actor
	i.VerifiedAt = &at
}

func (i *Identity) Deactivate(actor, reason string, at time.Time) {
	i.IsActive = false
	i.DeactivatedBy = &actor
	i.DeactivatedAt = &at
	i.DeactivationReason = reason
}

func (i *Identity) Reactivate(actor string, at time.Time) {
	i.IsActive = true
	i.DeactivatedBy = nil
	i.DeactivatedAt = nil
	i.DeactivationReason = ""
	i.MarkVerified(&actor, at)
}

// SetResetToken stores the hash of a freshly issued reset token.
func (i *Identity) SetResetToken(hash string, expiresAt time.Time) {
	i.ResetTokenHash = hash
	i.ResetTokenExpiresAt = &expiresAt
}

func (i *Identity) ClearResetToken() {
	i.ResetTokenHash = ""
	i.ResetTokenExpiresAt = nil
}

// ResetTokenExpired reports whether the stored reset token is past expiry.
// A token without an expiry is treated as expired.
func (i *Identity) ResetTokenExpired(now time.Time) bool {
	return i.ResetTokenExpiresAt == nil || now.After(*i.ResetTokenExpiresAt)
}

// Principal is the resolved caller of a request.
type Principal struct {
	IdentityID string `json:"id"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
}
