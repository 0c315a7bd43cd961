package templates

import (
	"time"

	"github.com/oksasatya/placement-portal/config"
)

// Option pattern
type Option func(*EmailData)

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }
func WithRollNumber(roll string) Option {
	return func(d *EmailData) { d.RollNumber = roll }
}
func WithCompany(name string, year int) Option {
	return func(d *EmailData) {
		d.CompanyName = name
		d.RecruitingYear = year
	}
}
func WithStatus(status string) Option { return func(d *EmailData) { d.Status = status } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// ResetLink appends the token to the configured reset page.
func ResetLink(cfg *config.Config, token string) string {
	return cfg.ResetPasswordURL + "?token=" + token
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:  name,
		Email: email,
		Type:  typ,

		PortalName: cfg.PortalName,
		SupportURL: cfg.SupportURL,

		ResetURL: cfg.ResetPasswordURL,
		LoginURL: cfg.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewActivationData is sent to officer-provisioned students.
func NewActivationData(cfg *config.Config, name, email, rollNumber, token string, expires time.Time) map[string]any {
	d := NewBaseEmailData(cfg, AccountActivation, name, email,
		WithRollNumber(rollNumber), WithResetURL(ResetLink(cfg, token)), WithExpiresAt(expires))
	return ToMap(d)
}

func NewPasswordResetData(cfg *config.Config, name, email, token string, expires time.Time) map[string]any {
	d := NewBaseEmailData(cfg, PasswordReset, name, email,
		WithResetURL(ResetLink(cfg, token)), WithExpiresAt(expires))
	return ToMap(d)
}

// NewRecruiterStatusData announces a verification decision; status is
// VERIFIED or REJECTED.
func NewRecruiterStatusData(cfg *config.Config, name, email, company string, year int, status string) map[string]any {
	d := NewBaseEmailData(cfg, RecruiterStatus, name, email, WithCompany(company, year), WithStatus(status))
	return ToMap(d)
}
