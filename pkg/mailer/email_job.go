package mailer

import (
	"errors"
	"fmt"

	"github.com/oksasatya/placement-portal/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject plus Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // account_activation, password_reset, recruiter_status
	Data     map[string]any `json:"data,omitempty"`
}

var ErrEmptyRecipient = errors.New("email job has no recipient")

// Compose returns the subject and bodies, rendering the template if one is set.
func (j EmailJob) Compose() (subject, text, html string, err error) {
	if j.To == "" {
		return "", "", "", ErrEmptyRecipient
	}
	if j.Template == "" {
		if j.Subject == "" || (j.Text == "" && j.HTML == "") {
			return "", "", "", fmt.Errorf("email job to %s has no template and no body", j.To)
		}
		return j.Subject, j.Text, j.HTML, nil
	}
	if !templates.Known(j.Template) {
		return "", "", "", fmt.Errorf("unknown email template %q", j.Template)
	}
	return templates.Render(j.Template, j.Data)
}
