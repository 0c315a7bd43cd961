package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/pkg/mailer/templates"
)

type fakePublisher struct {
	got []any
	err error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.got = append(f.got, body)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		PortalName:       "Campus Placements",
		ResetPasswordURL: "https://portal.test/reset-password",
		LoginURL:         "https://portal.test/login",
	}
}

func TestComposeActivation(t *testing.T) {
	expires := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	job := EmailJob{
		To:       "asha@college.test",
		Template: templates.AccountActivation,
		Data:     templates.NewActivationData(testConfig(), "Asha", "asha@college.test", "CS21-001", "tok123", expires),
	}
	subject, text, html, err := job.Compose()
	require.NoError(t, err)
	assert.Equal(t, "Activate your Campus Placements account", subject)
	assert.Contains(t, text, "https://portal.test/reset-password?token=tok123")
	assert.Contains(t, text, "CS21-001")
	assert.Contains(t, text, "01 March 2026, 10:00 UTC")
	assert.Contains(t, html, "tok123")
}

func TestComposeRecruiterStatus(t *testing.T) {
	for status, want := range map[string]string{
		"VERIFIED": "Your recruiter account is verified",
		"REJECTED": "Your recruiter registration was not approved",
	} {
		job := EmailJob{
			To:       "hr@acme.test",
			Template: templates.RecruiterStatus,
			Data:     templates.NewRecruiterStatusData(testConfig(), "Ravi", "hr@acme.test", "Acme", 2026, status),
		}
		subject, text, _, err := job.Compose()
		require.NoError(t, err)
		assert.Equal(t, want, subject)
		assert.Contains(t, text, "Acme (2026)")
	}
}

func TestComposeRejectsBadJobs(t *testing.T) {
	_, _, _, err := EmailJob{Template: templates.PasswordReset}.Compose()
	assert.ErrorIs(t, err, ErrEmptyRecipient)

	_, _, _, err = EmailJob{To: "a@b.test", Template: "login_otp"}.Compose()
	assert.Error(t, err)

	_, _, _, err = EmailJob{To: "a@b.test"}.Compose()
	assert.Error(t, err)

	subject, text, _, err := EmailJob{To: "a@b.test", Subject: "hi", Text: "body"}.Compose()
	require.NoError(t, err)
	assert.Equal(t, "hi", subject)
	assert.Equal(t, "body", text)
}

func TestQueueDispatcher(t *testing.T) {
	pub := &fakePublisher{}
	d := NewQueueDispatcher(pub)
	job := EmailJob{
		To:       "a@b.test",
		Template: templates.PasswordReset,
		Data:     templates.NewPasswordResetData(testConfig(), "A", "a@b.test", "t", time.Now()),
	}
	require.NoError(t, d.Dispatch(context.Background(), job))
	require.Len(t, pub.got, 1)
	assert.Equal(t, job, pub.got[0])

	require.Error(t, d.Dispatch(context.Background(), EmailJob{To: "a@b.test", Template: "nope"}))
	assert.Len(t, pub.got, 1)

	pub.err = errors.New("channel closed")
	assert.EqualError(t, d.Dispatch(context.Background(), job), "channel closed")
}

func TestLogDispatcher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	d := NewLogDispatcher(logger)
	job := EmailJob{
		To:       "a@b.test",
		Template: templates.PasswordReset,
		Data:     templates.NewPasswordResetData(testConfig(), "A", "a@b.test", "t", time.Now()),
	}
	require.NoError(t, d.Dispatch(context.Background(), job))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "a@b.test", hook.LastEntry().Data["to"])
	assert.Equal(t, "Reset your Campus Placements password", hook.LastEntry().Data["subject"])
}
