package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestApplicationTransitions(t *testing.T) {
	all := []ApplicationStatus{StatusApplied, StatusShortlisted, StatusSelected, StatusRejected, StatusWithdrawn}
	allowed := map[ApplicationStatus]map[ApplicationStatus]bool{
		StatusApplied:     {StatusShortlisted: true, StatusRejected: true},
		StatusShortlisted: {StatusSelected: true, StatusRejected: true},
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestWithdrawAndTerminal(t *testing.T) {
	assert.True(t, StatusApplied.CanWithdraw())
	assert.True(t, StatusShortlisted.CanWithdraw())
	assert.False(t, StatusSelected.CanWithdraw())
	assert.False(t, StatusRejected.CanWithdraw())
	assert.False(t, StatusWithdrawn.CanWithdraw())

	assert.True(t, StatusSelected.Terminal())
	assert.True(t, StatusWithdrawn.Terminal())
	assert.False(t, StatusApplied.Terminal())

	assert.False(t, StatusWithdrawn.IsRecruiterTarget())
	assert.False(t, StatusApplied.IsRecruiterTarget())
	assert.True(t, StatusSelected.IsRecruiterTarget())
}

func TestEligibility(t *testing.T) {
	e := Eligibility{Branches: []Branch{BranchCSE, BranchECE}, MinCGPA: f(7.5)}
	require.NoError(t, e.Validate())

	assert.True(t, e.AllowsBranch(BranchCSE))
	assert.False(t, e.AllowsBranch(BranchME))
	assert.True(t, e.MeetsCGPA(f(7.5)))
	assert.True(t, e.MeetsCGPA(f(8.0)))
	assert.False(t, e.MeetsCGPA(f(7.49)))
	assert.False(t, e.MeetsCGPA(nil))

	open := Eligibility{Branches: []Branch{BranchME}}
	assert.True(t, open.MeetsCGPA(nil))

	assert.ErrorIs(t, Eligibility{}.Validate(), ErrNoBranches)
	assert.ErrorIs(t, Eligibility{Branches: []Branch{"XYZ"}}.Validate(), ErrUnknownBranch)
	assert.ErrorIs(t, Eligibility{Branches: []Branch{BranchAI}, MinCGPA: f(11)}.Validate(), ErrMinCGPAOutOfRange)
}

func TestParseBranch(t *testing.T) {
	b, ok := ParseBranch(" che ")
	require.True(t, ok)
	assert.Equal(t, BranchChE, b)

	_, ok = ParseBranch("Civil")
	assert.False(t, ok)
}

func TestIdentityLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id := &Identity{Role: RoleOfficer, IsActive: true, VerificationStatus: VerificationVerified}

	id.Deactivate("admin-1", "Deactivated by Root", now)
	assert.False(t, id.IsActive)
	require.NotNil(t, id.DeactivatedBy)
	assert.Equal(t, "admin-1", *id.DeactivatedBy)

	id.Reactivate("admin-2", now.Add(time.Hour))
	assert.True(t, id.IsActive)
	assert.Nil(t, id.DeactivatedBy)
	assert.Nil(t, id.DeactivatedAt)
	assert.Empty(t, id.DeactivationReason)
	assert.Equal(t, "admin-2", *id.VerifiedBy)
}

func TestResetTokenExpiry(t *testing.T) {
	now := time.Now()
	id := &Identity{}
	assert.True(t, id.ResetTokenExpired(now))

	id.SetResetToken("hash", now.Add(time.Minute))
	assert.False(t, id.ResetTokenExpired(now))
	assert.True(t, id.ResetTokenExpired(now.Add(2*time.Minute)))

	id.ClearResetToken()
	assert.Empty(t, id.ResetTokenHash)
	assert.Nil(t, id.ResetTokenExpiresAt)
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleOfficer.In(RoleAdmin, RoleOfficer))
	assert.False(t, RoleStudent.In(RoleAdmin, RoleOfficer))
	assert.False(t, RoleStudent.In())
	assert.False(t, Role("ROOT").Valid())
}

func TestPageRequest(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, NewPageRequest(0, 0))
	assert.Equal(t, PageRequest{Page: 3, Limit: 50}, NewPageRequest(3, 500))
	assert.Equal(t, 40, NewPageRequest(3, 20).Offset())

	p := NewPage[int](nil, 21, NewPageRequest(1, 10))
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
}

func TestPartialUpdates(t *testing.T) {
	assert.True(t, StudentUpdate{}.Empty())
	assert.True(t, RecruiterUpdate{}.Empty())
	assert.True(t, JobUpdate{}.Empty())

	s := &StudentProfile{Skills: []string{"go"}}
	skills := []string{"go", "go", "sql"}
	s.Apply(StudentUpdate{Skills: &skills})
	skills[0] = "mutated"
	assert.Equal(t, []string{"go", "go", "sql"}, s.Skills, "duplicates kept and input copied")

	r := &RecruiterProfile{ContactEmail: "old@x.io"}
	email := "  HR@Acme.IO "
	r.Apply(RecruiterUpdate{ContactEmail: &email})
	assert.Equal(t, "hr@acme.io", r.ContactEmail)

	j := &Job{Status: JobOpen, Title: "SWE"}
	closed := JobClosed
	j.Apply(JobUpdate{Status: &closed})
	assert.Equal(t, JobClosed, j.Status)
	assert.Equal(t, "SWE", j.Title)
}
