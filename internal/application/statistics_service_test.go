package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

// seedPlacements builds two jobs with a small spread of application states:
// CSE has 2 of 3 students placed, ECE 0 of 1, ME 1 of 1.
func seedPlacements(t *testing.T, f *fixture) (officer entity.Principal, backend, design *entity.Job) {
	t.Helper()
	ctx := context.Background()
	officer = principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))

	recruiter, rp := f.recruiter(t, "Acme")
	f.recruiter(t, "Globex")
	backend = f.job(t, rp, nil)
	design = f.job(t, rp, func(j *entity.Job) {
		j.Title = "Design Engineer"
		j.Eligibility = entity.Eligibility{Branches: []entity.Branch{entity.BranchCSE, entity.BranchECE, entity.BranchME}}
	})
	f.job(t, rp, func(j *entity.Job) { j.Status = entity.JobClosed })

	cs1, _ := f.student(t, "CS-001", entity.BranchCSE, ptr(9.0))
	cs2, _ := f.student(t, "CS-002", entity.BranchCSE, ptr(8.0))
	cs3, _ := f.student(t, "CS-003", entity.BranchCSE, ptr(7.6))
	ec1, _ := f.student(t, "EC-001", entity.BranchECE, ptr(8.0))
	me1, _ := f.student(t, "ME-001", entity.BranchME, ptr(6.0))

	apply := func(p entity.Principal, job *entity.Job) string {
		v, err := f.apps.Apply(ctx, p, job.ID)
		require.NoError(t, err)
		return v.ID
	}
	move := func(id string, steps ...entity.ApplicationStatus) {
		for _, st := range steps {
			_, err := f.apps.UpdateStatus(ctx, recruiter, id, st)
			require.NoError(t, err)
		}
	}

	move(apply(cs1, backend), entity.StatusShortlisted, entity.StatusSelected)
	move(apply(cs2, backend), entity.StatusShortlisted, entity.StatusSelected)
	move(apply(cs3, backend), entity.StatusShortlisted)
	move(apply(ec1, backend), entity.StatusRejected)
	move(apply(me1, design), entity.StatusShortlisted, entity.StatusSelected)
	withdrawn := apply(ec1, design)
	_, err := f.apps.Withdraw(ctx, ec1, withdrawn)
	require.NoError(t, err)
	apply(cs3, design)
	return officer, backend, design
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	officer, _, _ := seedPlacements(t, f)

	got, err := f.stats.Overview(context.Background(), officer)
	require.NoError(t, err)
	assert.Equal(t, StudentStats{Total: 5, Placed: 3, Unplaced: 2, PlacementPercentage: 60}, got.Students)
	assert.Equal(t, entity.RecruiterCounts{Total: 2, Verified: 2}, got.Recruiters)
	assert.Equal(t, entity.JobCounts{Total: 3, Open: 2, Closed: 1}, got.Jobs)
	assert.Equal(t, 7, got.Applications.TotalApplications)
	assert.Equal(t, map[entity.ApplicationStatus]int{
		entity.StatusApplied:     1,
		entity.StatusShortlisted: 1,
		entity.StatusSelected:    3,
		entity.StatusRejected:    1,
		entity.StatusWithdrawn:   1,
	}, got.Applications.ByStatus)
}

func TestOverviewEmpty(t *testing.T) {
	f := newFixture(t)
	got, err := f.stats.Overview(context.Background(), f.admin(t))
	require.NoError(t, err)
	assert.Zero(t, got.Students.PlacementPercentage)
	assert.Len(t, got.Applications.ByStatus, 5)
	assert.Zero(t, got.Applications.TotalApplications)
}

func TestBranchwise(t *testing.T) {
	f := newFixture(t)
	officer, _, _ := seedPlacements(t, f)

	got, err := f.stats.Branchwise(context.Background(), officer)
	require.NoError(t, err)
	require.Len(t, got.Branches, 3)
	assert.Equal(t, BranchStat{Branch: entity.BranchME, TotalStudents: 1, PlacedStudents: 1, PlacementPercentage: 100}, got.Branches[0])
	assert.Equal(t, BranchStat{Branch: entity.BranchCSE, TotalStudents: 3, PlacedStudents: 2, UnplacedStudents: 1, PlacementPercentage: 66.67}, got.Branches[1])
	assert.Equal(t, BranchStat{Branch: entity.BranchECE, TotalStudents: 1, UnplacedStudents: 1}, got.Branches[2])

	assert.Equal(t, 5, got.Overall.TotalStudents)
	assert.Equal(t, 3, got.Overall.PlacedStudents)
	assert.Equal(t, 2, got.Overall.UnplacedStudents)
	assert.Equal(t, 60.0, got.Overall.PlacementPercentage)
	assert.Equal(t, 3, got.Overall.TotalBranches)
}

func TestJobFunnel(t *testing.T) {
	f := newFixture(t)
	officer, backend, design := seedPlacements(t, f)

	got, err := f.stats.JobFunnel(context.Background(), officer)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalJobs)

	byID := map[string]JobFunnel{}
	for _, j := range got.Jobs {
		byID[j.JobID] = j
	}
	b := byID[backend.ID]
	assert.Equal(t, "Acme", b.CompanyName)
	assert.Equal(t, 4, b.TotalApplications)
	assert.Equal(t, 2, b.Stages[entity.StatusSelected])
	assert.Equal(t, 0, b.Stages[entity.StatusApplied])
	// Nothing is left in APPLIED, so the first rate has no base.
	assert.Zero(t, b.AppliedToShortlistedRate)
	assert.Equal(t, 200.0, b.ShortlistedToSelectedRate)

	d := byID[design.ID]
	assert.Equal(t, "Design Engineer", d.Title)
	assert.Equal(t, 3, d.TotalApplications)
	assert.Equal(t, 1, d.Stages[entity.StatusWithdrawn])
	assert.Equal(t, 1, d.Stages[entity.StatusApplied])
	assert.Zero(t, d.AppliedToShortlistedRate)
	assert.Zero(t, d.ShortlistedToSelectedRate)
}
