package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

func seedJob(t *testing.T, s *Store) (*entity.StudentProfile, *entity.Job) {
	t.Helper()
	ctx := context.Background()
	id := &entity.Identity{Email: "s@x.io", Role: entity.RoleStudent}
	require.NoError(t, s.Identities().Create(ctx, id))
	st := &entity.StudentProfile{IdentityID: id.ID, RollNumber: "R1", Branch: entity.BranchCSE}
	require.NoError(t, s.Students().Create(ctx, st))

	rid := &entity.Identity{Email: "r@x.io", Role: entity.RoleRecruiter}
	require.NoError(t, s.Identities().Create(ctx, rid))
	rp := &entity.RecruiterProfile{IdentityID: rid.ID, CompanyName: "Acme", RecruitingYear: 2026}
	require.NoError(t, s.Recruiters().Create(ctx, rp))
	job := &entity.Job{
		RecruiterID: rp.ID, Title: "SWE", Status: entity.JobOpen,
		Eligibility: entity.Eligibility{Branches: []entity.Branch{entity.BranchCSE}},
		Deadline:    time.Now().Add(time.Hour),
	}
	require.NoError(t, s.Jobs().Create(ctx, job))
	return st, job
}

func TestIdentityEmailUniqueCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Identities().Create(ctx, &entity.Identity{Email: "A@X.io"}))

	err := s.Identities().Create(ctx, &entity.Identity{Email: "a@x.IO "})
	require.ErrorIs(t, err, repository.ErrDuplicate)
	key, ok := repository.DuplicateKey(err)
	require.True(t, ok)
	assert.Equal(t, repository.KeyEmail, key)

	got, err := s.Identities().GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got.Email)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	st, _ := seedJob(t, s)

	got, err := s.Students().GetByID(ctx, st.ID)
	require.NoError(t, err)
	got.IsPlaced = true
	got.Skills = append(got.Skills, "leak")

	again, err := s.Students().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, again.IsPlaced)
	assert.Empty(t, again.Skills)
}

func TestApplicationUniquenessUnderConcurrency(t *testing.T) {
	s := New()
	ctx := context.Background()
	st, job := seedJob(t, s)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		conflict int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Applications().Create(ctx, &entity.Application{StudentID: st.ID, JobID: job.ID, Status: entity.StatusApplied})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if errors.Is(err, repository.ErrDuplicate) {
				conflict++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Equal(t, 19, conflict)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		id := &entity.Identity{Email: "rollback@x.io"}
		require.NoError(t, tx.Identities().Create(ctx, id))
		_, err := tx.Identities().GetByEmail(ctx, "rollback@x.io")
		require.NoError(t, err, "visible inside the transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Identities().GetByEmail(ctx, "rollback@x.io")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithinTxCommitsAndNests(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return tx.WithinTx(ctx, func(ctx context.Context, inner repository.Store) error {
			return inner.Identities().Create(ctx, &entity.Identity{Email: "kept@x.io"})
		})
	})
	require.NoError(t, err)

	_, err = s.Identities().GetByEmail(ctx, "kept@x.io")
	assert.NoError(t, err)
}

func TestUpdateStatusCompareAndSet(t *testing.T) {
	s := New()
	ctx := context.Background()
	st, job := seedJob(t, s)
	a := &entity.Application{StudentID: st.ID, JobID: job.ID, Status: entity.StatusApplied}
	require.NoError(t, s.Applications().Create(ctx, a))

	require.NoError(t, s.Applications().UpdateStatus(ctx, a.ID, entity.StatusApplied, entity.StatusShortlisted))
	err := s.Applications().UpdateStatus(ctx, a.ID, entity.StatusApplied, entity.StatusRejected)
	assert.ErrorIs(t, err, repository.ErrConditionFailed)

	got, err := s.Applications().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusShortlisted, got.Status)
}

func TestResumeConditionalWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	st, _ := seedJob(t, s)

	res := entity.Resume{FileName: "cv.pdf", StorageKey: "resumes/a.pdf"}
	require.NoError(t, s.Students().AttachResume(ctx, st.ID, res))
	assert.ErrorIs(t, s.Students().AttachResume(ctx, st.ID, res), repository.ErrConditionFailed)
	assert.ErrorIs(t, s.Students().DetachResume(ctx, st.ID, "resumes/other.pdf"), repository.ErrConditionFailed)
	require.NoError(t, s.Students().DetachResume(ctx, st.ID, "resumes/a.pdf"))

	got, err := s.Students().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Resume)
}

func TestListOpenFilters(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, job := seedJob(t, s)
	now := time.Now()

	seven := 7.5
	closed := &entity.Job{
		RecruiterID: job.RecruiterID, Title: "Closed", Status: entity.JobClosed,
		Eligibility: entity.Eligibility{Branches: []entity.Branch{entity.BranchCSE}}, Deadline: now.Add(time.Hour),
	}
	expired := &entity.Job{
		RecruiterID: job.RecruiterID, Title: "Expired", Status: entity.JobOpen,
		Eligibility: entity.Eligibility{Branches: []entity.Branch{entity.BranchCSE}}, Deadline: now.Add(-time.Hour),
	}
	strict := &entity.Job{
		RecruiterID: job.RecruiterID, Title: "Strict", Status: entity.JobOpen, JobType: entity.JobTypeInternship,
		Eligibility: entity.Eligibility{Branches: []entity.Branch{entity.BranchECE}, MinCGPA: &seven}, Deadline: now.Add(time.Hour),
	}
	for _, j := range []*entity.Job{closed, expired, strict} {
		require.NoError(t, s.Jobs().Create(ctx, j))
	}

	all, total, err := s.Jobs().ListOpen(ctx, repository.OpenJobFilter{}, now, entity.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Strict", all[0].Title, "newest first")

	ece := entity.BranchECE
	low := 7.0
	_, total, err = s.Jobs().ListOpen(ctx, repository.OpenJobFilter{Branch: &ece, MinCGPA: &low}, now, entity.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total, "threshold above the filter is excluded")

	high := 8.0
	intern := entity.JobTypeInternship
	got, total, err := s.Jobs().ListOpen(ctx, repository.OpenJobFilter{MinCGPA: &high, JobType: &intern}, now, entity.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, strict.ID, got[0].ID)
}

func TestRecruiterListFilters(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i, name := range []string{"Acme Corp", "acme labs", "Globex"} {
		id := &entity.Identity{Email: name + "@x.io"}
		require.NoError(t, s.Identities().Create(ctx, id))
		require.NoError(t, s.Recruiters().Create(ctx, &entity.RecruiterProfile{
			IdentityID: id.ID, CompanyName: name, RecruitingYear: 2025 + i%2,
		}))
	}
	dup := &entity.RecruiterProfile{IdentityID: "other", CompanyName: "Globex", RecruitingYear: 2025}
	assert.ErrorIs(t, s.Recruiters().Create(ctx, dup), repository.ErrDuplicate)

	got, total, err := s.Recruiters().List(ctx, repository.RecruiterFilter{CompanyName: "ACME"}, entity.NewPageRequest(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 1)

	year := 2026
	_, total, err = s.Recruiters().List(ctx, repository.RecruiterFilter{RecruitingYear: &year}, entity.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = s.Recruiters().List(ctx, repository.RecruiterFilter{Verified: true}, entity.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Identities().Create(ctx, &entity.Identity{Email: "c@x.io"})
	assert.ErrorIs(t, err, context.Canceled)
}
