package application

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/infrastructure/blob"
	"github.com/oksasatya/placement-portal/internal/infrastructure/memory"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/helpers"
	"github.com/oksasatya/placement-portal/pkg/mailer"
)

type fakeMail struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (f *fakeMail) Dispatch(_ context.Context, j mailer.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, j)
	return nil
}

func (f *fakeMail) sent() []mailer.EmailJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.EmailJob(nil), f.jobs...)
}

// tokenFrom extracts the reset token from the link in an email job.
func tokenFrom(t *testing.T, j mailer.EmailJob) string {
	t.Helper()
	link, _ := j.Data["ResetURL"].(string)
	_, token, ok := strings.Cut(link, "?token=")
	require.True(t, ok, "no token in %q", link)
	return token
}

type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]entity.Job
	hits []string
}

func (f *fakeIndex) Index(_ context.Context, j entity.Job, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = map[string]entity.Job{}
	}
	f.docs[j.ID] = j
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]string, error) {
	return f.hits, nil
}

func testConfig() *config.Config {
	return &config.Config{
		PortalName:       "Campus Placements",
		ResetPasswordURL: "https://portal.test/reset-password",
		LoginURL:         "https://portal.test/login",
		ResetTokenTTL:    24 * time.Hour,
		ResumeMaxBytes:   5 << 20,
		SignedURLTTL:     10 * time.Minute,
	}
}

type fixture struct {
	store *memory.Store
	mail  *fakeMail
	index *fakeIndex
	blobs *blob.Memory
	jwt   *helpers.JWTManager
	now   time.Time

	auth     *AuthService
	accounts *AccountService
	profiles *ProfileService
	jobs     *JobService
	apps     *ApplicationService
	stats    *StatisticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	cfg := testConfig()
	f := &fixture{
		store: memory.New(),
		mail:  &fakeMail{},
		index: &fakeIndex{},
		blobs: blob.NewMemory("https://blobs.test"),
		jwt:   helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour),
		now:   time.Now().UTC().Truncate(time.Second),
	}
	clock := func() time.Time { return f.now }

	f.auth = NewAuthService(f.store, f.jwt, f.mail, cfg, logger)
	f.auth.now = clock
	f.accounts = NewAccountService(f.store, f.mail, cfg, logger)
	f.accounts.now = clock
	f.profiles = NewProfileService(f.store, f.blobs, cfg, logger)
	f.profiles.now = clock
	f.jobs = NewJobService(f.store, f.index, logger)
	f.jobs.now = clock
	f.apps = NewApplicationService(f.store, f.blobs, cfg, logger)
	f.apps.now = clock
	f.stats = NewStatisticsService(f.store, nil, 0, logger)
	return f
}

func ptr[T any](v T) *T { return &v }

// identity stores an active, verified account with the given password.
func (f *fixture) identity(t *testing.T, role entity.Role, email, password string) *entity.Identity {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	u := &entity.Identity{
		Name:         strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	u.MarkVerified(nil, f.now)
	require.NoError(t, f.store.Identities().Create(context.Background(), u))
	return u
}

func principalOf(u *entity.Identity) entity.Principal {
	return entity.Principal{IdentityID: u.ID, Role: u.Role, Name: u.Name}
}

func (f *fixture) admin(t *testing.T) entity.Principal {
	return principalOf(f.identity(t, entity.RoleAdmin, "admin@portal.test", "admin-pass-1"))
}

func (f *fixture) student(t *testing.T, roll string, branch entity.Branch, cgpa *float64) (entity.Principal, *entity.StudentProfile) {
	t.Helper()
	u := f.identity(t, entity.RoleStudent, strings.ToLower(roll)+"@college.test", "student-pass")
	sp := &entity.StudentProfile{IdentityID: u.ID, RollNumber: roll, Branch: branch, CGPA: cgpa, Skills: []string{"go"}}
	require.NoError(t, f.store.Students().Create(context.Background(), sp))
	return principalOf(u), sp
}

func (f *fixture) recruiter(t *testing.T, company string) (entity.Principal, *entity.RecruiterProfile) {
	t.Helper()
	u := f.identity(t, entity.RoleRecruiter, "hr@"+strings.ToLower(company)+".test", "recruiter-pass")
	rp := &entity.RecruiterProfile{
		IdentityID:     u.ID,
		CompanyName:    company,
		RecruitingYear: 2026,
		ContactPerson:  "HR",
		ContactEmail:   u.Email,
		IsVerified:     true,
	}
	require.NoError(t, f.store.Recruiters().Create(context.Background(), rp))
	return principalOf(u), rp
}

// job stores an OPEN job for CSE/ECE with minCgpa 7.5 due in a week.
func (f *fixture) job(t *testing.T, rp *entity.RecruiterProfile, mutate func(*entity.Job)) *entity.Job {
	t.Helper()
	j := &entity.Job{
		RecruiterID: rp.ID,
		Title:       "Backend Engineer",
		Description: "Build services",
		Eligibility: entity.Eligibility{Branches: []entity.Branch{entity.BranchCSE, entity.BranchECE}, MinCGPA: ptr(7.5)},
		JobType:     entity.JobTypeFullTime,
		Deadline:    f.now.Add(7 * 24 * time.Hour),
		Status:      entity.JobOpen,
	}
	if mutate != nil {
		mutate(j)
	}
	require.NoError(t, f.store.Jobs().Create(context.Background(), j))
	return j
}

func requireCode(t *testing.T, err error, kind apperrors.Kind, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	ae, ok := apperrors.As(err)
	require.True(t, ok, "not an AppError: %v", err)
	require.Equal(t, kind, ae.Kind, ae.Error())
	require.Equal(t, code, ae.Code, ae.Error())
}
