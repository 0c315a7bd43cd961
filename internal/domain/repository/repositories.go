package repository

import (
	"context"
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

// IdentityRepository persists accounts. Emails are stored lowercased.
type IdentityRepository interface {
	Create(ctx context.Context, i *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*entity.Identity, error)
	// Update writes every mutable field of i.
	Update(ctx context.Context, i *entity.Identity) error
	ListByIDs(ctx context.Context, ids []string) ([]entity.Identity, error)
}

type StudentRepository interface {
	Create(ctx context.Context, s *entity.StudentProfile) error
	GetByID(ctx context.Context, id string) (*entity.StudentProfile, error)
	// GetForUpdate reads the row and holds it until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*entity.StudentProfile, error)
	GetByIdentityID(ctx context.Context, identityID string) (*entity.StudentProfile, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*entity.StudentProfile, error)
	// Update writes the student-editable fields (cgpa, skills).
	Update(ctx context.Context, s *entity.StudentProfile) error
	// MarkPlaced sets is_placed; already placed students are left unchanged.
	MarkPlaced(ctx context.Context, id string) error
	// AttachResume stores r only if no résumé is set, else ErrConditionFailed.
	AttachResume(ctx context.Context, id string, r entity.Resume) error
	// DetachResume clears the résumé only if it still points at storageKey,
	// else ErrConditionFailed.
	DetachResume(ctx context.Context, id, storageKey string) error
	ListByIDs(ctx context.Context, ids []string) ([]entity.StudentProfile, error)
}

// RecruiterFilter narrows recruiter listings. CompanyName is a
// case-insensitive substring match.
type RecruiterFilter struct {
	Verified       bool
	RecruitingYear *int
	CompanyName    string
}

type RecruiterRepository interface {
	Create(ctx context.Context, r *entity.RecruiterProfile) error
	GetByID(ctx context.Context, id string) (*entity.RecruiterProfile, error)
	GetByIdentityID(ctx context.Context, identityID string) (*entity.RecruiterProfile, error)
	GetByCompanyYear(ctx context.Context, companyName string, year int) (*entity.RecruiterProfile, error)
	// Update writes contact fields and verification state.
	Update(ctx context.Context, r *entity.RecruiterProfile) error
	List(ctx context.Context, f RecruiterFilter, p entity.PageRequest) ([]entity.RecruiterProfile, int, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.RecruiterProfile, error)
}

// OpenJobFilter narrows open job listings. MinCGPA keeps jobs whose
// threshold is unset or at most the given value.
type OpenJobFilter struct {
	Branch  *entity.Branch
	MinCGPA *float64
	JobType *entity.JobType
}

type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	Update(ctx context.Context, j *entity.Job) error
	// ListOpen returns OPEN jobs whose deadline is not before now, newest first.
	ListOpen(ctx context.Context, f OpenJobFilter, now time.Time, p entity.PageRequest) ([]entity.Job, int, error)
	ListByRecruiter(ctx context.Context, recruiterID string, status *entity.JobStatus, p entity.PageRequest) ([]entity.Job, int, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Job, error)
}

type ApplicationRepository interface {
	// Create fails with a DuplicateError keyed KeyApplication when the
	// (student, job) pair already exists.
	Create(ctx context.Context, a *entity.Application) error
	GetByID(ctx context.Context, id string) (*entity.Application, error)
	// GetForUpdate loads the application and locks it for the rest of the
	// surrounding transaction.
	GetForUpdate(ctx context.Context, id string) (*entity.Application, error)
	// UpdateStatus moves the application from -> to, else ErrConditionFailed.
	UpdateStatus(ctx context.Context, id string, from, to entity.ApplicationStatus) error
	ListByStudent(ctx context.Context, studentID string, p entity.PageRequest) ([]entity.Application, int, error)
	ListByJob(ctx context.Context, jobID string, p entity.PageRequest) ([]entity.Application, int, error)
}

type StatsRepository interface {
	StudentCounts(ctx context.Context) (entity.StudentCounts, error)
	RecruiterCounts(ctx context.Context) (entity.RecruiterCounts, error)
	JobCounts(ctx context.Context) (entity.JobCounts, error)
	ApplicationsByStatus(ctx context.Context) (map[entity.ApplicationStatus]int, error)
	StudentsByBranch(ctx context.Context) ([]entity.BranchCounts, error)
	JobFunnel(ctx context.Context) ([]entity.JobStageCounts, error)
}

// Store groups the repositories over one connection or transaction.
type Store interface {
	Identities() IdentityRepository
	Students() StudentRepository
	Recruiters() RecruiterRepository
	Jobs() JobRepository
	Applications() ApplicationRepository
	Stats() StatsRepository
	// WithinTx runs fn against a transactional Store. A non-nil error from
	// fn rolls every write back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
