package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
)

// JobService is the job registry: recruiter-owned postings and the public
// listing of open jobs.
type JobService struct {
	store  repository.Store
	index  JobIndex
	logger *logrus.Logger
	now    Clock
}

func NewJobService(store repository.Store, index JobIndex, logger *logrus.Logger) *JobService {
	return &JobService{store: store, index: index, logger: loggerOrStd(logger), now: time.Now}
}

func jobNotFound() *apperrors.AppError {
	return apperrors.NotFound(apperrors.CodeJobNotFound, "Job not found")
}

type EligibilityInput struct {
	Branches []string `json:"branches" binding:"required,min=1,dive,branch"`
	MinCGPA  *float64 `json:"minCgpa" binding:"omitempty,cgpa"`
}

func (in *EligibilityInput) toEntity() (entity.Eligibility, error) {
	e := entity.Eligibility{MinCGPA: in.MinCGPA}
	for _, raw := range in.Branches {
		b, ok := entity.ParseBranch(raw)
		if !ok {
			return e, invalid("unknown branch " + raw)
		}
		e.Branches = append(e.Branches, b)
	}
	if err := e.Validate(); err != nil {
		return e, invalid(err.Error())
	}
	return e, nil
}

type JobInput struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description" binding:"required"`
	Eligibility *EligibilityInput `json:"eligibility" binding:"required"`
	JobType     string            `json:"jobType" binding:"required,jobtype"`
	Location    string            `json:"location" binding:"omitempty,max=200"`
	CTC         string            `json:"ctc" binding:"omitempty,max=100"`
	Deadline    *time.Time        `json:"deadline" binding:"required"`
}

func (s *JobService) companyOf(rp *entity.RecruiterProfile) *entity.Company {
	return &entity.Company{CompanyName: rp.CompanyName, RecruitingYear: rp.RecruitingYear}
}

// reindex refreshes the search document. Index failures do not fail the write.
func (s *JobService) reindex(ctx context.Context, j *entity.Job, company string) {
	if err := s.index.Index(ctx, *j, company); err != nil {
		s.logger.WithError(err).WithField("entity_id", j.ID).Warn("job index update failed")
	}
}

// CreateJob posts a new OPEN job for the calling recruiter.
func (s *JobService) CreateJob(ctx context.Context, p entity.Principal, in JobInput) (view JobView, err error) {
	defer func() { err = report(s.logger, "recruiter.create_job", p.IdentityID, view.ID, err) }()

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		in.Eligibility == nil || len(in.Eligibility.Branches) == 0 || in.JobType == "" || in.Deadline == nil {
		return view, invalid("title, description, eligibility.branches, jobType and deadline are required")
	}
	elig, err := in.Eligibility.toEntity()
	if err != nil {
		return view, err
	}
	jt := entity.JobType(in.JobType)
	if !jt.Valid() {
		return view, invalid("jobType must be one of: Internship, Full-Time")
	}
	if in.Deadline.Before(s.now()) {
		return view, invalid("deadline must be in the future")
	}
	rp, err := recruiterOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	j := &entity.Job{
		RecruiterID: rp.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Eligibility: elig,
		JobType:     jt,
		Location:    strings.TrimSpace(in.Location),
		CTC:         strings.TrimSpace(in.CTC),
		Deadline:    in.Deadline.UTC(),
		Status:      entity.JobOpen,
	}
	if err := s.store.Jobs().Create(ctx, j); err != nil {
		return view, storeErr(err, nil)
	}
	s.reindex(ctx, j, rp.CompanyName)
	return newJobView(j, s.companyOf(rp)), nil
}

type JobPatch struct {
	Title       *string           `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string           `json:"description" binding:"omitempty,min=1"`
	Eligibility *EligibilityInput `json:"eligibility"`
	JobType     *string           `json:"jobType" binding:"omitempty,jobtype"`
	Location    *string           `json:"location" binding:"omitempty,max=200"`
	CTC         *string           `json:"ctc" binding:"omitempty,max=100"`
	Deadline    *time.Time        `json:"deadline"`
	Status      *string           `json:"status" binding:"omitempty,jobstatus"`
}

func (in JobPatch) toUpdate() (entity.JobUpdate, error) {
	var u entity.JobUpdate
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return u, invalid("title must not be empty")
		}
		u.Title = &t
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			return u, invalid("description must not be empty")
		}
		u.Description = &d
	}
	if in.Eligibility != nil {
		e, err := in.Eligibility.toEntity()
		if err != nil {
			return u, err
		}
		u.Eligibility = &e
	}
	if in.JobType != nil {
		jt := entity.JobType(*in.JobType)
		if !jt.Valid() {
			return u, invalid("jobType must be one of: Internship, Full-Time")
		}
		u.JobType = &jt
	}
	if in.Location != nil {
		l := strings.TrimSpace(*in.Location)
		u.Location = &l
	}
	if in.CTC != nil {
		c := strings.TrimSpace(*in.CTC)
		u.CTC = &c
	}
	if in.Deadline != nil {
		d := in.Deadline.UTC()
		u.Deadline = &d
	}
	if in.Status != nil {
		st := entity.JobStatus(*in.Status)
		if !st.Valid() {
			return u, invalid("status must be one of: OPEN, CLOSED, WITHDRAWN")
		}
		u.Status = &st
	}
	return u, nil
}

// UpdateJob applies a partial update from the owning recruiter. Ownership is
// checked before the patch is validated. The owner may set any job status
// directly.
func (s *JobService) UpdateJob(ctx context.Context, p entity.Principal, jobID string, in JobPatch) (view JobView, err error) {
	defer func() { err = report(s.logger, "recruiter.update_job", p.IdentityID, jobID, err) }()

	rp, err := recruiterOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	j, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return view, storeErr(err, jobNotFound())
	}
	if j.RecruiterID != rp.ID {
		return view, apperrors.Forbidden(apperrors.CodeNotOwner, "You can only modify your own jobs")
	}
	upd, err := in.toUpdate()
	if err != nil {
		return view, err
	}
	if upd.Empty() {
		return view, noFields()
	}
	if upd.Deadline != nil && upd.Deadline.Before(s.now()) {
		return view, invalid("deadline must be in the future")
	}
	j.Apply(upd)
	if err := s.store.Jobs().Update(ctx, j); err != nil {
		return view, storeErr(err, jobNotFound())
	}
	s.reindex(ctx, j, rp.CompanyName)
	return newJobView(j, s.companyOf(rp)), nil
}

// OpenJobQuery filters the public job listing. Empty strings mean no filter.
type OpenJobQuery struct {
	Branch  string
	MinCGPA *float64
	JobType string
	Page    entity.PageRequest
}

// ListOpenJobs lists OPEN jobs whose deadline has not passed. MinCGPA is
// the caller's cgpa: jobs with a higher threshold are excluded.
func (s *JobService) ListOpenJobs(ctx context.Context, q OpenJobQuery) (page entity.Page[JobView], err error) {
	defer func() { err = report(s.logger, "jobs.list_open", "", "", err) }()

	var f repository.OpenJobFilter
	if q.Branch != "" {
		b, ok := entity.ParseBranch(q.Branch)
		if !ok {
			return page, invalid("unknown branch " + q.Branch)
		}
		f.Branch = &b
	}
	if q.JobType != "" {
		jt := entity.JobType(q.JobType)
		if !jt.Valid() {
			return page, invalid("jobType must be one of: Internship, Full-Time")
		}
		f.JobType = &jt
	}
	if q.MinCGPA != nil {
		if !entity.ValidCGPA(*q.MinCGPA) {
			return page, invalid("minCgpa must be between 0 and 10")
		}
		f.MinCGPA = q.MinCGPA
	}
	jobs, total, err := s.store.Jobs().ListOpen(ctx, f, s.now().UTC(), q.Page)
	if err != nil {
		return page, storeErr(err, nil)
	}
	views, err := s.withCompanies(ctx, jobs)
	if err != nil {
		return page, err
	}
	return entity.NewPage(views, total, q.Page), nil
}

// ListRecruiterJobs pages the caller's own jobs, optionally by status.
func (s *JobService) ListRecruiterJobs(ctx context.Context, p entity.Principal, status string, pr entity.PageRequest) (page entity.Page[JobView], err error) {
	defer func() { err = report(s.logger, "recruiter.list_jobs", p.IdentityID, "", err) }()

	var st *entity.JobStatus
	if status != "" {
		v := entity.JobStatus(status)
		if !v.Valid() {
			return page, invalid("status must be one of: OPEN, CLOSED, WITHDRAWN")
		}
		st = &v
	}
	rp, err := recruiterOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return page, err
	}
	jobs, total, err := s.store.Jobs().ListByRecruiter(ctx, rp.ID, st, pr)
	if err != nil {
		return page, storeErr(err, nil)
	}
	views := make([]JobView, len(jobs))
	for i := range jobs {
		views[i] = newJobView(&jobs[i], s.companyOf(rp))
	}
	return entity.NewPage(views, total, pr), nil
}

// SearchJobs runs a full-text query and returns the matches that are still
// open, in relevance order.
func (s *JobService) SearchJobs(ctx context.Context, q string, size int) (out []JobView, err error) {
	defer func() { err = report(s.logger, "jobs.search", "", "", err) }()

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("q is required")
	}
	if size <= 0 {
		size = entity.DefaultPageLimit
	}
	if size > entity.MaxPageLimit {
		size = entity.MaxPageLimit
	}
	ids, err := s.index.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []JobView{}, nil
	}
	jobs, err := s.store.Jobs().ListByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	byID := make(map[string]entity.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	now := s.now().UTC()
	open := make([]entity.Job, 0, len(ids))
	for _, id := range ids {
		j, ok := byID[id]
		if !ok || j.Status != entity.JobOpen || j.DeadlinePassed(now) {
			continue
		}
		open = append(open, j)
	}
	return s.withCompanies(ctx, open)
}

// withCompanies fetches the owning recruiters and attaches their company.
func (s *JobService) withCompanies(ctx context.Context, jobs []entity.Job) ([]JobView, error) {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.RecruiterID)
	}
	companies, err := companiesByRecruiter(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}
	views := make([]JobView, len(jobs))
	for i := range jobs {
		views[i] = newJobView(&jobs[i], companies[jobs[i].RecruiterID])
	}
	return views, nil
}

func companiesByRecruiter(ctx context.Context, store repository.Store, recruiterIDs []string) (map[string]*entity.Company, error) {
	out := map[string]*entity.Company{}
	if len(recruiterIDs) == 0 {
		return out, nil
	}
	rps, err := store.Recruiters().ListByIDs(ctx, recruiterIDs)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	for _, rp := range rps {
		out[rp.ID] = &entity.Company{CompanyName: rp.CompanyName, RecruitingYear: rp.RecruitingYear}
	}
	return out, nil
}
