package application

import (
	"context"
	"errors"
	"expvar"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

// Published on /api/debug/vars.
var (
	applicationsCreated = expvar.NewInt("applications_created")
	statusChanges       = expvar.NewInt("application_status_changes")
	studentsPlaced      = expvar.NewInt("students_placed")
)

// ApplicationService runs the application state machine.
type ApplicationService struct {
	store  repository.Store
	blobs  BlobStore
	cfg    *config.Config
	logger *logrus.Logger
	now    Clock
}

func NewApplicationService(store repository.Store, blobs BlobStore, cfg *config.Config, logger *logrus.Logger) *ApplicationService {
	return &ApplicationService{store: store, blobs: blobs, cfg: cfg, logger: loggerOrStd(logger), now: time.Now}
}

func applicationNotFound() *apperrors.AppError {
	return notFound("Application")
}

// Apply creates an APPLIED application. Checks run in a fixed order and the
// first failure is returned; the unique (student, job) constraint is the
// final duplicate check. The placed flag is re-read under the student row
// lock in the same transaction as the insert.
func (s *ApplicationService) Apply(ctx context.Context, p entity.Principal, jobID string) (view ApplicationView, err error) {
	defer func() { err = report(s.logger, "student.apply", p.IdentityID, jobID, err) }()

	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	if sp.IsPlaced {
		return view, apperrors.Forbidden(apperrors.CodeAlreadyPlaced, "You are already placed and cannot apply to more jobs")
	}
	j, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return view, storeErr(err, jobNotFound())
	}
	if j.Status != entity.JobOpen {
		return view, apperrors.Forbidden(apperrors.CodeJobClosed, "Job is not open for applications")
	}
	if j.DeadlinePassed(s.now()) {
		return view, apperrors.Forbidden(apperrors.CodeDeadlinePassed, "Application deadline has passed")
	}
	if !j.Eligibility.AllowsBranch(sp.Branch) {
		return view, apperrors.Forbidden(apperrors.CodeNotEligible, "Your branch is not eligible for this job")
	}
	if !j.Eligibility.MeetsCGPA(sp.CGPA) {
		return view, apperrors.Forbidden(apperrors.CodeNotEligible, "Your CGPA does not meet the job requirement")
	}
	a := &entity.Application{StudentID: sp.ID, JobID: j.ID, Status: entity.StatusApplied}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		// A selection committed since the first read must win.
		locked, err := tx.Students().GetForUpdate(ctx, sp.ID)
		if err != nil {
			return storeErr(err, profileNotFound("Student"))
		}
		if locked.IsPlaced {
			return apperrors.Forbidden(apperrors.CodeAlreadyPlaced, "You are already placed and cannot apply to more jobs")
		}
		return storeErr(tx.Applications().Create(ctx, a), jobNotFound())
	})
	if err != nil {
		return view, err
	}
	applicationsCreated.Add(1)
	helpers.LogInfo(s.logger, "application created", logrus.Fields{"actor_id": p.IdentityID, "entity_id": a.ID, "job_id": j.ID})
	return newApplicationView(a), nil
}

// ownedApplication loads an application and verifies that the calling
// recruiter owns its job.
func (s *ApplicationService) ownedApplication(ctx context.Context, p entity.Principal, applicationID string) (*entity.Application, *entity.Job, *entity.RecruiterProfile, error) {
	rp, err := recruiterOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := s.store.Applications().GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, nil, storeErr(err, applicationNotFound())
	}
	j, err := s.store.Jobs().GetByID(ctx, a.JobID)
	if err != nil {
		return nil, nil, nil, storeErr(err, jobNotFound())
	}
	if j.RecruiterID != rp.ID {
		return nil, nil, nil, apperrors.Forbidden(apperrors.CodeNotOwner, "You can only manage applications for your own jobs")
	}
	return a, j, rp, nil
}

// UpdateStatus moves an application along the recruiter transition table.
// The row is re-read under lock inside the transaction, and SELECTED marks
// the student placed in that same transaction.
func (s *ApplicationService) UpdateStatus(ctx context.Context, p entity.Principal, applicationID string, target entity.ApplicationStatus) (view ApplicationView, err error) {
	defer func() { err = report(s.logger, "recruiter.update_status", p.IdentityID, applicationID, err) }()

	if !target.IsRecruiterTarget() {
		return view, invalid("status must be one of: SHORTLISTED, SELECTED, REJECTED")
	}
	if _, _, _, err := s.ownedApplication(ctx, p, applicationID); err != nil {
		return view, err
	}

	var updated *entity.Application
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		a, err := tx.Applications().GetForUpdate(ctx, applicationID)
		if err != nil {
			return storeErr(err, applicationNotFound())
		}
		if !a.Status.CanTransitionTo(target) {
			return apperrors.IllegalTransition(string(a.Status), string(target))
		}
		if err := tx.Applications().UpdateStatus(ctx, a.ID, a.Status, target); err != nil {
			if errors.Is(err, repository.ErrConditionFailed) {
				return apperrors.IllegalTransition(string(a.Status), string(target))
			}
			return storeErr(err, applicationNotFound())
		}
		if target == entity.StatusSelected {
			if err := tx.Students().MarkPlaced(ctx, a.StudentID); err != nil {
				return storeErr(err, profileNotFound("Student"))
			}
		}
		updated, err = tx.Applications().GetByID(ctx, a.ID)
		return storeErr(err, applicationNotFound())
	})
	if err != nil {
		return view, err
	}
	statusChanges.Add(1)
	if target == entity.StatusSelected {
		studentsPlaced.Add(1)
	}
	helpers.LogInfo(s.logger, "application status changed", logrus.Fields{
		"actor_id": p.IdentityID, "entity_id": applicationID, "status": target,
	})
	return newApplicationView(updated), nil
}

// Withdraw lets the owning student leave an APPLIED or SHORTLISTED
// application.
func (s *ApplicationService) Withdraw(ctx context.Context, p entity.Principal, applicationID string) (view ApplicationView, err error) {
	defer func() { err = report(s.logger, "student.withdraw", p.IdentityID, applicationID, err) }()

	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	var updated *entity.Application
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		a, err := tx.Applications().GetForUpdate(ctx, applicationID)
		if err != nil {
			return storeErr(err, applicationNotFound())
		}
		if a.StudentID != sp.ID {
			return apperrors.Forbidden(apperrors.CodeNotOwner, "You can only withdraw your own applications")
		}
		if !a.Status.CanWithdraw() {
			return apperrors.IllegalTransition(string(a.Status), string(entity.StatusWithdrawn))
		}
		if err := tx.Applications().UpdateStatus(ctx, a.ID, a.Status, entity.StatusWithdrawn); err != nil {
			if errors.Is(err, repository.ErrConditionFailed) {
				return apperrors.IllegalTransition(string(a.Status), string(entity.StatusWithdrawn))
			}
			return storeErr(err, applicationNotFound())
		}
		updated, err = tx.Applications().GetByID(ctx, a.ID)
		return storeErr(err, applicationNotFound())
	})
	if err != nil {
		return view, err
	}
	statusChanges.Add(1)
	return newApplicationView(updated), nil
}

// ListByStudent pages the caller's applications with their jobs attached.
func (s *ApplicationService) ListByStudent(ctx context.Context, p entity.Principal, pr entity.PageRequest) (page entity.Page[ApplicationView], err error) {
	defer func() { err = report(s.logger, "student.list_applications", p.IdentityID, "", err) }()

	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return page, err
	}
	apps, total, err := s.store.Applications().ListByStudent(ctx, sp.ID, pr)
	if err != nil {
		return page, storeErr(err, nil)
	}
	jobIDs := make([]string, len(apps))
	for i := range apps {
		jobIDs[i] = apps[i].JobID
	}
	jobs, err := s.store.Jobs().ListByIDs(ctx, jobIDs)
	if err != nil {
		return page, storeErr(err, nil)
	}
	recruiterIDs := make([]string, len(jobs))
	byID := make(map[string]*entity.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
		recruiterIDs[i] = jobs[i].RecruiterID
	}
	companies, err := companiesByRecruiter(ctx, s.store, recruiterIDs)
	if err != nil {
		return page, err
	}
	items := make([]ApplicationView, len(apps))
	for i := range apps {
		items[i] = newApplicationView(&apps[i])
		if j, ok := byID[apps[i].JobID]; ok {
			sum := &JobSummary{
				ID: j.ID, Title: j.Title, JobType: j.JobType, Location: j.Location,
				CTC: j.CTC, Deadline: j.Deadline, Status: j.Status,
			}
			if c := companies[j.RecruiterID]; c != nil {
				sum.CompanyName = c.CompanyName
			}
			items[i].Job = sum
		}
	}
	return entity.NewPage(items, total, pr), nil
}

// ListByJob pages a job's applicants for its owning recruiter.
func (s *ApplicationService) ListByJob(ctx context.Context, p entity.Principal, jobID string, pr entity.PageRequest) (out JobApplications, err error) {
	defer func() { err = report(s.logger, "recruiter.list_applications", p.IdentityID, jobID, err) }()

	rp, err := recruiterOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return out, err
	}
	j, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return out, storeErr(err, jobNotFound())
	}
	if j.RecruiterID != rp.ID {
		return out, apperrors.Forbidden(apperrors.CodeNotOwner, "You can only view applications for your own jobs")
	}
	apps, total, err := s.store.Applications().ListByJob(ctx, j.ID, pr)
	if err != nil {
		return out, storeErr(err, nil)
	}
	studentIDs := make([]string, len(apps))
	for i := range apps {
		studentIDs[i] = apps[i].StudentID
	}
	students, err := s.store.Students().ListByIDs(ctx, studentIDs)
	if err != nil {
		return out, storeErr(err, nil)
	}
	identityIDs := make([]string, len(students))
	byID := make(map[string]*entity.StudentProfile, len(students))
	for i := range students {
		byID[students[i].ID] = &students[i]
		identityIDs[i] = students[i].IdentityID
	}
	owners, err := s.store.Identities().ListByIDs(ctx, identityIDs)
	if err != nil {
		return out, storeErr(err, nil)
	}
	ownerByID := make(map[string]*entity.Identity, len(owners))
	for i := range owners {
		ownerByID[owners[i].ID] = &owners[i]
	}

	items := make([]ApplicationView, len(apps))
	for i := range apps {
		items[i] = newApplicationView(&apps[i])
		sp, ok := byID[apps[i].StudentID]
		if !ok {
			continue
		}
		skills := sp.Skills
		if skills == nil {
			skills = []string{}
		}
		sum := &StudentSummary{
			ID: sp.ID, RollNumber: sp.RollNumber, Branch: sp.Branch,
			CGPA: sp.CGPA, Skills: skills, HasResume: sp.Resume != nil,
		}
		if u := ownerByID[sp.IdentityID]; u != nil {
			sum.Name, sum.Email = u.Name, u.Email
		}
		items[i].Student = sum
	}
	out.Job.ID, out.Job.Title, out.Job.CompanyName = j.ID, j.Title, rp.CompanyName
	out.Applications = entity.NewPage(items, total, pr)
	return out, nil
}

// ApplicantResumeURL signs the résumé of an applicant to one of the
// caller's jobs.
func (s *ApplicationService) ApplicantResumeURL(ctx context.Context, p entity.Principal, applicationID string) (link ResumeLink, err error) {
	defer func() { err = report(s.logger, "recruiter.applicant_resume", p.IdentityID, applicationID, err) }()

	a, _, _, err := s.ownedApplication(ctx, p, applicationID)
	if err != nil {
		return link, err
	}
	sp, err := s.store.Students().GetByID(ctx, a.StudentID)
	if err != nil {
		return link, storeErr(err, profileNotFound("Student"))
	}
	return signResume(ctx, s.blobs, sp, s.cfg.SignedURLTTL, s.now)
}
