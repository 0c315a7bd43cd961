package application

import (
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

// TokenPair is the credential set issued on login.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type IdentityView struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Email              string                    `json:"email"`
	Role               entity.Role               `json:"role"`
	VerificationStatus entity.VerificationStatus `json:"verificationStatus"`
	IsActive           bool                      `json:"isActive"`
	VerifiedAt         *time.Time                `json:"verifiedAt,omitempty"`
	DeactivatedAt      *time.Time                `json:"deactivatedAt,omitempty"`
	DeactivationReason string                    `json:"deactivationReason,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

func newIdentityView(i *entity.Identity) IdentityView {
	return IdentityView{
		ID:                 i.ID,
		Name:               i.Name,
		Email:              i.Email,
		Role:               i.Role,
		VerificationStatus: i.VerificationStatus,
		IsActive:           i.IsActive,
		VerifiedAt:         i.VerifiedAt,
		DeactivatedAt:      i.DeactivatedAt,
		DeactivationReason: i.DeactivationReason,
		CreatedAt:          i.CreatedAt,
	}
}

// UserSummary is the identity attached to profile listings.
type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserSummary(i *entity.Identity) *UserSummary {
	if i == nil {
		return nil
	}
	return &UserSummary{ID: i.ID, Name: i.Name, Email: i.Email, CreatedAt: i.CreatedAt}
}

type StudentProfileView struct {
	ID         string         `json:"id"`
	RollNumber string         `json:"rollNumber"`
	Branch     entity.Branch  `json:"branch"`
	CGPA       *float64       `json:"cgpa"`
	Skills     []string       `json:"skills"`
	IsPlaced   bool           `json:"isPlaced"`
	Resume     *entity.Resume `json:"resume,omitempty"`
	User       *UserSummary   `json:"user,omitempty"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func newStudentView(s *entity.StudentProfile, owner *entity.Identity) StudentProfileView {
	skills := s.Skills
	if skills == nil {
		skills = []string{}
	}
	return StudentProfileView{
		ID:         s.ID,
		RollNumber: s.RollNumber,
		Branch:     s.Branch,
		CGPA:       s.CGPA,
		Skills:     skills,
		IsPlaced:   s.IsPlaced,
		Resume:     s.Resume,
		User:       newUserSummary(owner),
		UpdatedAt:  s.UpdatedAt,
	}
}

type RecruiterProfileView struct {
	ID             string       `json:"id"`
	CompanyName    string       `json:"companyName"`
	RecruitingYear int          `json:"recruitingYear"`
	CompanyWebsite string       `json:"companyWebsite,omitempty"`
	ContactPerson  string       `json:"contactPerson"`
	ContactEmail   string       `json:"contactEmail"`
	ContactNumber  string       `json:"contactNumber,omitempty"`
	IsVerified     bool         `json:"isVerified"`
	VerifiedAt     *time.Time   `json:"verifiedAt,omitempty"`
	User           *UserSummary `json:"user,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func newRecruiterView(r *entity.RecruiterProfile, owner *entity.Identity) RecruiterProfileView {
	return RecruiterProfileView{
		ID:             r.ID,
		CompanyName:    r.CompanyName,
		RecruitingYear: r.RecruitingYear,
		CompanyWebsite: r.CompanyWebsite,
		ContactPerson:  r.ContactPerson,
		ContactEmail:   r.ContactEmail,
		ContactNumber:  r.ContactNumber,
		IsVerified:     r.IsVerified,
		VerifiedAt:     r.VerifiedAt,
		User:           newUserSummary(owner),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type JobView struct {
	ID          string             `json:"id"`
	RecruiterID string             `json:"recruiterId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Eligibility entity.Eligibility `json:"eligibility"`
	JobType     entity.JobType     `json:"jobType"`
	Location    string             `json:"location,omitempty"`
	CTC         string             `json:"ctc,omitempty"`
	Deadline    time.Time          `json:"deadline"`
	Status      entity.JobStatus   `json:"status"`
	Company     *entity.Company    `json:"company,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func newJobView(j *entity.Job, company *entity.Company) JobView {
	return JobView{
		ID:          j.ID,
		RecruiterID: j.RecruiterID,
		Title:       j.Title,
		Description: j.Description,
		Eligibility: j.Eligibility,
		JobType:     j.JobType,
		Location:    j.Location,
		CTC:         j.CTC,
		Deadline:    j.Deadline,
		Status:      j.Status,
		Company:     company,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// JobSummary is the job attached to a student's application listing.
type JobSummary struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	CompanyName string           `json:"companyName"`
	JobType     entity.JobType   `json:"jobType"`
	Location    string           `json:"location,omitempty"`
	CTC         string           `json:"ctc,omitempty"`
	Deadline    time.Time        `json:"deadline"`
	Status      entity.JobStatus `json:"status"`
}

// StudentSummary is the applicant attached to a job's application listing.
type StudentSummary struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	RollNumber string        `json:"rollNumber"`
	Branch     entity.Branch `json:"branch"`
	CGPA       *float64      `json:"cgpa"`
	Skills     []string      `json:"skills"`
	HasResume  bool          `json:"hasResume"`
}

type ApplicationView struct {
	ID        string                   `json:"id"`
	StudentID string                   `json:"studentId"`
	JobID     string                   `json:"jobId"`
	Status    entity.ApplicationStatus `json:"status"`
	AppliedAt time.Time                `json:"appliedAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
	Job       *JobSummary              `json:"job,omitempty"`
	Student   *StudentSummary          `json:"student,omitempty"`
}

func newApplicationView(a *entity.Application) ApplicationView {
	return ApplicationView{
		ID:        a.ID,
		StudentID: a.StudentID,
		JobID:     a.JobID,
		Status:    a.Status,
		AppliedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// JobApplications is one page of a job's applicants.
type JobApplications struct {
	Job struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		CompanyName string `json:"companyName"`
	} `json:"job"`
	Applications entity.Page[ApplicationView] `json:"applications"`
}

type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type BulkSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// BulkResult reports a CSV import. Rows are numbered from 1, header excluded.
type BulkResult struct {
	Summary BulkSummary `json:"summary"`
	Errors  []RowError  `json:"errors"`
}

// CreatedStudent is returned by single student provisioning.
type CreatedStudent struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	RollNumber string        `json:"rollNumber"`
	Branch     entity.Branch `json:"branch"`
	Status     string        `json:"status"`
}

// StudentStats is the placement tally with derived figures.
type StudentStats struct {
	Total               int     `json:"total"`
	Placed              int     `json:"placed"`
	Unplaced            int     `json:"unplaced"`
	PlacementPercentage float64 `json:"placementPercentage"`
}

type ApplicationStats struct {
	TotalApplications int                              `json:"totalApplications"`
	ByStatus          map[entity.ApplicationStatus]int `json:"byStatus"`
}

type OverviewStats struct {
	Students     StudentStats           `json:"students"`
	Recruiters   entity.RecruiterCounts `json:"recruiters"`
	Jobs         entity.JobCounts       `json:"jobs"`
	Applications ApplicationStats       `json:"applications"`
}

type BranchStat struct {
	Branch              entity.Branch `json:"branch"`
	TotalStudents       int           `json:"totalStudents"`
	PlacedStudents      int           `json:"placedStudents"`
	UnplacedStudents    int           `json:"unplacedStudents"`
	PlacementPercentage float64       `json:"placementPercentage"`
}

type BranchwiseStats struct {
	Branches []BranchStat `json:"branches"`
	Overall  struct {
		TotalStudents       int     `json:"totalStudents"`
		PlacedStudents      int     `json:"placedStudents"`
		UnplacedStudents    int     `json:"unplacedStudents"`
		PlacementPercentage float64 `json:"placementPercentage"`
		TotalBranches       int     `json:"totalBranches"`
	} `json:"overall"`
}

type JobFunnel struct {
	JobID                     string                           `json:"jobId"`
	Title                     string                           `json:"title"`
	CompanyName               string                           `json:"companyName"`
	TotalApplications         int                              `json:"totalApplications"`
	Stages                    map[entity.ApplicationStatus]int `json:"stages"`
	AppliedToShortlistedRate  float64                          `json:"appliedToShortlistedRate"`
	ShortlistedToSelectedRate float64                          `json:"shortlistedToSelectedRate"`
}

type FunnelStats struct {
	Jobs      []JobFunnel `json:"jobs"`
	TotalJobs int         `json:"totalJobs"`
}
