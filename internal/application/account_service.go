package application

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/helpers"
	"github.com/oksasatya/placement-portal/pkg/mailer"
	"github.com/oksasatya/placement-portal/pkg/mailer/templates"
)

// StatusPendingActivation is reported for freshly provisioned students.
const StatusPendingActivation = "PENDING_ACTIVATION"

// AccountService provisions and administers accounts on behalf of admins
// and placement officers.
type AccountService struct {
	store  repository.Store
	mail   mailer.Dispatcher
	cfg    *config.Config
	logger *logrus.Logger
	now    Clock
}

func NewAccountService(store repository.Store, mail mailer.Dispatcher, cfg *config.Config, logger *logrus.Logger) *AccountService {
	return &AccountService{store: store, mail: mail, cfg: cfg, logger: loggerOrStd(logger), now: time.Now}
}

type CreateOfficerInput struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// CreateOfficer creates an officer that can sign in immediately.
func (s *AccountService) CreateOfficer(ctx context.Context, admin entity.Principal, in CreateOfficerInput) (view IdentityView, err error) {
	var id string
	defer func() { err = report(s.logger, "admin.create_officer", admin.IdentityID, id, err) }()

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return IdentityView{}, invalid("name, email and password are required")
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return IdentityView{}, err
	}
	u := &entity.Identity{
		Name:         strings.TrimSpace(in.Name),
		Email:        entity.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         entity.RoleOfficer,
		IsActive:     true,
	}
	actor := admin.IdentityID
	u.MarkVerified(&actor, s.now().UTC())
	if err := s.store.Identities().Create(ctx, u); err != nil {
		return IdentityView{}, storeErr(err, nil)
	}
	id = u.ID
	helpers.LogInfo(s.logger, "officer created", logrus.Fields{"actor_id": admin.IdentityID, "entity_id": u.ID})
	return newIdentityView(u), nil
}

func (s *AccountService) loadOfficer(ctx context.Context, officerID string) (*entity.Identity, error) {
	u, err := s.store.Identities().GetByID(ctx, officerID)
	if err != nil {
		return nil, storeErr(err, notFound("Officer"))
	}
	if u.Role != entity.RoleOfficer {
		return nil, apperrors.Validation(apperrors.CodeWrongRole, "User is not an officer")
	}
	return u, nil
}

// DeactivateOfficer disables an officer and revokes its session. An empty
// reason is recorded as "Deactivated by <admin name>".
func (s *AccountService) DeactivateOfficer(ctx context.Context, admin entity.Principal, officerID, reason string) (view IdentityView, err error) {
	defer func() { err = report(s.logger, "admin.deactivate_officer", admin.IdentityID, officerID, err) }()

	u, err := s.loadOfficer(ctx, officerID)
	if err != nil {
		return IdentityView{}, err
	}
	if !u.IsActive {
		return IdentityView{}, apperrors.Conflict(apperrors.CodeAlreadyInactive, "Officer is already inactive")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Deactivated by " + admin.Name
	}
	u.Deactivate(admin.IdentityID, reason, s.now().UTC())
	u.RefreshTokenHash = ""
	if err := s.store.Identities().Update(ctx, u); err != nil {
		return IdentityView{}, storeErr(err, notFound("Officer"))
	}
	return newIdentityView(u), nil
}

func (s *AccountService) ReactivateOfficer(ctx context.Context, admin entity.Principal, officerID string) (view IdentityView, err error) {
	defer func() { err = report(s.logger, "admin.reactivate_officer", admin.IdentityID, officerID, err) }()

	u, err := s.loadOfficer(ctx, officerID)
	if err != nil {
		return IdentityView{}, err
	}
	if u.IsActive {
		return IdentityView{}, apperrors.Conflict(apperrors.CodeAlreadyActive, "Officer is already active")
	}
	u.Reactivate(admin.IdentityID, s.now().UTC())
	if err := s.store.Identities().Update(ctx, u); err != nil {
		return IdentityView{}, storeErr(err, notFound("Officer"))
	}
	return newIdentityView(u), nil
}

type CreateStudentInput struct {
	Name       string   `json:"name" binding:"required,min=2,max=100"`
	Email      string   `json:"email" binding:"required,email"`
	RollNumber string   `json:"rollNumber" binding:"required,max=50"`
	Branch     string   `json:"branch" binding:"required,branch"`
	CGPA       *float64 `json:"cgpa" binding:"omitempty,cgpa"`
	Skills     []string `json:"skills" binding:"omitempty,dive,max=50"`
}

func (in CreateStudentInput) normalize() (CreateStudentInput, entity.Branch, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = entity.NormalizeEmail(in.Email)
	in.RollNumber = strings.TrimSpace(in.RollNumber)
	if in.Name == "" || in.Email == "" || in.RollNumber == "" || strings.TrimSpace(in.Branch) == "" {
		return in, "", invalid("name, email, rollNumber and branch are required")
	}
	branch, ok := entity.ParseBranch(in.Branch)
	if !ok {
		return in, "", invalid("invalid branch " + strings.TrimSpace(in.Branch))
	}
	if in.CGPA != nil && !entity.ValidCGPA(*in.CGPA) {
		return in, "", invalid("cgpa must be between 0 and 10")
	}
	return in, branch, nil
}

// CreateStudent provisions a student account that is activated through the
// emailed reset link.
func (s *AccountService) CreateStudent(ctx context.Context, actor entity.Principal, in CreateStudentInput) (out CreatedStudent, err error) {
	defer func() { err = report(s.logger, "officer.create_student", actor.IdentityID, out.ID, err) }()
	return s.provisionStudent(ctx, in)
}

// provisionStudent creates identity, profile and reset token and sends the
// activation email, all in one transaction.
func (s *AccountService) provisionStudent(ctx context.Context, in CreateStudentInput) (CreatedStudent, error) {
	in, branch, err := in.normalize()
	if err != nil {
		return CreatedStudent{}, err
	}
	// The account is unusable until activation replaces this password.
	temp, err := helpers.GenerateResetToken()
	if err != nil {
		return CreatedStudent{}, err
	}
	hash, err := helpers.HashPassword(temp[:32])
	if err != nil {
		return CreatedStudent{}, err
	}
	token, err := helpers.GenerateResetToken()
	if err != nil {
		return CreatedStudent{}, err
	}
	expires := s.now().UTC().Add(s.cfg.ResetTokenTTL)

	u := &entity.Identity{
		Name:               in.Name,
		Email:              in.Email,
		PasswordHash:       hash,
		Role:               entity.RoleStudent,
		VerificationStatus: entity.VerificationPending,
		IsActive:           false,
	}
	u.SetResetToken(helpers.HashToken(token), expires)
	p := &entity.StudentProfile{
		RollNumber: in.RollNumber,
		Branch:     branch,
		CGPA:       in.CGPA,
		Skills:     cleanSkills(in.Skills),
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Identities().Create(ctx, u); err != nil {
			return storeErr(err, nil)
		}
		p.IdentityID = u.ID
		if err := tx.Students().Create(ctx, p); err != nil {
			return storeErr(err, nil)
		}
		return s.mail.Dispatch(ctx, mailer.EmailJob{
			To:       u.Email,
			Template: templates.AccountActivation,
			Data:     templates.NewActivationData(s.cfg, u.Name, u.Email, p.RollNumber, token, expires),
		})
	})
	if err != nil {
		return CreatedStudent{}, err
	}
	return CreatedStudent{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		RollNumber: p.RollNumber,
		Branch:     p.Branch,
		Status:     StatusPendingActivation,
	}, nil
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, sk := range in {
		if sk = strings.TrimSpace(sk); sk != "" {
			out = append(out, sk)
		}
	}
	return out
}

// ResendActivation issues a fresh reset token to a student who has not
// activated yet.
func (s *AccountService) ResendActivation(ctx context.Context, actor entity.Principal, rollNumber string) (err error) {
	var id string
	defer func() { err = report(s.logger, "officer.resend_activation", actor.IdentityID, id, err) }()

	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return invalid("rollNumber is required")
	}
	p, err := s.store.Students().GetByRollNumber(ctx, rollNumber)
	if err != nil {
		return storeErr(err, notFound("Student"))
	}
	u, err := s.store.Identities().GetByID(ctx, p.IdentityID)
	if err != nil {
		return storeErr(err, notFound("Student"))
	}
	id = u.ID
	if u.Role != entity.RoleStudent {
		return apperrors.Validation(apperrors.CodeWrongRole, "User is not a student")
	}
	if u.IsActive && u.IsVerified() {
		return apperrors.Conflict(apperrors.CodeAlreadyActive, "Account is already activated")
	}
	token, err := helpers.GenerateResetToken()
	if err != nil {
		return err
	}
	expires := s.now().UTC().Add(s.cfg.ResetTokenTTL)
	return s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u.SetResetToken(helpers.HashToken(token), expires)
		if err := tx.Identities().Update(ctx, u); err != nil {
			return storeErr(err, nil)
		}
		return s.mail.Dispatch(ctx, mailer.EmailJob{
			To:       u.Email,
			Template: templates.AccountActivation,
			Data:     templates.NewActivationData(s.cfg, u.Name, u.Email, p.RollNumber, token, expires),
		})
	})
}

var bulkColumns = []string{"name", "email", "rollnumber", "branch", "cgpa", "skills"}

// BulkImportStudents provisions one student per CSV row. Rows fail
// independently; the header must name at least name, email, rollNumber and
// branch. Skills are separated by '|'.
func (s *AccountService) BulkImportStudents(ctx context.Context, actor entity.Principal, r io.Reader) (res BulkResult, err error) {
	defer func() { err = report(s.logger, "officer.bulk_import", actor.IdentityID, "", err) }()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return BulkResult{}, invalid("CSV file is empty")
	}
	if err != nil {
		return BulkResult{}, invalid("CSV header could not be read")
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range bulkColumns[:4] {
		if _, ok := cols[c]; !ok {
			return BulkResult{}, invalid("CSV header must include name, email, rollNumber and branch")
		}
	}

	res.Errors = []RowError{}
	for row := 1; ; row++ {
		rec, rerr := cr.Read()
		if errors.Is(rerr, io.EOF) {
			break
		}
		if err := ctx.Err(); err != nil {
			return BulkResult{}, err
		}
		res.Summary.Total++
		if rerr != nil {
			var pe *csv.ParseError
			if !errors.As(rerr, &pe) {
				return BulkResult{}, rerr
			}
			res.Errors = append(res.Errors, RowError{Row: row, Reason: "malformed CSV row"})
			continue
		}
		in, reason := studentFromRecord(rec, cols)
		if reason == "" {
			if _, perr := s.provisionStudent(ctx, in); perr != nil {
				perr = report(s.logger, "officer.bulk_import.row", actor.IdentityID, strconv.Itoa(row), perr)
				ae, _ := apperrors.As(perr)
				reason = ae.Message
			}
		}
		if reason != "" {
			res.Errors = append(res.Errors, RowError{Row: row, Reason: reason})
			continue
		}
		res.Summary.Created++
	}
	res.Summary.Failed = len(res.Errors)
	helpers.LogInfo(s.logger, "bulk import finished", logrus.Fields{
		"actor_id": actor.IdentityID, "total": res.Summary.Total,
		"created": res.Summary.Created, "failed": res.Summary.Failed,
	})
	return res, nil
}

func studentFromRecord(rec []string, cols map[string]int) (CreateStudentInput, string) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	in := CreateStudentInput{
		Name:       field("name"),
		Email:      field("email"),
		RollNumber: field("rollnumber"),
		Branch:     field("branch"),
	}
	if raw := field("cgpa"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, "invalid cgpa " + raw
		}
		in.CGPA = &v
	}
	if raw := field("skills"); raw != "" {
		in.Skills = strings.Split(raw, "|")
	}
	return in, ""
}

// CompanyRef addresses a recruiter registration.
type CompanyRef struct {
	CompanyName    string `json:"companyName" binding:"required"`
	RecruitingYear int    `json:"recruitingYear" binding:"required"`
	Reason         string `json:"reason" binding:"omitempty,max=500"`
}

func (s *AccountService) loadRegistration(ctx context.Context, ref CompanyRef) (*entity.RecruiterProfile, *entity.Identity, error) {
	if strings.TrimSpace(ref.CompanyName) == "" || ref.RecruitingYear <= 0 {
		return nil, nil, invalid("companyName and recruitingYear are required")
	}
	rp, err := s.store.Recruiters().GetByCompanyYear(ctx, strings.TrimSpace(ref.CompanyName), ref.RecruitingYear)
	if err != nil {
		return nil, nil, storeErr(err, notFound("Recruiter"))
	}
	u, err := s.store.Identities().GetByID(ctx, rp.IdentityID)
	if err != nil {
		return nil, nil, storeErr(err, notFound("Recruiter"))
	}
	return rp, u, nil
}

// VerifyRecruiter approves a registration, activating the account. Profile
// and identity change together.
func (s *AccountService) VerifyRecruiter(ctx context.Context, actor entity.Principal, ref CompanyRef) (view RecruiterProfileView, err error) {
	var id string
	defer func() { err = report(s.logger, "officer.verify_recruiter", actor.IdentityID, id, err) }()

	rp, u, err := s.loadRegistration(ctx, ref)
	if err != nil {
		return RecruiterProfileView{}, err
	}
	id = rp.ID
	if rp.IsVerified {
		return RecruiterProfileView{}, apperrors.Conflict(apperrors.CodeAlreadyVerified, "Recruiter is already verified")
	}
	now := s.now().UTC()
	by := actor.IdentityID
	rp.IsVerified = true
	rp.VerifiedBy = &by
	rp.VerifiedAt = &now
	u.IsActive = true
	u.DeactivatedBy, u.DeactivatedAt, u.DeactivationReason = nil, nil, ""
	u.MarkVerified(&by, now)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return s.writeRegistration(ctx, tx, rp, u, entity.VerificationVerified)
	})
	if err != nil {
		return RecruiterProfileView{}, err
	}
	return newRecruiterView(rp, u), nil
}

// RejectRecruiter declines a pending registration. The account stays
// inactive with the reason recorded.
func (s *AccountService) RejectRecruiter(ctx context.Context, actor entity.Principal, ref CompanyRef) (view RecruiterProfileView, err error) {
	var id string
	defer func() { err = report(s.logger, "officer.reject_recruiter", actor.IdentityID, id, err) }()

	rp, u, err := s.loadRegistration(ctx, ref)
	if err != nil {
		return RecruiterProfileView{}, err
	}
	id = rp.ID
	if rp.IsVerified {
		return RecruiterProfileView{}, apperrors.Conflict(apperrors.CodeAlreadyVerified, "Recruiter is already verified")
	}
	if u.VerificationStatus == entity.VerificationRejected {
		return RecruiterProfileView{}, apperrors.Conflict(apperrors.CodeAlreadyInactive, "Recruiter is already rejected")
	}
	reason := strings.TrimSpace(ref.Reason)
	if reason == "" {
		reason = "Rejected by " + actor.Name
	}
	u.Deactivate(actor.IdentityID, reason, s.now().UTC())
	u.VerificationStatus = entity.VerificationRejected

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return s.writeRegistration(ctx, tx, rp, u, entity.VerificationRejected)
	})
	if err != nil {
		return RecruiterProfileView{}, err
	}
	return newRecruiterView(rp, u), nil
}

func (s *AccountService) writeRegistration(ctx context.Context, tx repository.Store, rp *entity.RecruiterProfile, u *entity.Identity, status entity.VerificationStatus) error {
	if err := tx.Recruiters().Update(ctx, rp); err != nil {
		return storeErr(err, notFound("Recruiter"))
	}
	if err := tx.Identities().Update(ctx, u); err != nil {
		return storeErr(err, notFound("Recruiter"))
	}
	return s.mail.Dispatch(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: templates.RecruiterStatus,
		Data:     templates.NewRecruiterStatusData(s.cfg, u.Name, u.Email, rp.CompanyName, rp.RecruitingYear, string(status)),
	})
}

// RecruiterQuery filters recruiter listings.
type RecruiterQuery struct {
	Verified       bool
	RecruitingYear *int
	CompanyName    string
	Page           entity.PageRequest
}

// ListRecruiters pages registrations with the owning identity attached.
func (s *AccountService) ListRecruiters(ctx context.Context, actor entity.Principal, q RecruiterQuery) (page entity.Page[RecruiterProfileView], err error) {
	defer func() { err = report(s.logger, "officer.list_recruiters", actor.IdentityID, "", err) }()

	rps, total, err := s.store.Recruiters().List(ctx, repository.RecruiterFilter{
		Verified:       q.Verified,
		RecruitingYear: q.RecruitingYear,
		CompanyName:    strings.TrimSpace(q.CompanyName),
	}, q.Page)
	if err != nil {
		return page, storeErr(err, nil)
	}
	ids := make([]string, len(rps))
	for i := range rps {
		ids[i] = rps[i].IdentityID
	}
	owners, err := s.store.Identities().ListByIDs(ctx, ids)
	if err != nil {
		return page, storeErr(err, nil)
	}
	byID := make(map[string]*entity.Identity, len(owners))
	for i := range owners {
		byID[owners[i].ID] = &owners[i]
	}
	items := make([]RecruiterProfileView, len(rps))
	for i := range rps {
		items[i] = newRecruiterView(&rps[i], byID[rps[i].IdentityID])
	}
	return entity.NewPage(items, total, q.Page), nil
}
