package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/mailer/templates"
)

func TestOfficerLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)

	officer, err := f.accounts.CreateOfficer(ctx, admin, CreateOfficerInput{Name: " Olive ", Email: "Olive@Portal.test", Password: "Officer#2026"})
	require.NoError(t, err)
	assert.Equal(t, "olive@portal.test", officer.Email)
	assert.Equal(t, entity.RoleOfficer, officer.Role)
	assert.Equal(t, entity.VerificationVerified, officer.VerificationStatus)
	assert.True(t, officer.IsActive)

	_, err = f.accounts.CreateOfficer(ctx, admin, CreateOfficerInput{Name: "Dup", Email: "olive@portal.test", Password: "Officer#2026"})
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeDuplicateKey)

	_, err = f.accounts.ReactivateOfficer(ctx, admin, officer.ID)
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeAlreadyActive)

	view, err := f.accounts.DeactivateOfficer(ctx, admin, officer.ID, "")
	require.NoError(t, err)
	assert.False(t, view.IsActive)
	assert.Equal(t, "Deactivated by admin", view.DeactivationReason)

	_, err = f.accounts.DeactivateOfficer(ctx, admin, officer.ID, "again")
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeAlreadyInactive)
	_, err = f.auth.Login(ctx, "olive@portal.test", "Officer#2026")
	requireCode(t, err, apperrors.KindForbidden, apperrors.CodeAccountInactive)

	view, err = f.accounts.ReactivateOfficer(ctx, admin, officer.ID)
	require.NoError(t, err)
	assert.True(t, view.IsActive)
	assert.Empty(t, view.DeactivationReason)
	_, err = f.auth.Login(ctx, "olive@portal.test", "Officer#2026")
	require.NoError(t, err)
}

func TestOfficerOperationsRejectOtherRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	student, _ := f.student(t, "CS-001", entity.BranchCSE, nil)

	_, err := f.accounts.DeactivateOfficer(ctx, admin, student.IdentityID, "")
	requireCode(t, err, apperrors.KindValidation, apperrors.CodeWrongRole)
	_, err = f.accounts.ReactivateOfficer(ctx, admin, "missing")
	requireCode(t, err, apperrors.KindNotFound, apperrors.CodeNotFound)
}

func TestCreateStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))

	created, err := f.accounts.CreateStudent(ctx, officer, CreateStudentInput{
		Name: "Asha", Email: "asha@college.test", RollNumber: " CS-101 ", Branch: "Cse",
		CGPA: ptr(9.1), Skills: []string{"go", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "CS-101", created.RollNumber)
	assert.Equal(t, entity.BranchCSE, created.Branch)

	sp, err := f.store.Students().GetByRollNumber(ctx, "CS-101")
	require.NoError(t, err)
	assert.Equal(t, created.ID, sp.IdentityID)
	assert.Equal(t, []string{"go"}, sp.Skills)

	u, err := f.store.Identities().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, entity.VerificationPending, u.VerificationStatus)
	require.NotNil(t, u.ResetTokenExpiresAt)
	assert.True(t, f.now.Add(testConfig().ResetTokenTTL).Equal(*u.ResetTokenExpiresAt))

	_, err = f.accounts.CreateStudent(ctx, officer, CreateStudentInput{
		Name: "Other", Email: "other@college.test", RollNumber: "CS-101", Branch: "CSE",
	})
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeDuplicateKey)

	_, err = f.accounts.CreateStudent(ctx, officer, CreateStudentInput{
		Name: "Other", Email: "other@college.test", RollNumber: "CS-102", Branch: "LAW",
	})
	requireCode(t, err, apperrors.KindValidation, apperrors.CodeInvalidInput)

	// The duplicate roll number rolled back the identity insert.
	_, err = f.store.Identities().GetByEmail(ctx, "other@college.test")
	assert.Error(t, err)
}

func TestCreateStudentRollsBackWhenMailFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))
	f.mail.err = errors.New("queue unavailable")

	_, err := f.accounts.CreateStudent(ctx, officer, CreateStudentInput{
		Name: "Asha", Email: "asha@college.test", RollNumber: "CS-101", Branch: "CSE",
	})
	requireCode(t, err, apperrors.KindInternal, apperrors.CodeInternal)

	_, err = f.store.Identities().GetByEmail(ctx, "asha@college.test")
	assert.Error(t, err)
	_, err = f.store.Students().GetByRollNumber(ctx, "CS-101")
	assert.Error(t, err)

	f.mail.err = nil
	_, err = f.accounts.CreateStudent(ctx, officer, CreateStudentInput{
		Name: "Asha", Email: "asha@college.test", RollNumber: "CS-101", Branch: "CSE",
	})
	require.NoError(t, err)
}

func TestResendActivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))
	_, err := f.accounts.CreateStudent(ctx, officer, CreateStudentInput{
		Name: "Asha", Email: "asha@college.test", RollNumber: "CS-101", Branch: "CSE",
	})
	require.NoError(t, err)
	first := tokenFrom(t, f.mail.sent()[0])

	require.NoError(t, f.accounts.ResendActivation(ctx, officer, "CS-101"))
	sent := f.mail.sent()
	require.Len(t, sent, 2)
	second := tokenFrom(t, sent[1])
	assert.NotEqual(t, first, second)

	// Only the newest link works.
	err = f.auth.ResetPassword(ctx, first, "Student#2026")
	requireCode(t, err, apperrors.KindValidation, apperrors.CodeTokenInvalid)
	require.NoError(t, f.auth.ResetPassword(ctx, second, "Student#2026"))

	err = f.accounts.ResendActivation(ctx, officer, "CS-101")
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeAlreadyActive)
	err = f.accounts.ResendActivation(ctx, officer, "CS-999")
	requireCode(t, err, apperrors.KindNotFound, apperrors.CodeNotFound)
}

func TestBulkImportStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))
	f.student(t, "CS-001", entity.BranchCSE, nil)

	csvData := "\ufeffName,Email,RollNumber,Branch,CGPA,Skills\n" +
		"Asha,asha@college.test,CS-101,CSE,8.5,go|sql\n" +
		"Ravi,ravi@college.test,EC-201,ECE,,\n" +
		"Dup,dup@college.test,CS-001,CSE,7,\n" +
		"Bad,bad@college.test,ME-301,ME,high,\n" +
		"Nobranch,nb@college.test,XX-1,LAW,6,\n"

	res, err := f.accounts.BulkImportStudents(ctx, officer, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, BulkSummary{Total: 5, Created: 2, Failed: 3}, res.Summary)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, 4, res.Errors[1].Row)
	assert.Equal(t, "invalid cgpa high", res.Errors[1].Reason)
	assert.Equal(t, 5, res.Errors[2].Row)

	sp, err := f.store.Students().GetByRollNumber(ctx, "CS-101")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, sp.Skills)
	require.NotNil(t, sp.CGPA)
	assert.Equal(t, 8.5, *sp.CGPA)
	assert.Len(t, f.mail.sent(), 2)
}

func TestBulkImportRejectsBadFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))

	_, err := f.accounts.BulkImportStudents(ctx, officer, strings.NewReader(""))
	requireCode(t, err, apperrors.KindValidation, apperrors.CodeInvalidInput)

	_, err = f.accounts.BulkImportStudents(ctx, officer, strings.NewReader("name,email\nA,a@b.test\n"))
	requireCode(t, err, apperrors.KindValidation, apperrors.CodeInvalidInput)

	res, err := f.accounts.BulkImportStudents(ctx, officer, strings.NewReader("name,email,rollNumber,branch\n"))
	require.NoError(t, err)
	assert.Equal(t, BulkSummary{}, res.Summary)
	assert.Empty(t, res.Errors)
}

func pendingRecruiter(t *testing.T, f *fixture, company string, year int) RecruiterProfileView {
	t.Helper()
	view, err := f.auth.RecruiterSignup(context.Background(), RecruiterSignupInput{
		Name:           company + " HR",
		Email:          "hr@" + strings.ToLower(company) + ".test",
		Password:       "Recruit#2026",
		CompanyName:    company,
		RecruitingYear: year,
		ContactPerson:  "HR",
		ContactEmail:   "jobs@" + strings.ToLower(company) + ".test",
	})
	require.NoError(t, err)
	return view
}

func TestVerifyRecruiter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))
	pendingRecruiter(t, f, "Acme", 2026)

	_, err := f.accounts.VerifyRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2025})
	requireCode(t, err, apperrors.KindNotFound, apperrors.CodeNotFound)

	view, err := f.accounts.VerifyRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2026})
	require.NoError(t, err)
	assert.True(t, view.IsVerified)
	require.NotNil(t, view.VerifiedAt)

	sent := f.mail.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, templates.RecruiterStatus, sent[0].Template)
	assert.Equal(t, string(entity.VerificationVerified), sent[0].Data["Status"])

	_, err = f.auth.Login(ctx, "hr@acme.test", "Recruit#2026")
	require.NoError(t, err)

	_, err = f.accounts.VerifyRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2026})
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeAlreadyVerified)
	_, err = f.accounts.RejectRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2026})
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeAlreadyVerified)
}

func TestVerifyRecruiterRollsBackWhenMailFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))
	view := pendingRecruiter(t, f, "Acme", 2026)
	f.mail.err = errors.New("queue unavailable")

	_, err := f.accounts.VerifyRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2026})
	require.Error(t, err)

	rp, err := f.store.Recruiters().GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.False(t, rp.IsVerified)
	u, err := f.store.Identities().GetByID(ctx, rp.IdentityID)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
}

func TestRejectRecruiter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))
	view := pendingRecruiter(t, f, "Acme", 2026)

	_, err := f.accounts.RejectRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2026})
	require.NoError(t, err)

	rp, err := f.store.Recruiters().GetByID(ctx, view.ID)
	require.NoError(t, err)
	u, err := f.store.Identities().GetByID(ctx, rp.IdentityID)
	require.NoError(t, err)
	assert.Equal(t, entity.VerificationRejected, u.VerificationStatus)
	assert.False(t, u.IsActive)
	assert.Equal(t, "Rejected by officer", u.DeactivationReason)
	assert.Equal(t, string(entity.VerificationRejected), f.mail.sent()[0].Data["Status"])

	_, err = f.accounts.RejectRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2026})
	requireCode(t, err, apperrors.KindConflict, apperrors.CodeAlreadyInactive)

	// A rejected company can still be verified later.
	_, err = f.accounts.VerifyRecruiter(ctx, officer, CompanyRef{CompanyName: "Acme", RecruitingYear: 2026})
	require.NoError(t, err)
}

func TestListRecruiters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	officer := principalOf(f.identity(t, entity.RoleOfficer, "officer@portal.test", "officer-pass"))
	pendingRecruiter(t, f, "Acme", 2026)
	pendingRecruiter(t, f, "Acme Labs", 2027)
	pendingRecruiter(t, f, "Globex", 2026)
	f.recruiter(t, "Initech")

	page, err := f.accounts.ListRecruiters(ctx, officer, RecruiterQuery{Page: entity.NewPageRequest(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	for _, v := range page.Items {
		require.NotNil(t, v.User)
		assert.False(t, v.IsVerified)
	}

	page, err = f.accounts.ListRecruiters(ctx, officer, RecruiterQuery{CompanyName: "acme", Page: entity.NewPageRequest(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = f.accounts.ListRecruiters(ctx, officer, RecruiterQuery{RecruitingYear: ptr(2026), Page: entity.NewPageRequest(1, 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)

	page, err = f.accounts.ListRecruiters(ctx, officer, RecruiterQuery{Verified: true, Page: entity.NewPageRequest(1, 10)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Initech", page.Items[0].CompanyName)
}
