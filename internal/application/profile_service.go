package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

const pdfType = "application/pdf"

// ProfileService serves the role profiles and the student résumé.
type ProfileService struct {
	store  repository.Store
	blobs  BlobStore
	cfg    *config.Config
	logger *logrus.Logger
	now    Clock
}

func NewProfileService(store repository.Store, blobs BlobStore, cfg *config.Config, logger *logrus.Logger) *ProfileService {
	return &ProfileService{store: store, blobs: blobs, cfg: cfg, logger: loggerOrStd(logger), now: time.Now}
}

func studentOf(ctx context.Context, store repository.Store, identityID string) (*entity.StudentProfile, error) {
	p, err := store.Students().GetByIdentityID(ctx, identityID)
	if err != nil {
		return nil, storeErr(err, profileNotFound("Student"))
	}
	return p, nil
}

func recruiterOf(ctx context.Context, store repository.Store, identityID string) (*entity.RecruiterProfile, error) {
	r, err := store.Recruiters().GetByIdentityID(ctx, identityID)
	if err != nil {
		return nil, storeErr(err, profileNotFound("Recruiter"))
	}
	return r, nil
}

func (s *ProfileService) owner(ctx context.Context, identityID string) (*entity.Identity, error) {
	u, err := s.store.Identities().GetByID(ctx, identityID)
	if err != nil {
		return nil, storeErr(err, notFound("User"))
	}
	return u, nil
}

func (s *ProfileService) GetStudentProfile(ctx context.Context, p entity.Principal) (view StudentProfileView, err error) {
	defer func() { err = report(s.logger, "student.get_profile", p.IdentityID, view.ID, err) }()

	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	u, err := s.owner(ctx, p.IdentityID)
	if err != nil {
		return view, err
	}
	return newStudentView(sp, u), nil
}

type StudentProfileInput struct {
	CGPA   *float64  `json:"cgpa" binding:"omitempty,cgpa"`
	Skills *[]string `json:"skills" binding:"omitempty,dive,max=50"`
}

func (s *ProfileService) UpdateStudentProfile(ctx context.Context, p entity.Principal, in StudentProfileInput) (view StudentProfileView, err error) {
	defer func() { err = report(s.logger, "student.update_profile", p.IdentityID, view.ID, err) }()

	upd := entity.StudentUpdate{CGPA: in.CGPA}
	if in.Skills != nil {
		skills := cleanSkills(*in.Skills)
		upd.Skills = &skills
	}
	if upd.Empty() {
		return view, noFields()
	}
	if upd.CGPA != nil && !entity.ValidCGPA(*upd.CGPA) {
		return view, invalid("cgpa must be between 0 and 10")
	}
	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	sp.Apply(upd)
	if err := s.store.Students().Update(ctx, sp); err != nil {
		return view, storeErr(err, profileNotFound("Student"))
	}
	u, err := s.owner(ctx, p.IdentityID)
	if err != nil {
		return view, err
	}
	return newStudentView(sp, u), nil
}

func (s *ProfileService) GetRecruiterProfile(ctx context.Context, p entity.Principal) (view RecruiterProfileView, err error) {
	defer func() { err = report(s.logger, "recruiter.get_profile", p.IdentityID, view.ID, err) }()

	rp, err := recruiterOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	u, err := s.owner(ctx, p.IdentityID)
	if err != nil {
		return view, err
	}
	return newRecruiterView(rp, u), nil
}

type RecruiterProfileInput struct {
	CompanyWebsite *string `json:"companyWebsite" binding:"omitempty,url"`
	ContactPerson  *string `json:"contactPerson" binding:"omitempty,min=1,max=100"`
	ContactEmail   *string `json:"contactEmail" binding:"omitempty,email"`
	ContactNumber  *string `json:"contactNumber" binding:"omitempty,phone"`
}

func (s *ProfileService) UpdateRecruiterProfile(ctx context.Context, p entity.Principal, in RecruiterProfileInput) (view RecruiterProfileView, err error) {
	defer func() { err = report(s.logger, "recruiter.update_profile", p.IdentityID, view.ID, err) }()

	upd := entity.RecruiterUpdate(in)
	if upd.Empty() {
		return view, noFields()
	}
	rp, err := recruiterOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return view, err
	}
	rp.Apply(upd)
	if err := s.store.Recruiters().Update(ctx, rp); err != nil {
		return view, storeErr(err, profileNotFound("Recruiter"))
	}
	u, err := s.owner(ctx, p.IdentityID)
	if err != nil {
		return view, err
	}
	return newRecruiterView(rp, u), nil
}

// ResumeUpload is a résumé file received from the client.
type ResumeUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ResumeLink is a time-limited download URL.
type ResumeLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// checkPDF validates the declared type and the file's magic bytes and
// returns a reader over the whole body.
func checkPDF(f ResumeUpload) (io.Reader, error) {
	if ct := strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]); ct != pdfType {
		return nil, apperrors.Validation(apperrors.CodeInvalidFile, "Only PDF files are allowed")
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if !mimetype.Detect(head).Is(pdfType) {
		return nil, apperrors.Validation(apperrors.CodeInvalidFile, "Only PDF files are allowed")
	}
	return io.MultiReader(bytes.NewReader(head), f.Body), nil
}

// UploadResume stores the student's only résumé. The blob is written first;
// if the profile already gained a résumé meanwhile the blob is removed again.
func (s *ProfileService) UploadResume(ctx context.Context, p entity.Principal, f ResumeUpload) (res *entity.Resume, err error) {
	var key string
	defer func() { err = report(s.logger, "student.upload_resume", p.IdentityID, key, err) }()

	if f.Body == nil || f.Size <= 0 {
		return nil, apperrors.Validation(apperrors.CodeInvalidFile, "No file uploaded")
	}
	if f.Size > s.cfg.ResumeMaxBytes {
		return nil, apperrors.Validation(apperrors.CodeFileTooLarge, "File exceeds the maximum allowed size")
	}
	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return nil, err
	}
	if sp.Resume != nil {
		return nil, apperrors.Conflict(apperrors.CodeAlreadyExists, "Resume already exists, delete it before uploading a new one")
	}
	body, err := checkPDF(f)
	if err != nil {
		return nil, err
	}

	key = "resumes/" + p.IdentityID + "-" + uuid.NewString() + ".pdf"
	if err := s.blobs.Put(ctx, key, body, f.Size, pdfType); err != nil {
		return nil, err
	}
	r := entity.Resume{
		FileName:   f.FileName,
		FileType:   pdfType,
		FileSize:   f.Size,
		StorageKey: key,
		UploadedAt: s.now().UTC(),
	}
	if err := s.store.Students().AttachResume(ctx, sp.ID, r); err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			helpers.LogError(s.logger, "orphaned resume blob", derr, logrus.Fields{"key": key})
		}
		if errors.Is(err, repository.ErrConditionFailed) {
			return nil, apperrors.Conflict(apperrors.CodeAlreadyExists, "Resume already exists, delete it before uploading a new one")
		}
		return nil, storeErr(err, profileNotFound("Student"))
	}
	return &r, nil
}

// DeleteResume removes the blob, then clears the descriptor.
func (s *ProfileService) DeleteResume(ctx context.Context, p entity.Principal) (err error) {
	var key string
	defer func() { err = report(s.logger, "student.delete_resume", p.IdentityID, key, err) }()

	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return err
	}
	if sp.Resume == nil {
		return notFound("Resume")
	}
	key = sp.Resume.StorageKey
	if err := s.blobs.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.store.Students().DetachResume(ctx, sp.ID, key); err != nil {
		if errors.Is(err, repository.ErrConditionFailed) {
			return notFound("Resume")
		}
		return storeErr(err, profileNotFound("Student"))
	}
	return nil
}

func (s *ProfileService) ResumeURL(ctx context.Context, p entity.Principal) (link ResumeLink, err error) {
	defer func() { err = report(s.logger, "student.resume_url", p.IdentityID, "", err) }()

	sp, err := studentOf(ctx, s.store, p.IdentityID)
	if err != nil {
		return link, err
	}
	return signResume(ctx, s.blobs, sp, s.cfg.SignedURLTTL, s.now)
}

func signResume(ctx context.Context, blobs BlobStore, sp *entity.StudentProfile, ttl time.Duration, now Clock) (ResumeLink, error) {
	if sp.Resume == nil {
		return ResumeLink{}, notFound("Resume")
	}
	url, err := blobs.SignedURL(ctx, sp.Resume.StorageKey, ttl)
	if err != nil {
		return ResumeLink{}, err
	}
	return ResumeLink{URL: url, ExpiresAt: now().UTC().Add(ttl)}, nil
}
