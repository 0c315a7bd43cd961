package application

import (
	"context"
	"errors"
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

// AuthService owns sessions, password resets and recruiter self-signup.
type AuthService struct {
	store  repository.Store
	tokens *helpers.JWTManager
	mail   mailer.Dispatcher
	cfg    *config.Config
	logger *logrus.Logger
	now    Clock
}

func NewAuthService(store repository.Store, tokens *helpers.JWTManager, mail mailer.Dispatcher, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, mail: mail, cfg: cfg, logger: loggerOrStd(logger), now: time.Now}
}

type LoginResult struct {
	User   IdentityView
	Tokens TokenPair
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.Unauthorized(apperrors.CodeInvalidCredentials, "Invalid email or password")
}

// Login checks the account state before the password: inactive and
// unverified accounts are refused even with the right password.
func (s *AuthService) Login(ctx context.Context, email, password string) (res *LoginResult, err error) {
	var id string
	defer func() { err = report(s.logger, "auth.login", id, id, err) }()

	u, err := s.store.Identities().GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, storeErr(err, invalidCredentials())
	}
	id = u.ID
	if !u.IsActive {
		return nil, apperrors.Forbidden(apperrors.CodeAccountInactive, "Account is inactive")
	}
	if !u.IsVerified() {
		return nil, apperrors.Forbidden(apperrors.CodeNotVerified, "Account is not verified")
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, invalidCredentials()
	}

	sub := helpers.TokenSubject{ID: u.ID, Role: string(u.Role), Name: u.Name}
	access, aexp, err := s.tokens.GenerateAccessToken(sub)
	if err != nil {
		return nil, err
	}
	refresh, rexp, err := s.tokens.GenerateRefreshToken(sub)
	if err != nil {
		return nil, err
	}
	u.RefreshTokenHash = helpers.HashToken(refresh)
	if err := s.store.Identities().Update(ctx, u); err != nil {
		return nil, storeErr(err, nil)
	}
	helpers.LogInfo(s.logger, "login", logrus.Fields{"actor_id": u.ID, "role": u.Role})
	return &LoginResult{
		User:   newIdentityView(u),
		Tokens: TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp},
	}, nil
}

// Refresh issues a new access token for the session bound to refreshToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (token string, exp time.Time, err error) {
	var id string
	defer func() { err = report(s.logger, "auth.refresh", id, id, err) }()

	if refreshToken == "" {
		return "", time.Time{}, apperrors.Unauthorized(apperrors.CodeMissingToken, "Refresh token missing")
	}
	denied := apperrors.Forbidden(apperrors.CodeTokenInvalid, "Invalid refresh token")
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return "", time.Time{}, apperrors.Forbidden(apperrors.CodeTokenExpired, "Refresh token expired")
		}
		return "", time.Time{}, denied
	}
	id = claims.Subject
	u, err := s.store.Identities().GetByID(ctx, claims.Subject)
	if err != nil {
		return "", time.Time{}, storeErr(err, denied)
	}
	if u.RefreshTokenHash == "" || u.RefreshTokenHash != helpers.HashToken(refreshToken) {
		return "", time.Time{}, denied
	}
	if !u.IsActive {
		return "", time.Time{}, apperrors.Forbidden(apperrors.CodeAccountInactive, "Account is inactive")
	}
	if !u.IsVerified() {
		return "", time.Time{}, apperrors.Forbidden(apperrors.CodeNotVerified, "Account is not verified")
	}
	return s.tokens.GenerateAccessToken(helpers.TokenSubject{ID: u.ID, Role: string(u.Role), Name: u.Name})
}

// Logout revokes the session bound to refreshToken. Unknown or unparsable
// tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) (err error) {
	var id string
	defer func() { err = report(s.logger, "auth.logout", id, id, err) }()

	if refreshToken == "" {
		return nil
	}
	claims, perr := s.tokens.ParseRefreshToken(refreshToken)
	if perr != nil {
		return nil
	}
	id = claims.Subject
	u, err := s.store.Identities().GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeErr(err, nil)
	}
	if u.RefreshTokenHash != helpers.HashToken(refreshToken) {
		return nil
	}
	u.RefreshTokenHash = ""
	return storeErr(s.store.Identities().Update(ctx, u), nil)
}

// ResetPassword consumes a reset token. A successful reset also activates
// and verifies the account, which is how provisioned students sign in for
// the first time. An expired token is left in place.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	var id string
	defer func() { err = report(s.logger, "auth.reset_password", id, id, err) }()

	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.Validation(apperrors.CodeTokenInvalid, "Invalid or expired token")
	}
	if len(newPassword) < 8 {
		return invalid("password must be at least 8 characters long")
	}
	u, err := s.store.Identities().GetByResetTokenHash(ctx, helpers.HashToken(token))
	if err != nil {
		return storeErr(err, apperrors.Validation(apperrors.CodeTokenInvalid, "Invalid or expired token"))
	}
	id = u.ID
	now := s.now().UTC()
	if u.ResetTokenExpired(now) {
		return apperrors.Validation(apperrors.CodeTokenExpired, "Reset token has expired")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.IsActive = true
	u.MarkVerified(nil, now)
	u.ClearResetToken()
	u.RefreshTokenHash = ""
	return storeErr(s.store.Identities().Update(ctx, u), nil)
}

// ForgotPassword emails a reset link to active, verified accounts. Unknown
// or ineligible addresses succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (err error) {
	var id string
	defer func() { err = report(s.logger, "auth.forgot_password", id, id, err) }()

	u, err := s.store.Identities().GetByEmail(ctx, entity.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeErr(err, nil)
	}
	id = u.ID
	if !u.IsActive || !u.IsVerified() {
		s.logger.WithFields(logrus.Fields{"op": "auth.forgot_password", "actor_id": u.ID}).Info("reset skipped for ineligible account")
		return nil
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
			Template: templates.PasswordReset,
			Data:     templates.NewPasswordResetData(s.cfg, u.Name, u.Email, token, expires),
		})
	})
}

type RecruiterSignupInput struct {
	Name           string `json:"name" binding:"required,min=2,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,pwd"`
	CompanyName    string `json:"companyName" binding:"required,max=200"`
	RecruitingYear int    `json:"recruitingYear" binding:"required,gte=2000,lte=2100"`
	CompanyWebsite string `json:"companyWebsite" binding:"omitempty,url"`
	ContactPerson  string `json:"contactPerson" binding:"required,max=100"`
	ContactEmail   string `json:"contactEmail" binding:"required,email"`
	ContactNumber  string `json:"contactNumber" binding:"omitempty,phone"`
}

func (in RecruiterSignupInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "", strings.TrimSpace(in.Email) == "", in.Password == "",
		strings.TrimSpace(in.CompanyName) == "", in.RecruitingYear <= 0,
		strings.TrimSpace(in.ContactPerson) == "", strings.TrimSpace(in.ContactEmail) == "":
		return invalid("name, email, password, companyName, recruitingYear, contactPerson and contactEmail are required")
	}
	return nil
}

// RecruiterSignup registers a recruiter awaiting verification. The account
// stays inactive until an officer verifies the company.
func (s *AuthService) RecruiterSignup(ctx context.Context, in RecruiterSignupInput) (view RecruiterProfileView, err error) {
	var id string
	defer func() { err = report(s.logger, "auth.recruiter_signup", id, id, err) }()

	if err := in.validate(); err != nil {
		return RecruiterProfileView{}, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return RecruiterProfileView{}, err
	}
	u := &entity.Identity{
		Name:               strings.TrimSpace(in.Name),
		Email:              entity.NormalizeEmail(in.Email),
		PasswordHash:       hash,
		Role:               entity.RoleRecruiter,
		VerificationStatus: entity.VerificationPending,
		IsActive:           false,
	}
	r := &entity.RecruiterProfile{
		CompanyName:    strings.TrimSpace(in.CompanyName),
		RecruitingYear: in.RecruitingYear,
		CompanyWebsite: strings.TrimSpace(in.CompanyWebsite),
		ContactPerson:  strings.TrimSpace(in.ContactPerson),
		ContactEmail:   entity.NormalizeEmail(in.ContactEmail),
		ContactNumber:  strings.TrimSpace(in.ContactNumber),
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Identities().Create(ctx, u); err != nil {
			return storeErr(err, nil)
		}
		r.IdentityID = u.ID
		return storeErr(tx.Recruiters().Create(ctx, r), nil)
	})
	if err != nil {
		return RecruiterProfileView{}, err
	}
	id = u.ID
	helpers.LogInfo(s.logger, "recruiter registered", logrus.Fields{"actor_id": u.ID, "entity_id": r.ID, "company": r.CompanyName})
	return newRecruiterView(r, u), nil
}
