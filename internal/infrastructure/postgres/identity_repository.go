package postgres

import (
	"context"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

const identityColumns = `id::text, name, email, password_hash, role, verification_status, is_active,
	verified_by::text, verified_at, deactivated_by::text, deactivated_at, deactivation_reason,
	refresh_token_hash, reset_token_hash, reset_token_expires_at, created_at, updated_at`

type IdentityRepository struct {
	db DBTX
}

func scanIdentity(row scanner) (*entity.Identity, error) {
	var (
		i              entity.Identity
		role, verified string
	)
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &role, &verified, &i.IsActive,
		&i.VerifiedBy, &i.VerifiedAt, &i.DeactivatedBy, &i.DeactivatedAt, &i.DeactivationReason,
		&i.RefreshTokenHash, &i.ResetTokenHash, &i.ResetTokenExpiresAt, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	i.Role = entity.Role(role)
	i.VerificationStatus = entity.VerificationStatus(verified)
	return &i, nil
}

func (r *IdentityRepository) Create(ctx context.Context, i *entity.Identity) error {
	i.Email = entity.NormalizeEmail(i.Email)
	row := r.db.QueryRow(ctx, `
		INSERT INTO identities (name, email, password_hash, role, verification_status, is_active,
			verified_by, verified_at, reset_token_hash, reset_token_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text, created_at, updated_at
	`, i.Name, i.Email, i.PasswordHash, string(i.Role), string(i.VerificationStatus), i.IsActive,
		i.VerifiedBy, i.VerifiedAt, i.ResetTokenHash, i.ResetTokenExpiresAt)
	return translate(row.Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt))
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	return scanIdentity(r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id))
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return scanIdentity(r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE email = $1`,
		entity.NormalizeEmail(email)))
}

func (r *IdentityRepository) GetByResetTokenHash(ctx context.Context, hash string) (*entity.Identity, error) {
	if hash == "" {
		return nil, repository.ErrNotFound
	}
	return scanIdentity(r.db.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE reset_token_hash = $1`, hash))
}

func (r *IdentityRepository) Update(ctx context.Context, i *entity.Identity) error {
	row := r.db.QueryRow(ctx, `
		UPDATE identities SET
			name = $2, password_hash = $3, verification_status = $4, is_active = $5,
			verified_by = $6, verified_at = $7, deactivated_by = $8, deactivated_at = $9,
			deactivation_reason = $10, refresh_token_hash = $11, reset_token_hash = $12,
			reset_token_expires_at = $13, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, i.ID, i.Name, i.PasswordHash, string(i.VerificationStatus), i.IsActive,
		i.VerifiedBy, i.VerifiedAt, i.DeactivatedBy, i.DeactivatedAt,
		i.DeactivationReason, i.RefreshTokenHash, i.ResetTokenHash, i.ResetTokenExpiresAt)
	return translate(row.Scan(&i.UpdatedAt))
}

func (r *IdentityRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Identity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	var out []entity.Identity
	for rows.Next() {
		i, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, translate(rows.Err())
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)
