package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

const recruiterColumns = `id::text, identity_id::text, company_name, recruiting_year, company_website,
	contact_person, contact_email, contact_number, is_verified, verified_by::text, verified_at,
	created_at, updated_at`

type RecruiterRepository struct {
	db DBTX
}

func scanRecruiter(row scanner) (*entity.RecruiterProfile, error) {
	var r entity.RecruiterProfile
	err := row.Scan(&r.ID, &r.IdentityID, &r.CompanyName, &r.RecruitingYear, &r.CompanyWebsite,
		&r.ContactPerson, &r.ContactEmail, &r.ContactNumber, &r.IsVerified, &r.VerifiedBy, &r.VerifiedAt,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (r *RecruiterRepository) Create(ctx context.Context, rp *entity.RecruiterProfile) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO recruiters (identity_id, company_name, recruiting_year, company_website,
			contact_person, contact_email, contact_number, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, rp.IdentityID, rp.CompanyName, rp.RecruitingYear, rp.CompanyWebsite,
		rp.ContactPerson, rp.ContactEmail, rp.ContactNumber, rp.IsVerified)
	return translate(row.Scan(&rp.ID, &rp.CreatedAt, &rp.UpdatedAt))
}

func (r *RecruiterRepository) GetByID(ctx context.Context, id string) (*entity.RecruiterProfile, error) {
	return scanRecruiter(r.db.QueryRow(ctx, `SELECT `+recruiterColumns+` FROM recruiters WHERE id = $1`, id))
}

func (r *RecruiterRepository) GetByIdentityID(ctx context.Context, identityID string) (*entity.RecruiterProfile, error) {
	return scanRecruiter(r.db.QueryRow(ctx, `SELECT `+recruiterColumns+` FROM recruiters WHERE identity_id = $1`, identityID))
}

func (r *RecruiterRepository) GetByCompanyYear(ctx context.Context, companyName string, year int) (*entity.RecruiterProfile, error) {
	return scanRecruiter(r.db.QueryRow(ctx,
		`SELECT `+recruiterColumns+` FROM recruiters WHERE company_name = $1 AND recruiting_year = $2`,
		companyName, year))
}

func (r *RecruiterRepository) Update(ctx context.Context, rp *entity.RecruiterProfile) error {
	row := r.db.QueryRow(ctx, `
		UPDATE recruiters SET company_website = $2, contact_person = $3, contact_email = $4,
			contact_number = $5, is_verified = $6, verified_by = $7, verified_at = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, rp.ID, rp.CompanyWebsite, rp.ContactPerson, rp.ContactEmail, rp.ContactNumber,
		rp.IsVerified, rp.VerifiedBy, rp.VerifiedAt)
	return translate(row.Scan(&rp.UpdatedAt))
}

func (r *RecruiterRepository) List(ctx context.Context, f repository.RecruiterFilter, p entity.PageRequest) ([]entity.RecruiterProfile, int, error) {
	where := []string{"is_verified = $1"}
	args := []any{f.Verified}
	if f.RecruitingYear != nil {
		args = append(args, *f.RecruitingYear)
		where = append(where, fmt.Sprintf("recruiting_year = $%d", len(args)))
	}
	if name := strings.TrimSpace(f.CompanyName); name != "" {
		args = append(args, "%"+escapeLike(name)+"%")
		where = append(where, fmt.Sprintf("company_name ILIKE $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM recruiters WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM recruiters WHERE %s
		ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, recruiterColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()
	var out []entity.RecruiterProfile
	for rows.Next() {
		rp, err := scanRecruiter(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *rp)
	}
	return out, total, translate(rows.Err())
}

func (r *RecruiterRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.RecruiterProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+recruiterColumns+` FROM recruiters WHERE id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	var out []entity.RecruiterProfile
	for rows.Next() {
		rp, err := scanRecruiter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rp)
	}
	return out, translate(rows.Err())
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ repository.RecruiterRepository = (*RecruiterRepository)(nil)
