package postgres

import (
	"context"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

const applicationColumns = `id::text, student_id::text, job_id::text, status, created_at, updated_at`

type ApplicationRepository struct {
	db DBTX
}

func scanApplication(row scanner) (*entity.Application, error) {
	var (
		a      entity.Application
		status string
	)
	if err := row.Scan(&a.ID, &a.StudentID, &a.JobID, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	a.Status = entity.ApplicationStatus(status)
	return &a, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO applications (student_id, job_id, status)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at, updated_at
	`, a.StudentID, a.JobID, string(a.Status))
	return translate(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

func (r *ApplicationRepository) GetForUpdate(ctx context.Context, id string) (*entity.Application, error) {
	return scanApplication(r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, id))
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, from, to entity.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE applications SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrConditionFailed
	}
	return nil
}

func (r *ApplicationRepository) list(ctx context.Context, column, value string, p entity.PageRequest) ([]entity.Application, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM applications WHERE `+column+` = $1`, value).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE `+column+` = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, value, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()
	var out []entity.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	return out, total, translate(rows.Err())
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string, p entity.PageRequest) ([]entity.Application, int, error) {
	return r.list(ctx, "student_id", studentID, p)
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string, p entity.PageRequest) ([]entity.Application, int, error) {
	return r.list(ctx, "job_id", jobID, p)
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
