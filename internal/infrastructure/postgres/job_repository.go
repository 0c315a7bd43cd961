package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

const jobColumns = `id::text, recruiter_id::text, title, description, branches, min_cgpa, job_type,
	location, ctc, deadline, status, created_at, updated_at`

type JobRepository struct {
	db DBTX
}

func scanJob(row scanner) (*entity.Job, error) {
	var (
		j               entity.Job
		branches        []string
		jobType, status string
	)
	err := row.Scan(&j.ID, &j.RecruiterID, &j.Title, &j.Description, &branches, &j.Eligibility.MinCGPA,
		&jobType, &j.Location, &j.CTC, &j.Deadline, &status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	j.Eligibility.Branches = make([]entity.Branch, 0, len(branches))
	for _, b := range branches {
		j.Eligibility.Branches = append(j.Eligibility.Branches, entity.Branch(b))
	}
	j.JobType = entity.JobType(jobType)
	j.Status = entity.JobStatus(status)
	return &j, nil
}

func branchStrings(bs []entity.Branch) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, string(b))
	}
	return out
}

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO jobs (recruiter_id, title, description, branches, min_cgpa, job_type,
			location, ctc, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text, created_at, updated_at
	`, j.RecruiterID, j.Title, j.Description, branchStrings(j.Eligibility.Branches), j.Eligibility.MinCGPA,
		string(j.JobType), j.Location, j.CTC, j.Deadline, string(j.Status))
	return translate(row.Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt))
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *JobRepository) Update(ctx context.Context, j *entity.Job) error {
	row := r.db.QueryRow(ctx, `
		UPDATE jobs SET title = $2, description = $3, branches = $4, min_cgpa = $5, job_type = $6,
			location = $7, ctc = $8, deadline = $9, status = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, j.ID, j.Title, j.Description, branchStrings(j.Eligibility.Branches), j.Eligibility.MinCGPA,
		string(j.JobType), j.Location, j.CTC, j.Deadline, string(j.Status))
	return translate(row.Scan(&j.UpdatedAt))
}

func (r *JobRepository) page(ctx context.Context, where []string, args []any, p entity.PageRequest) ([]entity.Job, int, error) {
	cond := strings.Join(where, " AND ")
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM jobs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}
	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM jobs WHERE %s
		ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, jobColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()
	var out []entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *j)
	}
	return out, total, translate(rows.Err())
}

func (r *JobRepository) ListOpen(ctx context.Context, f repository.OpenJobFilter, now time.Time, p entity.PageRequest) ([]entity.Job, int, error) {
	where := []string{"status = 'OPEN'", "deadline >= $1"}
	args := []any{now}
	if f.Branch != nil {
		args = append(args, string(*f.Branch))
		where = append(where, fmt.Sprintf("$%d = ANY(branches)", len(args)))
	}
	if f.MinCGPA != nil {
		args = append(args, *f.MinCGPA)
		where = append(where, fmt.Sprintf("(min_cgpa IS NULL OR min_cgpa <= $%d)", len(args)))
	}
	if f.JobType != nil {
		args = append(args, string(*f.JobType))
		where = append(where, fmt.Sprintf("job_type = $%d", len(args)))
	}
	return r.page(ctx, where, args, p)
}

func (r *JobRepository) ListByRecruiter(ctx context.Context, recruiterID string, status *entity.JobStatus, p entity.PageRequest) ([]entity.Job, int, error) {
	where := []string{"recruiter_id = $1"}
	args := []any{recruiterID}
	if status != nil {
		args = append(args, string(*status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	return r.page(ctx, where, args, p)
}

func (r *JobRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	var out []entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, translate(rows.Err())
}

var _ repository.JobRepository = (*JobRepository)(nil)
