package postgres

import (
	"context"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

type StatsRepository struct {
	db DBTX
}

func (r *StatsRepository) StudentCounts(ctx context.Context) (entity.StudentCounts, error) {
	var c entity.StudentCounts
	err := r.db.QueryRow(ctx, `SELECT count(*), count(*) FILTER (WHERE is_placed) FROM students`).
		Scan(&c.Total, &c.Placed)
	return c, translate(err)
}

func (r *StatsRepository) RecruiterCounts(ctx context.Context) (entity.RecruiterCounts, error) {
	var c entity.RecruiterCounts
	err := r.db.QueryRow(ctx, `SELECT count(*), count(*) FILTER (WHERE is_verified) FROM recruiters`).
		Scan(&c.Total, &c.Verified)
	return c, translate(err)
}

func (r *StatsRepository) JobCounts(ctx context.Context) (entity.JobCounts, error) {
	var c entity.JobCounts
	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'OPEN'),
		       count(*) FILTER (WHERE status = 'CLOSED')
		FROM jobs
	`).Scan(&c.Total, &c.Open, &c.Closed)
	return c, translate(err)
}

func (r *StatsRepository) ApplicationsByStatus(ctx context.Context) (map[entity.ApplicationStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	out := map[entity.ApplicationStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, translate(err)
		}
		out[entity.ApplicationStatus(status)] = n
	}
	return out, translate(rows.Err())
}

func (r *StatsRepository) StudentsByBranch(ctx context.Context) ([]entity.BranchCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT branch, count(*), count(*) FILTER (WHERE is_placed)
		FROM students
		GROUP BY branch
		ORDER BY branch
	`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	var out []entity.BranchCounts
	for rows.Next() {
		var (
			bc     entity.BranchCounts
			branch string
		)
		if err := rows.Scan(&branch, &bc.Total, &bc.Placed); err != nil {
			return nil, translate(err)
		}
		bc.Branch = entity.Branch(branch)
		out = append(out, bc)
	}
	return out, translate(rows.Err())
}

// JobFunnel covers only jobs that have at least one application.
func (r *StatsRepository) JobFunnel(ctx context.Context) ([]entity.JobStageCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT j.id::text, j.title, rc.company_name, a.status, count(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN recruiters rc ON rc.id = j.recruiter_id
		GROUP BY j.id, j.title, rc.company_name, a.status
		ORDER BY j.id::text
	`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	var out []entity.JobStageCounts
	for rows.Next() {
		var (
			jobID, title, company, status string
			n                             int
		)
		if err := rows.Scan(&jobID, &title, &company, &status, &n); err != nil {
			return nil, translate(err)
		}
		if len(out) == 0 || out[len(out)-1].JobID != jobID {
			out = append(out, entity.JobStageCounts{
				JobID:       jobID,
				Title:       title,
				CompanyName: company,
				Stages:      map[entity.ApplicationStatus]int{},
			})
		}
		out[len(out)-1].Stages[entity.ApplicationStatus(status)] = n
	}
	return out, translate(rows.Err())
}

var _ repository.StatsRepository = (*StatsRepository)(nil)
