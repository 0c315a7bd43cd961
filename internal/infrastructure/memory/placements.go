package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

type jobRepo struct{ s *Store }

func (r jobRepo) Create(ctx context.Context, j *entity.Job) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.recruiters[j.RecruiterID]; !ok {
			return repository.ErrNotFound
		}
		r.s.stamp(&j.ID, &j.CreatedAt, &j.UpdatedAt)
		d.jobs[j.ID] = cloneJob(*j)
		d.register(j.ID)
		return nil
	})
}

func (r jobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	var out *entity.Job
	err := r.s.read(ctx, func(d *data) error {
		v, ok := d.jobs[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneJob(v)
		out = &c
		return nil
	})
	return out, err
}

func (r jobRepo) Update(ctx context.Context, j *entity.Job) error {
	return r.s.write(ctx, func(d *data) error {
		cur, ok := d.jobs[j.ID]
		if !ok {
			return repository.ErrNotFound
		}
		j.RecruiterID = cur.RecruiterID
		j.CreatedAt = cur.CreatedAt
		j.UpdatedAt = r.s.now().UTC()
		d.jobs[j.ID] = cloneJob(*j)
		return nil
	})
}

func (r jobRepo) list(ctx context.Context, p entity.PageRequest, keep func(entity.Job) bool) ([]entity.Job, int, error) {
	var (
		out   []entity.Job
		total int
	)
	err := r.s.read(ctx, func(d *data) error {
		var ids []string
		for id, v := range d.jobs {
			if keep(v) {
				ids = append(ids, id)
			}
		}
		newestFirst(d, ids, func(id string) time.Time { return d.jobs[id].CreatedAt })
		total = len(ids)
		for _, id := range paginate(ids, p) {
			out = append(out, cloneJob(d.jobs[id]))
		}
		return nil
	})
	return out, total, err
}

func (r jobRepo) ListOpen(ctx context.Context, f repository.OpenJobFilter, now time.Time, p entity.PageRequest) ([]entity.Job, int, error) {
	return r.list(ctx, p, func(j entity.Job) bool {
		if j.Status != entity.JobOpen || j.DeadlinePassed(now) {
			return false
		}
		if f.Branch != nil && !j.Eligibility.AllowsBranch(*f.Branch) {
			return false
		}
		if f.MinCGPA != nil && j.Eligibility.MinCGPA != nil && *j.Eligibility.MinCGPA > *f.MinCGPA {
			return false
		}
		if f.JobType != nil && j.JobType != *f.JobType {
			return false
		}
		return true
	})
}

func (r jobRepo) ListByRecruiter(ctx context.Context, recruiterID string, status *entity.JobStatus, p entity.PageRequest) ([]entity.Job, int, error) {
	return r.list(ctx, p, func(j entity.Job) bool {
		return j.RecruiterID == recruiterID && (status == nil || j.Status == *status)
	})
}

func (r jobRepo) ListByIDs(ctx context.Context, ids []string) ([]entity.Job, error) {
	var out []entity.Job
	err := r.s.read(ctx, func(d *data) error {
		for id := range idSet(ids) {
			if v, ok := d.jobs[id]; ok {
				out = append(out, cloneJob(v))
			}
		}
		return nil
	})
	return out, err
}

type applicationRepo struct{ s *Store }

func (r applicationRepo) Create(ctx context.Context, a *entity.Application) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.students[a.StudentID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := d.jobs[a.JobID]; !ok {
			return repository.ErrNotFound
		}
		for _, other := range d.applications {
			if other.StudentID == a.StudentID && other.JobID == a.JobID {
				return &repository.DuplicateError{Key: repository.KeyApplication}
			}
		}
		r.s.stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt)
		d.applications[a.ID] = *a
		d.register(a.ID)
		return nil
	})
}

func (r applicationRepo) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	var out *entity.Application
	err := r.s.read(ctx, func(d *data) error {
		v, ok := d.applications[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &v
		return nil
	})
	return out, err
}

// GetForUpdate needs no extra locking: transactions are already serialized.
func (r applicationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Application, error) {
	return r.GetByID(ctx, id)
}

func (r applicationRepo) UpdateStatus(ctx context.Context, id string, from, to entity.ApplicationStatus) error {
	return r.s.write(ctx, func(d *data) error {
		cur, ok := d.applications[id]
		if !ok {
			return repository.ErrNotFound
		}
		if cur.Status != from {
			return repository.ErrConditionFailed
		}
		cur.Status = to
		cur.UpdatedAt = r.s.now().UTC()
		d.applications[id] = cur
		return nil
	})
}

func (r applicationRepo) list(ctx context.Context, p entity.PageRequest, keep func(entity.Application) bool) ([]entity.Application, int, error) {
	var (
		out   []entity.Application
		total int
	)
	err := r.s.read(ctx, func(d *data) error {
		var ids []string
		for id, v := range d.applications {
			if keep(v) {
				ids = append(ids, id)
			}
		}
		newestFirst(d, ids, func(id string) time.Time { return d.applications[id].CreatedAt })
		total = len(ids)
		for _, id := range paginate(ids, p) {
			out = append(out, d.applications[id])
		}
		return nil
	})
	return out, total, err
}

func (r applicationRepo) ListByStudent(ctx context.Context, studentID string, p entity.PageRequest) ([]entity.Application, int, error) {
	return r.list(ctx, p, func(a entity.Application) bool { return a.StudentID == studentID })
}

func (r applicationRepo) ListByJob(ctx context.Context, jobID string, p entity.PageRequest) ([]entity.Application, int, error) {
	return r.list(ctx, p, func(a entity.Application) bool { return a.JobID == jobID })
}

type statsRepo struct{ s *Store }

func (r statsRepo) StudentCounts(ctx context.Context) (entity.StudentCounts, error) {
	var c entity.StudentCounts
	err := r.s.read(ctx, func(d *data) error {
		for _, st := range d.students {
			c.Total++
			if st.IsPlaced {
				c.Placed++
			}
		}
		return nil
	})
	return c, err
}

func (r statsRepo) RecruiterCounts(ctx context.Context) (entity.RecruiterCounts, error) {
	var c entity.RecruiterCounts
	err := r.s.read(ctx, func(d *data) error {
		for _, rp := range d.recruiters {
			c.Total++
			if rp.IsVerified {
				c.Verified++
			}
		}
		return nil
	})
	return c, err
}

func (r statsRepo) JobCounts(ctx context.Context) (entity.JobCounts, error) {
	var c entity.JobCounts
	err := r.s.read(ctx, func(d *data) error {
		for _, j := range d.jobs {
			c.Total++
			switch j.Status {
			case entity.JobOpen:
				c.Open++
			case entity.JobClosed:
				c.Closed++
			}
		}
		return nil
	})
	return c, err
}

func (r statsRepo) ApplicationsByStatus(ctx context.Context) (map[entity.ApplicationStatus]int, error) {
	out := map[entity.ApplicationStatus]int{}
	err := r.s.read(ctx, func(d *data) error {
		for _, a := range d.applications {
			out[a.Status]++
		}
		return nil
	})
	return out, err
}

func (r statsRepo) StudentsByBranch(ctx context.Context) ([]entity.BranchCounts, error) {
	byBranch := map[entity.Branch]*entity.BranchCounts{}
	err := r.s.read(ctx, func(d *data) error {
		for _, st := range d.students {
			bc, ok := byBranch[st.Branch]
			if !ok {
				bc = &entity.BranchCounts{Branch: st.Branch}
				byBranch[st.Branch] = bc
			}
			bc.Total++
			if st.IsPlaced {
				bc.Placed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.BranchCounts, 0, len(byBranch))
	for _, bc := range byBranch {
		out = append(out, *bc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out, nil
}

func (r statsRepo) JobFunnel(ctx context.Context) ([]entity.JobStageCounts, error) {
	var out []entity.JobStageCounts
	err := r.s.read(ctx, func(d *data) error {
		byJob := map[string]map[entity.ApplicationStatus]int{}
		for _, a := range d.applications {
			if byJob[a.JobID] == nil {
				byJob[a.JobID] = map[entity.ApplicationStatus]int{}
			}
			byJob[a.JobID][a.Status]++
		}
		for jobID, stages := range byJob {
			j := d.jobs[jobID]
			out = append(out, entity.JobStageCounts{
				JobID:       jobID,
				Title:       j.Title,
				CompanyName: d.recruiters[j.RecruiterID].CompanyName,
				Stages:      stages,
			})
		}
		sort.Slice(out, func(i, k int) bool { return out[i].JobID < out[k].JobID })
		return nil
	})
	return out, err
}
