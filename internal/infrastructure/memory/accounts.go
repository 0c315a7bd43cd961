package memory

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

type identityRepo struct{ s *Store }

func (r identityRepo) Create(ctx context.Context, i *entity.Identity) error {
	return r.s.write(ctx, func(d *data) error {
		i.Email = entity.NormalizeEmail(i.Email)
		for _, other := range d.identities {
			if other.Email == i.Email {
				return &repository.DuplicateError{Key: repository.KeyEmail}
			}
		}
		r.s.stamp(&i.ID, &i.CreatedAt, &i.UpdatedAt)
		d.identities[i.ID] = cloneIdentity(*i)
		d.register(i.ID)
		return nil
	})
}

func (r identityRepo) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	var out *entity.Identity
	err := r.s.read(ctx, func(d *data) error {
		v, ok := d.identities[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneIdentity(v)
		out = &c
		return nil
	})
	return out, err
}

func (r identityRepo) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return r.find(ctx, func(i entity.Identity) bool { return i.Email == entity.NormalizeEmail(email) })
}

func (r identityRepo) GetByResetTokenHash(ctx context.Context, hash string) (*entity.Identity, error) {
	if hash == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(ctx, func(i entity.Identity) bool { return i.ResetTokenHash == hash })
}

func (r identityRepo) find(ctx context.Context, match func(entity.Identity) bool) (*entity.Identity, error) {
	var out *entity.Identity
	err := r.s.read(ctx, func(d *data) error {
		for _, v := range d.identities {
			if match(v) {
				c := cloneIdentity(v)
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r identityRepo) Update(ctx context.Context, i *entity.Identity) error {
	return r.s.write(ctx, func(d *data) error {
		cur, ok := d.identities[i.ID]
		if !ok {
			return repository.ErrNotFound
		}
		i.Email = cur.Email
		i.Role = cur.Role
		i.CreatedAt = cur.CreatedAt
		r.s.stamp(&i.ID, &i.CreatedAt, &i.UpdatedAt)
		d.identities[i.ID] = cloneIdentity(*i)
		return nil
	})
}

func (r identityRepo) ListByIDs(ctx context.Context, ids []string) ([]entity.Identity, error) {
	var out []entity.Identity
	err := r.s.read(ctx, func(d *data) error {
		for id := range idSet(ids) {
			if v, ok := d.identities[id]; ok {
				out = append(out, cloneIdentity(v))
			}
		}
		return nil
	})
	return out, err
}

type studentRepo struct{ s *Store }

func (r studentRepo) Create(ctx context.Context, st *entity.StudentProfile) error {
	return r.s.write(ctx, func(d *data) error {
		for _, other := range d.students {
			if other.RollNumber == st.RollNumber {
				return &repository.DuplicateError{Key: repository.KeyRollNumber}
			}
			if other.IdentityID == st.IdentityID {
				return &repository.DuplicateError{Key: repository.KeyStudentIdentity}
			}
		}
		r.s.stamp(&st.ID, &st.CreatedAt, &st.UpdatedAt)
		d.students[st.ID] = cloneStudent(*st)
		d.register(st.ID)
		return nil
	})
}

func (r studentRepo) GetByID(ctx context.Context, id string) (*entity.StudentProfile, error) {
	return r.find(ctx, func(s entity.StudentProfile) bool { return s.ID == id })
}

// GetForUpdate needs no extra locking: transactions are already serialized.
func (r studentRepo) GetForUpdate(ctx context.Context, id string) (*entity.StudentProfile, error) {
	return r.GetByID(ctx, id)
}

func (r studentRepo) GetByIdentityID(ctx context.Context, identityID string) (*entity.StudentProfile, error) {
	return r.find(ctx, func(s entity.StudentProfile) bool { return s.IdentityID == identityID })
}

func (r studentRepo) GetByRollNumber(ctx context.Context, rollNumber string) (*entity.StudentProfile, error) {
	return r.find(ctx, func(s entity.StudentProfile) bool { return s.RollNumber == rollNumber })
}

func (r studentRepo) find(ctx context.Context, match func(entity.StudentProfile) bool) (*entity.StudentProfile, error) {
	var out *entity.StudentProfile
	err := r.s.read(ctx, func(d *data) error {
		for _, v := range d.students {
			if match(v) {
				c := cloneStudent(v)
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r studentRepo) mutate(ctx context.Context, id string, fn func(s *entity.StudentProfile) error) error {
	return r.s.write(ctx, func(d *data) error {
		cur, ok := d.students[id]
		if !ok {
			return repository.ErrNotFound
		}
		next := cloneStudent(cur)
		if err := fn(&next); err != nil {
			return err
		}
		next.UpdatedAt = r.s.now().UTC()
		d.students[id] = next
		return nil
	})
}

func (r studentRepo) Update(ctx context.Context, st *entity.StudentProfile) error {
	return r.mutate(ctx, st.ID, func(s *entity.StudentProfile) error {
		s.CGPA = cloneFloat(st.CGPA)
		s.Skills = append([]string{}, st.Skills...)
		return nil
	})
}

func (r studentRepo) MarkPlaced(ctx context.Context, id string) error {
	return r.mutate(ctx, id, func(s *entity.StudentProfile) error {
		s.IsPlaced = true
		return nil
	})
}

func (r studentRepo) AttachResume(ctx context.Context, id string, res entity.Resume) error {
	return r.mutate(ctx, id, func(s *entity.StudentProfile) error {
		if s.Resume != nil {
			return repository.ErrConditionFailed
		}
		s.Resume = &res
		return nil
	})
}

func (r studentRepo) DetachResume(ctx context.Context, id, storageKey string) error {
	return r.mutate(ctx, id, func(s *entity.StudentProfile) error {
		if s.Resume == nil || s.Resume.StorageKey != storageKey {
			return repository.ErrConditionFailed
		}
		s.Resume = nil
		return nil
	})
}

func (r studentRepo) ListByIDs(ctx context.Context, ids []string) ([]entity.StudentProfile, error) {
	var out []entity.StudentProfile
	err := r.s.read(ctx, func(d *data) error {
		for id := range idSet(ids) {
			if v, ok := d.students[id]; ok {
				out = append(out, cloneStudent(v))
			}
		}
		return nil
	})
	return out, err
}

type recruiterRepo struct{ s *Store }

func (r recruiterRepo) Create(ctx context.Context, rp *entity.RecruiterProfile) error {
	return r.s.write(ctx, func(d *data) error {
		for _, other := range d.recruiters {
			if other.CompanyName == rp.CompanyName && other.RecruitingYear == rp.RecruitingYear {
				return &repository.DuplicateError{Key: repository.KeyCompanyYear}
			}
			if other.IdentityID == rp.IdentityID {
				return &repository.DuplicateError{Key: repository.KeyRecruiterIdentity}
			}
		}
		r.s.stamp(&rp.ID, &rp.CreatedAt, &rp.UpdatedAt)
		d.recruiters[rp.ID] = cloneRecruiter(*rp)
		d.register(rp.ID)
		return nil
	})
}

func (r recruiterRepo) GetByID(ctx context.Context, id string) (*entity.RecruiterProfile, error) {
	return r.find(ctx, func(v entity.RecruiterProfile) bool { return v.ID == id })
}

func (r recruiterRepo) GetByIdentityID(ctx context.Context, identityID string) (*entity.RecruiterProfile, error) {
	return r.find(ctx, func(v entity.RecruiterProfile) bool { return v.IdentityID == identityID })
}

func (r recruiterRepo) GetByCompanyYear(ctx context.Context, companyName string, year int) (*entity.RecruiterProfile, error) {
	return r.find(ctx, func(v entity.RecruiterProfile) bool {
		return v.CompanyName == companyName && v.RecruitingYear == year
	})
}

func (r recruiterRepo) find(ctx context.Context, match func(entity.RecruiterProfile) bool) (*entity.RecruiterProfile, error) {
	var out *entity.RecruiterProfile
	err := r.s.read(ctx, func(d *data) error {
		for _, v := range d.recruiters {
			if match(v) {
				c := cloneRecruiter(v)
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r recruiterRepo) Update(ctx context.Context, rp *entity.RecruiterProfile) error {
	return r.s.write(ctx, func(d *data) error {
		cur, ok := d.recruiters[rp.ID]
		if !ok {
			return repository.ErrNotFound
		}
		next := cloneRecruiter(cur)
		next.CompanyWebsite = rp.CompanyWebsite
		next.ContactPerson = rp.ContactPerson
		next.ContactEmail = rp.ContactEmail
		next.ContactNumber = rp.ContactNumber
		next.IsVerified = rp.IsVerified
		next.VerifiedBy = cloneStr(rp.VerifiedBy)
		next.VerifiedAt = cloneTime(rp.VerifiedAt)
		next.UpdatedAt = r.s.now().UTC()
		d.recruiters[rp.ID] = next
		rp.UpdatedAt = next.UpdatedAt
		return nil
	})
}

func (r recruiterRepo) List(ctx context.Context, f repository.RecruiterFilter, p entity.PageRequest) ([]entity.RecruiterProfile, int, error) {
	var (
		out   []entity.RecruiterProfile
		total int
	)
	err := r.s.read(ctx, func(d *data) error {
		needle := strings.ToLower(strings.TrimSpace(f.CompanyName))
		var ids []string
		for id, v := range d.recruiters {
			if v.IsVerified != f.Verified {
				continue
			}
			if f.RecruitingYear != nil && v.RecruitingYear != *f.RecruitingYear {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(v.CompanyName), needle) {
				continue
			}
			ids = append(ids, id)
		}
		newestFirst(d, ids, func(id string) time.Time { return d.recruiters[id].CreatedAt })
		total = len(ids)
		for _, id := range paginate(ids, p) {
			out = append(out, cloneRecruiter(d.recruiters[id]))
		}
		return nil
	})
	return out, total, err
}

func (r recruiterRepo) ListByIDs(ctx context.Context, ids []string) ([]entity.RecruiterProfile, error) {
	var out []entity.RecruiterProfile
	err := r.s.read(ctx, func(d *data) error {
		for id := range idSet(ids) {
			if v, ok := d.recruiters[id]; ok {
				out = append(out, cloneRecruiter(v))
			}
		}
		return nil
	})
	return out, err
}
