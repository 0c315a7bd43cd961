package memory

import (
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneIdentity(i entity.Identity) entity.Identity {
	i.VerifiedBy = cloneStr(i.VerifiedBy)
	i.VerifiedAt = cloneTime(i.VerifiedAt)
	i.DeactivatedBy = cloneStr(i.DeactivatedBy)
	i.DeactivatedAt = cloneTime(i.DeactivatedAt)
	i.ResetTokenExpiresAt = cloneTime(i.ResetTokenExpiresAt)
	return i
}

func cloneStudent(s entity.StudentProfile) entity.StudentProfile {
	s.CGPA = cloneFloat(s.CGPA)
	s.Skills = append([]string{}, s.Skills...)
	if s.Resume != nil {
		r := *s.Resume
		s.Resume = &r
	}
	return s
}

func cloneRecruiter(r entity.RecruiterProfile) entity.RecruiterProfile {
	r.VerifiedBy = cloneStr(r.VerifiedBy)
	r.VerifiedAt = cloneTime(r.VerifiedAt)
	return r
}

func cloneJob(j entity.Job) entity.Job {
	j.Eligibility.Branches = append([]entity.Branch{}, j.Eligibility.Branches...)
	j.Eligibility.MinCGPA = cloneFloat(j.Eligibility.MinCGPA)
	return j
}
