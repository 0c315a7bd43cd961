package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

const studentColumns = `id::text, identity_id::text, roll_number, branch, cgpa, skills, is_placed,
	resume_file_name, resume_file_type, resume_file_size, resume_key, resume_uploaded_at,
	created_at, updated_at`

type StudentRepository struct {
	db DBTX
}

func scanStudent(row scanner) (*entity.StudentProfile, error) {
	var (
		s          entity.StudentProfile
		branch     string
		fileName   *string
		fileType   *string
		fileSize   *int64
		key        *string
		uploadedAt *time.Time
	)
	err := row.Scan(&s.ID, &s.IdentityID, &s.RollNumber, &branch, &s.CGPA, &s.Skills, &s.IsPlaced,
		&fileName, &fileType, &fileSize, &key, &uploadedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	s.Branch = entity.Branch(branch)
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if key != nil {
		s.Resume = &entity.Resume{StorageKey: *key}
		if fileName != nil {
			s.Resume.FileName = *fileName
		}
		if fileType != nil {
			s.Resume.FileType = *fileType
		}
		if fileSize != nil {
			s.Resume.FileSize = *fileSize
		}
		if uploadedAt != nil {
			s.Resume.UploadedAt = *uploadedAt
		}
	}
	return &s, nil
}

func (r *StudentRepository) Create(ctx context.Context, s *entity.StudentProfile) error {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO students (identity_id, roll_number, branch, cgpa, skills)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at, updated_at
	`, s.IdentityID, s.RollNumber, string(s.Branch), s.CGPA, s.Skills)
	return translate(row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt))
}

func (r *StudentRepository) getOne(ctx context.Context, where string, arg any) (*entity.StudentProfile, error) {
	return scanStudent(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE `+where+` = $1`, arg))
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*entity.StudentProfile, error) {
	return r.getOne(ctx, "id", id)
}

func (r *StudentRepository) GetForUpdate(ctx context.Context, id string) (*entity.StudentProfile, error) {
	return scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1 FOR UPDATE`, id))
}

func (r *StudentRepository) GetByIdentityID(ctx context.Context, identityID string) (*entity.StudentProfile, error) {
	return r.getOne(ctx, "identity_id", identityID)
}

func (r *StudentRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*entity.StudentProfile, error) {
	return r.getOne(ctx, "roll_number", rollNumber)
}

func (r *StudentRepository) Update(ctx context.Context, s *entity.StudentProfile) error {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	row := r.db.QueryRow(ctx, `
		UPDATE students SET cgpa = $2, skills = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, s.ID, s.CGPA, s.Skills)
	return translate(row.Scan(&s.UpdatedAt))
}

func (r *StudentRepository) MarkPlaced(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE students SET is_placed = TRUE,
			updated_at = CASE WHEN is_placed THEN updated_at ELSE now() END
		WHERE id = $1
	`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// conditional runs a guarded UPDATE and distinguishes a missing row from a
// failed guard.
func (r *StudentRepository) conditional(ctx context.Context, id, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, append([]any{id}, args...)...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists); err != nil {
		return translate(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConditionFailed
}

func (r *StudentRepository) AttachResume(ctx context.Context, id string, res entity.Resume) error {
	return r.conditional(ctx, id, `
		UPDATE students SET resume_file_name = $2, resume_file_type = $3, resume_file_size = $4,
			resume_key = $5, resume_uploaded_at = $6, updated_at = now()
		WHERE id = $1 AND resume_key IS NULL
	`, res.FileName, res.FileType, res.FileSize, res.StorageKey, res.UploadedAt)
}

func (r *StudentRepository) DetachResume(ctx context.Context, id, storageKey string) error {
	return r.conditional(ctx, id, `
		UPDATE students SET resume_file_name = NULL, resume_file_type = NULL, resume_file_size = NULL,
			resume_key = NULL, resume_uploaded_at = NULL, updated_at = now()
		WHERE id = $1 AND resume_key = $2
	`, storageKey)
}

func (r *StudentRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.StudentProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+studentColumns+` FROM students WHERE id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	var out []entity.StudentProfile
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, translate(rows.Err())
}

var _ repository.StudentRepository = (*StudentRepository)(nil)
