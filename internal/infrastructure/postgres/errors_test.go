package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

func TestTranslate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translate(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		err := translate(fmt.Errorf("scan: %w", pgx.ErrNoRows))
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("known unique constraint", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: "23505", ConstraintName: "applications_student_job_key"})
		require.ErrorIs(t, err, repository.ErrDuplicate)
		key, _ := repository.DuplicateKey(err)
		assert.Equal(t, repository.KeyApplication, key)
	})

	t.Run("unknown unique constraint keeps its name", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: "23505", ConstraintName: "something_key"})
		key, _ := repository.DuplicateKey(err)
		assert.Equal(t, "something_key", key)
	})

	t.Run("foreign key and malformed uuid", func(t *testing.T) {
		assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), repository.ErrNotFound)
		assert.ErrorIs(t, translate(&pgconn.PgError{Code: "22P02"}), repository.ErrNotFound)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Same(t, boom, translate(boom))
		pgErr := &pgconn.PgError{Code: "40001"}
		assert.Same(t, pgErr, translate(pgErr))
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}

func TestConstraintKeysMatchMigration(t *testing.T) {
	for name, key := range constraintKeys {
		assert.NotEmpty(t, key, name)
	}
	assert.Len(t, constraintKeys, 6)
}
