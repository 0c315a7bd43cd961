package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/placement-portal/internal/domain/repository"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store implements repository.Store on a pool or on an open transaction.
type Store struct {
	db DBTX
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

func (s *Store) Identities() repository.IdentityRepository {
	return &IdentityRepository{db: s.db}
}

func (s *Store) Students() repository.StudentRepository {
	return &StudentRepository{db: s.db}
}

func (s *Store) Recruiters() repository.RecruiterRepository {
	return &RecruiterRepository{db: s.db}
}

func (s *Store) Jobs() repository.JobRepository {
	return &JobRepository{db: s.db}
}

func (s *Store) Applications() repository.ApplicationRepository {
	return &ApplicationRepository{db: s.db}
}

func (s *Store) Stats() repository.StatsRepository {
	return &StatsRepository{db: s.db}
}

// WithinTx begins a transaction (a savepoint when already inside one), runs
// fn and commits on success. Errors and panics roll back.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(ctx, &Store{db: tx})
	})
}

// Postgres error codes translated by translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

var constraintKeys = map[string]string{
	"identities_email_key":         repository.KeyEmail,
	"students_roll_number_key":     repository.KeyRollNumber,
	"students_identity_id_key":     repository.KeyStudentIdentity,
	"recruiters_company_year_key":  repository.KeyCompanyYear,
	"recruiters_identity_id_key":   repository.KeyRecruiterIdentity,
	"applications_student_job_key": repository.KeyApplication,
}

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			key, ok := constraintKeys[pgErr.ConstraintName]
			if !ok {
				key = pgErr.ConstraintName
			}
			return &repository.DuplicateError{Key: key}
		case pgForeignKeyViolation, pgInvalidText:
			// unknown or malformed ids behave like missing rows
			return repository.ErrNotFound
		}
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

var _ repository.Store = (*Store)(nil)
