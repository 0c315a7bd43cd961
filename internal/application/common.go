package application

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/internal/domain/repository"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

func loggerOrStd(l *logrus.Logger) *logrus.Logger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}

// report finalizes the error of a service call. Foreign errors become
// Internal; every failure is logged with the operation, actor and entity so
// the decision can be reconstructed. Denials log at warn, internal failures
// at error with the underlying cause.
func report(logger *logrus.Logger, op, actorID, entityID string, err error) error {
	if err == nil {
		return nil
	}
	err = apperrors.Ensure(err)
	if logger == nil {
		return err
	}
	ae, _ := apperrors.As(err)
	fields := logrus.Fields{
		"op":        op,
		"actor_id":  actorID,
		"entity_id": entityID,
		"code":      string(ae.Code),
	}
	if ae.Kind == apperrors.KindInternal {
		helpers.LogError(logger, op+" failed", ae.Err, fields)
		return err
	}
	logger.WithFields(fields).Warn(ae.Message)
	return err
}

// storeErr translates a repository error. notFound replaces ErrNotFound when
// given; uniqueness violations become conflicts.
func storeErr(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	if key, ok := repository.DuplicateKey(err); ok {
		return duplicate(key).WithError(err)
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Internal(err)
}

func duplicate(key string) *apperrors.AppError {
	switch key {
	case repository.KeyApplication:
		return apperrors.Conflict(apperrors.CodeDuplicateApplication, "You have already applied to this job")
	case repository.KeyEmail:
		return apperrors.Conflict(apperrors.CodeDuplicateKey, "An account with this email already exists")
	case repository.KeyRollNumber:
		return apperrors.Conflict(apperrors.CodeDuplicateKey, "A student with this roll number already exists")
	case repository.KeyCompanyYear:
		return apperrors.Conflict(apperrors.CodeDuplicateKey, "This company is already registered for the recruiting year")
	default:
		return apperrors.Conflict(apperrors.CodeAlreadyExists, "Profile already exists")
	}
}

func notFound(what string) *apperrors.AppError {
	return apperrors.NotFound(apperrors.CodeNotFound, what+" not found")
}

func profileNotFound(what string) *apperrors.AppError {
	return apperrors.NotFound(apperrors.CodeProfileNotFound, what+" profile not found")
}

func invalid(msg string) *apperrors.AppError {
	return apperrors.Validation(apperrors.CodeInvalidInput, msg)
}

func noFields() *apperrors.AppError {
	return apperrors.Validation(apperrors.CodeNoFieldsProvided, "No fields provided to update")
}

// percent returns part/whole*100 rounded to two decimals, 0 for an empty whole.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
