package services

import (
	apperrors "pennywise/internal/errors"
	"pennywise/internal/logger"
)

// storageError logs a failed database call and hides it behind ErrStorage.
// The cause stays reachable through errors.Unwrap.
func storageError(op string, err error) error {
	logger.Get().Errorw("storage operation failed", "op", op, "error", err)
	return apperrors.Wrap(apperrors.ErrStorage, err)
}

func invalid(message string) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, message)
}
