package database

import (
	"errors"

	"github.com/lib/pq"

	apperrors "github.com/hal-directory/backend/pkg/errors"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// writeError maps a failed write to an AppError. Unique violations become
// conflicts and a missing referenced row becomes NotFound.
func writeError(err error, conflictMsg, notFoundMsg, internalMsg string) error {
	switch pqCode(err) {
	case uniqueViolation:
		return apperrors.NewConflictError(conflictMsg)
	case foreignKeyViolation:
		if notFoundMsg != "" {
			return apperrors.NewNotFoundError(notFoundMsg)
		}
	}
	return apperrors.NewInternalError(internalMsg, err)
}
