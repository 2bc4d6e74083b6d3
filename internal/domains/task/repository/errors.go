package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"todoevo/shared/constant"
)

var (
	// ErrTaskNotFound covers a missing row and a row owned by someone else
	// alike; callers cannot tell the two apart.
	ErrTaskNotFound = errors.New("task not found")

	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

// classifyError folds driver-level errors into the adapter's error set. The
// original driver error stays wrapped for logs; only the sentinel is meant
// for callers.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrTaskNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeUniqueViolation,
			constant.PqErrorCodeFkViolation,
			constant.PqErrorCodeNotNullViolation,
			constant.PqErrorCodeCheckViolation:
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}

		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}

		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
