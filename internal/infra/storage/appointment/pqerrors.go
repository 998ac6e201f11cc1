package appointment

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
)

// mapWriteError переводит ошибки Postgres, означающие конфликт слота, в sentinel-ошибки
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation:
			return fmt.Errorf("%w: %s - constraint %s", ErrOverlapConstraint, op, pqErr.Constraint)
		case pqSerializationFailure:
			return fmt.Errorf("%w: %s - %s", ErrSerializationFailure, op, pqErr.Message)
		}
	}
	return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
}
