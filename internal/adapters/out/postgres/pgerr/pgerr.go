// Package pgerr classifies PostgreSQL errors returned through gorm.
package pgerr

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UniqueViolation is the SQLSTATE of a unique index conflict.
const UniqueViolation = pq.ErrorCode("23505")

// IsUniqueViolation reports whether err is a unique index conflict. When
// constraint is not empty the conflicting index must have that name.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == UniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
	}
	return constraint == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}
