package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

func nowUTC() time.Time { return time.Now().UTC() }

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505), surfaced either as gorm.ErrDuplicatedKey or
// as the raw driver error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
