// Package repository provides the data access layer of the job portal.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrStaleStatus is returned by conditional status updates when the row was
// no longer in the expected state.
var ErrStaleStatus = errors.New("status changed concurrently")

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
