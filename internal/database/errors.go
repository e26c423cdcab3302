package database

import (
	"strings"
)

// IsUniqueViolation reports whether err is a unique constraint violation raised by
// any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	switch {
	// PostgreSQL: "pq: duplicate key value violates unique constraint"
	case strings.Contains(msg, "duplicate key"):
		return true
	// MySQL: "Error 1062 (23000): Duplicate entry"
	case strings.Contains(msg, "error 1062"), strings.Contains(msg, "duplicate entry"):
		return true
	// SQLite: "constraint failed: UNIQUE constraint failed: users.username (2067)"
	case strings.Contains(msg, "unique constraint failed"):
		return true
	}
	return false
}
