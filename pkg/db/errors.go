package db

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// When column is provided (e.g. "users.email"), the failing column must match.
func IsUniqueViolation(err error, column string) bool {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	if liteErr.ExtendedCode != sqlite3.ErrConstraintUnique && liteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return false
	}
	if column != "" {
		return strings.Contains(liteErr.Error(), column)
	}
	return true
}

// IsConstraintViolation reports any SQLite constraint failure (NOT NULL, CHECK, FOREIGN KEY, UNIQUE).
func IsConstraintViolation(err error) bool {
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint
}

// IsNoSuchTable reports whether the statement referenced a missing table.
func IsNoSuchTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
