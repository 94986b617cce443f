// Package repo carries the helpers shared by the gorm repositories.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by each repository. The handle may be the shared
// connection or a transaction opened by the caller.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB scopes the handle to ctx. A nil ctx returns the handle untouched.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// UpdateColumns writes columns on the model rows matching query without hooks
// or timestamp bumps and returns the affected row count.
func (b Base) UpdateColumns(ctx context.Context, model any, columns map[string]any, query string, args ...any) (int64, error) {
	res := b.DB(ctx).Model(model).Where(query, args...).UpdateColumns(columns)
	return res.RowsAffected, res.Error
}

// First loads the first T matching query on q. Missing rows surface as
// gorm.ErrRecordNotFound.
func First[T any](q *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	if err := q.Where(query, args...).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
