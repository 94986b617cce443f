package models

import "time"

// Invite is a single-use code row. The same shape backs both the
// instructor_invites and invites tables, so callers pick the table explicitly.
type Invite struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Code      string     `gorm:"column:code;not null;uniqueIndex"`
	Role      string     `gorm:"column:role;not null"`
	Status    string     `gorm:"column:status;not null;default:pending"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	CreatedBy *int64     `gorm:"column:created_by"`
	UsedBy    *int64     `gorm:"column:used_by"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt *time.Time `gorm:"column:created_at;autoCreateTime"`
}
