package models

import "time"

// Location is a condominium students join with its shared invite code.
type Location struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string     `gorm:"column:name;not null"`
	InviteCode *string    `gorm:"column:invite_code"`
	Areas      string     `gorm:"column:areas;not null;default:'[]'"`
	Address    *string    `gorm:"column:address"`
	IsActive   bool       `gorm:"column:is_active;not null;default:1"`
	CreatedAt  *time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Location) TableName() string { return "condominiums" }
