package models

import "time"

// Account is a row of the users table.
type Account struct {
	ID                     int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Email                  string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash           string     `gorm:"column:password;not null"`
	UserType               *string    `gorm:"column:user_type"`
	Phone                  *string    `gorm:"column:phone"`
	CPF                    *string    `gorm:"column:cpf"`
	Address                *string    `gorm:"column:address"`
	PlanStatus             string     `gorm:"column:plan_status;not null;default:inactive"`
	QuestionnaireCompleted bool       `gorm:"column:questionnaire_completed;not null;default:0"`
	HasRisk                bool       `gorm:"column:has_risk;not null;default:0"`
	IsBlocked              bool       `gorm:"column:is_blocked;not null;default:0"`
	CondominiumID          *int64     `gorm:"column:condominium_id"`
	CreatedAt              *time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Account) TableName() string { return "users" }

// Profile is the one-to-one display extension of an Account.
type Profile struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64      `gorm:"column:user_id;not null;uniqueIndex"`
	FullName  *string    `gorm:"column:full_name"`
	AvatarURL *string    `gorm:"column:avatar_url"`
	Role      *string    `gorm:"column:role"`
	Gender    *string    `gorm:"column:gender"`
	CreatedAt *time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Profile) TableName() string { return "profiles" }
