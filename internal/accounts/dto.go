package accounts

import (
	"time"

	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
)

// Actor is the authenticated caller performing an operation.
type Actor struct {
	ID    int64
	Email string
	Role  enums.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.RoleAdmin
}

// AccountDTO is the transport shape that omits the password hash.
type AccountDTO struct {
	ID                     int64       `json:"id"`
	Email                  string      `json:"email"`
	UserType               *string     `json:"user_type"`
	Phone                  *string     `json:"phone,omitempty"`
	CPF                    *string     `json:"cpf,omitempty"`
	Address                *string     `json:"address,omitempty"`
	PlanStatus             string      `json:"plan_status"`
	QuestionnaireCompleted bool        `json:"questionnaire_completed"`
	HasRisk                bool        `json:"has_risk"`
	IsBlocked              bool        `json:"is_blocked"`
	CondominiumID          *int64      `json:"condominium_id,omitempty"`
	CreatedAt              *time.Time  `json:"created_at,omitempty"`
	Profile                *ProfileDTO `json:"profile,omitempty"`
}

// ProfileDTO carries the display fields of an account.
type ProfileDTO struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
	Gender    *string `json:"gender"`
}

// CreateAccountDTO holds the data required by the repo to persist a new account.
type CreateAccountDTO struct {
	Email         string
	PasswordHash  string
	Role          enums.Role
	CondominiumID *int64
}

// RoleOf returns the account's parsed role tag; unknown values map to RoleUnset.
func RoleOf(a *models.Account) enums.Role {
	if a == nil || a.UserType == nil {
		return enums.RoleUnset
	}
	role, err := enums.ParseRole(*a.UserType)
	if err != nil {
		return enums.RoleUnset
	}
	return role
}

func FromModel(a *models.Account, p *models.Profile) *AccountDTO {
	if a == nil {
		return nil
	}
	dto := &AccountDTO{
		ID:                     a.ID,
		Email:                  a.Email,
		UserType:               a.UserType,
		Phone:                  a.Phone,
		CPF:                    a.CPF,
		Address:                a.Address,
		PlanStatus:             a.PlanStatus,
		QuestionnaireCompleted: a.QuestionnaireCompleted,
		HasRisk:                a.HasRisk,
		IsBlocked:              a.IsBlocked,
		CondominiumID:          a.CondominiumID,
		CreatedAt:              a.CreatedAt,
	}
	if p != nil {
		dto.Profile = &ProfileDTO{
			FullName:  p.FullName,
			AvatarURL: p.AvatarURL,
			Role:      p.Role,
			Gender:    p.Gender,
		}
	}
	return dto
}

func (c CreateAccountDTO) ToModel() *models.Account {
	account := &models.Account{
		Email:         c.Email,
		PasswordHash:  c.PasswordHash,
		PlanStatus:    string(enums.PlanStatusInactive),
		CondominiumID: c.CondominiumID,
	}
	if c.Role != enums.RoleUnset {
		role := c.Role.String()
		account.UserType = &role
	}
	return account
}
