package invites

import (
	"time"

	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
)

// CreateParams describes a new invite.
type CreateParams struct {
	Kind     enums.InviteKind
	Role     enums.Role
	TTLDays  int
	IssuerID int64
}

// CreateInviteRequest is the admin payload for issuing an invite.
type CreateInviteRequest struct {
	Role    string `json:"role,omitempty" validate:"omitempty,oneof=student instructor admin"`
	TTLDays int    `json:"ttl_days,omitempty" validate:"omitempty,min=1,max=365"`
}

// InviteDTO is the transport shape of an invite.
type InviteDTO struct {
	ID        int64            `json:"id"`
	Kind      enums.InviteKind `json:"kind"`
	Code      string           `json:"code"`
	Role      string           `json:"role"`
	Status    string           `json:"status"`
	ExpiresAt time.Time        `json:"expires_at"`
	CreatedBy *int64           `json:"created_by,omitempty"`
	UsedBy    *int64           `json:"used_by,omitempty"`
	UsedAt    *time.Time       `json:"used_at,omitempty"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
}

func FromModel(kind enums.InviteKind, m *models.Invite) *InviteDTO {
	if m == nil {
		return nil
	}
	return &InviteDTO{
		ID:        m.ID,
		Kind:      kind,
		Code:      m.Code,
		Role:      m.Role,
		Status:    m.Status,
		ExpiresAt: m.ExpiresAt,
		CreatedBy: m.CreatedBy,
		UsedBy:    m.UsedBy,
		UsedAt:    m.UsedAt,
		CreatedAt: m.CreatedAt,
	}
}
