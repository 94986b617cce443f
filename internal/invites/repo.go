package invites

import (
	"context"
	"time"

	"github.com/lopeshyago/fusionbackapp/internal/repo"
	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists invite codes for either invite table.
type Repository struct {
	repo.Base
}

// NewRepository constructs an invites repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) table(ctx context.Context, kind enums.InviteKind) *gorm.DB {
	return r.DB(ctx).Table(kind.Table())
}

// Create inserts the invite into the kind's table.
func (r *Repository) Create(ctx context.Context, kind enums.InviteKind, invite *models.Invite) error {
	return r.table(ctx, kind).Create(invite).Error
}

// FindByCode loads one invite by code.
func (r *Repository) FindByCode(ctx context.Context, kind enums.InviteKind, code string) (*models.Invite, error) {
	return repo.First[models.Invite](r.table(ctx, kind), "code = ?", code)
}

// List returns every invite of the kind, newest first.
func (r *Repository) List(ctx context.Context, kind enums.InviteKind) ([]models.Invite, error) {
	var out []models.Invite
	if err := r.table(ctx, kind).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkUsed flips a pending, unexpired invite to used. The returned count is
// zero when another redemption won or the invite expired in between.
func (r *Repository) MarkUsed(ctx context.Context, kind enums.InviteKind, code string, accountID int64, now time.Time) (int64, error) {
	res := r.DB(ctx).Exec(
		"UPDATE "+kind.Table()+" SET status = ?, used_by = ?, used_at = ? WHERE code = ? AND status = ? AND expires_at > ?",
		enums.InviteStatusUsed.String(), accountID, now, code, enums.InviteStatusPending.String(), now,
	)
	return res.RowsAffected, res.Error
}
