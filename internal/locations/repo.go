package locations

import (
	"context"
	"strings"

	"github.com/lopeshyago/fusionbackapp/internal/repo"
	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes condominium lookups used by registration.
type Repository struct {
	repo.Base
}

// NewRepository constructs a locations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindActiveByInviteCode resolves a student invite code, matched case-insensitively.
func (r *Repository) FindActiveByInviteCode(ctx context.Context, code string) (*models.Location, error) {
	return repo.First[models.Location](r.DB(ctx), "UPPER(invite_code) = ? AND is_active = 1", strings.ToUpper(strings.TrimSpace(code)))
}

// FindByID loads a location by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Location, error) {
	return repo.First[models.Location](r.DB(ctx), "id = ?", id)
}
