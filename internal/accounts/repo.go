package accounts

import (
	"context"

	"github.com/lopeshyago/fusionbackapp/internal/repo"
	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes account and profile persistence. Bind it to a
// transaction handle to compose it into a larger unit of work.
type Repository struct {
	repo.Base
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new account and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateAccountDTO) (*models.Account, error) {
	account := dto.ToModel()
	if err := r.DB(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// FindByEmail retrieves the account matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return repo.First[models.Account](r.DB(ctx), "email = ?", email)
}

// FindByID loads an account by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return repo.First[models.Account](r.DB(ctx), "id = ?", id)
}

// EnsureProfile inserts an empty profile for the account unless one exists.
func (r *Repository) EnsureProfile(ctx context.Context, accountID int64, fullName *string) error {
	profile := models.Profile{UserID: accountID, FullName: fullName}
	return r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&profile).Error
}

// FindProfile loads the profile for an account.
func (r *Repository) FindProfile(ctx context.Context, accountID int64) (*models.Profile, error) {
	return repo.First[models.Profile](r.DB(ctx), "user_id = ?", accountID)
}

// CountProfiles returns how many profile rows reference the account.
func (r *Repository) CountProfiles(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Profile{}).Where("user_id = ?", accountID).Count(&n).Error
	return n, err
}

// UpdateAccountColumns writes already-filtered columns on the users row.
func (r *Repository) UpdateAccountColumns(ctx context.Context, id int64, columns map[string]any) (int64, error) {
	return r.Base.UpdateColumns(ctx, &models.Account{}, columns, "id = ?", id)
}

// UpdateProfileColumns writes already-filtered columns on the profile row.
func (r *Repository) UpdateProfileColumns(ctx context.Context, accountID int64, columns map[string]any) (int64, error) {
	return r.Base.UpdateColumns(ctx, &models.Profile{}, columns, "user_id = ?", accountID)
}

// SetRole stamps the account's role tag.
func (r *Repository) SetRole(ctx context.Context, id int64, role string) error {
	return r.DB(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("user_type", role).Error
}

// SetCondominium links the account to a location.
func (r *Repository) SetCondominium(ctx context.Context, id, locationID int64) error {
	return r.DB(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("condominium_id", locationID).Error
}

