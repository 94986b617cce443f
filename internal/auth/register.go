package auth

import (
	"context"
	"errors"

	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	"github.com/lopeshyago/fusionbackapp/internal/locations"
	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"gorm.io/gorm"
)

// RegisterStudent resolves a condominium invite code and links the new student to it.
// Location codes are reusable, so nothing is consumed.
func (s *service) RegisterStudent(ctx context.Context, req InviteRegisterRequest) (*AuthResponse, error) {
	if req.InviteCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}

	loc, err := locations.NewRepository(s.db.DB()).FindActiveByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid invite code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup condominium")
	}

	locationID := loc.ID
	return s.registerWith(ctx, newAccount{
		email:         req.Email,
		password:      req.Password,
		fullName:      req.FullName,
		role:          enums.RoleStudent,
		condominiumID: &locationID,
	}, nil)
}

// RegisterInstructor consumes a single-use instructor invite. The account insert
// and the invite claim share one transaction, so a lost race rolls the account back.
func (s *service) RegisterInstructor(ctx context.Context, req InviteRegisterRequest) (*AuthResponse, error) {
	if req.InviteCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}

	return s.registerWith(ctx, newAccount{
		email:    req.Email,
		password: req.Password,
		fullName: req.FullName,
		role:     enums.RoleInstructor,
	}, func(tx *gorm.DB, account *models.Account) error {
		_, err := s.invites.Claim(ctx, tx, enums.InviteKindInstructor, req.InviteCode, account.ID)
		return err
	})
}

// RedeemInvite escalates the caller to the role carried by a generic invite and
// returns a token minted for the new role.
func (s *service) RedeemInvite(ctx context.Context, actor accounts.Actor, req RedeemRequest) (*AuthResponse, error) {
	if actor.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}

	var (
		account *models.Account
		profile *models.Profile
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := accounts.NewRepository(tx)
		var err error
		account, err = repo.FindByID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
		}

		invite, err := s.invites.Claim(ctx, tx, enums.InviteKindGeneric, req.Code, account.ID)
		if err != nil {
			return err
		}
		if err := repo.SetRole(ctx, account.ID, invite.Role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
		}
		role := invite.Role
		account.UserType = &role

		if err := repo.EnsureProfile(ctx, account.ID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		profile, err = repo.FindProfile(ctx, account.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.respond(account, profile)
}

// RegisterAdmin creates an administrator directly. Routes expose it only in dev
// so a fresh database can be bootstrapped.
func (s *service) RegisterAdmin(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return s.registerWith(ctx, newAccount{
		email:    req.Email,
		password: req.Password,
		fullName: req.FullName,
		role:     enums.RoleAdmin,
	}, nil)
}
