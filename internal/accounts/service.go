package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lopeshyago/fusionbackapp/pkg/coerce"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"gorm.io/gorm"
)

// Service serves self-service and administrative account reads and writes.
type Service interface {
	Get(ctx context.Context, actor Actor, id int64) (*AccountDTO, error)
	Update(ctx context.Context, actor Actor, id int64, payload map[string]any) (*AccountDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db txRunner
}

// NewService constructs an accounts service.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	return &service{db: client}, nil
}

func authorize(actor Actor, id int64) error {
	if actor.ID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.ID != id && !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another account")
	}
	return nil
}

// Get returns the account with its profile, creating the profile first if missing.
func (s *service) Get(ctx context.Context, actor Actor, id int64) (*AccountDTO, error) {
	if err := authorize(actor, id); err != nil {
		return nil, err
	}

	var out *AccountDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		dto, err := loadWithProfile(ctx, NewRepository(tx), id)
		out = dto
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update splits payload into account and profile columns by allow-list and
// writes each non-empty subset in one transaction.
func (s *service) Update(ctx context.Context, actor Actor, id int64, payload map[string]any) (*AccountDTO, error) {
	if err := authorize(actor, id); err != nil {
		return nil, err
	}

	accountCols, profileCols, err := splitPayload(payload, fieldsFor(actor.IsAdmin()))
	if err != nil {
		return nil, err
	}
	if len(accountCols) == 0 && len(profileCols) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields")
	}

	var out *AccountDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
		}
		if err := repo.EnsureProfile(ctx, id, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure profile")
		}
		if len(accountCols) > 0 {
			if _, err := repo.UpdateAccountColumns(ctx, id, accountCols); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update account")
			}
		}
		if len(profileCols) > 0 {
			if _, err := repo.UpdateProfileColumns(ctx, id, profileCols); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
			}
		}
		dto, err := loadWithProfile(ctx, repo, id)
		out = dto
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadWithProfile(ctx context.Context, repo *Repository, id int64) (*AccountDTO, error) {
	account, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}
	if err := repo.EnsureProfile(ctx, id, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensure profile")
	}
	profile, err := repo.FindProfile(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return FromModel(account, profile), nil
}

func splitPayload(payload map[string]any, fields fieldSet) (map[string]any, map[string]any, error) {
	accountCols := map[string]any{}
	for _, col := range fields.account {
		value, ok := payload[col]
		if !ok {
			continue
		}
		stored, err := normalizeAccountValue(col, value)
		if err != nil {
			return nil, nil, err
		}
		accountCols[col] = stored
	}

	profileCols := map[string]any{}
	for _, col := range fields.profile {
		value, ok := payload[col]
		if !ok {
			continue
		}
		stored, err := coerce.ToStorable(value)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s", col))
		}
		profileCols[col] = stored
	}
	return accountCols, profileCols, nil
}

func normalizeAccountValue(col string, value any) (any, error) {
	if _, isFlag := boolFlagFields[col]; isFlag {
		flag, ok := coerce.BoolFlag(value)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a boolean", col))
		}
		return flag, nil
	}
	if col == "user_type" && value != nil {
		raw, ok := value.(string)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user_type")
		}
		role, err := enums.ParseRole(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user_type")
		}
		if role == enums.RoleUnset {
			return nil, nil
		}
		return role.String(), nil
	}
	stored, err := coerce.ToStorable(value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s", col))
	}
	return stored, nil
}
