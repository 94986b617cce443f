package invites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/security"
	"gorm.io/gorm"
)

const maxTTLDays = 365

// Service issues, lists and redeems invite codes.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*InviteDTO, error)
	List(ctx context.Context, kind enums.InviteKind) ([]InviteDTO, error)
	// Claim runs inside the caller's transaction so the redemption commits or
	// rolls back together with the account change it authorizes.
	Claim(ctx context.Context, tx *gorm.DB, kind enums.InviteKind, code string, accountID int64) (*models.Invite, error)
}

// CodeGenerator returns a random invite code of the given length.
type CodeGenerator func(length int) (string, error)

// ServiceParams bundles the dependencies required to build an invite service.
type ServiceParams struct {
	DB     *db.Client
	Config config.InviteConfig
	Codes  CodeGenerator
	Now    func() time.Time
}

type service struct {
	db    *db.Client
	cfg   config.InviteConfig
	codes CodeGenerator
	now   func() time.Time
}

// NewService constructs an invite service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Codes == nil {
		params.Codes = security.GenerateInviteCode
	}
	if params.Now == nil {
		params.Now = db.Now
	}
	if params.Config.CodeLength <= 0 {
		params.Config.CodeLength = 8
	}
	if params.Config.DefaultTTLDays <= 0 {
		params.Config.DefaultTTLDays = 7
	}
	return &service{db: params.DB, cfg: params.Config, codes: params.Codes, now: params.Now}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*InviteDTO, error) {
	if !params.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid invite kind")
	}

	role := params.Role
	if params.Kind == enums.InviteKindInstructor {
		if role != enums.RoleUnset && role != enums.RoleInstructor {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "instructor invites grant the instructor role")
		}
		role = enums.RoleInstructor
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite role is required")
	}

	ttlDays := params.TTLDays
	if ttlDays == 0 {
		ttlDays = s.cfg.DefaultTTLDays
	}
	if ttlDays < 0 || ttlDays > maxTTLDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("ttl_days must be between 1 and %d", maxTTLDays))
	}

	code, err := s.codes(s.cfg.CodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invite code")
	}

	invite := &models.Invite{
		Code:      code,
		Role:      role.String(),
		Status:    enums.InviteStatusPending.String(),
		ExpiresAt: s.now().AddDate(0, 0, ttlDays),
	}
	if params.IssuerID > 0 {
		issuer := params.IssuerID
		invite.CreatedBy = &issuer
	}

	if err := NewRepository(s.db.DB()).Create(ctx, params.Kind, invite); err != nil {
		if db.IsUniqueViolation(err, "code") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "invite code collision, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create invite")
	}
	return FromModel(params.Kind, invite), nil
}

func (s *service) List(ctx context.Context, kind enums.InviteKind) ([]InviteDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid invite kind")
	}
	rows, err := NewRepository(s.db.DB()).List(ctx, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invites")
	}
	out := make([]InviteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(kind, &rows[i]))
	}
	return out, nil
}

func (s *service) Claim(ctx context.Context, tx *gorm.DB, kind enums.InviteKind, code string, accountID int64) (*models.Invite, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}

	repo := NewRepository(tx)
	invite, err := repo.FindByCode(ctx, kind, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup invite")
	}

	now := s.now()
	if err := checkRedeemable(invite, now); err != nil {
		return nil, err
	}

	affected, err := repo.MarkUsed(ctx, kind, code, accountID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark invite used")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invite already used")
	}

	invite.Status = enums.InviteStatusUsed.String()
	invite.UsedBy = &accountID
	invite.UsedAt = &now
	return invite, nil
}

// Peek validates that a code is redeemable without consuming it.
func Peek(ctx context.Context, tx *gorm.DB, kind enums.InviteKind, code string, now time.Time) (*models.Invite, error) {
	invite, err := NewRepository(tx).FindByCode(ctx, kind, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup invite")
	}
	if err := checkRedeemable(invite, now); err != nil {
		return nil, err
	}
	return invite, nil
}

func checkRedeemable(invite *models.Invite, now time.Time) error {
	if invite.Status != enums.InviteStatusPending.String() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "invite already used")
	}
	if !invite.ExpiresAt.After(now) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "invite expired")
	}
	return nil
}

// NormalizeCode trims and upper-cases a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
