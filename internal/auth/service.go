package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	"github.com/lopeshyago/fusionbackapp/internal/invites"
	pkgAuth "github.com/lopeshyago/fusionbackapp/pkg/auth"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/db/models"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth and registration controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RegisterStudent(ctx context.Context, req InviteRegisterRequest) (*AuthResponse, error)
	RegisterInstructor(ctx context.Context, req InviteRegisterRequest) (*AuthResponse, error)
	RedeemInvite(ctx context.Context, actor accounts.Actor, req RedeemRequest) (*AuthResponse, error)
	RegisterAdmin(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error
}

// Revoker invalidates a token id until the token would have expired.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	DB        *db.Client
	Hasher    *security.Hasher
	Invites   invites.Service
	JWTConfig config.JWTConfig
	// Revoker is optional; without it logout only discards the token client side.
	Revoker Revoker
	Now     func() time.Time
}

type service struct {
	db      *db.Client
	hasher  *security.Hasher
	invites invites.Service
	jwtCfg  config.JWTConfig
	revoker Revoker
	now     func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if params.Invites == nil {
		return nil, fmt.Errorf("invite service required")
	}
	if params.Now == nil {
		params.Now = db.Now
	}
	return &service{
		db:      params.DB,
		hasher:  params.Hasher,
		invites: params.Invites,
		jwtCfg:  params.JWTConfig,
		revoker: params.Revoker,
		now:     params.Now,
	}, nil
}

// Register creates a student (or unset-role) account; elevated roles require an invite.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role, err := enums.ParseRole(strings.TrimSpace(req.Role))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if role != enums.RoleUnset && role != enums.RoleStudent {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role requires an invite")
	}
	return s.registerWith(ctx, newAccount{email: req.Email, password: req.Password, fullName: req.FullName, role: role}, nil)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	repo := accounts.NewRepository(s.db.DB())
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyDummy(req.Password)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	valid, err := s.hasher.Verify(req.Password, account.PasswordHash)
	if err != nil && !errors.Is(err, security.ErrInvalidHash) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || account.IsBlocked {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	var profile *models.Profile
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := accounts.NewRepository(tx)
		if err := txRepo.EnsureProfile(ctx, account.ID, nil); err != nil {
			return err
		}
		profile, err = txRepo.FindProfile(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	return s.respond(account, profile)
}

// Logout revokes the token id until the token would have expired.
func (s *service) Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error {
	if claims == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.RemainingTTL(s.now())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke token")
	}
	return nil
}

type newAccount struct {
	email         string
	password      string
	fullName      string
	role          enums.Role
	condominiumID *int64
}

// registerWith creates the account and its profile in one transaction. beforeCommit,
// when set, runs in the same transaction after the account exists.
func (s *service) registerWith(ctx context.Context, in newAccount, beforeCommit func(tx *gorm.DB, account *models.Account) error) (*AuthResponse, error) {
	email := normalizeEmail(in.email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if in.password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	passwordHash, err := s.hasher.Hash(in.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var (
		account *models.Account
		profile *models.Profile
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := accounts.NewRepository(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check account email")
		}

		created, err := repo.Create(ctx, accounts.CreateAccountDTO{
			Email:         email,
			PasswordHash:  passwordHash,
			Role:          in.role,
			CondominiumID: in.condominiumID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "users.email") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
		}
		account = created

		var fullName *string
		if name := strings.TrimSpace(in.fullName); name != "" {
			fullName = &name
		}
		if err := repo.EnsureProfile(ctx, account.ID, fullName); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}

		if beforeCommit != nil {
			if err := beforeCommit(tx, account); err != nil {
				return err
			}
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

func (s *service) respond(account *models.Account, profile *models.Profile) (*AuthResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      accounts.RoleOf(account),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{Token: token, User: accounts.FromModel(account, profile)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
