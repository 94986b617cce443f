package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID int64
	Email     string
	Role      enums.Role
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	AccountID int64      `json:"account_id"`
	Email     string     `json:"email"`
	Role      enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims pass.
func (c *AccessTokenClaims) Validate() error {
	if c.AccountID <= 0 {
		return ErrMissingAccount
	}
	if c.Role != "" && !c.Role.IsValid() {
		return fmt.Errorf("invalid role %q", c.Role)
	}
	return nil
}

// RemainingTTL is how long the token stays valid after now.
func (c *AccessTokenClaims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
