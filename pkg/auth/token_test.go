package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "fusion", ExpirationMinutes: 30}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		AccountID: 42,
		Email:     "coach@fusion.test",
		Role:      enums.RoleInstructor,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.AccountID != 42 {
		t.Fatalf("expected account_id 42, got %d", claims.AccountID)
	}
	if claims.Email != "coach@fusion.test" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != enums.RoleInstructor {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp, claims.ExpiresAt.UTC(), diff)
	}
	if ttl := claims.RemainingTTL(now); ttl <= 29*time.Minute {
		t.Fatalf("unexpected remaining ttl %v", ttl)
	}
}

func TestMintAcceptsUnsetRole(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{AccountID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("mint with unset role: %v", err)
	}
	claims, err := ParseAccessToken(testJWTConfig(), token)
	if err != nil || claims.Role != enums.RoleUnset {
		t.Fatalf("expected unset role, got %q err=%v", claims.Role, err)
	}
}

func TestMintRejectsBadPayload(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{Email: "a@b.c"}); err == nil {
		t.Fatal("expected missing account id to fail")
	}
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{AccountID: 1, Role: "root"}); err == nil {
		t.Fatal("expected invalid role to fail")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{AccountID: 7, Role: enums.RoleStudent})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature error")
	}

	tampered := token[:strings.LastIndex(token, ".")] + ".AAAA"
	if _, err := ParseAccessToken(cfg, tampered); err == nil {
		t.Fatal("expected tampered signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{AccountID: 7})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testJWTConfig()
	claims := AccessTokenClaims{
		AccountID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseAccessToken(cfg, unsigned); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}

func TestMintRequiresSigningConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.JWTConfig
		want error
	}{
		{"secret", config.JWTConfig{Issuer: "fusion", ExpirationMinutes: 5}, ErrMissingSecret},
		{"issuer", config.JWTConfig{Secret: "s", ExpirationMinutes: 5}, ErrMissingIssuer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MintAccessToken(tc.cfg, time.Now(), AccessTokenPayload{AccountID: 1})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := ParseAccessToken(config.JWTConfig{}, "x.y.z"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected parse to require a secret, got %v", err)
	}
}

func TestParseRejectsTokenWithoutAccount(t *testing.T) {
	cfg := testJWTConfig()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken(cfg, signed); !errors.Is(err, ErrMissingAccount) {
		t.Fatalf("expected missing account error, got %v", err)
	}
}
