package invites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lopeshyago/fusionbackapp/internal/testutil"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, codes CodeGenerator) (Service, *db.Client) {
	t.Helper()
	client := testutil.NewDB(t)
	svc, err := NewService(ServiceParams{
		DB:     client,
		Config: config.InviteConfig{DefaultTTLDays: 7, CodeLength: 8},
		Codes:  codes,
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, client
}

func sequenceCodes(codes ...string) CodeGenerator {
	i := 0
	return func(int) (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestService(t, nil)

	invite, err := svc.Create(context.Background(), CreateParams{Kind: enums.InviteKindInstructor})
	require.NoError(t, err)

	assert.Len(t, invite.Code, 8)
	assert.Equal(t, "instructor", invite.Role)
	assert.Equal(t, "pending", invite.Status)
	assert.True(t, invite.ExpiresAt.Equal(fixedNow.AddDate(0, 0, 7)))
}

func TestCreateValidatesRoleAndTTL(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		params CreateParams
	}{
		{name: "generic without role", params: CreateParams{Kind: enums.InviteKindGeneric}},
		{name: "instructor with admin role", params: CreateParams{Kind: enums.InviteKindInstructor, Role: enums.RoleAdmin}},
		{name: "ttl too long", params: CreateParams{Kind: enums.InviteKindInstructor, TTLDays: 400}},
		{name: "negative ttl", params: CreateParams{Kind: enums.InviteKindInstructor, TTLDays: -1}},
		{name: "unknown kind", params: CreateParams{Kind: "vip", Role: enums.RoleStudent}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.params)
			if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	invite, err := svc.Create(ctx, CreateParams{Kind: enums.InviteKindGeneric, Role: enums.RoleAdmin, TTLDays: 30})
	require.NoError(t, err)
	assert.Equal(t, "admin", invite.Role)
	assert.True(t, invite.ExpiresAt.Equal(fixedNow.AddDate(0, 0, 30)))
}

func TestCreateReportsCodeCollision(t *testing.T) {
	svc, _ := newTestService(t, sequenceCodes("SAMECODE"))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Kind: enums.InviteKindInstructor})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateParams{Kind: enums.InviteKindInstructor})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict), "got %v", err)

	_, err = svc.Create(ctx, CreateParams{Kind: enums.InviteKindGeneric, Role: enums.RoleStudent})
	require.NoError(t, err, "the two invite tables have independent code spaces")
}

func TestListReturnsNewestFirst(t *testing.T) {
	svc, _ := newTestService(t, sequenceCodes("FIRST111", "SECOND22"))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, CreateParams{Kind: enums.InviteKindInstructor})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, enums.InviteKindInstructor)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "SECOND22", list[0].Code)
	assert.Equal(t, "FIRST111", list[1].Code)

	generic, err := svc.List(ctx, enums.InviteKindGeneric)
	require.NoError(t, err)
	assert.Empty(t, generic)
}

func TestClaimIsSingleUseAndRollsBackWithCaller(t *testing.T) {
	svc, client := newTestService(t, sequenceCodes("CLAIMME1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Kind: enums.InviteKindGeneric, Role: enums.RoleInstructor})
	require.NoError(t, err)

	accountID := seedAccountID(t, client)
	errAbort := errors.New("abort")
	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := svc.Claim(ctx, tx, enums.InviteKindGeneric, " claimme1 ", accountID); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	_, err = Peek(ctx, client.DB(), enums.InviteKindGeneric, "CLAIMME1", fixedNow)
	require.NoError(t, err, "rolled back claim leaves the invite pending")

	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		invite, err := svc.Claim(ctx, tx, enums.InviteKindGeneric, "CLAIMME1", accountID)
		if err == nil {
			assert.Equal(t, "used", invite.Status)
		}
		return err
	})
	require.NoError(t, err)

	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := svc.Claim(ctx, tx, enums.InviteKindGeneric, "CLAIMME1", accountID)
		return err
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict), "got %v", err)

	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := svc.Claim(ctx, tx, enums.InviteKindInstructor, "CLAIMME1", accountID)
		return err
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "codes do not cross invite tables")
}

func TestClaimRejectsExpiredInvite(t *testing.T) {
	svc, client := newTestService(t, sequenceCodes("SHORTTTL"))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Kind: enums.InviteKindInstructor, TTLDays: 1})
	require.NoError(t, err)

	later, err := NewService(ServiceParams{
		DB:     client,
		Config: config.InviteConfig{DefaultTTLDays: 7, CodeLength: 8},
		Now:    func() time.Time { return fixedNow.AddDate(0, 0, 2) },
	})
	require.NoError(t, err)

	accountID := seedAccountID(t, client)
	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := later.Claim(ctx, tx, enums.InviteKindInstructor, "SHORTTTL", accountID)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, "invite expired", pkgerrors.As(err).Message())
}

func seedAccountID(t *testing.T, client *db.Client) int64 {
	t.Helper()
	res := client.DB().Exec(`INSERT INTO users (email, password) VALUES ('claimer@example.com', 'hash')`)
	require.NoError(t, res.Error)
	var id int64
	require.NoError(t, client.DB().Raw(`SELECT id FROM users WHERE email = 'claimer@example.com'`).Scan(&id).Error)
	return id
}
