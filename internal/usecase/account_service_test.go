package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.entitlementSvc.GrantVip(ctx, testMartinaID, testEventID))

	profile, err := env.accountSvc.Profile(ctx, testMartinaID)
	require.NoError(t, err)
	require.Equal(t, "martina", profile.User.Username)
	require.Equal(t, 1, profile.User.KeyBalance)
	require.Equal(t, []string{testEventID}, profile.VipEventIDs)
}

func TestProfileUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.accountSvc.Profile(context.Background(), "usr-ghost")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestListUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accountSvc.ListUsers(ctx, testMartinaID)
	require.True(t, errors.Is(err, ErrUnauthorized))

	users, err := env.accountSvc.ListUsers(ctx, testAdminID)
	require.NoError(t, err)
	require.Len(t, users, 3)
}

func TestKeyUsageStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledgerSvc.Redeem(ctx, testJoaquinID, "ABC123")
	require.NoError(t, err)
	require.NoError(t, env.entitlementSvc.GrantVip(ctx, testJoaquinID, testEventID))
	require.NoError(t, env.entitlementSvc.UnlockScoreBet(ctx, testMartinaID, testMatchID))

	stats, err := env.accountSvc.KeyUsageStats(ctx, testAdminID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Keys.KeysIssued)
	require.Equal(t, 1, stats.Keys.KeysRedeemed)
	require.Equal(t, 1, stats.TotalUnlocks)

	foundEvent := false
	for _, row := range stats.VipByEvent {
		if row.EventID == testEventID {
			foundEvent = true
			require.Equal(t, 1, row.Count)
		}
	}
	require.True(t, foundEvent)
}
