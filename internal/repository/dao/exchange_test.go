package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenSequence int

func nextTokenString() string {
	tokenSequence++
	return fmt.Sprintf("TESTTOKEN%07d", tokenSequence)
}

func TestExchangeTokenDAO_InsertEscrowed(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)
	user := mustCreateUser(t, 100)

	token, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    user.ID,
		Points:    60,
		Token:     nextTokenString(),
		ExpiresAt: time.Now().Add(3 * time.Minute),
	})

	require.NoError(t, err)
	require.NotZero(t, token.ID)

	// The escrow debits the balance immediately.
	assert.Equal(t, 40, reloadUser(t, user.ID).AvailablePoints)
}

func TestExchangeTokenDAO_InsertEscrowed_InsufficientPoints(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)
	user := mustCreateUser(t, 30)

	_, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    user.ID,
		Points:    60,
		Token:     nextTokenString(),
		ExpiresAt: time.Now().Add(3 * time.Minute),
	})

	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 30, reloadUser(t, user.ID).AvailablePoints)

	// No token row may exist after the rollback.
	var count int64
	require.NoError(t, testDB.Model(&ExchangeToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExchangeTokenDAO_Redeem(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)
	user := mustCreateUser(t, 100)
	vendor := mustCreateUser(t, 0)

	token, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    user.ID,
		Points:    60,
		Token:     nextTokenString(),
		ExpiresAt: time.Now().Add(3 * time.Minute),
	})
	require.NoError(t, err)

	redemption, err := d.Redeem(context.Background(), token.Token, vendor.ID, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 60, redemption.Points)
	assert.Equal(t, user.ID, redemption.UserID)
	assert.Equal(t, vendor.ID, redemption.RedeemerID)

	// The escrow was already taken at creation, only the bookkeeping
	// counter moves on redemption.
	reloaded := reloadUser(t, user.ID)
	assert.Equal(t, 40, reloaded.AvailablePoints)
	assert.Equal(t, 60, reloaded.ExchangedPoints)

	stored, err := d.FindByToken(context.Background(), token.Token)
	require.NoError(t, err)
	assert.True(t, stored.IsUsed)
	require.NotNil(t, stored.UsedAt)
	assert.False(t, stored.PointsRestored)
}

func TestExchangeTokenDAO_Redeem_Twice(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)
	user := mustCreateUser(t, 100)
	vendor := mustCreateUser(t, 0)

	token, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    user.ID,
		Points:    60,
		Token:     nextTokenString(),
		ExpiresAt: time.Now().Add(3 * time.Minute),
	})
	require.NoError(t, err)

	_, err = d.Redeem(context.Background(), token.Token, vendor.ID, time.Now())
	require.NoError(t, err)

	_, err = d.Redeem(context.Background(), token.Token, vendor.ID, time.Now())
	assert.ErrorIs(t, err, ErrTokenAlreadyUsed)

	// The counter moved once.
	assert.Equal(t, 60, reloadUser(t, user.ID).ExchangedPoints)
}

func TestExchangeTokenDAO_Redeem_Expired(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)
	user := mustCreateUser(t, 100)
	vendor := mustCreateUser(t, 0)

	token, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    user.ID,
		Points:    60,
		Token:     nextTokenString(),
		ExpiresAt: time.Now().Add(3 * time.Minute),
	})
	require.NoError(t, err)

	// Redeeming after the window reclaims the escrow in place.
	_, err = d.Redeem(context.Background(), token.Token, vendor.ID, time.Now().Add(4*time.Minute))
	assert.ErrorIs(t, err, ErrTokenExpired)

	assert.Equal(t, 100, reloadUser(t, user.ID).AvailablePoints)

	stored, err := d.FindByToken(context.Background(), token.Token)
	require.NoError(t, err)
	assert.True(t, stored.PointsRestored)
	assert.False(t, stored.IsUsed)
}

func TestExchangeTokenDAO_Redeem_Unknown(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)

	_, err := d.Redeem(context.Background(), "NO-SUCH-TOKEN", 1, time.Now())
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestExchangeTokenDAO_SweepExpired(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)
	alice := mustCreateUser(t, 100)
	bob := mustCreateUser(t, 100)

	now := time.Now()

	// Two expired tokens for alice, one for bob, one still pending.
	for _, points := range []int{10, 20} {
		_, err := d.InsertEscrowed(context.Background(), ExchangeToken{
			UserID:    alice.ID,
			Points:    points,
			Token:     nextTokenString(),
			ExpiresAt: now.Add(3 * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    bob.ID,
		Points:    30,
		Token:     nextTokenString(),
		ExpiresAt: now.Add(3 * time.Minute),
	})
	require.NoError(t, err)
	pending, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    bob.ID,
		Points:    15,
		Token:     nextTokenString(),
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)

	result, err := d.SweepExpired(context.Background(), now.Add(5*time.Minute))

	require.NoError(t, err)
	assert.Equal(t, 3, result.TokensReclaimed)
	assert.Equal(t, 2, result.UsersCredited)
	assert.Equal(t, 60, result.PointsRestored)

	// Escrow returned for expired tokens only.
	assert.Equal(t, 100, reloadUser(t, alice.ID).AvailablePoints)
	assert.Equal(t, 100-15, reloadUser(t, bob.ID).AvailablePoints)

	stillPending, err := d.FindByToken(context.Background(), pending.Token)
	require.NoError(t, err)
	assert.False(t, stillPending.PointsRestored)

	// A second pass finds nothing: the sweep is idempotent.
	again, err := d.SweepExpired(context.Background(), now.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, again.TokensReclaimed)
	assert.Zero(t, again.PointsRestored)
	assert.Equal(t, 100, reloadUser(t, alice.ID).AvailablePoints)
}

// Tokens already redeemed must never be touched by the sweep, even
// once their window has passed.
func TestExchangeTokenDAO_SweepExpired_SkipsRedeemed(t *testing.T) {
	d := NewExchangeTokenDAO(testDB)
	user := mustCreateUser(t, 100)
	vendor := mustCreateUser(t, 0)

	now := time.Now()

	token, err := d.InsertEscrowed(context.Background(), ExchangeToken{
		UserID:    user.ID,
		Points:    40,
		Token:     nextTokenString(),
		ExpiresAt: now.Add(3 * time.Minute),
	})
	require.NoError(t, err)

	_, err = d.Redeem(context.Background(), token.Token, vendor.ID, now)
	require.NoError(t, err)

	_, err = d.SweepExpired(context.Background(), now.Add(5*time.Minute))
	require.NoError(t, err)

	// The redeemed token contributes nothing to the sweep.
	assert.Equal(t, 60, reloadUser(t, user.ID).AvailablePoints)
	assert.Equal(t, 40, reloadUser(t, user.ID).ExchangedPoints)

	stored, err := d.FindByToken(context.Background(), token.Token)
	require.NoError(t, err)
	assert.True(t, stored.IsUsed)
	assert.False(t, stored.PointsRestored)
}
