package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

type fakeExchangeRepository struct {
	createdTokens []domain.ExchangeToken
	createErrs    []error

	sweepCalls  int
	sweepReport domain.SweepReport

	redemption domain.Redemption
	redeemErr  error
}

func (f *fakeExchangeRepository) CreateEscrowed(_ context.Context, token domain.ExchangeToken) (domain.ExchangeToken, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return domain.ExchangeToken{}, err
		}
	}

	f.createdTokens = append(f.createdTokens, token)

	return token, nil
}

func (f *fakeExchangeRepository) Redeem(_ context.Context, _ string, _ uint, _ time.Time) (domain.Redemption, error) {
	if f.redeemErr != nil {
		return domain.Redemption{}, f.redeemErr
	}

	return f.redemption, nil
}

func (f *fakeExchangeRepository) SweepExpired(_ context.Context, _ time.Time) (domain.SweepReport, error) {
	f.sweepCalls++

	return f.sweepReport, nil
}

func (f *fakeExchangeRepository) FindByUser(_ context.Context, _ uint) ([]domain.ExchangeToken, error) {
	return nil, nil
}

func (f *fakeExchangeRepository) FindRedemptionsByUser(_ context.Context, _ uint) ([]domain.Redemption, error) {
	return nil, nil
}

var tokenFormat = regexp.MustCompile(`^[A-Z0-9]{16}$`)

func TestExchangeService_CreateToken(t *testing.T) {
	repo := &fakeExchangeRepository{}
	svc := NewExchangeService(repo)

	before := time.Now()
	token, err := svc.CreateToken(context.Background(), 7, 120)

	require.NoError(t, err)
	assert.Equal(t, uint(7), token.UserID)
	assert.Equal(t, 120, token.Points)
	assert.Regexp(t, tokenFormat, token.Token)

	// The escrow window is fixed at three minutes from creation.
	assert.WithinDuration(t, before.Add(domain.TokenValidity), token.ExpiresAt, 5*time.Second)

	// Creation never sweeps; reclaiming is the reclaimer's job alone.
	assert.Zero(t, repo.sweepCalls)
}

func TestExchangeService_CreateToken_RetriesOnCollision(t *testing.T) {
	repo := &fakeExchangeRepository{
		createErrs: []error{repository.ErrTokenExists},
	}
	svc := NewExchangeService(repo)

	token, err := svc.CreateToken(context.Background(), 7, 120)

	require.NoError(t, err)
	assert.Regexp(t, tokenFormat, token.Token)
	require.Len(t, repo.createdTokens, 1)
}

func TestExchangeService_CreateToken_GivesUpAfterSecondCollision(t *testing.T) {
	repo := &fakeExchangeRepository{
		createErrs: []error{repository.ErrTokenExists, repository.ErrTokenExists},
	}
	svc := NewExchangeService(repo)

	_, err := svc.CreateToken(context.Background(), 7, 120)

	assert.ErrorIs(t, err, repository.ErrTokenExists)
}

func TestExchangeService_CreateToken_UniqueTokens(t *testing.T) {
	repo := &fakeExchangeRepository{}
	svc := NewExchangeService(repo)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := svc.CreateToken(context.Background(), 7, 10)
		require.NoError(t, err)
		assert.False(t, seen[token.Token], "token %v generated twice", token.Token)
		seen[token.Token] = true
	}
}

func TestExchangeService_RedeemToken_Errors(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrTokenNotFound,
		repository.ErrTokenExpired,
		repository.ErrTokenAlreadyUsed,
	} {
		repo := &fakeExchangeRepository{redeemErr: sentinel}
		svc := NewExchangeService(repo)

		_, err := svc.RedeemToken(context.Background(), "AAAABBBBCCCCDDDD", 3)

		assert.ErrorIs(t, err, sentinel)
	}
}

func TestExchangeService_SweepExpiredTokens(t *testing.T) {
	repo := &fakeExchangeRepository{
		sweepReport: domain.SweepReport{TokensReclaimed: 4, UsersCredited: 2, PointsRestored: 300},
	}
	svc := NewExchangeService(repo)

	report, err := svc.SweepExpiredTokens(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, report.TokensReclaimed)
	assert.Equal(t, 2, report.UsersCredited)
	assert.Equal(t, 300, report.PointsRestored)
	assert.Equal(t, 1, repo.sweepCalls)
}
