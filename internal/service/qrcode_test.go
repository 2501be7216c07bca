package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

type fakeQRCodeRepository struct {
	claim      domain.UserQRCode
	claimCode  domain.QRCode
	claimErr   error
	created    []domain.QRCode
	claimsList []domain.UserQRCode
}

func (f *fakeQRCodeRepository) Create(_ context.Context, code domain.QRCode) (domain.QRCode, error) {
	f.created = append(f.created, code)

	return code, nil
}

func (f *fakeQRCodeRepository) CreateBatch(_ context.Context, codes []domain.QRCode) ([]domain.QRCode, error) {
	f.created = append(f.created, codes...)

	return codes, nil
}

func (f *fakeQRCodeRepository) Claim(_ context.Context, _ uint, _ string, _ time.Time) (domain.UserQRCode, domain.QRCode, error) {
	if f.claimErr != nil {
		return domain.UserQRCode{}, domain.QRCode{}, f.claimErr
	}

	return f.claim, f.claimCode, nil
}

func (f *fakeQRCodeRepository) FindClaimsByUser(_ context.Context, _ uint) ([]domain.UserQRCode, error) {
	return f.claimsList, nil
}

func TestQRCodeService_Claim_PointsPrize(t *testing.T) {
	repo := &fakeQRCodeRepository{
		claim:     domain.UserQRCode{UserID: 7, Code: "SUMMER-0001", PointsEarned: 50},
		claimCode: domain.QRCode{Code: "SUMMER-0001", Points: 50, PrizeKind: domain.PrizePoints},
	}
	svc := NewQRCodeService(repo)

	claim, reward, err := svc.Claim(context.Background(), 7, "SUMMER-0001")

	require.NoError(t, err)
	assert.Equal(t, domain.PrizePoints, reward.Kind)
	assert.Equal(t, 50, reward.Points)
	assert.Equal(t, "SUMMER-0001", claim.Code)
}

func TestQRCodeService_Claim_NonPointsPrizes(t *testing.T) {
	for _, kind := range []domain.PrizeKind{domain.PrizeTryAgain, domain.PrizeLoyaltyBonus, domain.PrizeMysteryBox} {
		t.Run(string(kind), func(t *testing.T) {
			repo := &fakeQRCodeRepository{
				claim:     domain.UserQRCode{UserID: 7, Code: "X"},
				claimCode: domain.QRCode{Code: "X", Points: 100, PrizeKind: kind},
			}
			svc := NewQRCodeService(repo)

			_, reward, err := svc.Claim(context.Background(), 7, "X")

			require.NoError(t, err)
			assert.Equal(t, kind, reward.Kind)
			// Non-points prizes never grant points regardless of the
			// value stored on the code.
			assert.Zero(t, reward.Points)
		})
	}
}

func TestQRCodeService_Claim_Errors(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrCodeNotFound,
		repository.ErrCodeAlreadyClaimed,
		repository.ErrCodeInvalid,
	} {
		repo := &fakeQRCodeRepository{claimErr: sentinel}
		svc := NewQRCodeService(repo)

		_, _, err := svc.Claim(context.Background(), 7, "X")

		assert.ErrorIs(t, err, sentinel)
	}
}

func TestQRCodeService_CreateCode_UnknownKind(t *testing.T) {
	svc := NewQRCodeService(&fakeQRCodeRepository{})

	_, err := svc.CreateCode(context.Background(), domain.QRCode{Code: "X", PrizeKind: "jackpot"})

	require.Error(t, err)
}

func TestQRCodeService_CreateBatch(t *testing.T) {
	repo := &fakeQRCodeRepository{}
	svc := NewQRCodeService(repo)

	template := domain.QRCode{Points: 25, PrizeKind: domain.PrizePoints}
	codes, err := svc.CreateBatch(context.Background(), template, "SUMMER24", 3)

	require.NoError(t, err)
	require.Len(t, codes, 3)
	assert.Equal(t, "SUMMER24-0001", codes[0].Code)
	assert.Equal(t, "SUMMER24-0003", codes[2].Code)
	for i, code := range codes {
		assert.True(t, code.IsActive)
		assert.Equal(t, "SUMMER24", code.BatchNumber)
		assert.Equal(t, i+1, code.BatchSequence)
		assert.Equal(t, 25, code.Points)
	}
}
