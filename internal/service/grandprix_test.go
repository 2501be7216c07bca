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

type fakeGrandPrixRepository struct {
	active    domain.GrandPrix
	activeErr error
	prizes    []domain.GrandPrixPrize

	participation    domain.GrandPrixParticipation
	participateErr   error
	participateCost  int
	participateCalls int

	drawWinners []domain.DrawWinner
	draw        domain.GrandPrixDraw
	drawErr     error
	drawSeed    int64
}

func (f *fakeGrandPrixRepository) Create(_ context.Context, campaign domain.GrandPrix, _ []domain.GrandPrixPrize) (domain.GrandPrix, error) {
	return campaign, nil
}

func (f *fakeGrandPrixRepository) FindByID(_ context.Context, _ uint) (domain.GrandPrix, error) {
	return f.active, f.activeErr
}

func (f *fakeGrandPrixRepository) FindActive(_ context.Context, _ time.Time) (domain.GrandPrix, error) {
	if f.activeErr != nil {
		return domain.GrandPrix{}, f.activeErr
	}

	return f.active, nil
}

func (f *fakeGrandPrixRepository) FindPrizes(_ context.Context, _ uint) ([]domain.GrandPrixPrize, error) {
	return f.prizes, nil
}

func (f *fakeGrandPrixRepository) Participate(_ context.Context, _, _ uint, cost int, _ time.Time) (domain.GrandPrixParticipation, error) {
	f.participateCalls++
	f.participateCost = cost
	if f.participateErr != nil {
		return domain.GrandPrixParticipation{}, f.participateErr
	}

	return f.participation, nil
}

func (f *fakeGrandPrixRepository) ConductDraw(_ context.Context, _, _ uint, seed int64, _ time.Time) ([]domain.DrawWinner, domain.GrandPrixDraw, error) {
	f.drawSeed = seed
	if f.drawErr != nil {
		return nil, domain.GrandPrixDraw{}, f.drawErr
	}

	draw := f.draw
	draw.Seed = seed

	return f.drawWinners, draw, nil
}

func (f *fakeGrandPrixRepository) FindParticipationsByUser(_ context.Context, _ uint) ([]domain.GrandPrixParticipation, error) {
	return nil, nil
}

func (f *fakeGrandPrixRepository) FindParticipants(_ context.Context, _ uint) ([]domain.GrandPrixParticipation, error) {
	return nil, nil
}

func TestGrandPrixService_Participate(t *testing.T) {
	repo := &fakeGrandPrixRepository{
		active: domain.GrandPrix{
			ID:                3,
			ParticipationCost: 100,
			Status:            domain.GrandPrixActive,
		},
		participation: domain.GrandPrixParticipation{GrandPrixID: 3, UserID: 7, PointsSpent: 100},
	}
	svc := NewGrandPrixService(repo)

	participation, err := svc.Participate(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, uint(3), participation.GrandPrixID)
	// The debit amount comes from the campaign, not the caller.
	assert.Equal(t, 100, repo.participateCost)
}

func TestGrandPrixService_Participate_NoActiveCampaign(t *testing.T) {
	repo := &fakeGrandPrixRepository{activeErr: repository.ErrNoActiveCampaign}
	svc := NewGrandPrixService(repo)

	_, err := svc.Participate(context.Background(), 7)

	assert.ErrorIs(t, err, repository.ErrNoActiveCampaign)
	assert.Zero(t, repo.participateCalls)
}

func TestGrandPrixService_Participate_Errors(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrAlreadyParticipated,
		repository.ErrInsufficientPoints,
	} {
		repo := &fakeGrandPrixRepository{
			active:         domain.GrandPrix{ID: 3, ParticipationCost: 100},
			participateErr: sentinel,
		}
		svc := NewGrandPrixService(repo)

		_, err := svc.Participate(context.Background(), 7)

		assert.ErrorIs(t, err, sentinel)
	}
}

func TestGrandPrixService_ConductDraw(t *testing.T) {
	repo := &fakeGrandPrixRepository{
		drawWinners: []domain.DrawWinner{
			{Position: 1, PrizeName: "Bicycle", UserID: 4},
			{Position: 2, PrizeName: "Voucher", UserID: 9},
		},
		draw: domain.GrandPrixDraw{GrandPrixID: 3, WinnerCount: 2},
	}
	svc := NewGrandPrixService(repo)

	winners, draw, err := svc.ConductDraw(context.Background(), 3, 1)

	require.NoError(t, err)
	assert.Len(t, winners, 2)
	// The seed is generated fresh per draw and recorded for audit.
	assert.Equal(t, repo.drawSeed, draw.Seed)
}

func TestGrandPrixService_ConductDraw_Errors(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrCampaignNotFound,
		repository.ErrCampaignNotFinished,
		repository.ErrDrawAlreadyConducted,
		repository.ErrNoEligibleParticipants,
		repository.ErrNoPrizesDefined,
	} {
		repo := &fakeGrandPrixRepository{drawErr: sentinel}
		svc := NewGrandPrixService(repo)

		_, _, err := svc.ConductDraw(context.Background(), 3, 1)

		assert.ErrorIs(t, err, sentinel)
	}
}

func TestGrandPrixService_CreateCampaign_DefaultsStatus(t *testing.T) {
	repo := &fakeGrandPrixRepository{}
	svc := NewGrandPrixService(repo)

	created, err := svc.CreateCampaign(context.Background(), domain.GrandPrix{Name: "Spring"}, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.GrandPrixUpcoming, created.Status)
}

func TestGrandPrixService_GetCurrent(t *testing.T) {
	repo := &fakeGrandPrixRepository{
		active: domain.GrandPrix{ID: 3, Name: "Spring", Status: domain.GrandPrixActive},
		prizes: []domain.GrandPrixPrize{{Position: 1, Name: "Bicycle"}},
	}
	svc := NewGrandPrixService(repo)

	details, err := svc.GetCurrent(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Spring", details.Campaign.Name)
	require.Len(t, details.Prizes, 1)
}
