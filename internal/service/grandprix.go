package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

var (
	ErrCampaignNotFound       = repository.ErrCampaignNotFound
	ErrNoActiveCampaign       = repository.ErrNoActiveCampaign
	ErrAlreadyParticipated    = repository.ErrAlreadyParticipated
	ErrCampaignNotFinished    = repository.ErrCampaignNotFinished
	ErrDrawAlreadyConducted   = repository.ErrDrawAlreadyConducted
	ErrNoEligibleParticipants = repository.ErrNoEligibleParticipants
	ErrNoPrizesDefined        = repository.ErrNoPrizesDefined
)

type GrandPrixRepository interface {
	Create(ctx context.Context, campaign domain.GrandPrix, prizes []domain.GrandPrixPrize) (domain.GrandPrix, error)
	FindByID(ctx context.Context, id uint) (domain.GrandPrix, error)
	FindActive(ctx context.Context, now time.Time) (domain.GrandPrix, error)
	FindPrizes(ctx context.Context, grandPrixID uint) ([]domain.GrandPrixPrize, error)
	Participate(ctx context.Context, grandPrixID, userID uint, cost int, now time.Time) (domain.GrandPrixParticipation, error)
	ConductDraw(ctx context.Context, grandPrixID, operatorID uint, seed int64, now time.Time) ([]domain.DrawWinner, domain.GrandPrixDraw, error)
	FindParticipationsByUser(ctx context.Context, userID uint) ([]domain.GrandPrixParticipation, error)
	FindParticipants(ctx context.Context, grandPrixID uint) ([]domain.GrandPrixParticipation, error)
}

type GrandPrixService struct {
	repo GrandPrixRepository
}

func NewGrandPrixService(repo GrandPrixRepository) *GrandPrixService {
	return &GrandPrixService{
		repo: repo,
	}
}

// CampaignDetails bundles a campaign with its prize ladder.
type CampaignDetails struct {
	Campaign domain.GrandPrix
	Prizes   []domain.GrandPrixPrize
}

func (s *GrandPrixService) CreateCampaign(ctx context.Context, campaign domain.GrandPrix, prizes []domain.GrandPrixPrize) (domain.GrandPrix, error) {
	if campaign.Status == "" {
		campaign.Status = domain.GrandPrixUpcoming
	}

	created, err := s.repo.Create(ctx, campaign, prizes)
	if err != nil {
		return domain.GrandPrix{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// GetCurrent returns the campaign currently open for entries along with
// its prizes.
func (s *GrandPrixService) GetCurrent(ctx context.Context) (CampaignDetails, error) {
	campaign, err := s.repo.FindActive(ctx, time.Now())
	if err != nil {
		return CampaignDetails{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	prizes, err := s.repo.FindPrizes(ctx, campaign.ID)
	if err != nil {
		return CampaignDetails{}, fmt.Errorf("s.repo.FindPrizes -> %w", err)
	}

	return CampaignDetails{Campaign: campaign, Prizes: prizes}, nil
}

func (s *GrandPrixService) GetCampaign(ctx context.Context, id uint) (CampaignDetails, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CampaignDetails{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	prizes, err := s.repo.FindPrizes(ctx, campaign.ID)
	if err != nil {
		return CampaignDetails{}, fmt.Errorf("s.repo.FindPrizes -> %w", err)
	}

	return CampaignDetails{Campaign: campaign, Prizes: prizes}, nil
}

// Participate buys the caller an entry in the currently active
// campaign, debiting the entry cost atomically with the entry record.
func (s *GrandPrixService) Participate(ctx context.Context, userID uint) (domain.GrandPrixParticipation, error) {
	now := time.Now()

	campaign, err := s.repo.FindActive(ctx, now)
	if err != nil {
		return domain.GrandPrixParticipation{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	participation, err := s.repo.Participate(ctx, campaign.ID, userID, campaign.ParticipationCost, now)
	if err != nil {
		return domain.GrandPrixParticipation{}, fmt.Errorf("s.repo.Participate -> %w", err)
	}

	return participation, nil
}

// ConductDraw runs the single draw for a finished campaign. The RNG
// seed is generated here and persisted with the draw record so the
// winner selection can be replayed.
func (s *GrandPrixService) ConductDraw(ctx context.Context, grandPrixID, operatorID uint) ([]domain.DrawWinner, domain.GrandPrixDraw, error) {
	seed, err := drawSeed()
	if err != nil {
		return nil, domain.GrandPrixDraw{}, fmt.Errorf("drawSeed -> %w", err)
	}

	winners, draw, err := s.repo.ConductDraw(ctx, grandPrixID, operatorID, seed, time.Now())
	if err != nil {
		return nil, domain.GrandPrixDraw{}, fmt.Errorf("s.repo.ConductDraw -> %w", err)
	}

	return winners, draw, nil
}

func (s *GrandPrixService) GetParticipations(ctx context.Context, userID uint) ([]domain.GrandPrixParticipation, error) {
	participations, err := s.repo.FindParticipationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindParticipationsByUser -> %w", err)
	}

	return participations, nil
}

func (s *GrandPrixService) GetParticipants(ctx context.Context, grandPrixID uint) ([]domain.GrandPrixParticipation, error) {
	if _, err := s.repo.FindByID(ctx, grandPrixID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	participants, err := s.repo.FindParticipants(ctx, grandPrixID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindParticipants -> %w", err)
	}

	return participants, nil
}

func drawSeed() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}

	return int64(binary.BigEndian.Uint64(buf[:])), nil
}
