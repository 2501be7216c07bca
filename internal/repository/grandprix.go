package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository/dao"
)

var (
	ErrCampaignNotFound       = dao.ErrCampaignNotFound
	ErrNoActiveCampaign       = dao.ErrNoActiveCampaign
	ErrAlreadyParticipated    = dao.ErrAlreadyParticipated
	ErrCampaignNotFinished    = dao.ErrCampaignNotFinished
	ErrDrawAlreadyConducted   = dao.ErrDrawAlreadyConducted
	ErrNoEligibleParticipants = dao.ErrNoEligibleParticipants
	ErrNoPrizesDefined        = dao.ErrNoPrizesDefined
)

type GrandPrixDAO interface {
	Insert(ctx context.Context, campaign dao.GrandPrix, prizes []dao.GrandPrixPrize) (dao.GrandPrix, error)
	FindByID(ctx context.Context, id uint) (dao.GrandPrix, error)
	FindActive(ctx context.Context, now time.Time) (dao.GrandPrix, error)
	FindPrizes(ctx context.Context, grandPrixID uint) ([]dao.GrandPrixPrize, error)
	Participate(ctx context.Context, grandPrixID, userID uint, cost int, now time.Time) (dao.GrandPrixParticipation, error)
	ConductDraw(ctx context.Context, grandPrixID, operatorID uint, seed int64, now time.Time) ([]dao.DrawnWinner, dao.GrandPrixDraw, error)
	FindParticipationsByUser(ctx context.Context, userID uint) ([]dao.GrandPrixParticipation, error)
	FindParticipants(ctx context.Context, grandPrixID uint) ([]dao.GrandPrixParticipation, error)
	CountParticipationsByUser(ctx context.Context, userID uint) (int64, error)
}

type GrandPrixRepository struct {
	dao GrandPrixDAO
}

func NewGrandPrixRepository(dao GrandPrixDAO) *GrandPrixRepository {
	return &GrandPrixRepository{
		dao: dao,
	}
}

func (r *GrandPrixRepository) Create(ctx context.Context, campaign domain.GrandPrix, prizes []domain.GrandPrixPrize) (domain.GrandPrix, error) {
	daoPrizes := make([]dao.GrandPrixPrize, len(prizes))
	for i, prize := range prizes {
		daoPrizes[i] = dao.GrandPrixPrize{
			Position:    prize.Position,
			Name:        prize.Name,
			Description: prize.Description,
			Value:       prize.Value,
		}
	}

	created, err := r.dao.Insert(ctx, r.domainToDao(campaign), daoPrizes)
	if err != nil {
		return domain.GrandPrix{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *GrandPrixRepository) FindByID(ctx context.Context, id uint) (domain.GrandPrix, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.GrandPrix{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *GrandPrixRepository) FindActive(ctx context.Context, now time.Time) (domain.GrandPrix, error) {
	found, err := r.dao.FindActive(ctx, now)
	if err != nil {
		return domain.GrandPrix{}, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *GrandPrixRepository) FindPrizes(ctx context.Context, grandPrixID uint) ([]domain.GrandPrixPrize, error) {
	prizes, err := r.dao.FindPrizes(ctx, grandPrixID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPrizes -> %w", err)
	}

	result := make([]domain.GrandPrixPrize, len(prizes))
	for i, prize := range prizes {
		result[i] = r.prizeDaoToDomain(prize)
	}

	return result, nil
}

func (r *GrandPrixRepository) Participate(ctx context.Context, grandPrixID, userID uint, cost int, now time.Time) (domain.GrandPrixParticipation, error) {
	participation, err := r.dao.Participate(ctx, grandPrixID, userID, cost, now)
	if err != nil {
		return domain.GrandPrixParticipation{}, fmt.Errorf("r.dao.Participate -> %w", err)
	}

	return r.participationDaoToDomain(participation), nil
}

func (r *GrandPrixRepository) ConductDraw(ctx context.Context, grandPrixID, operatorID uint, seed int64, now time.Time) ([]domain.DrawWinner, domain.GrandPrixDraw, error) {
	winners, draw, err := r.dao.ConductDraw(ctx, grandPrixID, operatorID, seed, now)
	if err != nil {
		return nil, domain.GrandPrixDraw{}, fmt.Errorf("r.dao.ConductDraw -> %w", err)
	}

	domainWinners := make([]domain.DrawWinner, len(winners))
	for i, winner := range winners {
		domainWinners[i] = domain.DrawWinner{
			Position:    winner.Position,
			PrizeName:   winner.PrizeName,
			UserID:      winner.UserID,
			WinnerEmail: winner.WinnerEmail,
		}
	}

	return domainWinners, domain.GrandPrixDraw{
		ID:          draw.ID,
		GrandPrixID: draw.GrandPrixID,
		DrawnBy:     draw.DrawnBy,
		Seed:        draw.Seed,
		WinnerCount: draw.WinnerCount,
		DrawnAt:     draw.DrawnAt,
	}, nil
}

func (r *GrandPrixRepository) FindParticipationsByUser(ctx context.Context, userID uint) ([]domain.GrandPrixParticipation, error) {
	participations, err := r.dao.FindParticipationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipationsByUser -> %w", err)
	}

	return r.participationsDaoToDomain(participations), nil
}

func (r *GrandPrixRepository) FindParticipants(ctx context.Context, grandPrixID uint) ([]domain.GrandPrixParticipation, error) {
	participations, err := r.dao.FindParticipants(ctx, grandPrixID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipants -> %w", err)
	}

	return r.participationsDaoToDomain(participations), nil
}

func (r *GrandPrixRepository) CountParticipationsByUser(ctx context.Context, userID uint) (int64, error) {
	count, err := r.dao.CountParticipationsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountParticipationsByUser -> %w", err)
	}

	return count, nil
}

func (r *GrandPrixRepository) domainToDao(g domain.GrandPrix) dao.GrandPrix {
	return dao.GrandPrix{
		ID:                g.ID,
		Name:              g.Name,
		Description:       g.Description,
		StartDate:         g.StartDate,
		EndDate:           g.EndDate,
		DrawDate:          g.DrawDate,
		ParticipationCost: g.ParticipationCost,
		Status:            string(g.Status),
		CreatedAt:         g.CreatedAt,
	}
}

func (r *GrandPrixRepository) daoToDomain(g dao.GrandPrix) domain.GrandPrix {
	return domain.GrandPrix{
		ID:                g.ID,
		Name:              g.Name,
		Description:       g.Description,
		StartDate:         g.StartDate,
		EndDate:           g.EndDate,
		DrawDate:          g.DrawDate,
		ParticipationCost: g.ParticipationCost,
		Status:            domain.GrandPrixStatus(g.Status),
		CreatedAt:         g.CreatedAt,
	}
}

func (r *GrandPrixRepository) prizeDaoToDomain(p dao.GrandPrixPrize) domain.GrandPrixPrize {
	return domain.GrandPrixPrize{
		ID:          p.ID,
		GrandPrixID: p.GrandPrixID,
		Position:    p.Position,
		Name:        p.Name,
		Description: p.Description,
		Value:       p.Value,
	}
}

func (r *GrandPrixRepository) participationDaoToDomain(p dao.GrandPrixParticipation) domain.GrandPrixParticipation {
	return domain.GrandPrixParticipation{
		ID:             p.ID,
		GrandPrixID:    p.GrandPrixID,
		UserID:         p.UserID,
		PointsSpent:    p.PointsSpent,
		IsWinner:       p.IsWinner,
		PrizeWonID:     p.PrizeWonID,
		ParticipatedAt: p.ParticipatedAt,
	}
}

func (r *GrandPrixRepository) participationsDaoToDomain(participations []dao.GrandPrixParticipation) []domain.GrandPrixParticipation {
	result := make([]domain.GrandPrixParticipation, len(participations))
	for i, participation := range participations {
		result[i] = r.participationDaoToDomain(participation)
	}

	return result
}
