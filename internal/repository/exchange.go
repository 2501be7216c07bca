package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository/dao"
)

var (
	ErrTokenNotFound    = dao.ErrTokenNotFound
	ErrTokenExists      = dao.ErrTokenExists
	ErrTokenExpired     = dao.ErrTokenExpired
	ErrTokenAlreadyUsed = dao.ErrTokenAlreadyUsed
)

type ExchangeTokenDAO interface {
	InsertEscrowed(ctx context.Context, token dao.ExchangeToken) (dao.ExchangeToken, error)
	FindByToken(ctx context.Context, token string) (dao.ExchangeToken, error)
	Redeem(ctx context.Context, token string, redeemerID uint, now time.Time) (dao.Redemption, error)
	SweepExpired(ctx context.Context, now time.Time) (dao.SweepResult, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.ExchangeToken, error)
	FindRedemptionsByUser(ctx context.Context, userID uint) ([]dao.Redemption, error)
}

type ExchangeTokenRepository struct {
	dao ExchangeTokenDAO
}

func NewExchangeTokenRepository(dao ExchangeTokenDAO) *ExchangeTokenRepository {
	return &ExchangeTokenRepository{
		dao: dao,
	}
}

// CreateEscrowed debits the owner and stores the token atomically.
func (r *ExchangeTokenRepository) CreateEscrowed(ctx context.Context, token domain.ExchangeToken) (domain.ExchangeToken, error) {
	created, err := r.dao.InsertEscrowed(ctx, r.domainToDao(token))
	if err != nil {
		return domain.ExchangeToken{}, fmt.Errorf("r.dao.InsertEscrowed -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ExchangeTokenRepository) FindByToken(ctx context.Context, token string) (domain.ExchangeToken, error) {
	found, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return domain.ExchangeToken{}, fmt.Errorf("r.dao.FindByToken -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ExchangeTokenRepository) Redeem(ctx context.Context, token string, redeemerID uint, now time.Time) (domain.Redemption, error) {
	redemption, err := r.dao.Redeem(ctx, token, redeemerID, now)
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("r.dao.Redeem -> %w", err)
	}

	return r.redemptionDaoToDomain(redemption), nil
}

func (r *ExchangeTokenRepository) SweepExpired(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	result, err := r.dao.SweepExpired(ctx, now)
	if err != nil {
		return domain.SweepReport{}, fmt.Errorf("r.dao.SweepExpired -> %w", err)
	}

	return r.sweepDaoToDomain(result), nil
}

func (r *ExchangeTokenRepository) FindByUser(ctx context.Context, userID uint) ([]domain.ExchangeToken, error) {
	tokens, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	result := make([]domain.ExchangeToken, len(tokens))
	for i, token := range tokens {
		result[i] = r.daoToDomain(token)
	}

	return result, nil
}

func (r *ExchangeTokenRepository) FindRedemptionsByUser(ctx context.Context, userID uint) ([]domain.Redemption, error) {
	redemptions, err := r.dao.FindRedemptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRedemptionsByUser -> %w", err)
	}

	result := make([]domain.Redemption, len(redemptions))
	for i, redemption := range redemptions {
		result[i] = r.redemptionDaoToDomain(redemption)
	}

	return result, nil
}

func (r *ExchangeTokenRepository) domainToDao(t domain.ExchangeToken) dao.ExchangeToken {
	return dao.ExchangeToken{
		ID:             t.ID,
		UserID:         t.UserID,
		Points:         t.Points,
		Token:          t.Token,
		ExpiresAt:      t.ExpiresAt,
		IsUsed:         t.IsUsed,
		UsedAt:         t.UsedAt,
		PointsRestored: t.PointsRestored,
		CreatedAt:      t.CreatedAt,
	}
}

func (r *ExchangeTokenRepository) daoToDomain(t dao.ExchangeToken) domain.ExchangeToken {
	return domain.ExchangeToken{
		ID:             t.ID,
		UserID:         t.UserID,
		Points:         t.Points,
		Token:          t.Token,
		ExpiresAt:      t.ExpiresAt,
		IsUsed:         t.IsUsed,
		UsedAt:         t.UsedAt,
		PointsRestored: t.PointsRestored,
		CreatedAt:      t.CreatedAt,
	}
}

func (r *ExchangeTokenRepository) redemptionDaoToDomain(rd dao.Redemption) domain.Redemption {
	return domain.Redemption{
		ID:         rd.ID,
		TokenID:    rd.TokenID,
		UserID:     rd.UserID,
		RedeemerID: rd.RedeemerID,
		Points:     rd.Points,
		RedeemedAt: rd.RedeemedAt,
	}
}

func (r *ExchangeTokenRepository) sweepDaoToDomain(s dao.SweepResult) domain.SweepReport {
	return domain.SweepReport{
		TokensReclaimed: s.TokensReclaimed,
		UsersCredited:   s.UsersCredited,
		PointsRestored:  s.PointsRestored,
	}
}
