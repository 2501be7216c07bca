package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

var (
	ErrTokenNotFound    = repository.ErrTokenNotFound
	ErrTokenExpired     = repository.ErrTokenExpired
	ErrTokenAlreadyUsed = repository.ErrTokenAlreadyUsed
)

const (
	tokenLength   = 16
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type ExchangeTokenRepository interface {
	CreateEscrowed(ctx context.Context, token domain.ExchangeToken) (domain.ExchangeToken, error)
	Redeem(ctx context.Context, token string, redeemerID uint, now time.Time) (domain.Redemption, error)
	SweepExpired(ctx context.Context, now time.Time) (domain.SweepReport, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.ExchangeToken, error)
	FindRedemptionsByUser(ctx context.Context, userID uint) ([]domain.Redemption, error)
}

type ExchangeService struct {
	repo ExchangeTokenRepository
}

func NewExchangeService(repo ExchangeTokenRepository) *ExchangeService {
	return &ExchangeService{
		repo: repo,
	}
}

// CreateToken escrows points into a fresh redemption token. Escrow
// locked in expired tokens is returned by the reclaimer, not here; a
// creation racing the sweep simply sees the pre-sweep balance.
func (s *ExchangeService) CreateToken(ctx context.Context, userID uint, points int) (domain.ExchangeToken, error) {
	now := time.Now()

	token := domain.ExchangeToken{
		UserID:    userID,
		Points:    points,
		ExpiresAt: now.Add(domain.TokenValidity),
	}

	// One retry on a token-string collision; with 36^16 possibilities a
	// second collision means something is broken.
	for attempt := 0; attempt < 2; attempt++ {
		tokenStr, err := generateTokenString()
		if err != nil {
			return domain.ExchangeToken{}, fmt.Errorf("generateTokenString -> %w", err)
		}
		token.Token = tokenStr

		created, err := s.repo.CreateEscrowed(ctx, token)
		if err != nil {
			if errors.Is(err, repository.ErrTokenExists) {
				zap.L().Warn("exchange token collision, retrying", zap.Uint("user_id", userID))
				continue
			}

			return domain.ExchangeToken{}, fmt.Errorf("s.repo.CreateEscrowed -> %w", err)
		}

		return created, nil
	}

	return domain.ExchangeToken{}, repository.ErrTokenExists
}

// RedeemToken completes a pending token at a vendor terminal. The
// escrow was debited at creation, so only the bookkeeping counter moves
// here.
func (s *ExchangeService) RedeemToken(ctx context.Context, token string, redeemerID uint) (domain.Redemption, error) {
	redemption, err := s.repo.Redeem(ctx, token, redeemerID, time.Now())
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("s.repo.Redeem -> %w", err)
	}

	return redemption, nil
}

// SweepExpiredTokens returns escrowed points for every expired,
// unredeemed token. Idempotent: a second run over the same tokens
// restores nothing.
func (s *ExchangeService) SweepExpiredTokens(ctx context.Context) (domain.SweepReport, error) {
	report, err := s.repo.SweepExpired(ctx, time.Now())
	if err != nil {
		return domain.SweepReport{}, fmt.Errorf("s.repo.SweepExpired -> %w", err)
	}

	if report.TokensReclaimed > 0 {
		zap.L().Info("reclaimed expired exchange tokens",
			zap.Int("tokens", report.TokensReclaimed),
			zap.Int("users", report.UsersCredited),
			zap.Int("points", report.PointsRestored),
		)
	}

	return report, nil
}

func (s *ExchangeService) GetTokens(ctx context.Context, userID uint) ([]domain.ExchangeToken, error) {
	tokens, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return tokens, nil
}

func (s *ExchangeService) GetRedemptions(ctx context.Context, userID uint) ([]domain.Redemption, error) {
	redemptions, err := s.repo.FindRedemptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRedemptionsByUser -> %w", err)
	}

	return redemptions, nil
}

func generateTokenString() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}

	return string(buf), nil
}
