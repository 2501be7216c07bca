package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

var (
	ErrCodeNotFound       = repository.ErrCodeNotFound
	ErrCodeExists         = repository.ErrCodeExists
	ErrCodeAlreadyClaimed = repository.ErrCodeAlreadyClaimed
	ErrCodeInvalid        = repository.ErrCodeInvalid
)

type QRCodeRepository interface {
	Create(ctx context.Context, code domain.QRCode) (domain.QRCode, error)
	CreateBatch(ctx context.Context, codes []domain.QRCode) ([]domain.QRCode, error)
	Claim(ctx context.Context, userID uint, code string, now time.Time) (domain.UserQRCode, domain.QRCode, error)
	FindClaimsByUser(ctx context.Context, userID uint) ([]domain.UserQRCode, error)
}

type QRCodeService struct {
	repo QRCodeRepository
}

func NewQRCodeService(repo QRCodeRepository) *QRCodeService {
	return &QRCodeService{
		repo: repo,
	}
}

// Claim consumes the code for the user and reports what it granted.
// Only the points kind moves the balance; the other kinds are handed
// back to the caller as a typed reward descriptor.
func (s *QRCodeService) Claim(ctx context.Context, userID uint, code string) (domain.UserQRCode, domain.ClaimReward, error) {
	claim, qrCode, err := s.repo.Claim(ctx, userID, code, time.Now())
	if err != nil {
		return domain.UserQRCode{}, domain.ClaimReward{}, fmt.Errorf("s.repo.Claim -> %w", err)
	}

	var reward domain.ClaimReward
	switch qrCode.PrizeKind {
	case domain.PrizePoints:
		reward = domain.ClaimReward{Kind: domain.PrizePoints, Points: qrCode.Points}
	case domain.PrizeTryAgain, domain.PrizeLoyaltyBonus, domain.PrizeMysteryBox:
		reward = domain.ClaimReward{Kind: qrCode.PrizeKind}
	default:
		return domain.UserQRCode{}, domain.ClaimReward{}, fmt.Errorf("unknown prize kind %q", qrCode.PrizeKind)
	}

	return claim, reward, nil
}

func (s *QRCodeService) CreateCode(ctx context.Context, code domain.QRCode) (domain.QRCode, error) {
	if _, err := domain.ParsePrizeKind(string(code.PrizeKind)); err != nil {
		return domain.QRCode{}, err
	}

	code.IsActive = true

	created, err := s.repo.Create(ctx, code)
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// CreateBatch creates count codes sharing a batch number, numbered
// sequentially from 1.
func (s *QRCodeService) CreateBatch(ctx context.Context, template domain.QRCode, batchNumber string, count int) ([]domain.QRCode, error) {
	if _, err := domain.ParsePrizeKind(string(template.PrizeKind)); err != nil {
		return nil, err
	}

	codes := make([]domain.QRCode, count)
	for i := range codes {
		codes[i] = template
		codes[i].Code = fmt.Sprintf("%s-%04d", batchNumber, i+1)
		codes[i].IsActive = true
		codes[i].BatchNumber = batchNumber
		codes[i].BatchSequence = i + 1
	}

	created, err := s.repo.CreateBatch(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CreateBatch -> %w", err)
	}

	return created, nil
}

func (s *QRCodeService) GetScans(ctx context.Context, userID uint) ([]domain.UserQRCode, error) {
	claims, err := s.repo.FindClaimsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindClaimsByUser -> %w", err)
	}

	return claims, nil
}
