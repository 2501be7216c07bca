package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository/dao"
)

var (
	ErrCodeNotFound       = dao.ErrCodeNotFound
	ErrCodeExists         = dao.ErrCodeExists
	ErrCodeAlreadyClaimed = dao.ErrCodeAlreadyClaimed
	ErrCodeInvalid        = dao.ErrCodeInvalid
)

type QRCodeDAO interface {
	Insert(ctx context.Context, code dao.QRCode) (dao.QRCode, error)
	InsertBatch(ctx context.Context, codes []dao.QRCode) ([]dao.QRCode, error)
	FindByCode(ctx context.Context, code string) (dao.QRCode, error)
	Claim(ctx context.Context, userID uint, code string, now time.Time) (dao.UserQRCode, error)
	FindClaimsByUser(ctx context.Context, userID uint) ([]dao.UserQRCode, error)
}

type QRCodeRepository struct {
	dao QRCodeDAO
}

func NewQRCodeRepository(dao QRCodeDAO) *QRCodeRepository {
	return &QRCodeRepository{
		dao: dao,
	}
}

func (r *QRCodeRepository) Create(ctx context.Context, code domain.QRCode) (domain.QRCode, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(code))
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *QRCodeRepository) CreateBatch(ctx context.Context, codes []domain.QRCode) ([]domain.QRCode, error) {
	daoCodes := make([]dao.QRCode, len(codes))
	for i, code := range codes {
		daoCodes[i] = r.domainToDao(code)
	}

	created, err := r.dao.InsertBatch(ctx, daoCodes)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	result := make([]domain.QRCode, len(created))
	for i, code := range created {
		result[i] = r.daoToDomain(code)
	}

	return result, nil
}

func (r *QRCodeRepository) FindByCode(ctx context.Context, code string) (domain.QRCode, error) {
	found, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *QRCodeRepository) Claim(ctx context.Context, userID uint, code string, now time.Time) (domain.UserQRCode, domain.QRCode, error) {
	claim, err := r.dao.Claim(ctx, userID, code, now)
	if err != nil {
		return domain.UserQRCode{}, domain.QRCode{}, fmt.Errorf("r.dao.Claim -> %w", err)
	}

	return r.claimDaoToDomain(claim), r.daoToDomain(claim.QRCode), nil
}

func (r *QRCodeRepository) FindClaimsByUser(ctx context.Context, userID uint) ([]domain.UserQRCode, error) {
	claims, err := r.dao.FindClaimsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindClaimsByUser -> %w", err)
	}

	result := make([]domain.UserQRCode, len(claims))
	for i, claim := range claims {
		result[i] = r.claimDaoToDomain(claim)
	}

	return result, nil
}

func (r *QRCodeRepository) domainToDao(q domain.QRCode) dao.QRCode {
	return dao.QRCode{
		ID:            q.ID,
		Code:          q.Code,
		Points:        q.Points,
		PrizeType:     string(q.PrizeKind),
		IsActive:      q.IsActive,
		ExpiresAt:     q.ExpiresAt,
		BatchNumber:   q.BatchNumber,
		BatchSequence: q.BatchSequence,
		CreatedAt:     q.CreatedAt,
		CreatedBy:     q.CreatedBy,
	}
}

func (r *QRCodeRepository) daoToDomain(q dao.QRCode) domain.QRCode {
	return domain.QRCode{
		ID:            q.ID,
		Code:          q.Code,
		Points:        q.Points,
		PrizeKind:     domain.PrizeKind(q.PrizeType),
		IsActive:      q.IsActive,
		ExpiresAt:     q.ExpiresAt,
		BatchNumber:   q.BatchNumber,
		BatchSequence: q.BatchSequence,
		CreatedAt:     q.CreatedAt,
		CreatedBy:     q.CreatedBy,
	}
}

func (r *QRCodeRepository) claimDaoToDomain(c dao.UserQRCode) domain.UserQRCode {
	return domain.UserQRCode{
		ID:           c.ID,
		UserID:       c.UserID,
		QRCodeID:     c.QRCodeID,
		Code:         c.QRCode.Code,
		PointsEarned: c.PointsEarned,
		ScannedAt:    c.ScannedAt,
	}
}
