package service

import (
	"context"
	"fmt"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

var (
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrInsufficientPoints = repository.ErrInsufficientPoints
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type ParticipationCounter interface {
	CountParticipationsByUser(ctx context.Context, userID uint) (int64, error)
}

type UserService struct {
	repo           UserRepository
	participations ParticipationCounter
}

func NewUserService(repo UserRepository, participations ParticipationCounter) *UserService {
	return &UserService{
		repo:           repo,
		participations: participations,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetStats(ctx context.Context, userID uint) (domain.UserStats, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	count, err := s.participations.CountParticipationsByUser(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("s.participations.CountParticipationsByUser -> %w", err)
	}

	return domain.UserStats{
		UserID:           user.ID,
		AvailablePoints:  user.AvailablePoints,
		ExchangedPoints:  user.ExchangedPoints,
		CollectedQRCodes: user.CollectedQRCodes,
		Participations:   int(count),
	}, nil
}
