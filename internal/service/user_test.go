package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

type fakeUserRepository struct {
	user domain.User
	err  error
}

func (f *fakeUserRepository) FindByID(_ context.Context, _ uint) (domain.User, error) {
	return f.user, f.err
}

type fakeParticipationCounter struct {
	count int64
}

func (f *fakeParticipationCounter) CountParticipationsByUser(_ context.Context, _ uint) (int64, error) {
	return f.count, nil
}

func TestUserService_GetStats(t *testing.T) {
	repo := &fakeUserRepository{
		user: domain.User{
			ID:               7,
			AvailablePoints:  350,
			ExchangedPoints:  120,
			CollectedQRCodes: 9,
		},
	}
	svc := NewUserService(repo, &fakeParticipationCounter{count: 2})

	stats, err := svc.GetStats(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, uint(7), stats.UserID)
	assert.Equal(t, 350, stats.AvailablePoints)
	assert.Equal(t, 120, stats.ExchangedPoints)
	assert.Equal(t, 9, stats.CollectedQRCodes)
	assert.Equal(t, 2, stats.Participations)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	repo := &fakeUserRepository{err: repository.ErrUserNotFound}
	svc := NewUserService(repo, &fakeParticipationCounter{})

	_, err := svc.GetUser(context.Background(), 7)

	assert.ErrorIs(t, err, ErrUserNotFound)
}
