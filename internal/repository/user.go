package repository

import (
	"context"
	"fmt"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository/dao"
)

var (
	ErrUserEmailExists    = dao.ErrUserEmailExists
	ErrUserNotFound       = dao.ErrUserNotFound
	ErrInsufficientPoints = dao.ErrInsufficientPoints
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	CreditPoints(ctx context.Context, userID uint, amount int) error
	DebitPoints(ctx context.Context, userID uint, amount int) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
		Role:     user.Role,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) CreditPoints(ctx context.Context, userID uint, amount int) error {
	if err := r.dao.CreditPoints(ctx, userID, amount); err != nil {
		return fmt.Errorf("r.dao.CreditPoints -> %w", err)
	}

	return nil
}

func (r *UserRepository) DebitPoints(ctx context.Context, userID uint, amount int) error {
	if err := r.dao.DebitPoints(ctx, userID, amount); err != nil {
		return fmt.Errorf("r.dao.DebitPoints -> %w", err)
	}

	return nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:               u.ID,
		Email:            u.Email,
		Password:         u.Password,
		Name:             u.Name,
		Role:             u.Role,
		AvailablePoints:  u.AvailablePoints,
		ExchangedPoints:  u.ExchangedPoints,
		CollectedQRCodes: u.CollectedQRCodes,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
