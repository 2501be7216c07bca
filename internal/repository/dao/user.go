package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists    = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientPoints = errors.New("insufficient points")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`
	Role     string `gorm:"not null"` // "user", "operator" or "vendor"

	AvailablePoints  int `gorm:"not null;default:0"`
	ExchangedPoints  int `gorm:"not null;default:0"`
	CollectedQRCodes int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_users_email"`) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// CreditPoints increases available_points by amount. It always succeeds
// for an existing user.
func (d *UserDAO) CreditPoints(ctx context.Context, userID uint, amount int) error {
	return creditPoints(d.db.WithContext(ctx), userID, amount)
}

// DebitPoints decreases available_points by amount, failing with
// ErrInsufficientPoints when the balance does not cover it.
func (d *UserDAO) DebitPoints(ctx context.Context, userID uint, amount int) error {
	return debitPoints(d.db.WithContext(ctx), userID, amount)
}

// creditPoints and debitPoints are the single read-modify-write
// primitives for the balance column. Every balance mutation in this
// package goes through them, inside whatever transaction the caller is
// running. The arithmetic happens in SQL, never on a value read into
// the application, so concurrent requests for the same user cannot
// lose updates.
func creditPoints(tx *gorm.DB, userID uint, amount int) error {
	result := tx.Model(&User{}).
		Where("id = ?", userID).
		UpdateColumn("available_points", gorm.Expr("available_points + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func debitPoints(tx *gorm.DB, userID uint, amount int) error {
	result := tx.Model(&User{}).
		Where("id = ? AND available_points >= ?", userID, amount).
		UpdateColumn("available_points", gorm.Expr("available_points - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}

		return ErrInsufficientPoints
	}

	return nil
}

func addExchangedPoints(tx *gorm.DB, userID uint, amount int) error {
	result := tx.Model(&User{}).
		Where("id = ?", userID).
		UpdateColumn("exchanged_points", gorm.Expr("exchanged_points + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func incrementCollectedCodes(tx *gorm.DB, userID uint) error {
	result := tx.Model(&User{}).
		Where("id = ?", userID).
		UpdateColumn("collected_qr_codes", gorm.Expr("collected_qr_codes + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
