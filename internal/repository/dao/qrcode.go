package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCodeNotFound       = errors.New("qr code not found")
	ErrCodeExists         = errors.New("qr code already exists")
	ErrCodeAlreadyClaimed = errors.New("qr code already claimed")
	ErrCodeInvalid        = errors.New("qr code inactive or expired")
)

type QRCode struct {
	ID uint `gorm:"primaryKey"`

	Code      string `gorm:"unique;not null"`
	Points    int    `gorm:"not null"`
	PrizeType string `gorm:"not null;default:points"`
	IsActive  bool   `gorm:"not null;default:true"`
	ExpiresAt *time.Time

	BatchNumber   string
	BatchSequence int

	CreatedAt time.Time `gorm:"not null"`
	CreatedBy uint
}

type UserQRCode struct {
	ID uint `gorm:"primaryKey"`

	UserID   uint `gorm:"not null;uniqueIndex:idx_user_qr_codes_user_code"`
	QRCodeID uint `gorm:"not null;uniqueIndex:idx_user_qr_codes_user_code"`

	QRCode QRCode `gorm:"foreignKey:QRCodeID"`

	PointsEarned int       `gorm:"not null"`
	ScannedAt    time.Time `gorm:"not null"`
}

func (UserQRCode) TableName() string {
	return "user_qr_codes"
}

type QRCodeDAO struct {
	db *gorm.DB
}

func NewQRCodeDAO(db *gorm.DB) *QRCodeDAO {
	return &QRCodeDAO{
		db: db,
	}
}

func (d *QRCodeDAO) Insert(ctx context.Context, code QRCode) (QRCode, error) {
	result := d.db.WithContext(ctx).Create(&code)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return QRCode{}, ErrCodeExists
		}

		return QRCode{}, result.Error
	}

	return code, nil
}

func (d *QRCodeDAO) InsertBatch(ctx context.Context, codes []QRCode) ([]QRCode, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&codes).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrCodeExists
		}

		return nil, err
	}

	return codes, nil
}

func (d *QRCodeDAO) FindByCode(ctx context.Context, code string) (QRCode, error) {
	var qrCode QRCode

	result := d.db.WithContext(ctx).First(&qrCode, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return QRCode{}, ErrCodeNotFound
		}

		return QRCode{}, result.Error
	}

	return qrCode, nil
}

// Claim consumes a code for a user. The claim record, the deactivation
// and the balance credit commit together, so a retried request can
// never double-credit. The already-claimed check runs before the
// validity check: a used code always reports as used even when it has
// also expired.
func (d *QRCodeDAO) Claim(ctx context.Context, userID uint, code string, now time.Time) (UserQRCode, error) {
	var claim UserQRCode

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var qrCode QRCode
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&qrCode, "code = ?", code)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}

			return result.Error
		}

		var claimed int64
		if err := tx.Model(&UserQRCode{}).
			Where("qr_code_id = ?", qrCode.ID).
			Count(&claimed).Error; err != nil {
			return err
		}
		if claimed > 0 {
			return ErrCodeAlreadyClaimed
		}

		if !qrCode.IsActive || (qrCode.ExpiresAt != nil && now.After(*qrCode.ExpiresAt)) {
			return ErrCodeInvalid
		}

		pointsEarned := 0
		if qrCode.PrizeType == "points" {
			pointsEarned = qrCode.Points
		}

		claim = UserQRCode{
			UserID:       userID,
			QRCodeID:     qrCode.ID,
			PointsEarned: pointsEarned,
			ScannedAt:    now,
		}
		if err := tx.Create(&claim).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrCodeAlreadyClaimed
			}

			return err
		}

		// Deactivation is conditional so a racing claim that slipped
		// past the count above still resolves to exactly one winner.
		result = tx.Model(&QRCode{}).
			Where("id = ? AND is_active = ?", qrCode.ID, true).
			UpdateColumn("is_active", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCodeAlreadyClaimed
		}

		if qrCode.PrizeType == "points" {
			if err := creditPoints(tx, userID, qrCode.Points); err != nil {
				return err
			}
			if err := incrementCollectedCodes(tx, userID); err != nil {
				return err
			}
		}

		claim.QRCode = qrCode

		return nil
	})
	if err != nil {
		return UserQRCode{}, err
	}

	return claim, nil
}

func (d *QRCodeDAO) FindClaimsByUser(ctx context.Context, userID uint) ([]UserQRCode, error) {
	var claims []UserQRCode

	result := d.db.WithContext(ctx).
		Preload("QRCode").
		Where("user_id = ?", userID).
		Order("scanned_at DESC").
		Find(&claims)
	if result.Error != nil {
		return nil, result.Error
	}

	return claims, nil
}
