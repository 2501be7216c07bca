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
	ErrTokenNotFound    = errors.New("exchange token not found")
	ErrTokenExists      = errors.New("exchange token already exists")
	ErrTokenExpired     = errors.New("exchange token expired")
	ErrTokenAlreadyUsed = errors.New("exchange token already used")
)

// ExchangeToken holds points in escrow: the owner's balance was debited
// when the row was created. Exactly one of is_used / points_restored
// ever becomes true.
type ExchangeToken struct {
	ID uint `gorm:"primaryKey"`

	UserID uint   `gorm:"not null;index"`
	Points int    `gorm:"not null"`
	Token  string `gorm:"unique;not null"`

	ExpiresAt      time.Time `gorm:"not null"`
	IsUsed         bool      `gorm:"not null;default:false"`
	UsedAt         *time.Time
	PointsRestored bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type Redemption struct {
	ID uint `gorm:"primaryKey"`

	TokenID    uint `gorm:"not null;uniqueIndex"`
	UserID     uint `gorm:"not null;index"`
	RedeemerID uint `gorm:"not null"`
	Points     int  `gorm:"not null"`

	RedeemedAt time.Time `gorm:"not null"`
}

// SweepResult reports what one reclaim pass restored.
type SweepResult struct {
	TokensReclaimed int
	UsersCredited   int
	PointsRestored  int
}

type ExchangeTokenDAO struct {
	db *gorm.DB
}

func NewExchangeTokenDAO(db *gorm.DB) *ExchangeTokenDAO {
	return &ExchangeTokenDAO{
		db: db,
	}
}

// InsertEscrowed debits the owner's balance and inserts the token in
// one transaction. Either both happen or neither does.
func (d *ExchangeTokenDAO) InsertEscrowed(ctx context.Context, token ExchangeToken) (ExchangeToken, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debitPoints(tx, token.UserID, token.Points); err != nil {
			return err
		}

		if err := tx.Create(&token).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrTokenExists
			}

			return err
		}

		return nil
	})
	if err != nil {
		return ExchangeToken{}, err
	}

	return token, nil
}

func (d *ExchangeTokenDAO) FindByToken(ctx context.Context, token string) (ExchangeToken, error) {
	var found ExchangeToken

	result := d.db.WithContext(ctx).First(&found, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ExchangeToken{}, ErrTokenNotFound
		}

		return ExchangeToken{}, result.Error
	}

	return found, nil
}

// Redeem transitions a pending token to used. The transition is a
// conditional update, so a redemption racing the expiry sweep resolves
// to exactly one terminal state. When the token turns out to be past
// its expiry, the escrow is reclaimed in place and ErrTokenExpired is
// returned.
func (d *ExchangeTokenDAO) Redeem(ctx context.Context, tokenStr string, redeemerID uint, now time.Time) (Redemption, error) {
	var redemption Redemption

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token ExchangeToken
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&token, "token = ?", tokenStr)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrTokenNotFound
			}

			return result.Error
		}

		if token.IsUsed {
			return ErrTokenAlreadyUsed
		}
		if token.PointsRestored {
			return ErrTokenExpired
		}

		if now.After(token.ExpiresAt) {
			// Expiry race: the sweeper has not caught this token yet.
			// Reclaim the escrow here rather than leaving it in limbo.
			if err := reclaimTokens(tx, []ExchangeToken{token}); err != nil {
				return err
			}

			return ErrTokenExpired
		}

		result = tx.Model(&ExchangeToken{}).
			Where("id = ? AND is_used = ? AND points_restored = ?", token.ID, false, false).
			Updates(map[string]interface{}{
				"is_used": true,
				"used_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTokenAlreadyUsed
		}

		if err := addExchangedPoints(tx, token.UserID, token.Points); err != nil {
			return err
		}

		redemption = Redemption{
			TokenID:    token.ID,
			UserID:     token.UserID,
			RedeemerID: redeemerID,
			Points:     token.Points,
			RedeemedAt: now,
		}

		return tx.Create(&redemption).Error
	})
	if err != nil {
		return Redemption{}, err
	}

	return redemption, nil
}

// SweepExpired restores escrowed points for every expired, unredeemed,
// not-yet-reclaimed token. Safe to run repeatedly and concurrently with
// itself: rows are locked while processed and the reclaim flag is set
// under the same guard it is read with, so an already-reclaimed token
// is a no-op.
func (d *ExchangeTokenDAO) SweepExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expired []ExchangeToken
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_used = ? AND points_restored = ? AND expires_at < ?", false, false, now).
			Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		if err := reclaimTokens(tx, expired); err != nil {
			return err
		}

		users := make(map[uint]struct{}, len(expired))
		for _, token := range expired {
			users[token.UserID] = struct{}{}
			result.PointsRestored += token.Points
		}
		result.TokensReclaimed = len(expired)
		result.UsersCredited = len(users)

		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	return result, nil
}

// reclaimTokens credits each owner the sum of their escrowed points and
// flags the tokens as restored. The flag update is guarded on
// points_restored = FALSE; rows are kept for audit, never deleted.
func reclaimTokens(tx *gorm.DB, tokens []ExchangeToken) error {
	perUser := make(map[uint]int)
	ids := make([]uint, 0, len(tokens))
	for _, token := range tokens {
		perUser[token.UserID] += token.Points
		ids = append(ids, token.ID)
	}

	for userID, points := range perUser {
		if err := creditPoints(tx, userID, points); err != nil {
			return err
		}
	}

	result := tx.Model(&ExchangeToken{}).
		Where("id IN ? AND points_restored = ?", ids, false).
		UpdateColumn("points_restored", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(ids)) {
		// A row flipped under us despite the locks. Abort so the
		// credit above rolls back rather than double-restoring.
		return ErrTokenAlreadyUsed
	}

	return nil
}

func (d *ExchangeTokenDAO) FindByUser(ctx context.Context, userID uint) ([]ExchangeToken, error) {
	var tokens []ExchangeToken

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokens)
	if result.Error != nil {
		return nil, result.Error
	}

	return tokens, nil
}

func (d *ExchangeTokenDAO) FindRedemptionsByUser(ctx context.Context, userID uint) ([]Redemption, error) {
	var redemptions []Redemption

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Find(&redemptions)
	if result.Error != nil {
		return nil, result.Error
	}

	return redemptions, nil
}
