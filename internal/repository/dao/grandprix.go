package dao

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCampaignNotFound       = errors.New("grand prix not found")
	ErrNoActiveCampaign       = errors.New("no active grand prix")
	ErrAlreadyParticipated    = errors.New("user already participated in this grand prix")
	ErrCampaignNotFinished    = errors.New("grand prix is not finished yet")
	ErrDrawAlreadyConducted   = errors.New("draw already conducted for this grand prix")
	ErrNoEligibleParticipants = errors.New("no eligible participants for the draw")
	ErrNoPrizesDefined        = errors.New("no prizes defined for this grand prix")
)

type GrandPrix struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string

	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	DrawDate  time.Time `gorm:"not null"`

	ParticipationCost int    `gorm:"not null;default:100"`
	Status            string `gorm:"not null;default:upcoming"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	CreatedBy uint
}

func (GrandPrix) TableName() string {
	return "grand_prizes"
}

type GrandPrixPrize struct {
	ID uint `gorm:"primaryKey"`

	GrandPrixID uint `gorm:"not null;uniqueIndex:idx_grand_prix_prize_position"`
	Position    int  `gorm:"not null;uniqueIndex:idx_grand_prix_prize_position"`

	Name        string `gorm:"not null"`
	Description string
	Value       float64
}

func (GrandPrixPrize) TableName() string {
	return "grand_prix_prizes"
}

type GrandPrixParticipation struct {
	ID uint `gorm:"primaryKey"`

	GrandPrixID uint `gorm:"not null;uniqueIndex:idx_grand_prix_participation_user"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_grand_prix_participation_user"`

	PointsSpent int   `gorm:"not null"`
	IsWinner    bool  `gorm:"not null;default:false"`
	PrizeWonID  *uint

	ParticipatedAt time.Time `gorm:"not null"`
}

func (GrandPrixParticipation) TableName() string {
	return "grand_prix_participations"
}

type GrandPrixDraw struct {
	ID uint `gorm:"primaryKey"`

	GrandPrixID uint  `gorm:"not null;uniqueIndex"`
	DrawnBy     uint  `gorm:"not null"`
	Seed        int64 `gorm:"not null"`
	WinnerCount int   `gorm:"not null"`

	DrawnAt time.Time `gorm:"not null"`
}

func (GrandPrixDraw) TableName() string {
	return "grand_prix_draws"
}

// DrawnWinner pairs a prize position with the winning entrant.
type DrawnWinner struct {
	Position    int
	PrizeName   string
	UserID      uint
	WinnerEmail string
}

type GrandPrixDAO struct {
	db *gorm.DB
}

func NewGrandPrixDAO(db *gorm.DB) *GrandPrixDAO {
	return &GrandPrixDAO{
		db: db,
	}
}

func (d *GrandPrixDAO) Insert(ctx context.Context, campaign GrandPrix, prizes []GrandPrixPrize) (GrandPrix, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&campaign).Error; err != nil {
			return err
		}

		for i := range prizes {
			prizes[i].GrandPrixID = campaign.ID
		}
		if len(prizes) == 0 {
			return nil
		}

		return tx.Create(&prizes).Error
	})
	if err != nil {
		return GrandPrix{}, err
	}

	return campaign, nil
}

func (d *GrandPrixDAO) FindByID(ctx context.Context, id uint) (GrandPrix, error) {
	var campaign GrandPrix

	result := d.db.WithContext(ctx).First(&campaign, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return GrandPrix{}, ErrCampaignNotFound
		}

		return GrandPrix{}, result.Error
	}

	return campaign, nil
}

// FindActive returns the campaign open for entries right now. The
// single-active-campaign rule is a soft invariant enforced by this
// filter, not by a database constraint.
func (d *GrandPrixDAO) FindActive(ctx context.Context, now time.Time) (GrandPrix, error) {
	var campaign GrandPrix

	result := d.db.WithContext(ctx).
		Where("status = ? AND start_date <= ? AND end_date >= ?", "active", now, now).
		Order("start_date DESC").
		First(&campaign)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return GrandPrix{}, ErrNoActiveCampaign
		}

		return GrandPrix{}, result.Error
	}

	return campaign, nil
}

func (d *GrandPrixDAO) FindPrizes(ctx context.Context, grandPrixID uint) ([]GrandPrixPrize, error) {
	var prizes []GrandPrixPrize

	result := d.db.WithContext(ctx).
		Where("grand_prix_id = ?", grandPrixID).
		Order("position ASC").
		Find(&prizes)
	if result.Error != nil {
		return nil, result.Error
	}

	return prizes, nil
}

// Participate debits the entry cost and records the participation in
// one transaction. The unique (grand_prix, user) index backs the
// one-entry-per-user invariant against racing requests.
func (d *GrandPrixDAO) Participate(ctx context.Context, grandPrixID, userID uint, cost int, now time.Time) (GrandPrixParticipation, error) {
	participation := GrandPrixParticipation{
		GrandPrixID:    grandPrixID,
		UserID:         userID,
		PointsSpent:    cost,
		ParticipatedAt: now,
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&GrandPrixParticipation{}).
			Where("grand_prix_id = ? AND user_id = ?", grandPrixID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyParticipated
		}

		if err := debitPoints(tx, userID, cost); err != nil {
			return err
		}

		if err := tx.Create(&participation).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrAlreadyParticipated
			}

			return err
		}

		return nil
	})
	if err != nil {
		return GrandPrixParticipation{}, err
	}

	return participation, nil
}

// ConductDraw performs the campaign's single random allocation. The
// no-prior-draw check, the winner updates and the draw record share one
// transaction, and the unique index on grand_prix_id makes a second
// draw impossible even if two operators race.
func (d *GrandPrixDAO) ConductDraw(ctx context.Context, grandPrixID, operatorID uint, seed int64, now time.Time) ([]DrawnWinner, GrandPrixDraw, error) {
	var (
		winners []DrawnWinner
		draw    GrandPrixDraw
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign GrandPrix
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&campaign, grandPrixID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}

			return result.Error
		}

		if campaign.Status != "finished" && now.Before(campaign.EndDate) {
			return ErrCampaignNotFinished
		}

		var draws int64
		if err := tx.Model(&GrandPrixDraw{}).
			Where("grand_prix_id = ?", grandPrixID).
			Count(&draws).Error; err != nil {
			return err
		}
		if draws > 0 {
			return ErrDrawAlreadyConducted
		}

		var pool []GrandPrixParticipation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("grand_prix_id = ? AND is_winner = ?", grandPrixID, false).
			Order("id ASC").
			Find(&pool).Error; err != nil {
			return err
		}
		if len(pool) == 0 {
			return ErrNoEligibleParticipants
		}

		var prizes []GrandPrixPrize
		if err := tx.Where("grand_prix_id = ?", grandPrixID).
			Order("position ASC").
			Find(&prizes).Error; err != nil {
			return err
		}
		if len(prizes) == 0 {
			return ErrNoPrizesDefined
		}

		rng := rand.New(rand.NewSource(seed))

		for _, prize := range prizes {
			if len(pool) == 0 {
				break // pool exhausted, remaining prizes go unawarded
			}

			idx := rng.Intn(len(pool))
			winner := pool[idx]
			pool = append(pool[:idx], pool[idx+1:]...)

			prizeID := prize.ID
			result := tx.Model(&GrandPrixParticipation{}).
				Where("id = ? AND is_winner = ?", winner.ID, false).
				Updates(map[string]interface{}{
					"is_winner":    true,
					"prize_won_id": prizeID,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrDrawAlreadyConducted
			}

			var winnerUser User
			if err := tx.First(&winnerUser, winner.UserID).Error; err != nil {
				return err
			}

			winners = append(winners, DrawnWinner{
				Position:    prize.Position,
				PrizeName:   prize.Name,
				UserID:      winner.UserID,
				WinnerEmail: winnerUser.Email,
			})
		}

		draw = GrandPrixDraw{
			GrandPrixID: grandPrixID,
			DrawnBy:     operatorID,
			Seed:        seed,
			WinnerCount: len(winners),
			DrawnAt:     now,
		}
		if err := tx.Create(&draw).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrDrawAlreadyConducted
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, GrandPrixDraw{}, err
	}

	return winners, draw, nil
}

func (d *GrandPrixDAO) FindParticipationsByUser(ctx context.Context, userID uint) ([]GrandPrixParticipation, error) {
	var participations []GrandPrixParticipation

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("participated_at DESC").
		Find(&participations)
	if result.Error != nil {
		return nil, result.Error
	}

	return participations, nil
}

func (d *GrandPrixDAO) FindParticipants(ctx context.Context, grandPrixID uint) ([]GrandPrixParticipation, error) {
	var participations []GrandPrixParticipation

	result := d.db.WithContext(ctx).
		Where("grand_prix_id = ?", grandPrixID).
		Order("participated_at ASC").
		Find(&participations)
	if result.Error != nil {
		return nil, result.Error
	}

	return participations, nil
}

func (d *GrandPrixDAO) CountParticipationsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&GrandPrixParticipation{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
