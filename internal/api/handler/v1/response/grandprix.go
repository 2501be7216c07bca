package response

import (
	"time"

	"github.com/aya-loyalty/aya-api/internal/domain"
)

type CampaignResponse struct {
	Campaign domain.GrandPrix        `json:"campaign"`
	Prizes   []domain.GrandPrixPrize `json:"prizes"`
}

type ParticipateResponse struct {
	Message        string    `json:"message"`
	GrandPrixID    uint      `json:"grand_prix_id"`
	PointsSpent    int       `json:"points_spent"`
	ParticipatedAt time.Time `json:"participated_at"`
}

type DrawResponse struct {
	Message     string              `json:"message"`
	GrandPrixID uint                `json:"grand_prix_id"`
	Seed        int64               `json:"seed"`
	DrawnAt     time.Time           `json:"drawn_at"`
	Winners     []domain.DrawWinner `json:"winners"`
}
