package response

import (
	"time"

	"github.com/aya-loyalty/aya-api/internal/domain"
)

type TokenResponse struct {
	Token     string    `json:"token"`
	Points    int       `json:"points"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int       `json:"expires_in_seconds"`
}

type RedeemResponse struct {
	Message    string    `json:"message"`
	Points     int       `json:"points"`
	UserID     uint      `json:"user_id"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

type SweepResponse struct {
	TokensReclaimed int `json:"tokens_reclaimed"`
	UsersCredited   int `json:"users_credited"`
	PointsRestored  int `json:"points_restored"`
}

func NewSweepResponse(report domain.SweepReport) SweepResponse {
	return SweepResponse{
		TokensReclaimed: report.TokensReclaimed,
		UsersCredited:   report.UsersCredited,
		PointsRestored:  report.PointsRestored,
	}
}
