package response

import "github.com/aya-loyalty/aya-api/internal/domain"

type ClaimResponse struct {
	Message      string           `json:"message"`
	Reward       domain.PrizeKind `json:"reward"`
	PointsEarned int              `json:"points_earned"`
	Code         string           `json:"code"`
}

type BatchCreateResponse struct {
	Message     string          `json:"message"`
	BatchNumber string          `json:"batch_number"`
	Count       int             `json:"count"`
	Codes       []domain.QRCode `json:"codes"`
}
