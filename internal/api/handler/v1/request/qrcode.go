package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type ClaimCodeRequest struct {
	Code string `json:"code"`
}

func (req *ClaimCodeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 128)),
	)
}

type CreateCodeRequest struct {
	Code      string     `json:"code"`
	Points    int        `json:"points"`
	PrizeType string     `json:"prize_type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (req *CreateCodeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 128)),
		validation.Field(&req.Points, validation.Min(0)),
		validation.Field(&req.PrizeType, validation.Required, validation.In("points", "try_again", "loyalty_bonus", "mystery_box")),
	)
}

type CreateBatchRequest struct {
	BatchNumber string     `json:"batch_number"`
	Count       int        `json:"count"`
	Points      int        `json:"points"`
	PrizeType   string     `json:"prize_type"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (req *CreateBatchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BatchNumber, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Count, validation.Required, validation.Min(1), validation.Max(10000)),
		validation.Field(&req.Points, validation.Min(0)),
		validation.Field(&req.PrizeType, validation.Required, validation.In("points", "try_again", "loyalty_bonus", "mystery_box")),
	)
}
