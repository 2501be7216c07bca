package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errEndBeforeStart = errors.New("end_date must be after start_date")

type CampaignPrize struct {
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

type CreateCampaignRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	DrawDate          time.Time       `json:"draw_date"`
	ParticipationCost int             `json:"participation_cost"`
	Status            string          `json:"status"`
	Prizes            []CampaignPrize `json:"prizes"`
}

func (req *CreateCampaignRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
		validation.Field(&req.ParticipationCost, validation.Required, validation.Min(1)),
		validation.Field(&req.Status, validation.In("upcoming", "active", "finished", "cancelled")),
		validation.Field(&req.Prizes, validation.Required, validation.Length(1, 100)),
	)
	if err != nil {
		return err
	}

	if !req.EndDate.After(req.StartDate) {
		return errEndBeforeStart
	}

	for _, prize := range req.Prizes {
		err := validation.ValidateStruct(
			&prize,
			validation.Field(&prize.Position, validation.Required, validation.Min(1)),
			validation.Field(&prize.Name, validation.Required, validation.Length(1, 128)),
		)
		if err != nil {
			return err
		}
	}

	return nil
}
