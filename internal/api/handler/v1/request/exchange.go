package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateTokenRequest struct {
	Points int `json:"points"`
}

func (req *CreateTokenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Points, validation.Required, validation.Min(1)),
	)
}

type RedeemTokenRequest struct {
	Token string `json:"token"`
}

func (req *RedeemTokenRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required, validation.Length(16, 16)),
	)
}
