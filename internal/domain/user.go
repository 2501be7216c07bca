package domain

import "time"

const (
	RoleUser     = "user"
	RoleOperator = "operator"
	RoleVendor   = "vendor"
)

type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     string `json:"role"`

	AvailablePoints  int `json:"available_points"`
	ExchangedPoints  int `json:"exchanged_points"`
	CollectedQRCodes int `json:"collected_qr_codes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStats is the aggregate view returned to the profile screen.
type UserStats struct {
	UserID           uint `json:"user_id"`
	AvailablePoints  int  `json:"available_points"`
	ExchangedPoints  int  `json:"exchanged_points"`
	CollectedQRCodes int  `json:"collected_qr_codes"`
	Participations   int  `json:"grand_prix_participations"`
}
