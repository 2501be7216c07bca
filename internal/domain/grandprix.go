package domain

import "time"

type GrandPrixStatus string

const (
	GrandPrixUpcoming  GrandPrixStatus = "upcoming"
	GrandPrixActive    GrandPrixStatus = "active"
	GrandPrixFinished  GrandPrixStatus = "finished"
	GrandPrixCancelled GrandPrixStatus = "cancelled"
)

type GrandPrix struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	DrawDate          time.Time       `json:"draw_date"`
	ParticipationCost int             `json:"participation_cost"`
	Status            GrandPrixStatus `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (g GrandPrix) IsActive(now time.Time) bool {
	return g.Status == GrandPrixActive && !now.Before(g.StartDate) && !now.After(g.EndDate)
}

func (g GrandPrix) IsFinished(now time.Time) bool {
	return g.Status == GrandPrixFinished || now.After(g.EndDate)
}

// GrandPrixPrize is one position on a campaign's prize list.
// Position 1 is the top prize.
type GrandPrixPrize struct {
	ID          uint    `json:"id"`
	GrandPrixID uint    `json:"grand_prix_id"`
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value,omitempty"`
}

type GrandPrixParticipation struct {
	ID          uint  `json:"id"`
	GrandPrixID uint  `json:"grand_prix_id"`
	UserID      uint  `json:"user_id"`
	PointsSpent int   `json:"points_spent"`
	IsWinner    bool  `json:"is_winner"`
	PrizeWonID  *uint `json:"prize_won_id,omitempty"`

	ParticipatedAt time.Time `json:"participated_at"`
}

// GrandPrixDraw is the immutable record of a campaign's single draw.
// The seed makes the winner selection reproducible for audit.
type GrandPrixDraw struct {
	ID          uint      `json:"id"`
	GrandPrixID uint      `json:"grand_prix_id"`
	DrawnBy     uint      `json:"drawn_by"`
	Seed        int64     `json:"seed"`
	WinnerCount int       `json:"winner_count"`
	DrawnAt     time.Time `json:"drawn_at"`
}

// DrawWinner pairs a prize with the participation that won it.
type DrawWinner struct {
	Position    int    `json:"position"`
	PrizeName   string `json:"prize_name"`
	UserID      uint   `json:"user_id"`
	WinnerEmail string `json:"winner_email,omitempty"`
}
