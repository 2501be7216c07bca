package domain

import (
	"fmt"
	"time"
)

// PrizeKind is the closed set of rewards a QR code can carry. Only
// PrizePoints touches the point balance; the other kinds are surfaced
// to the caller for downstream handling (bonus games, mystery boxes).
type PrizeKind string

const (
	PrizePoints       PrizeKind = "points"
	PrizeTryAgain     PrizeKind = "try_again"
	PrizeLoyaltyBonus PrizeKind = "loyalty_bonus"
	PrizeMysteryBox   PrizeKind = "mystery_box"
)

func ParsePrizeKind(s string) (PrizeKind, error) {
	switch kind := PrizeKind(s); kind {
	case PrizePoints, PrizeTryAgain, PrizeLoyaltyBonus, PrizeMysteryBox:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown prize kind %q", s)
	}
}

type QRCode struct {
	ID        uint       `json:"id"`
	Code      string     `json:"code"`
	Points    int        `json:"points"`
	PrizeKind PrizeKind  `json:"prize_type"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	BatchNumber   string `json:"batch_number,omitempty"`
	BatchSequence int    `json:"batch_sequence,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy uint      `json:"created_by,omitempty"`
}

func (q QRCode) IsExpired(now time.Time) bool {
	return q.ExpiresAt != nil && now.After(*q.ExpiresAt)
}

func (q QRCode) IsValid(now time.Time) bool {
	return q.IsActive && !q.IsExpired(now)
}

// UserQRCode records a successful claim. A code can be claimed at most
// once per user, and codes deactivate on first claim, so in practice at
// most one claim ever exists per code.
type UserQRCode struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	QRCodeID     uint      `json:"qr_code_id"`
	Code         string    `json:"code"`
	PointsEarned int       `json:"points_earned"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// ClaimReward describes what a successful claim granted. Points is
// meaningful only for the PrizePoints kind.
type ClaimReward struct {
	Kind   PrizeKind `json:"kind"`
	Points int       `json:"points,omitempty"`
}
