package domain

import "time"

// TokenValidity is the escrow window: points debited at creation are
// returned by the sweeper if the token is not redeemed within it.
const TokenValidity = 3 * time.Minute

// ExchangeToken escrows points for a short-lived vendor redemption.
// Lifecycle: pending, then exactly one of used or reclaimed.
type ExchangeToken struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Points int    `json:"points"`
	Token  string `json:"token"`

	ExpiresAt      time.Time  `json:"expires_at"`
	IsUsed         bool       `json:"is_used"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
	PointsRestored bool       `json:"points_restored"`

	CreatedAt time.Time `json:"created_at"`
}

func (t ExchangeToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t ExchangeToken) IsPending(now time.Time) bool {
	return !t.IsUsed && !t.PointsRestored && !t.IsExpired(now)
}

// Redemption is the receipt written when a vendor terminal completes an
// exchange token. The escrowed points were debited at token creation,
// so the receipt only moves the bookkeeping counter.
type Redemption struct {
	ID         uint      `json:"id"`
	TokenID    uint      `json:"token_id"`
	UserID     uint      `json:"user_id"`
	RedeemerID uint      `json:"redeemer_id"`
	Points     int       `json:"points"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// SweepReport summarizes one run of the expiry reclaimer.
type SweepReport struct {
	TokensReclaimed int `json:"tokens_reclaimed"`
	UsersCredited   int `json:"users_credited"`
	PointsRestored  int `json:"points_restored"`
}
