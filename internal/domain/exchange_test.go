package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExchangeTokenIsPending(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token ExchangeToken
		want  bool
	}{
		{
			name:  "fresh token",
			token: ExchangeToken{ExpiresAt: now.Add(TokenValidity)},
			want:  true,
		},
		{
			name:  "used token",
			token: ExchangeToken{ExpiresAt: now.Add(TokenValidity), IsUsed: true},
			want:  false,
		},
		{
			name:  "reclaimed token",
			token: ExchangeToken{ExpiresAt: now.Add(TokenValidity), PointsRestored: true},
			want:  false,
		},
		{
			name:  "expired token",
			token: ExchangeToken{ExpiresAt: now.Add(-time.Second)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.IsPending(now))
		})
	}
}

func TestExchangeTokenIsExpired(t *testing.T) {
	now := time.Now()

	token := ExchangeToken{ExpiresAt: now.Add(TokenValidity)}
	assert.False(t, token.IsExpired(now))
	assert.False(t, token.IsExpired(token.ExpiresAt))
	assert.True(t, token.IsExpired(token.ExpiresAt.Add(time.Millisecond)))
}
