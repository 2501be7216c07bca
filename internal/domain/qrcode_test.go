package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrizeKind(t *testing.T) {
	tests := []struct {
		input   string
		want    PrizeKind
		wantErr bool
	}{
		{input: "points", want: PrizePoints},
		{input: "try_again", want: PrizeTryAgain},
		{input: "loyalty_bonus", want: PrizeLoyaltyBonus},
		{input: "mystery_box", want: PrizeMysteryBox},
		{input: "jackpot", wantErr: true},
		{input: "", wantErr: true},
		{input: "POINTS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrizeKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQRCodeIsValid(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		code QRCode
		want bool
	}{
		{
			name: "active without expiry",
			code: QRCode{IsActive: true},
			want: true,
		},
		{
			name: "active before expiry",
			code: QRCode{IsActive: true, ExpiresAt: &future},
			want: true,
		},
		{
			name: "active past expiry",
			code: QRCode{IsActive: true, ExpiresAt: &past},
			want: false,
		},
		{
			name: "inactive",
			code: QRCode{IsActive: false},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.IsValid(now))
		})
	}
}
