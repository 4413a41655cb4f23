package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommissionRounding(t *testing.T) {
	tests := []struct {
		name             string
		amount           Minor
		rate             float64
		wantCommission   Minor
		wantNet          Minor
	}{
		{"spec example", 1099, 0.10, 109, 990},
		{"zero amount", 0, 0.10, 0, 0},
		{"zero rate", 1500, 0, 0, 1500},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			commission := Commission(tc.amount, tc.rate)
			assert.Equal(t, tc.wantCommission, commission)
			assert.Equal(t, tc.wantNet, Net(tc.amount, commission))
		})
	}
}

func TestRoundPay(t *testing.T) {
	assert.Equal(t, Minor(800), RoundPay(8.0, 100))
	assert.Equal(t, Minor(0), RoundPay(0, 100))
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "10.99", FormatMinor(1099))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "-1.00", FormatMinor(-100))
}
