package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBillCountTotal(t *testing.T) {
	tests := []struct {
		name  string
		bills BillCount
		want  int64
	}{
		{
			name:  "empty drawer",
			bills: BillCount{},
			want:  0,
		},
		{
			name:  "single denomination",
			bills: BillCount{N50: 4},
			want:  200,
		},
		{
			name:  "mixed drawer",
			bills: BillCount{N200: 2, N100: 1, N50: 3, N20: 1, N10: 2, N5: 1},
			want:  695,
		},
		{
			name:  "large counts",
			bills: BillCount{N200: 1000, N5: 1},
			want:  200005,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.bills.Total().Equal(decimal.NewFromInt(tt.want)),
				"expected total %d, got %s", tt.want, tt.bills.Total())
		})
	}
}

func TestBillCountIsZero(t *testing.T) {
	assert.True(t, BillCount{}.IsZero())
	assert.False(t, BillCount{N5: 1}.IsZero())
	assert.False(t, BillCount{N200: -1}.IsZero())
}
