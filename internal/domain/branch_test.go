package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBranchValidateWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		balance decimal.Decimal
		amount  decimal.Decimal
		wantErr bool
	}{
		{
			name:    "sufficient balance",
			balance: decimal.NewFromInt(100),
			amount:  decimal.NewFromInt(60),
		},
		{
			name:    "exact balance",
			balance: decimal.NewFromInt(100),
			amount:  decimal.NewFromInt(100),
		},
		{
			name:    "within rounding epsilon",
			balance: decimal.NewFromFloat(99.99995),
			amount:  decimal.NewFromInt(100),
		},
		{
			name:    "insufficient balance",
			balance: decimal.NewFromInt(30),
			amount:  decimal.NewFromInt(50),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Branch{Code: "main", CashBalance: tt.balance}

			err := b.ValidateWithdraw(tt.amount)
			if tt.wantErr {
				if !errors.Is(err, ErrInsufficientBalance) {
					t.Errorf("expected ErrInsufficientBalance, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBranchApply(t *testing.T) {
	b := &Branch{Code: "main", CashBalance: decimal.NewFromInt(100)}

	if got := b.ApplyDeposit(decimal.NewFromFloat(0.1)); !got.Equal(decimal.NewFromFloat(100.1)) {
		t.Errorf("expected 100.1, got %s", got)
	}

	if got := b.ApplyWithdraw(decimal.NewFromFloat(0.1)); !got.Equal(decimal.NewFromFloat(99.9)) {
		t.Errorf("expected 99.9, got %s", got)
	}
}

func TestBillCountTotalIsZero(t *testing.T) {
	bills := BillCount{N200: 2, N100: 1, N50: 3, N20: 0, N10: 5, N5: 1}

	want := decimal.NewFromInt(2*200 + 100 + 3*50 + 5*10 + 5)
	if got := bills.Total(); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	if !(BillCount{}).IsZero() {
		t.Error("empty bill count should be zero")
	}

	if bills.IsZero() {
		t.Error("non-empty bill count should not be zero")
	}
}
