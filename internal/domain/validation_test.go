package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateBranchCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"valid simple", "main", false},
		{"valid with dash", "store-2", false},
		{"valid with underscore", "warehouse_east", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"spaces inside", "main store", true},
		{"sql-ish", "main;drop", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranchCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBranchCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromFloat(10.5)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateAmount(decimal.Zero); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	huge, _ := decimal.NewFromString("1000000000000")
	if err := ValidateAmount(huge); err == nil {
		t.Error("expected error for amount above maximum")
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("expected limit capped at 1000, got %d", limit)
	}
}
