package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BranchType categorizes a branch location.
type BranchType string

const (
	BranchStore     BranchType = "store"
	BranchShowroom  BranchType = "showroom"
	BranchWarehouse BranchType = "warehouse"
)

// Branch is a cash register/location holding one current cash balance.
// The balance is a cache over the movement log; the two are kept in
// sync by the ledger use case and checked by reconciliation.
type Branch struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Code        string
	Name        string
	Type        BranchType
	CashBalance decimal.Decimal
}

// negativeEpsilon absorbs decimal-representation rounding on withdraw
// checks. It is not a business allowance for negative balances.
var negativeEpsilon = decimal.NewFromFloat(0.0001)

// ValidateWithdraw checks that removing amount would not drive the
// balance negative beyond the rounding epsilon.
func (b *Branch) ValidateWithdraw(amount decimal.Decimal) error {
	newBalance := b.CashBalance.Sub(amount)
	if newBalance.LessThan(negativeEpsilon.Neg()) {
		return fmt.Errorf("%w in %s (current: %s, withdraw: %s)",
			ErrInsufficientBalance, b.Code, b.CashBalance, amount)
	}

	return nil
}

// ApplyDeposit returns the balance after adding amount.
func (b *Branch) ApplyDeposit(amount decimal.Decimal) decimal.Decimal {
	return b.CashBalance.Add(amount)
}

// ApplyWithdraw returns the balance after removing amount.
func (b *Branch) ApplyWithdraw(amount decimal.Decimal) decimal.Decimal {
	return b.CashBalance.Sub(amount)
}
