package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind identifies the financial effect of a cash movement.
type MovementKind string

const (
	MovementDeposit  MovementKind = "deposit"
	MovementExpense  MovementKind = "expense"
	MovementTransfer MovementKind = "transfer"
)

// Valid reports whether the kind is one of the recognized values.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementDeposit, MovementExpense, MovementTransfer:
		return true
	}

	return false
}

// Movement is a single recorded cash event. Amount is always positive;
// the sign of its balance effect is implied by Kind.
type Movement struct {
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ReversedAt         *time.Time
	OriginalMovementID *string
	ID                 string
	Kind               MovementKind
	Branch             string
	FromBranch         string
	ToBranch           string
	Reason             string
	Actor              string
	ReferenceKind      string
	ReferenceID        string
	ReversedBy         string
	UpdatedBy          string
	UpdateReason       string
	Amount             decimal.Decimal
	Reversed           bool
}

// Validate checks the kind, amount and branch field combination.
func (m *Movement) Validate() error {
	if !m.Kind.Valid() {
		return ErrInvalidKind
	}

	if m.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if m.Kind == MovementTransfer {
		if m.FromBranch == "" || m.ToBranch == "" {
			return ErrTransferBranchesRequired
		}

		if m.FromBranch == m.ToBranch {
			return ErrSameBranch
		}

		return nil
	}

	if m.Branch == "" {
		return ErrBranchRequired
	}

	return nil
}

// Contribution is the signed effect of a movement on a single branch.
type Contribution struct {
	Branch string
	Amount decimal.Decimal
}

// Contributions returns the signed balance effect per branch:
// deposit +amount, expense -amount, transfer -amount from / +amount to.
func (m *Movement) Contributions() []Contribution {
	switch m.Kind {
	case MovementDeposit:
		return []Contribution{{Branch: m.Branch, Amount: m.Amount}}
	case MovementExpense:
		return []Contribution{{Branch: m.Branch, Amount: m.Amount.Neg()}}
	case MovementTransfer:
		return []Contribution{
			{Branch: m.FromBranch, Amount: m.Amount.Neg()},
			{Branch: m.ToBranch, Amount: m.Amount},
		}
	}

	return nil
}

// BranchNet is the aggregated signed sum of movements touching one branch.
type BranchNet struct {
	Branch        string
	Net           decimal.Decimal
	MovementCount int64
}

// Discrepancy reports a branch whose stored balance disagrees with the
// sum of its movements beyond the reconciliation tolerance.
type Discrepancy struct {
	Branch        string
	Recorded      decimal.Decimal
	Computed      decimal.Decimal
	Diff          decimal.Decimal
	MovementCount int64
}
