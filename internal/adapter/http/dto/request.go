package dto

import (
	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/usecase"
)

// RecordMovementRequest represents a request to record a cash movement.
type RecordMovementRequest struct {
	Kind          string          `json:"kind"`
	Branch        string          `json:"branch,omitempty"`
	FromBranch    string          `json:"from_branch,omitempty"`
	ToBranch      string          `json:"to_branch,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason,omitempty"`
	Actor         string          `json:"actor"`
	ReferenceKind string          `json:"reference_kind,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordMovementRequest) ToUseCaseInput() usecase.RecordMovementInput {
	return usecase.RecordMovementInput{
		Kind:          domain.MovementKind(r.Kind),
		Branch:        r.Branch,
		FromBranch:    r.FromBranch,
		ToBranch:      r.ToBranch,
		Amount:        r.Amount,
		Reason:        r.Reason,
		Actor:         r.Actor,
		ReferenceKind: r.ReferenceKind,
		ReferenceID:   r.ReferenceID,
	}
}

// TransferRequest represents a request to move cash between branches.
type TransferRequest struct {
	FromBranch string          `json:"from_branch"`
	ToBranch   string          `json:"to_branch"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason,omitempty"`
	Actor      string          `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.RecordMovementInput {
	return usecase.RecordMovementInput{
		Kind:       domain.MovementTransfer,
		FromBranch: r.FromBranch,
		ToBranch:   r.ToBranch,
		Amount:     r.Amount,
		Reason:     r.Reason,
		Actor:      r.Actor,
	}
}

// ReverseMovementRequest represents a request to reverse a movement.
type ReverseMovementRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseMovementRequest) ToUseCaseInput(movementID string) usecase.ReverseMovementInput {
	return usecase.ReverseMovementInput{
		MovementID: movementID,
		Actor:      r.Actor,
		Reason:     r.Reason,
	}
}

// EditMovementRequest represents a sparse correction to a movement.
// Absent fields keep their current value.
type EditMovementRequest struct {
	Kind       *string          `json:"kind,omitempty"`
	Branch     *string          `json:"branch,omitempty"`
	FromBranch *string          `json:"from_branch,omitempty"`
	ToBranch   *string          `json:"to_branch,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Actor      string           `json:"actor"`
	Reason     string           `json:"reason"`
}

// ToUseCaseInput converts to use case input.
func (r *EditMovementRequest) ToUseCaseInput(movementID string) usecase.EditMovementInput {
	input := usecase.EditMovementInput{
		MovementID: movementID,
		Branch:     r.Branch,
		FromBranch: r.FromBranch,
		ToBranch:   r.ToBranch,
		Amount:     r.Amount,
		Actor:      r.Actor,
		Reason:     r.Reason,
	}

	if r.Kind != nil {
		kind := domain.MovementKind(*r.Kind)
		input.Kind = &kind
	}

	return input
}

// BillCountRequest is a drawer count by bill denomination.
type BillCountRequest struct {
	N200 int `json:"n200"`
	N100 int `json:"n100"`
	N50  int `json:"n50"`
	N20  int `json:"n20"`
	N10  int `json:"n10"`
	N5   int `json:"n5"`
}

func (r BillCountRequest) toDomain() domain.BillCount {
	return domain.BillCount{
		N200: r.N200,
		N100: r.N100,
		N50:  r.N50,
		N20:  r.N20,
		N10:  r.N10,
		N5:   r.N5,
	}
}

// DailyOpeningRequest represents a drawer opening count.
type DailyOpeningRequest struct {
	Branch string           `json:"branch"`
	Actor  string           `json:"actor"`
	Bills  BillCountRequest `json:"bills"`
}

// ToUseCaseInput converts to use case input.
func (r *DailyOpeningRequest) ToUseCaseInput() usecase.DailyOpeningInput {
	return usecase.DailyOpeningInput{
		Branch: r.Branch,
		Actor:  r.Actor,
		Bills:  r.Bills.toDomain(),
	}
}

// ClosingTransferRequest is one end-of-day transfer leg.
type ClosingTransferRequest struct {
	ToBranch string          `json:"to_branch"`
	Amount   decimal.Decimal `json:"amount"`
	Notes    string          `json:"notes,omitempty"`
}

// DailyClosingRequest represents a drawer closing count plus transfers.
type DailyClosingRequest struct {
	Branch    string                   `json:"branch"`
	Actor     string                   `json:"actor"`
	Bills     BillCountRequest         `json:"bills"`
	Transfers []ClosingTransferRequest `json:"transfers,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DailyClosingRequest) ToUseCaseInput() usecase.DailyClosingInput {
	transfers := make([]usecase.ClosingTransfer, len(r.Transfers))
	for i, t := range r.Transfers {
		transfers[i] = usecase.ClosingTransfer{
			ToBranch: t.ToBranch,
			Amount:   t.Amount,
			Notes:    t.Notes,
		}
	}

	return usecase.DailyClosingInput{
		Branch:    r.Branch,
		Actor:     r.Actor,
		Bills:     r.Bills.toDomain(),
		Transfers: transfers,
	}
}
