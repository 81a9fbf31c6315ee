package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
)

// Reference kinds stamped on movements created by the daily cash flow.
const (
	ReferenceDailyOpening = "dailyOpening"
	ReferenceDailyClosing = "dailyClosing"
)

// DailyCashUseCase implements the drawer open/close flow: cashiers
// count physical bills and the totals become ordinary ledger movements.
type DailyCashUseCase struct {
	txManager TransactionManager
	ledger    *LedgerUseCase
}

// NewDailyCashUseCase creates a new DailyCashUseCase.
func NewDailyCashUseCase(txManager TransactionManager, ledger *LedgerUseCase) *DailyCashUseCase {
	return &DailyCashUseCase{
		txManager: txManager,
		ledger:    ledger,
	}
}

// DailyOpeningInput represents the opening drawer count for a branch.
type DailyOpeningInput struct {
	Branch string
	Actor  string
	Bills  domain.BillCount
}

// OpenDay records the opening drawer count as a deposit.
func (uc *DailyCashUseCase) OpenDay(ctx context.Context, input DailyOpeningInput) (*domain.Movement, error) {
	total := input.Bills.Total()
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	return uc.ledger.RecordMovement(ctx, RecordMovementInput{
		Kind:          domain.MovementDeposit,
		Branch:        input.Branch,
		Amount:        total,
		Reason:        "opening deposit",
		Actor:         input.Actor,
		ReferenceKind: ReferenceDailyOpening,
	})
}

// ClosingTransfer is an end-of-day transfer out of the closing branch.
type ClosingTransfer struct {
	ToBranch string
	Notes    string
	Amount   decimal.Decimal
}

// DailyClosingInput represents the closing drawer count plus any
// end-of-day transfers to other branches.
type DailyClosingInput struct {
	Branch    string
	Actor     string
	Bills     domain.BillCount
	Transfers []ClosingTransfer
}

// CloseDay records the closing withdrawal and the end-of-day transfers
// in one transaction; if any leg fails the whole closing rolls back.
func (uc *DailyCashUseCase) CloseDay(ctx context.Context, input DailyClosingInput) ([]*domain.Movement, error) {
	total := input.Bills.Total()
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	movements := make([]*domain.Movement, 0, len(input.Transfers)+1)

	closing, err := uc.ledger.RecordMovementTx(ctx, tx, RecordMovementInput{
		Kind:          domain.MovementExpense,
		Branch:        input.Branch,
		Amount:        total,
		Reason:        "closing withdrawal",
		Actor:         input.Actor,
		ReferenceKind: ReferenceDailyClosing,
	})
	if err != nil {
		return nil, err
	}

	movements = append(movements, closing)

	for _, t := range input.Transfers {
		reason := t.Notes
		if reason == "" {
			reason = "end-of-day transfer " + input.Branch + " -> " + t.ToBranch
		}

		transfer, err := uc.ledger.RecordMovementTx(ctx, tx, RecordMovementInput{
			Kind:          domain.MovementTransfer,
			FromBranch:    input.Branch,
			ToBranch:      t.ToBranch,
			Amount:        t.Amount,
			Reason:        reason,
			Actor:         input.Actor,
			ReferenceKind: ReferenceDailyClosing,
		})
		if err != nil {
			return nil, err
		}

		movements = append(movements, transfer)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for _, m := range movements {
		uc.ledger.countRecorded(m)
	}

	return movements, nil
}
