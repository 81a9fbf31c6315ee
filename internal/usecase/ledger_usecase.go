package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/infrastructure/metrics"
)

// LedgerUseCase is the single write path to branch cash balances. Every
// balance mutation goes through one of its operations inside one atomic
// transaction; no other component writes to branches or movements.
type LedgerUseCase struct {
	txManager    TransactionManager
	branchRepo   BranchRepository
	movementRepo MovementRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	branchRepo BranchRepository,
	movementRepo MovementRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		branchRepo:   branchRepo,
		movementRepo: movementRepo,
		idGen:        idGen,
	}
}

// WithRetrier enables retrying on transient storage failures
// (deadlocks, serialization conflicts).
func (uc *LedgerUseCase) WithRetrier(r Retrier) *LedgerUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics enables movement counters.
func (uc *LedgerUseCase) WithMetrics(m *metrics.Metrics) *LedgerUseCase {
	uc.metrics = m
	return uc
}

// RecordMovementInput represents input for recording a cash movement.
type RecordMovementInput struct {
	Kind          domain.MovementKind
	Branch        string
	FromBranch    string
	ToBranch      string
	Reason        string
	Actor         string
	ReferenceKind string
	ReferenceID   string
	Amount        decimal.Decimal
}

// RecordMovement records a cash movement in its own transaction.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, input RecordMovementInput) (*domain.Movement, error) {
	var movement *domain.Movement

	err := uc.inTransaction(ctx, func(tx Transaction) error {
		var err error
		movement, err = uc.RecordMovementTx(ctx, tx, input)

		return err
	})
	if err != nil {
		return nil, err
	}

	uc.countRecorded(movement)

	return movement, nil
}

// countRecorded bumps the movement counters. Callers that record
// through a caller-owned transaction invoke it after their commit, so
// rolled-back movements are never counted.
func (uc *LedgerUseCase) countRecorded(m *domain.Movement) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.MovementsRecorded.WithLabelValues(string(m.Kind)).Inc()
	uc.metrics.MovementAmount.Observe(m.Amount.InexactFloat64())
}

// RecordMovementTx records a cash movement inside a caller-supplied
// transaction, so a business event and its financial side effect commit
// atomically. The caller owns commit/rollback.
func (uc *LedgerUseCase) RecordMovementTx(ctx context.Context, tx Transaction, input RecordMovementInput) (*domain.Movement, error) {
	now := time.Now().UTC()

	movement := &domain.Movement{
		ID:            uc.idGen.Generate(),
		Kind:          input.Kind,
		Amount:        input.Amount,
		Branch:        input.Branch,
		FromBranch:    input.FromBranch,
		ToBranch:      input.ToBranch,
		Reason:        input.Reason,
		Actor:         input.Actor,
		ReferenceKind: input.ReferenceKind,
		ReferenceID:   input.ReferenceID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := movement.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(movement.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateReason(movement.Reason); err != nil {
		return nil, err
	}

	// The movement row is written before the balance effect; inside the
	// transaction boundary the ordering is invisible to other sessions.
	if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	effect := balanceEffect{
		kind:       movement.Kind,
		amount:     movement.Amount,
		branch:     movement.Branch,
		fromBranch: movement.FromBranch,
		toBranch:   movement.ToBranch,
	}
	if err := uc.applyEffect(ctx, tx, effect, now); err != nil {
		return nil, err
	}

	return movement, nil
}

// ReverseMovementInput represents input for reversing a movement.
type ReverseMovementInput struct {
	MovementID string
	Actor      string
	Reason     string
}

// ReverseMovementResult holds the flagged original and the compensating
// movement created by a reversal.
type ReverseMovementResult struct {
	Original     *domain.Movement
	Compensating *domain.Movement
}

// ReverseMovement undoes a movement by recording the compensating
// movement and flagging the original as reversed. A movement can be
// reversed at most once, and a reversal that would drive a balance
// negative fails without mutating anything.
func (uc *LedgerUseCase) ReverseMovement(ctx context.Context, input ReverseMovementInput) (*ReverseMovementResult, error) {
	var result *ReverseMovementResult

	err := uc.inTransaction(ctx, func(tx Transaction) error {
		original, err := uc.movementRepo.GetByIDForUpdate(ctx, tx, input.MovementID)
		if err != nil {
			return err
		}

		if original.Reversed {
			return domain.ErrAlreadyReversed
		}

		if original.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: movement %s has amount %s",
				domain.ErrCorruptMovement, original.ID, original.Amount)
		}

		now := time.Now().UTC()

		reason := input.Reason
		if reason == "" {
			reason = "reversal of " + original.ID
		}

		inverse := inverseEffect(balanceEffect{
			kind:       original.Kind,
			amount:     original.Amount,
			branch:     original.Branch,
			fromBranch: original.FromBranch,
			toBranch:   original.ToBranch,
		})

		compensating := &domain.Movement{
			ID:                 uc.idGen.Generate(),
			Kind:               inverse.kind,
			Amount:             inverse.amount,
			Branch:             inverse.branch,
			FromBranch:         inverse.fromBranch,
			ToBranch:           inverse.toBranch,
			Reason:             reason,
			Actor:              input.Actor,
			OriginalMovementID: &original.ID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		if err := uc.movementRepo.Create(ctx, tx, compensating); err != nil {
			return err
		}

		if err := uc.applyEffect(ctx, tx, inverse, now); err != nil {
			return err
		}

		if err := uc.movementRepo.MarkReversed(ctx, tx, original.ID, input.Actor, now); err != nil {
			return err
		}

		original.Reversed = true
		original.ReversedAt = &now
		original.ReversedBy = input.Actor

		result = &ReverseMovementResult{Original: original, Compensating: compensating}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsReversed.Inc()
	}

	return result, nil
}

// EditMovementInput represents a sparse correction of a recorded
// movement. Nil fields keep their current value; Reason is mandatory.
type EditMovementInput struct {
	Amount     *decimal.Decimal
	Kind       *domain.MovementKind
	Branch     *string
	FromBranch *string
	ToBranch   *string
	MovementID string
	Actor      string
	Reason     string
}

// EditMovement corrects a movement's financial fields by unwinding its
// old balance effect and applying the new one, both inside one
// transaction. The movement row is overwritten in place with
// updatedBy/updateReason set; no compensating row is created.
func (uc *LedgerUseCase) EditMovement(ctx context.Context, input EditMovementInput) (*domain.Movement, error) {
	if input.Reason == "" {
		return nil, domain.ErrUpdateReasonRequired
	}

	var movement *domain.Movement

	err := uc.inTransaction(ctx, func(tx Transaction) error {
		current, err := uc.movementRepo.GetByIDForUpdate(ctx, tx, input.MovementID)
		if err != nil {
			return err
		}

		// A reversed movement already has a visible compensation on the
		// books; editing it would desynchronize the pair.
		if current.Reversed {
			return domain.ErrAlreadyReversed
		}

		oldEffect := balanceEffect{
			kind:       current.Kind,
			amount:     current.Amount,
			branch:     current.Branch,
			fromBranch: current.FromBranch,
			toBranch:   current.ToBranch,
		}

		updated := *current
		applyUpdates(&updated, input)

		if sameEffect(current, &updated) {
			return domain.ErrNoChanges
		}

		if err := updated.Validate(); err != nil {
			return err
		}

		if err := domain.ValidateAmount(updated.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()

		// Unwind the old effect first, then apply the new one. This keeps
		// the balance invariant regardless of which fields changed, with
		// the negative-balance check enforced on the reapply.
		if err := uc.applyEffect(ctx, tx, inverseEffect(oldEffect), now); err != nil {
			return err
		}

		newEffect := balanceEffect{
			kind:       updated.Kind,
			amount:     updated.Amount,
			branch:     updated.Branch,
			fromBranch: updated.FromBranch,
			toBranch:   updated.ToBranch,
		}
		if err := uc.applyEffect(ctx, tx, newEffect, now); err != nil {
			return err
		}

		updated.UpdatedBy = input.Actor
		updated.UpdateReason = input.Reason
		updated.UpdatedAt = now

		if err := uc.movementRepo.UpdateFinancial(ctx, tx, &updated); err != nil {
			return err
		}

		movement = &updated

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsEdited.Inc()
	}

	return movement, nil
}

// balanceEffect describes the balance mutation a movement implies.
type balanceEffect struct {
	kind       domain.MovementKind
	branch     string
	fromBranch string
	toBranch   string
	amount     decimal.Decimal
}

// inverseEffect returns the compensating effect: deposit becomes
// expense, expense becomes deposit, a transfer swaps direction.
func inverseEffect(e balanceEffect) balanceEffect {
	switch e.kind {
	case domain.MovementDeposit:
		return balanceEffect{kind: domain.MovementExpense, branch: e.branch, amount: e.amount}
	case domain.MovementExpense:
		return balanceEffect{kind: domain.MovementDeposit, branch: e.branch, amount: e.amount}
	case domain.MovementTransfer:
		return balanceEffect{kind: domain.MovementTransfer, fromBranch: e.toBranch, toBranch: e.fromBranch, amount: e.amount}
	}

	return e
}

// applyEffect mutates the affected branch balance(s) under row locks.
// The negative-balance check applies to every withdrawal.
func (uc *LedgerUseCase) applyEffect(ctx context.Context, tx Transaction, e balanceEffect, now time.Time) error {
	switch e.kind {
	case domain.MovementDeposit:
		branch, err := uc.lockBranch(ctx, tx, e.branch)
		if err != nil {
			return err
		}

		return uc.branchRepo.UpdateBalance(ctx, tx, branch.Code, branch.ApplyDeposit(e.amount), now)

	case domain.MovementExpense:
		branch, err := uc.lockBranch(ctx, tx, e.branch)
		if err != nil {
			return err
		}

		if err := branch.ValidateWithdraw(e.amount); err != nil {
			return err
		}

		return uc.branchRepo.UpdateBalance(ctx, tx, branch.Code, branch.ApplyWithdraw(e.amount), now)

	case domain.MovementTransfer:
		branches, err := uc.lockBranches(ctx, tx, e.fromBranch, e.toBranch)
		if err != nil {
			return err
		}

		from := branches[e.fromBranch]
		to := branches[e.toBranch]

		if err := from.ValidateWithdraw(e.amount); err != nil {
			return err
		}

		if err := uc.branchRepo.UpdateBalance(ctx, tx, from.Code, from.ApplyWithdraw(e.amount), now); err != nil {
			return err
		}

		return uc.branchRepo.UpdateBalance(ctx, tx, to.Code, to.ApplyDeposit(e.amount), now)
	}

	return domain.ErrInvalidKind
}

func (uc *LedgerUseCase) lockBranch(ctx context.Context, tx Transaction, code string) (*domain.Branch, error) {
	branch, err := uc.branchRepo.GetByCodeForUpdate(ctx, tx, code)
	if err != nil {
		if errors.Is(err, domain.ErrBranchNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, code)
		}

		return nil, err
	}

	return branch, nil
}

// lockBranches locks both transfer sides in sorted code order to avoid
// deadlocks between concurrent opposing transfers.
func (uc *LedgerUseCase) lockBranches(ctx context.Context, tx Transaction, codes ...string) (map[string]*domain.Branch, error) {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)

	branches, err := uc.branchRepo.GetByCodesForUpdate(ctx, tx, sorted)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*domain.Branch, len(branches))
	for _, b := range branches {
		byCode[b.Code] = b
	}

	for _, code := range codes {
		if byCode[code] == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, code)
		}
	}

	return byCode, nil
}

// inTransaction runs fn inside a transaction, retrying the whole unit on
// transient failures when a retrier is configured.
func (uc *LedgerUseCase) inTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	run := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, run)
	}

	return run()
}

func applyUpdates(m *domain.Movement, input EditMovementInput) {
	if input.Kind != nil {
		m.Kind = *input.Kind
	}

	if input.Amount != nil {
		m.Amount = *input.Amount
	}

	if input.Branch != nil {
		m.Branch = *input.Branch
	}

	if input.FromBranch != nil {
		m.FromBranch = *input.FromBranch
	}

	if input.ToBranch != nil {
		m.ToBranch = *input.ToBranch
	}

	// A movement cannot carry both a single-branch field and transfer
	// fields; the updated kind decides which side wins.
	if m.Kind == domain.MovementTransfer {
		m.Branch = ""
	} else {
		m.FromBranch = ""
		m.ToBranch = ""
	}
}

func sameEffect(a, b *domain.Movement) bool {
	return a.Kind == b.Kind &&
		a.Amount.Equal(b.Amount) &&
		a.Branch == b.Branch &&
		a.FromBranch == b.FromBranch &&
		a.ToBranch == b.ToBranch
}
