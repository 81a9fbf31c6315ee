package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/infrastructure/metrics"
)

// ReconciliationUseCase compares each branch's stored cash balance
// against the signed sum of its movement log.
//
// Every movement counts toward the sum, reversed ones included: a
// reversal records a visible compensating movement, so the pair nets to
// zero and the total stays consistent with the stored balance.
type ReconciliationUseCase struct {
	branchRepo   BranchRepository
	movementRepo MovementRepository
	tolerance    decimal.Decimal
	metrics      *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. The
// tolerance absorbs decimal-serialization artifacts, not business drift.
func NewReconciliationUseCase(
	branchRepo BranchRepository,
	movementRepo MovementRepository,
	tolerance decimal.Decimal,
) *ReconciliationUseCase {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance, _ = decimal.NewFromString(DefaultReconcileTolerance)
	}

	return &ReconciliationUseCase{
		branchRepo:   branchRepo,
		movementRepo: movementRepo,
		tolerance:    tolerance,
	}
}

// WithMetrics enables reconciliation run counters and the per-branch
// balance gauge.
func (uc *ReconciliationUseCase) WithMetrics(m *metrics.Metrics) *ReconciliationUseCase {
	uc.metrics = m
	return uc
}

// Reconcile returns the branches whose stored balance disagrees with
// the computed sum beyond the tolerance. Read-only; drift is returned
// as data, never raised as an error.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context) ([]domain.Discrepancy, error) {
	nets, err := uc.movementRepo.SumByBranch(ctx)
	if err != nil {
		return nil, err
	}

	discrepancies := make([]domain.Discrepancy, 0)

	for _, net := range nets {
		recorded := decimal.Zero

		branch, err := uc.branchRepo.GetByCode(ctx, net.Branch)
		switch {
		case err == nil:
			recorded = branch.CashBalance
		case errors.Is(err, domain.ErrBranchNotFound):
			// Movements referencing a missing branch row still reconcile
			// against zero; the drift itself is the signal.
		default:
			return nil, err
		}

		diff := net.Net.Sub(recorded)
		if diff.Abs().GreaterThan(uc.tolerance) {
			discrepancies = append(discrepancies, domain.Discrepancy{
				Branch:        net.Branch,
				Recorded:      recorded,
				Computed:      net.Net,
				Diff:          diff,
				MovementCount: net.MovementCount,
			})
		}
	}

	return discrepancies, nil
}

// ReconciliationReport summarizes one reconciliation run.
type ReconciliationReport struct {
	CheckedAt     time.Time
	Discrepancies []domain.Discrepancy
	BranchCount   int
	Consistent    bool
}

// Report runs a reconciliation and wraps the result with run metadata.
func (uc *ReconciliationUseCase) Report(ctx context.Context) (*ReconciliationReport, error) {
	start := time.Now()

	discrepancies, err := uc.Reconcile(ctx)
	if err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(10000, 0)

	branches, err := uc.branchRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		uc.metrics.ReconciliationDiscrepancies.Set(float64(len(discrepancies)))
		uc.metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())

		for _, b := range branches {
			uc.metrics.BranchBalance.WithLabelValues(b.Code).Set(b.CashBalance.InexactFloat64())
		}
	}

	return &ReconciliationReport{
		CheckedAt:     time.Now().UTC(),
		Discrepancies: discrepancies,
		BranchCount:   len(branches),
		Consistent:    len(discrepancies) == 0,
	}, nil
}
