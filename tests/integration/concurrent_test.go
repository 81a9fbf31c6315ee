package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/adapter/repository/postgres"
	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/usecase"
	"github.com/adelh/branchcash/tests/testutil"
)

func TestConcurrentMovements(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	ledgerUC := usecase.NewLedgerUseCase(txManager, branchRepo, movementRepo, idGen).
		WithRetrier(retrier)

	t.Run("50 concurrent deposits all land", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranch(ctx, "main", "Main Store", domain.BranchStore)

		numDeposits := 50

		var wg sync.WaitGroup
		wg.Add(numDeposits)

		for i := 0; i < numDeposits; i++ {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.RecordMovement(ctx, usecase.RecordMovementInput{
					Kind:   domain.MovementDeposit,
					Branch: "main",
					Amount: decimal.NewFromInt(10),
					Actor:  "alice",
				})
				if err != nil {
					t.Errorf("deposit failed: %v", err)
				}
			}()
		}

		wg.Wait()

		balance := testDB.BranchBalance(ctx, "main")
		if !balance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance 500, got %s", balance)
		}
		if got := testDB.MovementCount(ctx); got != int64(numDeposits) {
			t.Errorf("expected %d movement rows, got %d", numDeposits, got)
		}
	})

	t.Run("concurrent expenses never overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(100))

		numAttempts := 30

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numAttempts)

		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()

				_, err := ledgerUC.RecordMovement(ctx, usecase.RecordMovementInput{
					Kind:   domain.MovementExpense,
					Branch: "main",
					Amount: decimal.NewFromInt(10),
					Actor:  "alice",
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		// 100 / 10: exactly 10 expenses fit.
		if successCount.Load() != 10 {
			t.Errorf("expected 10 successful expenses, got %d", successCount.Load())
		}

		balance := testDB.BranchBalance(ctx, "main")
		if !balance.IsZero() {
			t.Errorf("expected balance 0, got %s", balance)
		}
	})

	t.Run("opposite direction transfers preserve total cash", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(500))
		testDB.CreateTestBranchWithBalance(ctx, "annex", "Annex", domain.BranchShowroom, decimal.NewFromInt(500))

		numPairs := 25

		var wg sync.WaitGroup
		wg.Add(numPairs * 2)

		transfer := func(from, to string) {
			defer wg.Done()

			_, err := ledgerUC.RecordMovement(ctx, usecase.RecordMovementInput{
				Kind:       domain.MovementTransfer,
				FromBranch: from,
				ToBranch:   to,
				Amount:     decimal.NewFromInt(5),
				Actor:      "alice",
			})
			if err != nil {
				t.Errorf("transfer %s->%s failed: %v", from, to, err)
			}
		}

		for i := 0; i < numPairs; i++ {
			go transfer("main", "annex")
			go transfer("annex", "main")
		}

		wg.Wait()

		mainBalance := testDB.BranchBalance(ctx, "main")
		annexBalance := testDB.BranchBalance(ctx, "annex")

		// Equal traffic both ways leaves each branch where it started.
		if !mainBalance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected main balance 500, got %s", mainBalance)
		}
		if !annexBalance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected annex balance 500, got %s", annexBalance)
		}

		total := mainBalance.Add(annexBalance)
		if !total.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected total cash 1000, got %s", total)
		}
	})
}
