package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/adapter/http/dto"
	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/tests/testutil"
)

func TestDailyCashFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	api := newTestAPI(t, testDB)

	t.Run("opening count becomes a deposit", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(100))

		w := api.do(t, http.MethodPost, "/api/v1/daily-opening", dto.DailyOpeningRequest{
			Branch: "main",
			Actor:  "alice",
			Bills:  dto.BillCountRequest{N200: 2, N100: 1, N50: 3, N20: 1, N10: 2, N5: 1},
		})
		requireStatus(t, w, http.StatusCreated)

		resp := decodeJSON[dto.MovementResponse](t, w)
		if resp.Kind != "deposit" || !resp.Amount.Equal(decimal.NewFromInt(695)) {
			t.Errorf("expected deposit of 695, got %s of %s", resp.Kind, resp.Amount)
		}
		if resp.ReferenceKind != "dailyOpening" {
			t.Errorf("expected dailyOpening reference, got %s", resp.ReferenceKind)
		}

		balance := testDB.BranchBalance(ctx, "main")
		if !balance.Equal(decimal.NewFromInt(795)) {
			t.Errorf("expected balance 795, got %s", balance)
		}
	})

	t.Run("closing records withdrawal and transfers atomically", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(1000))
		testDB.CreateTestBranch(ctx, "vault", "Vault", domain.BranchWarehouse)

		w := api.do(t, http.MethodPost, "/api/v1/daily-closing", dto.DailyClosingRequest{
			Branch: "main",
			Actor:  "alice",
			Bills:  dto.BillCountRequest{N100: 2},
			Transfers: []dto.ClosingTransferRequest{
				{ToBranch: "vault", Amount: decimal.NewFromInt(500)},
			},
		})
		requireStatus(t, w, http.StatusCreated)

		resp := decodeJSON[dto.DailyClosingResponse](t, w)
		if len(resp.Movements) != 2 {
			t.Fatalf("expected 2 movements, got %d", len(resp.Movements))
		}
		if resp.Movements[0].Kind != "expense" || resp.Movements[1].Kind != "transfer" {
			t.Errorf("unexpected movement kinds: %s, %s", resp.Movements[0].Kind, resp.Movements[1].Kind)
		}

		if balance := testDB.BranchBalance(ctx, "main"); !balance.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected main balance 300, got %s", balance)
		}
		if balance := testDB.BranchBalance(ctx, "vault"); !balance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected vault balance 500, got %s", balance)
		}
	})

	t.Run("failed transfer leg rolls back the whole closing", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(400))
		testDB.CreateTestBranch(ctx, "vault", "Vault", domain.BranchWarehouse)

		// 400 - 200 leaves 200; the 500 transfer must fail and undo the
		// closing expense with it.
		w := api.do(t, http.MethodPost, "/api/v1/daily-closing", dto.DailyClosingRequest{
			Branch: "main",
			Actor:  "alice",
			Bills:  dto.BillCountRequest{N100: 2},
			Transfers: []dto.ClosingTransferRequest{
				{ToBranch: "vault", Amount: decimal.NewFromInt(500)},
			},
		})
		requireStatus(t, w, http.StatusUnprocessableEntity)

		if balance := testDB.BranchBalance(ctx, "main"); !balance.Equal(decimal.NewFromInt(400)) {
			t.Errorf("expected main untouched at 400, got %s", balance)
		}
		if balance := testDB.BranchBalance(ctx, "vault"); !balance.IsZero() {
			t.Errorf("expected vault untouched at 0, got %s", balance)
		}
		if got := testDB.MovementCount(ctx); got != 0 {
			t.Errorf("expected no movement rows, got %d", got)
		}
	})

	t.Run("reject empty drawer count", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranch(ctx, "main", "Main Store", domain.BranchStore)

		w := api.do(t, http.MethodPost, "/api/v1/daily-opening", dto.DailyOpeningRequest{
			Branch: "main",
			Actor:  "alice",
		})
		requireStatus(t, w, http.StatusBadRequest)
	})
}
