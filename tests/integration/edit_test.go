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

func TestEditMovement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	api := newTestAPI(t, testDB)

	record := func(t *testing.T, req dto.RecordMovementRequest) dto.MovementResponse {
		t.Helper()
		w := api.do(t, http.MethodPost, "/api/v1/movements", req)
		requireStatus(t, w, http.StatusCreated)
		return decodeJSON[dto.MovementResponse](t, w)
	}

	amountPtr := func(d decimal.Decimal) *decimal.Decimal { return &d }

	t.Run("raise deposit amount reapplies the difference", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(1000))

		deposit := record(t, dto.RecordMovementRequest{
			Kind:   "deposit",
			Branch: "main",
			Amount: decimal.NewFromInt(100),
			Actor:  "alice",
		})

		w := api.do(t, http.MethodPatch, "/api/v1/movements/"+deposit.ID, dto.EditMovementRequest{
			Amount: amountPtr(decimal.NewFromInt(150)),
			Actor:  "bob",
			Reason: "miscounted bills",
		})
		requireStatus(t, w, http.StatusOK)

		resp := decodeJSON[dto.MovementResponse](t, w)
		if !resp.Amount.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected amount 150, got %s", resp.Amount)
		}
		if resp.UpdatedBy != "bob" || resp.UpdateReason != "miscounted bills" {
			t.Errorf("expected edit audit fields, got updated_by=%s update_reason=%s",
				resp.UpdatedBy, resp.UpdateReason)
		}

		balance := testDB.BranchBalance(ctx, "main")
		if !balance.Equal(decimal.NewFromInt(1150)) {
			t.Errorf("expected balance 1150, got %s", balance)
		}
	})

	t.Run("change kind from deposit to expense", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(1000))

		deposit := record(t, dto.RecordMovementRequest{
			Kind:   "deposit",
			Branch: "main",
			Amount: decimal.NewFromInt(100),
			Actor:  "alice",
		})

		kind := "expense"
		w := api.do(t, http.MethodPatch, "/api/v1/movements/"+deposit.ID, dto.EditMovementRequest{
			Kind:   &kind,
			Actor:  "bob",
			Reason: "was logged backwards",
		})
		requireStatus(t, w, http.StatusOK)

		balance := testDB.BranchBalance(ctx, "main")
		if !balance.Equal(decimal.NewFromInt(900)) {
			t.Errorf("expected balance 900, got %s", balance)
		}
	})

	t.Run("reject edit without reason", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(1000))

		deposit := record(t, dto.RecordMovementRequest{
			Kind:   "deposit",
			Branch: "main",
			Amount: decimal.NewFromInt(100),
			Actor:  "alice",
		})

		w := api.do(t, http.MethodPatch, "/api/v1/movements/"+deposit.ID, dto.EditMovementRequest{
			Amount: amountPtr(decimal.NewFromInt(150)),
			Actor:  "bob",
		})
		requireStatus(t, w, http.StatusBadRequest)

		balance := testDB.BranchBalance(ctx, "main")
		if !balance.Equal(decimal.NewFromInt(1100)) {
			t.Errorf("expected balance unchanged at 1100, got %s", balance)
		}
	})

	t.Run("reject edit of reversed movement", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranchWithBalance(ctx, "main", "Main Store", domain.BranchStore, decimal.NewFromInt(1000))

		deposit := record(t, dto.RecordMovementRequest{
			Kind:   "deposit",
			Branch: "main",
			Amount: decimal.NewFromInt(100),
			Actor:  "alice",
		})

		w := api.do(t, http.MethodPost, "/api/v1/movements/"+deposit.ID+"/reverse", dto.ReverseMovementRequest{
			Actor:  "bob",
			Reason: "mistake",
		})
		requireStatus(t, w, http.StatusCreated)

		w = api.do(t, http.MethodPatch, "/api/v1/movements/"+deposit.ID, dto.EditMovementRequest{
			Amount: amountPtr(decimal.NewFromInt(150)),
			Actor:  "bob",
			Reason: "adjusting",
		})
		requireStatus(t, w, http.StatusConflict)
	})

	t.Run("reject edit that would overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestBranch(ctx, "main", "Main Store", domain.BranchStore)

		deposit := record(t, dto.RecordMovementRequest{
			Kind:   "deposit",
			Branch: "main",
			Amount: decimal.NewFromInt(100),
			Actor:  "alice",
		})
		record(t, dto.RecordMovementRequest{
			Kind:   "expense",
			Branch: "main",
			Amount: decimal.NewFromInt(90),
			Actor:  "alice",
		})

		// Shrinking the deposit to 50 would leave the balance at -40.
		w := api.do(t, http.MethodPatch, "/api/v1/movements/"+deposit.ID, dto.EditMovementRequest{
			Amount: amountPtr(decimal.NewFromInt(50)),
			Actor:  "bob",
			Reason: "miscounted bills",
		})
		requireStatus(t, w, http.StatusUnprocessableEntity)

		balance := testDB.BranchBalance(ctx, "main")
		if !balance.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected balance unchanged at 10, got %s", balance)
		}
	})
}
