package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
)

func TestRecordMovementRequest_ToUseCaseInput(t *testing.T) {
	req := RecordMovementRequest{
		Kind:          "transfer",
		FromBranch:    "main",
		ToBranch:      "annex",
		Amount:        decimal.NewFromInt(75),
		Reason:        "restock float",
		Actor:         "u1",
		ReferenceKind: "manual",
	}

	input := req.ToUseCaseInput()

	if input.Kind != domain.MovementTransfer {
		t.Fatalf("expected transfer kind, got %s", input.Kind)
	}
	if input.FromBranch != "main" || input.ToBranch != "annex" {
		t.Fatalf("unexpected branches: %+v", input)
	}
	if !input.Amount.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected amount: %s", input.Amount)
	}
}

func TestEditMovementRequest_SparseDecode(t *testing.T) {
	var req EditMovementRequest
	if err := json.Unmarshal([]byte(`{"amount":"12.5","actor":"admin","reason":"typo"}`), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	input := req.ToUseCaseInput("mv-1")

	if input.MovementID != "mv-1" {
		t.Fatalf("expected movement ID to be set, got %s", input.MovementID)
	}
	if input.Kind != nil || input.Branch != nil {
		t.Fatal("absent fields must stay nil")
	}
	if input.Amount == nil || !input.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected amount: %v", input.Amount)
	}
}

func TestEditMovementRequest_KindConversion(t *testing.T) {
	kind := "expense"
	req := EditMovementRequest{Kind: &kind, Actor: "admin", Reason: "wrong kind"}

	input := req.ToUseCaseInput("mv-1")

	if input.Kind == nil || *input.Kind != domain.MovementExpense {
		t.Fatalf("expected expense kind pointer, got %v", input.Kind)
	}
}

func TestDailyClosingRequest_ToUseCaseInput(t *testing.T) {
	req := DailyClosingRequest{
		Branch: "main",
		Actor:  "cashier",
		Bills:  BillCountRequest{N200: 1, N50: 2},
		Transfers: []ClosingTransferRequest{
			{ToBranch: "vault", Amount: decimal.NewFromInt(250), Notes: "safe drop"},
		},
	}

	input := req.ToUseCaseInput()

	if !input.Bills.Total().Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected bill total 300, got %s", input.Bills.Total())
	}
	if len(input.Transfers) != 1 || input.Transfers[0].ToBranch != "vault" {
		t.Fatalf("unexpected transfers: %+v", input.Transfers)
	}
}

func TestBillCountRequest_ToDomain(t *testing.T) {
	req := BillCountRequest{N200: 2, N100: 1, N50: 3, N20: 1, N10: 2, N5: 1}

	bills := req.toDomain()

	want := domain.BillCount{N200: 2, N100: 1, N50: 3, N20: 1, N10: 2, N5: 1}
	if bills != want {
		t.Fatalf("expected %+v, got %+v", want, bills)
	}
	if !bills.Total().Equal(decimal.NewFromInt(695)) {
		t.Fatalf("expected total 695, got %s", bills.Total())
	}
}
