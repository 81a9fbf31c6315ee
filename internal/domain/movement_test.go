package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMovementValidate(t *testing.T) {
	tests := []struct {
		name     string
		movement Movement
		wantErr  error
	}{
		{
			name: "valid deposit",
			movement: Movement{
				Kind:   MovementDeposit,
				Branch: "main",
				Amount: decimal.NewFromInt(100),
			},
		},
		{
			name: "valid expense",
			movement: Movement{
				Kind:   MovementExpense,
				Branch: "main",
				Amount: decimal.NewFromFloat(0.5),
			},
		},
		{
			name: "valid transfer",
			movement: Movement{
				Kind:       MovementTransfer,
				FromBranch: "main",
				ToBranch:   "annex",
				Amount:     decimal.NewFromInt(50),
			},
		},
		{
			name: "unknown kind",
			movement: Movement{
				Kind:   MovementKind("withdrawal"),
				Branch: "main",
				Amount: decimal.NewFromInt(10),
			},
			wantErr: ErrInvalidKind,
		},
		{
			name: "zero amount",
			movement: Movement{
				Kind:   MovementDeposit,
				Branch: "main",
				Amount: decimal.Zero,
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			movement: Movement{
				Kind:   MovementDeposit,
				Branch: "main",
				Amount: decimal.NewFromInt(-10),
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "deposit without branch",
			movement: Movement{
				Kind:   MovementDeposit,
				Amount: decimal.NewFromInt(10),
			},
			wantErr: ErrBranchRequired,
		},
		{
			name: "transfer missing destination",
			movement: Movement{
				Kind:       MovementTransfer,
				FromBranch: "main",
				Amount:     decimal.NewFromInt(10),
			},
			wantErr: ErrTransferBranchesRequired,
		},
		{
			name: "transfer to same branch",
			movement: Movement{
				Kind:       MovementTransfer,
				FromBranch: "main",
				ToBranch:   "main",
				Amount:     decimal.NewFromInt(10),
			},
			wantErr: ErrSameBranch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.movement.Validate()
			if err != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMovementContributions(t *testing.T) {
	t.Run("deposit credits its branch", func(t *testing.T) {
		m := Movement{Kind: MovementDeposit, Branch: "main", Amount: decimal.NewFromInt(100)}

		contribs := m.Contributions()
		if len(contribs) != 1 {
			t.Fatalf("expected 1 contribution, got %d", len(contribs))
		}
		if contribs[0].Branch != "main" || !contribs[0].Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("unexpected contribution %+v", contribs[0])
		}
	})

	t.Run("expense debits its branch", func(t *testing.T) {
		m := Movement{Kind: MovementExpense, Branch: "main", Amount: decimal.NewFromInt(40)}

		contribs := m.Contributions()
		if len(contribs) != 1 {
			t.Fatalf("expected 1 contribution, got %d", len(contribs))
		}
		if !contribs[0].Amount.Equal(decimal.NewFromInt(-40)) {
			t.Errorf("expected -40, got %s", contribs[0].Amount)
		}
	})

	t.Run("transfer debits source and credits destination", func(t *testing.T) {
		m := Movement{Kind: MovementTransfer, FromBranch: "a", ToBranch: "b", Amount: decimal.NewFromInt(30)}

		contribs := m.Contributions()
		if len(contribs) != 2 {
			t.Fatalf("expected 2 contributions, got %d", len(contribs))
		}
		if contribs[0].Branch != "a" || !contribs[0].Amount.Equal(decimal.NewFromInt(-30)) {
			t.Errorf("unexpected source contribution %+v", contribs[0])
		}
		if contribs[1].Branch != "b" || !contribs[1].Amount.Equal(decimal.NewFromInt(30)) {
			t.Errorf("unexpected destination contribution %+v", contribs[1])
		}
	})
}
