package core_test

import (
	"testing"

	"partsdesk/internal/core"
)

func TestRestockProposal_NormalizationAndValidation(t *testing.T) {
	tests := []struct {
		name      string
		proposal  core.RestockProposal
		expectErr bool
	}{
		{
			name: "happy path",
			proposal: core.RestockProposal{
				VendorCode: "v-brake",
				Lines: []core.RestockProposalLine{
					{SKUCode: "brk-pad", Quantity: "50", UnitCost: "45.50"},
				},
			},
			expectErr: false,
		},
		{
			name: "blank cost falls back to SKU cost",
			proposal: core.RestockProposal{
				Lines: []core.RestockProposalLine{
					{SKUCode: "BRK-PAD", Quantity: "50", UnitCost: ""},
				},
			},
			expectErr: false,
		},
		{
			name: "null quantity normalizes to zero and fails",
			proposal: core.RestockProposal{
				Lines: []core.RestockProposalLine{
					{SKUCode: "BRK-PAD", Quantity: "null"},
				},
			},
			expectErr: true,
		},
		{
			name: "negative quantity",
			proposal: core.RestockProposal{
				Lines: []core.RestockProposalLine{
					{SKUCode: "BRK-PAD", Quantity: "-5"},
				},
			},
			expectErr: true,
		},
		{
			name: "missing SKU code",
			proposal: core.RestockProposal{
				Lines: []core.RestockProposalLine{
					{SKUCode: "  ", Quantity: "5"},
				},
			},
			expectErr: true,
		},
		{
			name:      "no lines",
			proposal:  core.RestockProposal{},
			expectErr: true,
		},
		{
			name: "negative unit cost",
			proposal: core.RestockProposal{
				Lines: []core.RestockProposalLine{
					{SKUCode: "BRK-PAD", Quantity: "5", UnitCost: "-1.00"},
				},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.proposal.Normalize()
			err := tt.proposal.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRestockProposal_NormalizeUppercases(t *testing.T) {
	p := core.RestockProposal{
		VendorCode: " v-fluid ",
		Lines: []core.RestockProposalLine{
			{SKUCode: " brk-fld ", Quantity: "10"},
		},
	}
	p.Normalize()
	if p.VendorCode != "V-FLUID" {
		t.Errorf("vendor code = %q, want V-FLUID", p.VendorCode)
	}
	if p.Lines[0].SKUCode != "BRK-FLD" {
		t.Errorf("SKU code = %q, want BRK-FLD", p.Lines[0].SKUCode)
	}
}
