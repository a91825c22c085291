package core_test

import (
	"fmt"
	"testing"
	"time"

	"partsdesk/internal/core"

	"github.com/shopspring/decimal"
)

func TestPlanReplenishment(t *testing.T) {
	defaults := core.ReplenishmentDefaults{VendorID: 9, UnitCost: d("1.00")}

	tests := []struct {
		name     string
		checks   []core.ComponentCheck
		sourcing map[int]core.SKUSourcing
		want     []core.PODraft
	}{
		{
			name: "no shortages yields no drafts",
			checks: []core.ComponentCheck{
				{ComponentSKUID: 1, Shortage: decimal.Zero, Sufficient: true},
				{ComponentSKUID: 2, Shortage: decimal.Zero, Sufficient: true},
			},
			sourcing: map[int]core.SKUSourcing{},
			want:     nil,
		},
		{
			name: "shortages group by vendor",
			checks: []core.ComponentCheck{
				{ComponentSKUID: 1, Shortage: d("8"), Sufficient: false},
				{ComponentSKUID: 2, Shortage: d("4"), Sufficient: false},
				{ComponentSKUID: 3, Shortage: d("2"), Sufficient: false},
			},
			sourcing: map[int]core.SKUSourcing{
				1: {VendorID: 5, UnitCost: d("45.50")},
				2: {VendorID: 5, UnitCost: d("80.00")},
				3: {VendorID: 7, UnitCost: d("12.99")},
			},
			want: []core.PODraft{
				{VendorID: 5, Lines: []core.POLineDraft{
					{SKUID: 1, Quantity: d("8"), UnitCost: d("45.50")},
					{SKUID: 2, Quantity: d("4"), UnitCost: d("80.00")},
				}},
				{VendorID: 7, Lines: []core.POLineDraft{
					{SKUID: 3, Quantity: d("2"), UnitCost: d("12.99")},
				}},
			},
		},
		{
			name: "missing sourcing falls back to defaults",
			checks: []core.ComponentCheck{
				{ComponentSKUID: 4, Shortage: d("6"), Sufficient: false},
			},
			sourcing: map[int]core.SKUSourcing{},
			want: []core.PODraft{
				{VendorID: 9, Lines: []core.POLineDraft{
					{SKUID: 4, Quantity: d("6"), UnitCost: d("1.00")},
				}},
			},
		},
		{
			name: "zero unit cost falls back even with a vendor",
			checks: []core.ComponentCheck{
				{ComponentSKUID: 5, Shortage: d("3"), Sufficient: false},
			},
			sourcing: map[int]core.SKUSourcing{
				5: {VendorID: 2},
			},
			want: []core.PODraft{
				{VendorID: 2, Lines: []core.POLineDraft{
					{SKUID: 5, Quantity: d("3"), UnitCost: d("1.00")},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.PlanReplenishment(tt.checks, tt.sourcing, defaults)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d drafts, want %d", len(got), len(tt.want))
			}
			for i, draft := range got {
				want := tt.want[i]
				if draft.VendorID != want.VendorID {
					t.Errorf("draft %d: vendor = %d, want %d", i, draft.VendorID, want.VendorID)
				}
				if len(draft.Lines) != len(want.Lines) {
					t.Fatalf("draft %d: got %d lines, want %d", i, len(draft.Lines), len(want.Lines))
				}
				for j, line := range draft.Lines {
					wl := want.Lines[j]
					if line.SKUID != wl.SKUID || !line.Quantity.Equal(wl.Quantity) || !line.UnitCost.Equal(wl.UnitCost) {
						t.Errorf("draft %d line %d = %+v, want %+v", i, j, line, wl)
					}
				}
			}
		})
	}
}

func TestPlanReplenishment_Idempotent(t *testing.T) {
	checks := []core.ComponentCheck{
		{ComponentSKUID: 1, Shortage: d("8"), Sufficient: false},
		{ComponentSKUID: 2, Shortage: decimal.Zero, Sufficient: true},
	}
	sourcing := map[int]core.SKUSourcing{1: {VendorID: 3, UnitCost: d("5")}}
	defaults := core.ReplenishmentDefaults{VendorID: 9, UnitCost: d("1")}

	first := core.PlanReplenishment(checks, sourcing, defaults)
	second := core.PlanReplenishment(checks, sourcing, defaults)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one draft from each run, got %d and %d", len(first), len(second))
	}
	if !first[0].Total().Equal(second[0].Total()) {
		t.Errorf("totals differ between identical runs: %s vs %s", first[0].Total(), second[0].Total())
	}
}

func TestPODraftTotal(t *testing.T) {
	draft := core.PODraft{Lines: []core.POLineDraft{
		{Quantity: d("8"), UnitCost: d("45.50")},
		{Quantity: d("4"), UnitCost: d("80.00")},
	}}
	if got := draft.Total(); !got.Equal(d("684")) {
		t.Errorf("Total = %s, want 684", got)
	}
}

func TestOrderNumberFormats(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		got  string
		want string
	}{
		{core.PONumber(year, 1), fmt.Sprintf("PO-%d-0001", year)},
		{core.PONumber(2026, 42), "PO-2026-0042"},
		{core.ProductionNumber(2026, 7), "KP-2026-0007"},
		{core.SalesNumber(2026, 123), "SO-2026-0123"},
		{core.SupplierNumber(2026, 9999), "SUP-2026-9999"},
		{core.PONumber(2026, 10000), "PO-2026-10000"}, // width grows past 4 digits
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
