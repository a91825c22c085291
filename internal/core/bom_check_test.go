package core_test

import (
	"testing"

	"partsdesk/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckComponents(t *testing.T) {
	components := []core.BOMComponent{
		{ComponentSKUID: 1, ComponentSKUCode: "BRK-PAD", ComponentSKUName: "Brake Pad Set", QuantityRequired: d("2")},
		{ComponentSKUID: 2, ComponentSKUCode: "BRK-ROT", ComponentSKUName: "Brake Rotor", QuantityRequired: d("2")},
		{ComponentSKUID: 3, ComponentSKUCode: "BRK-FLD", ComponentSKUName: "Brake Fluid 1L", QuantityRequired: d("1")},
	}

	tests := []struct {
		name         string
		kitQty       string
		availability map[int]decimal.Decimal
		wantShort    map[int]string // SKU ID -> expected shortage
		allOK        bool
	}{
		{
			name:   "all components sufficient",
			kitQty: "5",
			availability: map[int]decimal.Decimal{
				1: d("10"), 2: d("10"), 3: d("5"),
			},
			wantShort: map[int]string{1: "0", 2: "0", 3: "0"},
			allOK:     true,
		},
		{
			name:   "one component short",
			kitQty: "10",
			availability: map[int]decimal.Decimal{
				1: d("20"), 2: d("12"), 3: d("10"),
			},
			wantShort: map[int]string{1: "0", 2: "8", 3: "0"},
			allOK:     false,
		},
		{
			name:   "missing availability counts as zero",
			kitQty: "3",
			availability: map[int]decimal.Decimal{
				1: d("6"), 3: d("3"),
			},
			wantShort: map[int]string{1: "0", 2: "6", 3: "0"},
			allOK:     false,
		},
		{
			name:         "empty availability map",
			kitQty:       "1",
			availability: map[int]decimal.Decimal{},
			wantShort:    map[int]string{1: "2", 2: "2", 3: "1"},
			allOK:        false,
		},
		{
			name:   "surplus never reports negative shortage",
			kitQty: "1",
			availability: map[int]decimal.Decimal{
				1: d("100"), 2: d("100"), 3: d("100"),
			},
			wantShort: map[int]string{1: "0", 2: "0", 3: "0"},
			allOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := core.CheckComponents(components, d(tt.kitQty), tt.availability)
			if len(checks) != len(components) {
				t.Fatalf("expected %d checks, got %d", len(components), len(checks))
			}
			for _, c := range checks {
				want := d(tt.wantShort[c.ComponentSKUID])
				if !c.Shortage.Equal(want) {
					t.Errorf("SKU %d: shortage = %s, want %s", c.ComponentSKUID, c.Shortage, want)
				}
				if c.Sufficient != c.Shortage.IsZero() {
					t.Errorf("SKU %d: sufficient = %v with shortage %s", c.ComponentSKUID, c.Sufficient, c.Shortage)
				}
				wantReq := d(tt.kitQty).Mul(componentQty(components, c.ComponentSKUID))
				if !c.Required.Equal(wantReq) {
					t.Errorf("SKU %d: required = %s, want %s", c.ComponentSKUID, c.Required, wantReq)
				}
			}
			if got := core.AllSufficient(checks); got != tt.allOK {
				t.Errorf("AllSufficient = %v, want %v", got, tt.allOK)
			}
		})
	}
}

func componentQty(components []core.BOMComponent, skuID int) decimal.Decimal {
	for _, c := range components {
		if c.ComponentSKUID == skuID {
			return c.QuantityRequired
		}
	}
	return decimal.Zero
}

func TestCheckComponents_Deterministic(t *testing.T) {
	components := []core.BOMComponent{
		{ComponentSKUID: 1, QuantityRequired: d("4")},
		{ComponentSKUID: 2, QuantityRequired: d("1")},
	}
	availability := map[int]decimal.Decimal{1: d("10"), 2: d("0.5")}

	first := core.CheckComponents(components, d("3"), availability)
	second := core.CheckComponents(components, d("3"), availability)

	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Shortage.Equal(second[i].Shortage) || first[i].Sufficient != second[i].Sufficient {
			t.Errorf("check %d differs between identical runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCheckComponents_UnknownSKUName(t *testing.T) {
	components := []core.BOMComponent{
		{ComponentSKUID: 99, QuantityRequired: d("1")}, // SKU no longer resolves
	}
	checks := core.CheckComponents(components, d("1"), nil)
	if checks[0].SKUName != core.UnknownItemName {
		t.Errorf("name = %q, want %q", checks[0].SKUName, core.UnknownItemName)
	}
	if !checks[0].Shortage.Equal(d("1")) {
		t.Errorf("shortage = %s, want 1", checks[0].Shortage)
	}
}

func TestTemplateTotalCost(t *testing.T) {
	components := []core.BOMComponentInput{
		{ComponentSKUID: 1, QuantityRequired: d("2"), UnitCost: d("45.50")},
		{ComponentSKUID: 2, QuantityRequired: d("2"), UnitCost: d("80.00")},
		{ComponentSKUID: 3, QuantityRequired: d("1"), UnitCost: d("12.99")},
	}

	// 2×45.50 + 2×80.00 + 1×12.99 = 263.99
	if got := core.ComponentsCost(components); !got.Equal(d("263.99")) {
		t.Errorf("ComponentsCost = %s, want 263.99", got)
	}
	got := core.TemplateTotalCost(components, d("25"), d("10.01"))
	if !got.Equal(d("299")) {
		t.Errorf("TemplateTotalCost = %s, want 299", got)
	}
}
