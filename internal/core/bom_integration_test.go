package core_test

import (
	"context"
	"testing"

	"partsdesk/internal/core"
)

func TestBOM_CreateTemplate_Versioning(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	ctx := context.Background()

	// Fixture seeds version 1; a new template for the same kit becomes v2.
	created, err := bom.CreateTemplate(ctx, core.BOMTemplateInput{
		KitSKUID:  f.KitID,
		LaborCost: d("30.00"),
		Components: []core.BOMComponentInput{
			{ComponentSKUID: f.PadID, QuantityRequired: d("2"), UnitCost: d("45.50")},
			{ComponentSKUID: f.RotorID, QuantityRequired: d("2"), UnitCost: d("80.00")},
		},
	})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if created.Version != 2 {
		t.Errorf("version = %d, want 2", created.Version)
	}
	// 2×45.50 + 2×80.00 + 30 labor = 281.00
	if !created.TotalCost.Equal(d("281")) {
		t.Errorf("total cost = %s, want 281", created.TotalCost)
	}
	if len(created.Components) != 2 {
		t.Errorf("components = %d, want 2", len(created.Components))
	}

	active, err := bom.GetActiveTemplateForKit(ctx, f.KitID)
	if err != nil {
		t.Fatalf("GetActiveTemplateForKit failed: %v", err)
	}
	if active.ID != created.ID {
		t.Errorf("active template = %d, want newest version %d", active.ID, created.ID)
	}
}

func TestBOM_CreateTemplate_Rejections(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	ctx := context.Background()

	// A SINGLE SKU cannot own a template.
	_, err := bom.CreateTemplate(ctx, core.BOMTemplateInput{
		KitSKUID: f.PadID,
		Components: []core.BOMComponentInput{
			{ComponentSKUID: f.RotorID, QuantityRequired: d("1")},
		},
	})
	if err == nil {
		t.Error("expected error for non-kit SKU, got nil")
	}

	// A kit cannot contain itself.
	_, err = bom.CreateTemplate(ctx, core.BOMTemplateInput{
		KitSKUID: f.KitID,
		Components: []core.BOMComponentInput{
			{ComponentSKUID: f.KitID, QuantityRequired: d("1")},
		},
	})
	if err == nil {
		t.Error("expected error for self-referencing kit, got nil")
	}

	_, err = bom.CreateTemplate(ctx, core.BOMTemplateInput{KitSKUID: f.KitID})
	if err == nil {
		t.Error("expected error for empty component list, got nil")
	}
}

func TestBOM_CheckTemplate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	ctx := context.Background()

	// Stock: pads plentiful, rotors short, fluid absent entirely.
	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("50"), d("45.50"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.ReceiveStock(ctx, f.RotorID, f.WarehouseID, d("12"), d("80.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	checks, err := bom.CheckTemplate(ctx, f.TemplateID, d("10"))
	if err != nil {
		t.Fatalf("CheckTemplate failed: %v", err)
	}
	if len(checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(checks))
	}

	byID := map[int]core.ComponentCheck{}
	for _, c := range checks {
		byID[c.ComponentSKUID] = c
	}
	if c := byID[f.PadID]; !c.Sufficient || !c.Shortage.IsZero() {
		t.Errorf("pads: sufficient=%v shortage=%s, want sufficient", c.Sufficient, c.Shortage)
	}
	if c := byID[f.RotorID]; c.Sufficient || !c.Shortage.Equal(d("8")) {
		t.Errorf("rotors: shortage = %s, want 8", c.Shortage)
	}
	if c := byID[f.FluidID]; c.Sufficient || !c.Shortage.Equal(d("10")) {
		t.Errorf("fluid: shortage = %s, want 10 (no inventory row counts as zero)", c.Shortage)
	}
}
