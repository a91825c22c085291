package core_test

import (
	"context"
	"testing"

	"partsdesk/internal/core"
)

func TestPlanner_KitBuildDraftsPOsForShortages(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	prod := core.NewProductionService(pool, bom)
	pos := core.NewPurchaseOrderService(pool)
	planner := core.NewPlannerService(pool, bom, prod, pos, core.ReplenishmentDefaults{
		VendorID: f.VendorBID,
		UnitCost: d("1.00"),
	})
	ctx := context.Background()

	// Stock for 10 kits: pads cover 6 kits, rotors 10, fluid none.
	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("12"), d("45.50"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.ReceiveStock(ctx, f.RotorID, f.WarehouseID, d("20"), d("80.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	plan, err := planner.PlanKitBuild(ctx, f.KitID, d("10"), f.WarehouseID, nil)
	if err != nil {
		t.Fatalf("PlanKitBuild failed: %v", err)
	}
	if plan.Order.Status != core.ProductionPlanned {
		t.Errorf("production status = %s, want PLANNED", plan.Order.Status)
	}

	// Shortages: 8 pads from vendor A, 10 fluid from vendor B — two POs.
	if len(plan.PurchaseOrders) != 2 {
		t.Fatalf("expected 2 purchase orders, got %d", len(plan.PurchaseOrders))
	}
	byVendor := map[int]core.PurchaseOrder{}
	for _, po := range plan.PurchaseOrders {
		byVendor[po.VendorID] = po
		if po.Status != core.POPending {
			t.Errorf("PO %s status = %s, want PENDING", po.OrderNumber, po.Status)
		}
		if po.ProductionOrderID == nil || *po.ProductionOrderID != plan.Order.ID {
			t.Errorf("PO %s not linked to production order %d", po.OrderNumber, plan.Order.ID)
		}
	}

	padPO := byVendor[f.VendorAID]
	if len(padPO.Items) != 1 || !padPO.Items[0].QtyOrdered.Equal(d("8")) {
		t.Errorf("vendor A PO lines = %+v, want 8 pads", padPO.Items)
	}
	if !padPO.Items[0].UnitCost.Equal(d("45.50")) {
		t.Errorf("pad unit cost = %s, want SKU cost 45.50", padPO.Items[0].UnitCost)
	}
	fluidPO := byVendor[f.VendorBID]
	if len(fluidPO.Items) != 1 || !fluidPO.Items[0].QtyOrdered.Equal(d("10")) {
		t.Errorf("vendor B PO lines = %+v, want 10 fluid", fluidPO.Items)
	}

	// The link is queryable from the production order side too.
	linked, err := pos.GetPOsForProductionOrder(ctx, plan.Order.ID)
	if err != nil {
		t.Fatalf("GetPOsForProductionOrder failed: %v", err)
	}
	if len(linked) != 2 {
		t.Errorf("expected 2 linked POs, got %d", len(linked))
	}
}

func TestPlanner_KitBuildNoShortagesNoPOs(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	prod := core.NewProductionService(pool, bom)
	pos := core.NewPurchaseOrderService(pool)
	planner := core.NewPlannerService(pool, bom, prod, pos, core.ReplenishmentDefaults{
		VendorID: f.VendorBID, UnitCost: d("1.00"),
	})
	ctx := context.Background()

	for _, s := range []struct {
		id  int
		qty string
	}{{f.PadID, "20"}, {f.RotorID, "20"}, {f.FluidID, "10"}} {
		if err := inv.ReceiveStock(ctx, s.id, f.WarehouseID, d(s.qty), d("10"), "", nil); err != nil {
			t.Fatalf("receipt failed: %v", err)
		}
	}

	plan, err := planner.PlanKitBuild(ctx, f.KitID, d("10"), f.WarehouseID, nil)
	if err != nil {
		t.Fatalf("PlanKitBuild failed: %v", err)
	}
	if len(plan.PurchaseOrders) != 0 {
		t.Errorf("expected no POs with full stock, got %d", len(plan.PurchaseOrders))
	}
	if !core.AllSufficient(plan.Checks) {
		t.Error("expected all checks sufficient")
	}
}

func TestPlanner_ReorderLowStockIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	prod := core.NewProductionService(pool, bom)
	pos := core.NewPurchaseOrderService(pool)
	planner := core.NewPlannerService(pool, bom, prod, pos, core.ReplenishmentDefaults{
		VendorID: f.VendorBID, UnitCost: d("1.00"),
	})
	ctx := context.Background()

	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("5"), d("45.50"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.SetReorderLevels(ctx, f.PadID, f.WarehouseID, d("10"), d("50")); err != nil {
		t.Fatalf("set reorder levels failed: %v", err)
	}

	created, err := planner.ReorderLowStock(ctx, f.WarehouseID)
	if err != nil {
		t.Fatalf("ReorderLowStock failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 PO, got %d", len(created))
	}
	if created[0].VendorID != f.VendorAID {
		t.Errorf("PO vendor = %d, want preferred vendor %d", created[0].VendorID, f.VendorAID)
	}
	if len(created[0].Items) != 1 || !created[0].Items[0].QtyOrdered.Equal(d("50")) {
		t.Errorf("PO lines = %+v, want 50 pads", created[0].Items)
	}

	// The open PO covers the SKU, so a second run creates nothing.
	again, err := planner.ReorderLowStock(ctx, f.WarehouseID)
	if err != nil {
		t.Fatalf("second ReorderLowStock failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no new POs on second run, got %d", len(again))
	}
}
