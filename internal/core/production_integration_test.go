package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"partsdesk/internal/core"
)

func TestProduction_FullLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	prod := core.NewProductionService(pool, bom)
	ctx := context.Background()

	// Enough stock for 100 kits: 200 pads, 200 rotors, 100 fluid.
	for _, s := range []struct {
		id  int
		qty string
	}{{f.PadID, "200"}, {f.RotorID, "200"}, {f.FluidID, "100"}} {
		if err := inv.ReceiveStock(ctx, s.id, f.WarehouseID, d(s.qty), d("10"), "", nil); err != nil {
			t.Fatalf("receipt failed: %v", err)
		}
	}

	order, err := prod.Plan(ctx, core.ProductionOrderInput{
		KitSKUID:    f.KitID,
		Quantity:    d("100"),
		WarehouseID: f.WarehouseID,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if order.Status != core.ProductionPlanned {
		t.Errorf("status = %s, want PLANNED", order.Status)
	}
	wantNumber := fmt.Sprintf("KP-%d-%04d", time.Now().Year(), order.ID)
	if order.OrderNumber != wantNumber {
		t.Errorf("order number = %s, want %s", order.OrderNumber, wantNumber)
	}
	// Planning must not touch stock.
	if got := stockOnHand(t, pool, f.PadID, f.WarehouseID); !got.Equal(d("200")) {
		t.Errorf("pad stock after plan = %s, want 200", got)
	}

	if err := prod.Start(ctx, order.ID, inv); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// Start consumes components: 200 pads, 200 rotors, 100 fluid all gone.
	if got := stockOnHand(t, pool, f.PadID, f.WarehouseID); !got.IsZero() {
		t.Errorf("pad stock after start = %s, want 0", got)
	}
	if got := stockOnHand(t, pool, f.FluidID, f.WarehouseID); !got.IsZero() {
		t.Errorf("fluid stock after start = %s, want 0", got)
	}

	// 95 of 100 kits come out good; only 95 enter stock.
	if err := prod.Complete(ctx, order.ID, d("95"), inv); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	got, err := prod.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != core.ProductionCompleted {
		t.Errorf("status = %s, want COMPLETED", got.Status)
	}
	if !got.QtyCompleted.Equal(d("95")) {
		t.Errorf("qty completed = %s, want 95", got.QtyCompleted)
	}
	if kits := stockOnHand(t, pool, f.KitID, f.WarehouseID); !kits.Equal(d("95")) {
		t.Errorf("kit stock = %s, want 95", kits)
	}

	// Completed orders are terminal.
	if err := prod.Start(ctx, order.ID, inv); err == nil {
		t.Error("expected start of COMPLETED order to fail, got nil")
	}
	if err := prod.Cancel(ctx, order.ID, inv); err == nil {
		t.Error("expected cancel of COMPLETED order to fail, got nil")
	}
}

func TestProduction_StartFailsOnShortage(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	prod := core.NewProductionService(pool, bom)
	ctx := context.Background()

	// Only enough pads for 5 kits, order asks for 10.
	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("10"), d("45.50"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.ReceiveStock(ctx, f.RotorID, f.WarehouseID, d("20"), d("80.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.ReceiveStock(ctx, f.FluidID, f.WarehouseID, d("10"), d("12.99"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	order, err := prod.Plan(ctx, core.ProductionOrderInput{
		KitSKUID:    f.KitID,
		Quantity:    d("10"),
		WarehouseID: f.WarehouseID,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if err := prod.Start(ctx, order.ID, inv); err == nil {
		t.Fatal("expected start to fail on component shortage, got nil")
	}

	// Nothing moved: the failed start must not consume partial stock.
	if got := stockOnHand(t, pool, f.PadID, f.WarehouseID); !got.Equal(d("10")) {
		t.Errorf("pad stock = %s, want 10", got)
	}
	if got := stockOnHand(t, pool, f.RotorID, f.WarehouseID); !got.Equal(d("20")) {
		t.Errorf("rotor stock = %s, want 20", got)
	}
	got, err := prod.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != core.ProductionPlanned {
		t.Errorf("status = %s, want PLANNED after failed start", got.Status)
	}
}

func TestProduction_HoldResume(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	prod := core.NewProductionService(pool, bom)
	ctx := context.Background()

	for _, s := range []struct {
		id  int
		qty string
	}{{f.PadID, "20"}, {f.RotorID, "20"}, {f.FluidID, "10"}} {
		if err := inv.ReceiveStock(ctx, s.id, f.WarehouseID, d(s.qty), d("10"), "", nil); err != nil {
			t.Fatalf("receipt failed: %v", err)
		}
	}

	order, err := prod.Plan(ctx, core.ProductionOrderInput{
		KitSKUID:    f.KitID,
		Quantity:    d("10"),
		WarehouseID: f.WarehouseID,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if err := prod.Start(ctx, order.ID, inv); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := prod.Hold(ctx, order.ID, "machine down"); err != nil {
		t.Fatalf("Hold failed: %v", err)
	}
	held, err := prod.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if held.Status != core.ProductionOnHold {
		t.Errorf("status = %s, want ON_HOLD", held.Status)
	}
	if held.HeldFrom == nil || *held.HeldFrom != core.ProductionInProgress {
		t.Errorf("held_from = %v, want IN_PROGRESS", held.HeldFrom)
	}

	// A held order cannot complete.
	if err := prod.Complete(ctx, order.ID, d("10"), inv); err == nil {
		t.Error("expected complete of ON_HOLD order to fail, got nil")
	}

	// Resume returns to the pre-hold state, and the build can finish.
	if err := prod.Resume(ctx, order.ID); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	resumed, err := prod.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resumed.Status != core.ProductionInProgress {
		t.Errorf("status after resume = %s, want IN_PROGRESS", resumed.Status)
	}
	if resumed.HeldFrom != nil {
		t.Errorf("held_from not cleared: %v", *resumed.HeldFrom)
	}
	if err := prod.Complete(ctx, order.ID, d("10"), inv); err != nil {
		t.Fatalf("Complete after resume failed: %v", err)
	}
}

func TestProduction_CancelReturnsComponents(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inv)
	prod := core.NewProductionService(pool, bom)
	ctx := context.Background()

	for _, s := range []struct {
		id  int
		qty string
	}{{f.PadID, "20"}, {f.RotorID, "20"}, {f.FluidID, "10"}} {
		if err := inv.ReceiveStock(ctx, s.id, f.WarehouseID, d(s.qty), d("10"), "", nil); err != nil {
			t.Fatalf("receipt failed: %v", err)
		}
	}

	order, err := prod.Plan(ctx, core.ProductionOrderInput{
		KitSKUID:    f.KitID,
		Quantity:    d("10"),
		WarehouseID: f.WarehouseID,
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if err := prod.Start(ctx, order.ID, inv); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := stockOnHand(t, pool, f.PadID, f.WarehouseID); !got.IsZero() {
		t.Fatalf("pad stock after start = %s, want 0", got)
	}

	if err := prod.Cancel(ctx, order.ID, inv); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	// Components are back, no kits were made.
	if got := stockOnHand(t, pool, f.PadID, f.WarehouseID); !got.Equal(d("20")) {
		t.Errorf("pad stock after cancel = %s, want 20", got)
	}
	if got := stockOnHand(t, pool, f.FluidID, f.WarehouseID); !got.Equal(d("10")) {
		t.Errorf("fluid stock after cancel = %s, want 10", got)
	}
	if got := stockOnHand(t, pool, f.KitID, f.WarehouseID); !got.IsZero() {
		t.Errorf("kit stock after cancel = %s, want 0", got)
	}
}
