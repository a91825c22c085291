package core_test

import (
	"context"
	"testing"

	"partsdesk/internal/core"
)

func TestSupplierOrder_PauseClassifiesAndAlerts(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	sup := core.NewSupplierOrderService(pool)
	ctx := context.Background()

	order, err := sup.CreateSupplierOrder(ctx, core.SupplierOrderInput{
		SKUID:    f.PadID,
		Quantity: d("50"),
	})
	if err != nil {
		t.Fatalf("CreateSupplierOrder failed: %v", err)
	}
	if order.WorkflowStatus != core.WorkflowActive {
		t.Errorf("workflow = %s, want ACTIVE", order.WorkflowStatus)
	}

	paused, err := sup.Pause(ctx, order.ID, "need to pick a vendor for this part")
	if err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if paused.WorkflowStatus != core.WorkflowPaused {
		t.Errorf("workflow = %s, want PAUSED", paused.WorkflowStatus)
	}
	if paused.PauseReason == nil || *paused.PauseReason != core.PauseVendorAssignmentNeeded {
		t.Errorf("pause reason = %v, want VENDOR_ASSIGNMENT_NEEDED", paused.PauseReason)
	}
	if paused.PausedAt == nil {
		t.Error("paused_at not stamped")
	}

	alerts, err := sup.OpenAlerts(ctx)
	if err != nil {
		t.Fatalf("OpenAlerts failed: %v", err)
	}
	if len(alerts) != 1 || alerts[0].SupplierOrderID != order.ID {
		t.Fatalf("expected one open alert for order %d, got %+v", order.ID, alerts)
	}

	// Pausing twice is rejected.
	if _, err := sup.Pause(ctx, order.ID, "again"); err == nil {
		t.Error("expected second pause to fail, got nil")
	}
}

func TestSupplierOrder_ShippingPauseRaisesNoAlert(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	sup := core.NewSupplierOrderService(pool)
	ctx := context.Background()

	order, err := sup.CreateSupplierOrder(ctx, core.SupplierOrderInput{
		SKUID:    f.RotorID,
		VendorID: &f.VendorAID,
		Quantity: d("20"),
	})
	if err != nil {
		t.Fatalf("CreateSupplierOrder failed: %v", err)
	}

	paused, err := sup.Pause(ctx, order.ID, "shipment delayed at port")
	if err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if paused.PauseReason == nil || *paused.PauseReason != core.PauseShippingDelay {
		t.Errorf("pause reason = %v, want SHIPPING_DELAY", paused.PauseReason)
	}

	alerts, err := sup.OpenAlerts(ctx)
	if err != nil {
		t.Fatalf("OpenAlerts failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts for a shipping pause, got %d", len(alerts))
	}

	resumed, err := sup.Resume(ctx, order.ID, "shipment arrived")
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resumed.WorkflowStatus != core.WorkflowActive {
		t.Errorf("workflow = %s, want ACTIVE", resumed.WorkflowStatus)
	}
	if resumed.PauseReason != nil {
		t.Errorf("pause reason not cleared: %v", *resumed.PauseReason)
	}
}

func TestSupplierOrder_AssignVendorResumesAndSetsPreferred(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	sup := core.NewSupplierOrderService(pool)
	ctx := context.Background()

	// A part with no preferred vendor yet.
	var orphanID int
	err := pool.QueryRow(ctx, `
		INSERT INTO skus (code, name, sku_type, unit_cost, unit_price)
		VALUES ('CLAMP', 'Hose Clamp', 'SINGLE', 0.80, 1.99) RETURNING id`).Scan(&orphanID)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	order, err := sup.CreateSupplierOrder(ctx, core.SupplierOrderInput{
		SKUID:    orphanID,
		Quantity: d("500"),
	})
	if err != nil {
		t.Fatalf("CreateSupplierOrder failed: %v", err)
	}
	if _, err := sup.Pause(ctx, order.ID, "no vendor assigned"); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	assigned, err := sup.AssignVendor(ctx, order.ID, f.VendorBID)
	if err != nil {
		t.Fatalf("AssignVendor failed: %v", err)
	}
	if assigned.VendorID == nil || *assigned.VendorID != f.VendorBID {
		t.Errorf("vendor = %v, want %d", assigned.VendorID, f.VendorBID)
	}
	// Assignment resumes the workflow and resolves the alert.
	if assigned.WorkflowStatus != core.WorkflowActive {
		t.Errorf("workflow = %s, want ACTIVE after vendor assignment", assigned.WorkflowStatus)
	}
	alerts, err := sup.OpenAlerts(ctx)
	if err != nil {
		t.Fatalf("OpenAlerts failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected alerts resolved after assignment, got %d open", len(alerts))
	}

	// The SKU remembers the vendor for future sourcing.
	var preferred *int
	if err := pool.QueryRow(ctx, `SELECT preferred_vendor_id FROM skus WHERE id = $1`, orphanID).Scan(&preferred); err != nil {
		t.Fatalf("failed to read SKU: %v", err)
	}
	if preferred == nil || *preferred != f.VendorBID {
		t.Errorf("preferred vendor = %v, want %d", preferred, f.VendorBID)
	}
}
