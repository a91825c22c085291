package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"partsdesk/internal/core"
)

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool)
	ctx := context.Background()

	po, err := pos.CreatePO(ctx, core.PurchaseOrderInput{
		VendorID:    f.VendorAID,
		WarehouseID: f.WarehouseID,
		Items: []core.PurchaseOrderItemInput{
			{SKUID: f.PadID, Quantity: d("8"), UnitCost: d("45.50")},
			{SKUID: f.RotorID, Quantity: d("4"), UnitCost: d("80.00")},
		},
	})
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}
	if po.Status != core.POPending {
		t.Errorf("status = %s, want PENDING", po.Status)
	}
	wantNumber := fmt.Sprintf("PO-%d-%04d", time.Now().Year(), po.ID)
	if po.OrderNumber != wantNumber {
		t.Errorf("order number = %s, want %s", po.OrderNumber, wantNumber)
	}
	// 8×45.50 + 4×80.00 = 684.00
	if !po.TotalAmount.Equal(d("684")) {
		t.Errorf("total = %s, want 684", po.TotalAmount)
	}

	// Cannot receive before ordering.
	err = pos.ReceivePO(ctx, po.ID, []core.POReceipt{{POItemID: po.Items[0].ID, QtyReceived: d("8")}}, inv)
	if err == nil {
		t.Error("expected receive on PENDING to fail, got nil")
	}

	if err := pos.MarkOrdered(ctx, po.ID); err != nil {
		t.Fatalf("MarkOrdered failed: %v", err)
	}

	// Partial receipt keeps the order ORDERED.
	err = pos.ReceivePO(ctx, po.ID, []core.POReceipt{{POItemID: po.Items[0].ID, QtyReceived: d("8")}}, inv)
	if err != nil {
		t.Fatalf("partial receive failed: %v", err)
	}
	got, err := pos.GetPO(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetPO failed: %v", err)
	}
	if got.Status != core.POOrdered {
		t.Errorf("status after partial receipt = %s, want ORDERED", got.Status)
	}
	if onHand := stockOnHand(t, pool, f.PadID, f.WarehouseID); !onHand.Equal(d("8")) {
		t.Errorf("pad stock = %s, want 8", onHand)
	}

	// Receiving the rest completes the order.
	err = pos.ReceivePO(ctx, po.ID, []core.POReceipt{{POItemID: po.Items[1].ID, QtyReceived: d("4")}}, inv)
	if err != nil {
		t.Fatalf("final receive failed: %v", err)
	}
	got, err = pos.GetPO(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetPO failed: %v", err)
	}
	if got.Status != core.POReceived {
		t.Errorf("status = %s, want RECEIVED", got.Status)
	}
	if got.ReceivedAt == nil {
		t.Error("received_at not stamped")
	}
}

func TestPurchaseOrder_OverReceiveFails(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool)
	ctx := context.Background()

	po, err := pos.CreatePO(ctx, core.PurchaseOrderInput{
		VendorID:    f.VendorAID,
		WarehouseID: f.WarehouseID,
		Items:       []core.PurchaseOrderItemInput{{SKUID: f.PadID, Quantity: d("5"), UnitCost: d("45.50")}},
	})
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}
	if err := pos.MarkOrdered(ctx, po.ID); err != nil {
		t.Fatalf("MarkOrdered failed: %v", err)
	}

	err = pos.ReceivePO(ctx, po.ID, []core.POReceipt{{POItemID: po.Items[0].ID, QtyReceived: d("6")}}, inv)
	if err == nil {
		t.Fatal("expected over-receive to fail, got nil")
	}
	if onHand := stockOnHand(t, pool, f.PadID, f.WarehouseID); !onHand.IsZero() {
		t.Errorf("failed receive moved stock: on hand = %s, want 0", onHand)
	}
}

func TestPurchaseOrder_CancelGuards(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool)
	ctx := context.Background()

	po, err := pos.CreatePO(ctx, core.PurchaseOrderInput{
		VendorID:    f.VendorAID,
		WarehouseID: f.WarehouseID,
		Items:       []core.PurchaseOrderItemInput{{SKUID: f.PadID, Quantity: d("5"), UnitCost: d("45.50")}},
	})
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}
	if err := pos.CancelPO(ctx, po.ID); err != nil {
		t.Fatalf("cancel of PENDING PO failed: %v", err)
	}

	// A partially received order cannot be cancelled.
	po2, err := pos.CreatePO(ctx, core.PurchaseOrderInput{
		VendorID:    f.VendorAID,
		WarehouseID: f.WarehouseID,
		Items:       []core.PurchaseOrderItemInput{{SKUID: f.PadID, Quantity: d("5"), UnitCost: d("45.50")}},
	})
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}
	if err := pos.MarkOrdered(ctx, po2.ID); err != nil {
		t.Fatalf("MarkOrdered failed: %v", err)
	}
	if err := pos.ReceivePO(ctx, po2.ID, []core.POReceipt{{POItemID: po2.Items[0].ID, QtyReceived: d("2")}}, inv); err != nil {
		t.Fatalf("partial receive failed: %v", err)
	}
	if err := pos.CancelPO(ctx, po2.ID); err == nil {
		t.Error("expected cancel of partially received PO to fail, got nil")
	}
}
