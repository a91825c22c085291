package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"partsdesk/internal/core"
)

func TestSalesOrder_KitLineRequiresProduction(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	sales := core.NewSalesOrderService(pool)
	ctx := context.Background()

	order, err := sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName: "Hartono Motors",
		Items: []core.SalesOrderItemInput{
			{SKUID: f.KitID, Quantity: d("10")},
		},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}
	wantNumber := fmt.Sprintf("SO-%d-%04d", time.Now().Year(), order.ID)
	if order.OrderNumber != wantNumber {
		t.Errorf("order number = %s, want %s", order.OrderNumber, wantNumber)
	}
	// Kits are built to order, so the flag is set even with no stock check.
	if !order.ProductionRequired {
		t.Error("production_required = false, want true for a kit line")
	}
	if order.BOMTemplateID == nil || *order.BOMTemplateID != f.TemplateID {
		t.Errorf("bom_template_id = %v, want %d", order.BOMTemplateID, f.TemplateID)
	}
	// Unit price defaults to the SKU list price: 10 × 450.00.
	if !order.TotalAmount.Equal(d("4500")) {
		t.Errorf("total = %s, want 4500", order.TotalAmount)
	}
}

func TestSalesOrder_SinglePartsNoProduction(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	sales := core.NewSalesOrderService(pool)
	ctx := context.Background()

	order, err := sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName: "Walk-in",
		Items: []core.SalesOrderItemInput{
			{SKUID: f.PadID, Quantity: d("2"), UnitPrice: d("95.00")},
		},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}
	if order.ProductionRequired {
		t.Error("production_required = true for plain parts order, want false")
	}
	// Explicit price overrides the list price.
	if !order.TotalAmount.Equal(d("190")) {
		t.Errorf("total = %s, want 190", order.TotalAmount)
	}
}

func TestSalesOrder_FulfillShipsStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool)
	ctx := context.Background()

	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("10"), d("45.50"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	order, err := sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName: "Walk-in",
		Items:        []core.SalesOrderItemInput{{SKUID: f.PadID, Quantity: d("4")}},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}

	if err := sales.FulfillSalesOrder(ctx, order.ID, f.WarehouseID, inv); err != nil {
		t.Fatalf("FulfillSalesOrder failed: %v", err)
	}
	if got := stockOnHand(t, pool, f.PadID, f.WarehouseID); !got.Equal(d("6")) {
		t.Errorf("stock after fulfilment = %s, want 6", got)
	}

	got, err := sales.GetSalesOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetSalesOrder failed: %v", err)
	}
	if got.Status != core.SalesFulfilled {
		t.Errorf("status = %s, want FULFILLED", got.Status)
	}

	// Fulfilment is final.
	if err := sales.FulfillSalesOrder(ctx, order.ID, f.WarehouseID, inv); err == nil {
		t.Error("expected second fulfilment to fail, got nil")
	}
	if err := sales.CancelSalesOrder(ctx, order.ID); err == nil {
		t.Error("expected cancel of FULFILLED order to fail, got nil")
	}
}

func TestSalesOrder_FulfillFailsWithoutStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool)
	ctx := context.Background()

	order, err := sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName: "Walk-in",
		Items:        []core.SalesOrderItemInput{{SKUID: f.RotorID, Quantity: d("2")}},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}

	if err := sales.FulfillSalesOrder(ctx, order.ID, f.WarehouseID, inv); err == nil {
		t.Fatal("expected fulfilment without stock to fail, got nil")
	}
	got, err := sales.GetSalesOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetSalesOrder failed: %v", err)
	}
	if got.Status != core.SalesPending {
		t.Errorf("status = %s, want PENDING after failed fulfilment", got.Status)
	}
}

func TestSalesOrder_Payment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	sales := core.NewSalesOrderService(pool)
	ctx := context.Background()

	order, err := sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName: "Walk-in",
		Items:        []core.SalesOrderItemInput{{SKUID: f.PadID, Quantity: d("1")}},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}
	if order.PaymentStatus != core.PaymentUnpaid {
		t.Errorf("payment status = %s, want UNPAID", order.PaymentStatus)
	}

	if err := sales.RecordPayment(ctx, order.ID, core.PaymentPaid); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	got, err := sales.GetSalesOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetSalesOrder failed: %v", err)
	}
	if got.PaymentStatus != core.PaymentPaid {
		t.Errorf("payment status = %s, want PAID", got.PaymentStatus)
	}

	if err := sales.RecordPayment(ctx, order.ID, core.PaymentStatus("REFUNDED")); err == nil {
		t.Error("expected invalid payment status to fail, got nil")
	}
}
