package core_test

import (
	"context"
	"testing"
	"time"

	"partsdesk/internal/core"
)

func TestReporting_StockLedgerRunningBalance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	rep := core.NewReportingService(pool, inv)
	ctx := context.Background()

	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("10"), d("40.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.DepleteStock(ctx, f.PadID, f.WarehouseID, d("4"), core.MovementIssue, core.MovementRef{}, "workshop issue"); err != nil {
		t.Fatalf("depletion failed: %v", err)
	}
	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("6"), d("50.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	lines, err := rep.GetStockLedger(ctx, "BRK-PAD", "", "")
	if err != nil {
		t.Fatalf("GetStockLedger failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 ledger lines, got %d", len(lines))
	}

	wantBalances := []string{"10", "6", "12"}
	for i, want := range wantBalances {
		if !lines[i].RunningBalance.Equal(d(want)) {
			t.Errorf("line %d: running balance = %s, want %s", i, lines[i].RunningBalance, want)
		}
	}
	if lines[1].MovementType != core.MovementIssue {
		t.Errorf("line 1 type = %s, want ISSUE", lines[1].MovementType)
	}
	if !lines[1].Quantity.Equal(d("-4")) {
		t.Errorf("line 1 quantity = %s, want -4", lines[1].Quantity)
	}

	if _, err := rep.GetStockLedger(ctx, "NO-SUCH-SKU", "", ""); err == nil {
		t.Error("expected unknown SKU to fail, got nil")
	}
}

func TestReporting_StockValue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	rep := core.NewReportingService(pool, inv)
	ctx := context.Background()

	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("10"), d("40.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.ReceiveStock(ctx, f.FluidID, f.WarehouseID, d("20"), d("12.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	report, err := rep.GetStockValue(ctx)
	if err != nil {
		t.Fatalf("GetStockValue failed: %v", err)
	}
	// Pads 10×40 + fluid 20×12 = 640; zero-stock SKUs stay out of the report.
	if len(report.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(report.Lines))
	}
	if !report.TotalValue.Equal(d("640")) {
		t.Errorf("total value = %s, want 640", report.TotalValue)
	}
}

func TestReporting_SalesPerformance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool)
	rep := core.NewReportingService(pool, inv)
	ctx := context.Background()

	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("10"), d("45.50"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	order, err := sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName: "Walk-in",
		Items:        []core.SalesOrderItemInput{{SKUID: f.PadID, Quantity: d("3"), UnitPrice: d("100.00")}},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}
	if err := sales.FulfillSalesOrder(ctx, order.ID, f.WarehouseID, inv); err != nil {
		t.Fatalf("FulfillSalesOrder failed: %v", err)
	}

	// A pending order must not count.
	if _, err := sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName: "Pending Customer",
		Items:        []core.SalesOrderItemInput{{SKUID: f.PadID, Quantity: d("5"), UnitPrice: d("100.00")}},
	}); err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}

	now := time.Now()
	report, err := rep.GetSalesPerformance(ctx, now.Year(), int(now.Month()))
	if err != nil {
		t.Fatalf("GetSalesPerformance failed: %v", err)
	}
	if len(report.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(report.Lines))
	}
	if !report.Lines[0].QtySold.Equal(d("3")) {
		t.Errorf("qty sold = %s, want 3", report.Lines[0].QtySold)
	}
	if !report.TotalRevenue.Equal(d("300")) {
		t.Errorf("revenue = %s, want 300", report.TotalRevenue)
	}
}
