package core_test

import (
	"context"
	"os"
	"testing"

	"partsdesk/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE workflow_alerts, supplier_orders, stock_movements,
			purchase_order_items, purchase_orders, production_orders,
			sales_order_items, sales_orders, inventory_items,
			bom_components, bom_templates, skus, warehouses, vendors, users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

// testFixture is the shared master-data seed: two vendors, one warehouse, a
// brake kit with three components.
type testFixture struct {
	VendorAID   int // brake parts vendor
	VendorBID   int // fluids vendor
	WarehouseID int
	KitID       int // BRAKE-KIT
	PadID       int // BRK-PAD, 2 per kit, preferred vendor A
	RotorID     int // BRK-ROT, 2 per kit, preferred vendor A
	FluidID     int // BRK-FLD, 1 per kit, preferred vendor B
	TemplateID  int
}

func seedFixture(t *testing.T, pool *pgxpool.Pool) testFixture {
	t.Helper()
	ctx := context.Background()
	var f testFixture

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	must(pool.QueryRow(ctx, `
		INSERT INTO vendors (code, name) VALUES ('V-BRAKE', 'Brake Parts Co') RETURNING id`).Scan(&f.VendorAID))
	must(pool.QueryRow(ctx, `
		INSERT INTO vendors (code, name) VALUES ('V-FLUID', 'Fluid Supply Inc') RETURNING id`).Scan(&f.VendorBID))
	must(pool.QueryRow(ctx, `
		INSERT INTO warehouses (code, name) VALUES ('MAIN', 'Main Warehouse') RETURNING id`).Scan(&f.WarehouseID))

	must(pool.QueryRow(ctx, `
		INSERT INTO skus (code, name, sku_type, unit_cost, unit_price)
		VALUES ('BRAKE-KIT', 'Complete Brake Kit', 'KIT', 0, 450.00) RETURNING id`).Scan(&f.KitID))
	must(pool.QueryRow(ctx, `
		INSERT INTO skus (code, name, sku_type, unit_cost, unit_price, preferred_vendor_id)
		VALUES ('BRK-PAD', 'Brake Pad Set', 'SINGLE', 45.50, 89.99, $1) RETURNING id`, f.VendorAID).Scan(&f.PadID))
	must(pool.QueryRow(ctx, `
		INSERT INTO skus (code, name, sku_type, unit_cost, unit_price, preferred_vendor_id)
		VALUES ('BRK-ROT', 'Brake Rotor', 'SINGLE', 80.00, 149.99, $1) RETURNING id`, f.VendorAID).Scan(&f.RotorID))
	must(pool.QueryRow(ctx, `
		INSERT INTO skus (code, name, sku_type, unit_cost, unit_price, preferred_vendor_id)
		VALUES ('BRK-FLD', 'Brake Fluid 1L', 'SINGLE', 12.99, 24.99, $1) RETURNING id`, f.VendorBID).Scan(&f.FluidID))

	must(pool.QueryRow(ctx, `
		INSERT INTO bom_templates (kit_sku_id, version, labor_cost, overhead_cost, total_cost)
		VALUES ($1, 1, 25.00, 10.01, 299.00) RETURNING id`, f.KitID).Scan(&f.TemplateID))
	_, err := pool.Exec(ctx, `
		INSERT INTO bom_components (bom_template_id, component_sku_id, quantity_required, unit_cost, is_critical) VALUES
		($1, $2, 2, 45.50, true),
		($1, $3, 2, 80.00, true),
		($1, $4, 1, 12.99, false)`,
		f.TemplateID, f.PadID, f.RotorID, f.FluidID)
	must(err)

	return f
}

func stockOnHand(t *testing.T, pool *pgxpool.Pool, skuID, warehouseID int) decimal.Decimal {
	t.Helper()
	var qty decimal.Decimal
	err := pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(qty_on_hand), 0) FROM inventory_items
		WHERE sku_id = $1 AND ($2 = 0 OR warehouse_id = $2)`, skuID, warehouseID).Scan(&qty)
	if err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return qty
}

func TestInventory_ReceiveStock_WeightedAverageCost(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	ctx := context.Background()

	// 10 @ 40.00 then 10 @ 50.00 should average to 45.00.
	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("10"), d("40.00"), "", nil); err != nil {
		t.Fatalf("first receipt failed: %v", err)
	}
	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("10"), d("50.00"), "", nil); err != nil {
		t.Fatalf("second receipt failed: %v", err)
	}

	var unitCost decimal.Decimal
	if err := pool.QueryRow(ctx, `SELECT unit_cost FROM skus WHERE id = $1`, f.PadID).Scan(&unitCost); err != nil {
		t.Fatalf("failed to read SKU cost: %v", err)
	}
	if !unitCost.Equal(d("45")) {
		t.Errorf("weighted average cost = %s, want 45", unitCost)
	}
	if got := stockOnHand(t, pool, f.PadID, f.WarehouseID); !got.Equal(d("20")) {
		t.Errorf("on hand = %s, want 20", got)
	}
}

func TestInventory_DepleteStock_InsufficientFails(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	ctx := context.Background()

	if err := inv.ReceiveStock(ctx, f.FluidID, f.WarehouseID, d("5"), d("12.99"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}

	err := inv.DepleteStock(ctx, f.FluidID, f.WarehouseID, d("6"), core.MovementIssue, core.MovementRef{}, "over-issue")
	if err == nil {
		t.Fatal("expected insufficient stock error, got nil")
	}
	if got := stockOnHand(t, pool, f.FluidID, f.WarehouseID); !got.Equal(d("5")) {
		t.Errorf("failed depletion moved stock: on hand = %s, want 5", got)
	}

	if err := inv.DepleteStock(ctx, f.FluidID, f.WarehouseID, d("5"), core.MovementIssue, core.MovementRef{}, "issue all"); err != nil {
		t.Fatalf("full depletion failed: %v", err)
	}
	if got := stockOnHand(t, pool, f.FluidID, f.WarehouseID); !got.IsZero() {
		t.Errorf("on hand = %s, want 0", got)
	}
}

func TestInventory_LowStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	f := seedFixture(t, pool)

	inv := core.NewInventoryService(pool)
	ctx := context.Background()

	if err := inv.ReceiveStock(ctx, f.PadID, f.WarehouseID, d("8"), d("45.50"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.SetReorderLevels(ctx, f.PadID, f.WarehouseID, d("10"), d("50")); err != nil {
		t.Fatalf("set reorder levels failed: %v", err)
	}
	// Rotor is well stocked and must not appear.
	if err := inv.ReceiveStock(ctx, f.RotorID, f.WarehouseID, d("100"), d("80.00"), "", nil); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if err := inv.SetReorderLevels(ctx, f.RotorID, f.WarehouseID, d("10"), d("50")); err != nil {
		t.Fatalf("set reorder levels failed: %v", err)
	}

	low, err := inv.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock failed: %v", err)
	}
	if len(low) != 1 {
		t.Fatalf("expected 1 low stock item, got %d", len(low))
	}
	if low[0].SKUID != f.PadID {
		t.Errorf("low stock SKU = %d, want %d", low[0].SKUID, f.PadID)
	}
	if !low[0].SuggestedQty.Equal(d("50")) {
		t.Errorf("suggested qty = %s, want 50", low[0].SuggestedQty)
	}
}
