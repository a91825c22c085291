package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InventoryService manages warehouse stock levels, the stock movement ledger,
// and reorder-point monitoring. Multi-write sequences run in one transaction;
// check-then-act paths lock the inventory row first.
type InventoryService interface {
	// Warehouses
	CreateWarehouse(ctx context.Context, code, name string) (*Warehouse, error)
	GetWarehouses(ctx context.Context) ([]Warehouse, error)
	// GetDefaultWarehouse returns the first active warehouse.
	GetDefaultWarehouse(ctx context.Context) (*Warehouse, error)
	GetWarehouseByCode(ctx context.Context, code string) (*Warehouse, error)

	// Stock views
	GetStockLevels(ctx context.Context) ([]StockLevel, error)
	// Availability sums available quantity (on hand − reserved) per SKU across
	// all warehouses. SKUs without inventory rows are absent from the map;
	// callers treat absence as zero availability.
	Availability(ctx context.Context, skuIDs []int) (map[int]decimal.Decimal, error)
	// LowStock lists items whose available quantity is at or below the reorder point.
	LowStock(ctx context.Context) ([]LowStockItem, error)

	// SetReorderLevels configures the reorder point and standard reorder lot for
	// a SKU in a warehouse, creating the inventory row when absent.
	SetReorderLevels(ctx context.Context, skuID, warehouseID int, reorderPoint, reorderQty decimal.Decimal) error

	// ReceiveStock records a goods receipt: increases qty_on_hand, re-averages
	// the SKU unit cost, and appends a RECEIPT movement. poItemID, if non-nil,
	// links the movement to a purchase order item.
	ReceiveStock(ctx context.Context, skuID, warehouseID int, qty, unitCost decimal.Decimal,
		movementDate string, poItemID *int) error

	// DepleteStock removes stock for a shipment or internal issue, appending the
	// matching movement. Fails when on-hand is insufficient.
	DepleteStock(ctx context.Context, skuID, warehouseID int, qty decimal.Decimal,
		movementType MovementType, ref MovementRef, notes string) error

	// AdjustStock applies a signed correction and appends an ADJUSTMENT movement.
	AdjustStock(ctx context.Context, skuID, warehouseID int, delta decimal.Decimal, notes string) error

	// TX-scoped operations, used by the production and purchase order services
	// to keep stock changes atomic with order state transitions.

	// AddStockTx increases stock within the caller's transaction.
	AddStockTx(ctx context.Context, tx pgx.Tx, skuID, warehouseID int, qty, unitCost decimal.Decimal,
		movementType MovementType, ref MovementRef, notes string) error
	// ConsumeStockTx removes stock within the caller's transaction, drawing from
	// the given warehouse first and then from others in warehouse-ID order.
	ConsumeStockTx(ctx context.Context, tx pgx.Tx, skuID, warehouseID int, qty decimal.Decimal,
		movementType MovementType, ref MovementRef, notes string) error
}

type inventoryService struct {
	pool *pgxpool.Pool
}

// NewInventoryService constructs an InventoryService backed by PostgreSQL.
func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

// ── Warehouses ────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateWarehouse(ctx context.Context, code, name string) (*Warehouse, error) {
	if code == "" || name == "" {
		return nil, fmt.Errorf("warehouse code and name are required")
	}
	w := &Warehouse{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO warehouses (code, name)
		VALUES ($1, $2)
		RETURNING id, code, name, is_active, created_at`,
		code, name,
	).Scan(&w.ID, &w.Code, &w.Name, &w.IsActive, &w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create warehouse %s: %w", code, err)
	}
	return w, nil
}

func (s *inventoryService) GetWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, is_active, created_at
		FROM warehouses
		WHERE is_active = true
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &w.IsActive, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

func (s *inventoryService) GetDefaultWarehouse(ctx context.Context) (*Warehouse, error) {
	w := &Warehouse{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, is_active, created_at
		FROM warehouses
		WHERE is_active = true
		ORDER BY id
		LIMIT 1`,
	).Scan(&w.ID, &w.Code, &w.Name, &w.IsActive, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no active warehouse configured")
		}
		return nil, fmt.Errorf("fetch default warehouse: %w", err)
	}
	return w, nil
}

func (s *inventoryService) GetWarehouseByCode(ctx context.Context, code string) (*Warehouse, error) {
	w := &Warehouse{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, is_active, created_at
		FROM warehouses
		WHERE code = $1 AND is_active = true`,
		code,
	).Scan(&w.ID, &w.Code, &w.Name, &w.IsActive, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("warehouse %q not found", code)
		}
		return nil, fmt.Errorf("get warehouse %q: %w", code, err)
	}
	return w, nil
}

// ── Stock views ───────────────────────────────────────────────────────────────

func (s *inventoryService) GetStockLevels(ctx context.Context) ([]StockLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT k.code, k.name, w.code, w.name,
		       ii.qty_on_hand, ii.qty_reserved,
		       ii.qty_on_hand - ii.qty_reserved AS qty_available,
		       ii.reorder_point, k.unit_cost
		FROM inventory_items ii
		JOIN skus k       ON k.id = ii.sku_id
		JOIN warehouses w ON w.id = ii.warehouse_id
		ORDER BY k.code, w.code`)
	if err != nil {
		return nil, fmt.Errorf("query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(&sl.SKUCode, &sl.SKUName, &sl.WarehouseCode, &sl.WarehouseName,
			&sl.OnHand, &sl.Reserved, &sl.Available, &sl.ReorderPoint, &sl.UnitCost); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, nil
}

func (s *inventoryService) Availability(ctx context.Context, skuIDs []int) (map[int]decimal.Decimal, error) {
	if len(skuIDs) == 0 {
		return map[int]decimal.Decimal{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT sku_id, SUM(qty_on_hand - qty_reserved)
		FROM inventory_items
		WHERE sku_id = ANY($1)
		GROUP BY sku_id`,
		skuIDs)
	if err != nil {
		return nil, fmt.Errorf("query availability: %w", err)
	}
	defer rows.Close()

	avail := make(map[int]decimal.Decimal, len(skuIDs))
	for rows.Next() {
		var skuID int
		var qty decimal.Decimal
		if err := rows.Scan(&skuID, &qty); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		avail[skuID] = qty
	}
	return avail, nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT k.id, k.code, k.name, k.preferred_vendor_id,
		       w.id, w.code,
		       ii.qty_on_hand - ii.qty_reserved AS qty_available,
		       ii.reorder_point, ii.reorder_qty
		FROM inventory_items ii
		JOIN skus k       ON k.id = ii.sku_id AND k.is_active = true
		JOIN warehouses w ON w.id = ii.warehouse_id AND w.is_active = true
		WHERE ii.reorder_point > 0
		  AND ii.qty_on_hand - ii.qty_reserved <= ii.reorder_point
		ORDER BY k.code, w.code`)
	if err != nil {
		return nil, fmt.Errorf("query low stock: %w", err)
	}
	defer rows.Close()

	var items []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.SKUID, &it.SKUCode, &it.SKUName, &it.VendorID,
			&it.WarehouseID, &it.WarehouseCode,
			&it.Available, &it.ReorderPoint, &it.ReorderQty); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		it.SuggestedQty = SuggestedReorderQty(it.Available, it.ReorderPoint, it.ReorderQty)
		items = append(items, it)
	}
	return items, nil
}

// SuggestedReorderQty returns the quantity a low-stock reorder should request:
// the standard reorder lot, or the gap back to the reorder point when that gap
// is larger. Always at least the gap, never zero for a low item.
func SuggestedReorderQty(available, reorderPoint, reorderQty decimal.Decimal) decimal.Decimal {
	gap := reorderPoint.Sub(available)
	if gap.IsNegative() {
		gap = decimal.Zero
	}
	if reorderQty.GreaterThan(gap) {
		return reorderQty
	}
	return gap
}

// ── Writes ────────────────────────────────────────────────────────────────────

func (s *inventoryService) SetReorderLevels(ctx context.Context, skuID, warehouseID int, reorderPoint, reorderQty decimal.Decimal) error {
	if reorderPoint.IsNegative() || reorderQty.IsNegative() {
		return fmt.Errorf("reorder levels cannot be negative")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO inventory_items (sku_id, warehouse_id, qty_on_hand, qty_reserved, reorder_point, reorder_qty)
		VALUES ($1, $2, 0, 0, $3, $4)
		ON CONFLICT (sku_id, warehouse_id)
		DO UPDATE SET reorder_point = $3, reorder_qty = $4, updated_at = NOW()`,
		skuID, warehouseID, reorderPoint, reorderQty)
	if err != nil {
		return fmt.Errorf("set reorder levels for sku %d: %w", skuID, err)
	}
	return nil
}

func (s *inventoryService) ReceiveStock(ctx context.Context, skuID, warehouseID int, qty, unitCost decimal.Decimal,
	movementDate string, poItemID *int) error {

	if qty.IsNegative() || qty.IsZero() {
		return fmt.Errorf("receive quantity must be positive, got %s", qty)
	}
	if unitCost.IsNegative() {
		return fmt.Errorf("unit cost cannot be negative, got %s", unitCost)
	}
	if movementDate != "" {
		if _, err := time.Parse("2006-01-02", movementDate); err != nil {
			return fmt.Errorf("invalid movement date %q: %w", movementDate, err)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ref := MovementRef{POItemID: poItemID}
	note := fmt.Sprintf("Goods receipt: %s units @ %s", qty.String(), unitCost.String())
	if err := s.addStock(ctx, tx, skuID, warehouseID, qty, unitCost, MovementReceipt, ref, movementDate, note); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit goods receipt: %w", err)
	}
	return nil
}

func (s *inventoryService) DepleteStock(ctx context.Context, skuID, warehouseID int, qty decimal.Decimal,
	movementType MovementType, ref MovementRef, notes string) error {

	if qty.IsNegative() || qty.IsZero() {
		return fmt.Errorf("deplete quantity must be positive, got %s", qty)
	}
	if movementType != MovementIssue && movementType != MovementShipment {
		return fmt.Errorf("deplete stock expects ISSUE or SHIPMENT, got %s", movementType)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.ConsumeStockTx(ctx, tx, skuID, warehouseID, qty, movementType, ref, notes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stock depletion: %w", err)
	}
	return nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, skuID, warehouseID int, delta decimal.Decimal, notes string) error {
	if delta.IsZero() {
		return fmt.Errorf("adjustment delta cannot be zero")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	itemID, onHand, err := lockItem(ctx, tx, skuID, warehouseID, true)
	if err != nil {
		return err
	}

	newQty := onHand.Add(delta)
	if newQty.IsNegative() {
		return fmt.Errorf("adjustment would make stock negative: on hand %s, delta %s",
			onHand.StringFixed(4), delta.StringFixed(4))
	}

	if _, err := tx.Exec(ctx,
		"UPDATE inventory_items SET qty_on_hand = $1, updated_at = NOW() WHERE id = $2",
		newQty, itemID); err != nil {
		return fmt.Errorf("apply adjustment: %w", err)
	}

	if err := insertMovement(ctx, tx, itemID, MovementAdjustment, delta, decimal.Zero, MovementRef{}, "", notes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stock adjustment: %w", err)
	}
	return nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *inventoryService) AddStockTx(ctx context.Context, tx pgx.Tx, skuID, warehouseID int,
	qty, unitCost decimal.Decimal, movementType MovementType, ref MovementRef, notes string) error {

	if qty.IsNegative() || qty.IsZero() {
		return fmt.Errorf("add quantity must be positive, got %s", qty)
	}
	return s.addStock(ctx, tx, skuID, warehouseID, qty, unitCost, movementType, ref, "", notes)
}

// ConsumeStockTx deducts qty from the given warehouse first and then from other
// warehouses in ID order, appending one movement per inventory row touched.
func (s *inventoryService) ConsumeStockTx(ctx context.Context, tx pgx.Tx, skuID, warehouseID int,
	qty decimal.Decimal, movementType MovementType, ref MovementRef, notes string) error {

	rows, err := tx.Query(ctx, `
		SELECT id, qty_on_hand
		FROM inventory_items
		WHERE sku_id = $1
		ORDER BY (warehouse_id = $2) DESC, warehouse_id
		FOR UPDATE`,
		skuID, warehouseID)
	if err != nil {
		return fmt.Errorf("lock inventory for sku %d: %w", skuID, err)
	}

	type itemRow struct {
		id     int
		onHand decimal.Decimal
	}
	var items []itemRow
	for rows.Next() {
		var it itemRow
		if err := rows.Scan(&it.id, &it.onHand); err != nil {
			rows.Close()
			return fmt.Errorf("scan inventory row: %w", err)
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate inventory rows: %w", err)
	}

	var total decimal.Decimal
	for _, it := range items {
		total = total.Add(it.onHand)
	}
	if total.LessThan(qty) {
		return fmt.Errorf("insufficient stock for sku %d: on hand %s, need %s",
			skuID, total.StringFixed(4), qty.StringFixed(4))
	}

	remaining := qty
	for _, it := range items {
		if remaining.IsZero() {
			break
		}
		take := it.onHand
		if take.GreaterThan(remaining) {
			take = remaining
		}
		if take.IsZero() {
			continue
		}

		if _, err := tx.Exec(ctx, `
			UPDATE inventory_items
			SET qty_on_hand = qty_on_hand - $1, updated_at = NOW()
			WHERE id = $2`,
			take, it.id); err != nil {
			return fmt.Errorf("deduct stock from item %d: %w", it.id, err)
		}
		if err := insertMovement(ctx, tx, it.id, movementType, take.Neg(), decimal.Zero, ref, "", notes); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}
	return nil
}

// addStock upserts the inventory row, locks it, increments on-hand, re-averages
// the SKU unit cost across total on-hand, and appends the movement.
func (s *inventoryService) addStock(ctx context.Context, tx pgx.Tx, skuID, warehouseID int,
	qty, unitCost decimal.Decimal, movementType MovementType, ref MovementRef,
	movementDate, notes string) error {

	var itemID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO inventory_items (sku_id, warehouse_id, qty_on_hand, qty_reserved)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (sku_id, warehouse_id) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		skuID, warehouseID,
	).Scan(&itemID); err != nil {
		return fmt.Errorf("upsert inventory item: %w", err)
	}

	var onHand decimal.Decimal
	if err := tx.QueryRow(ctx,
		"SELECT qty_on_hand FROM inventory_items WHERE id = $1 FOR UPDATE", itemID,
	).Scan(&onHand); err != nil {
		return fmt.Errorf("lock inventory item %d: %w", itemID, err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inventory_items
		SET qty_on_hand = qty_on_hand + $1, updated_at = NOW()
		WHERE id = $2`,
		qty, itemID); err != nil {
		return fmt.Errorf("increment stock for item %d: %w", itemID, err)
	}

	// Weighted average cost over the SKU's total on-hand across warehouses.
	if !unitCost.IsZero() {
		var totalOnHand, oldCost decimal.Decimal
		if err := tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(ii.qty_on_hand), 0) - $2, k.unit_cost
			FROM inventory_items ii
			JOIN skus k ON k.id = ii.sku_id
			WHERE ii.sku_id = $1
			GROUP BY k.unit_cost`,
			skuID, qty,
		).Scan(&totalOnHand, &oldCost); err != nil {
			return fmt.Errorf("read cost basis for sku %d: %w", skuID, err)
		}
		if totalOnHand.IsNegative() {
			totalOnHand = decimal.Zero
		}

		newQty := totalOnHand.Add(qty)
		newCost := unitCost
		if !newQty.IsZero() {
			newCost = totalOnHand.Mul(oldCost).Add(qty.Mul(unitCost)).Div(newQty)
		}
		if _, err := tx.Exec(ctx,
			"UPDATE skus SET unit_cost = $1, updated_at = NOW() WHERE id = $2",
			newCost, skuID); err != nil {
			return fmt.Errorf("update average cost for sku %d: %w", skuID, err)
		}
	}

	return insertMovement(ctx, tx, itemID, movementType, qty, unitCost, ref, movementDate, notes)
}

// lockItem fetches and locks one inventory row; when required is false a missing
// row is returned as zero stock with itemID 0.
func lockItem(ctx context.Context, tx pgx.Tx, skuID, warehouseID int, required bool) (int, decimal.Decimal, error) {
	var itemID int
	var onHand decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT id, qty_on_hand
		FROM inventory_items
		WHERE sku_id = $1 AND warehouse_id = $2
		FOR UPDATE`,
		skuID, warehouseID,
	).Scan(&itemID, &onHand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if required {
				return 0, decimal.Zero, fmt.Errorf("no inventory record for sku %d in warehouse %d", skuID, warehouseID)
			}
			return 0, decimal.Zero, nil
		}
		return 0, decimal.Zero, fmt.Errorf("lock inventory row: %w", err)
	}
	return itemID, onHand, nil
}

func insertMovement(ctx context.Context, tx pgx.Tx, itemID int, movementType MovementType,
	qty, unitCost decimal.Decimal, ref MovementRef, movementDate, notes string) error {

	if movementDate == "" {
		movementDate = time.Now().Format("2006-01-02")
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_movements
		       (inventory_item_id, movement_type, quantity, unit_cost,
		        po_item_id, production_order_id, sales_order_id, movement_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		itemID, movementType, qty, unitCost,
		ref.POItemID, ref.ProductionOrderID, ref.SalesOrderID, movementDate, notes,
	); err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}
