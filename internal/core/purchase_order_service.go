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

type purchaseOrderService struct {
	pool *pgxpool.Pool
}

// NewPurchaseOrderService creates a PurchaseOrderService backed by Postgres.
func NewPurchaseOrderService(pool *pgxpool.Pool) PurchaseOrderService {
	return &purchaseOrderService{pool: pool}
}

func (s *purchaseOrderService) CreatePO(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrder, error) {
	if input.VendorID == 0 {
		return nil, fmt.Errorf("vendor is required")
	}
	if input.WarehouseID == 0 {
		return nil, fmt.Errorf("warehouse is required")
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("at least one line is required")
	}
	for _, it := range input.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("line quantity must be positive")
		}
		if it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("line unit cost cannot be negative")
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var vendorExists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1 AND is_active = true)`, input.VendorID).Scan(&vendorExists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up vendor: %w", err)
	}
	if !vendorExists {
		return nil, fmt.Errorf("vendor %d not found", input.VendorID)
	}

	var total decimal.Decimal
	for _, it := range input.Items {
		total = total.Add(it.Quantity.Mul(it.UnitCost))
	}

	now := time.Now()
	var poID int
	err = tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (order_number, vendor_id, warehouse_id, status, order_date, expected_date, total_amount, notes, production_order_id)
		VALUES ('', $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		input.VendorID, input.WarehouseID, POPending, now, input.ExpectedDate, total, input.Notes, input.ProductionOrderID,
	).Scan(&poID)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	// The order number encodes the identity-column ID, so it is unique even
	// under concurrent creation.
	_, err = tx.Exec(ctx, `UPDATE purchase_orders SET order_number = $1 WHERE id = $2`,
		PONumber(now.Year(), poID), poID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	for _, it := range input.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO purchase_order_items (purchase_order_id, sku_id, quantity_ordered, unit_cost)
			VALUES ($1, $2, $3, $4)`,
			poID, it.SKUID, it.Quantity, it.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("failed to insert PO line for SKU %d: %w", it.SKUID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.GetPO(ctx, poID)
}

func (s *purchaseOrderService) MarkOrdered(ctx context.Context, poID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := lockPO(ctx, tx, poID)
	if err != nil {
		return err
	}
	next, err := po.status.Transition(POOrdered)
	if err != nil {
		return fmt.Errorf("purchase order %d: %w", poID, err)
	}

	_, err = tx.Exec(ctx, `UPDATE purchase_orders SET status = $1, ordered_at = now(), updated_at = now() WHERE id = $2`, next, poID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *purchaseOrderService) ReceivePO(ctx context.Context, poID int, receipts []POReceipt, inv InventoryService) error {
	if len(receipts) == 0 {
		return fmt.Errorf("no receipt lines provided")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := lockPO(ctx, tx, poID)
	if err != nil {
		return err
	}
	if po.status != POOrdered {
		return fmt.Errorf("purchase order %d is %s, expected %s", poID, po.status, POOrdered)
	}

	for _, r := range receipts {
		if !r.QtyReceived.IsPositive() {
			return fmt.Errorf("receipt quantity must be positive")
		}

		var skuID int
		var qtyOrdered, qtyReceived, unitCost decimal.Decimal
		err = tx.QueryRow(ctx, `
			SELECT sku_id, quantity_ordered, quantity_received, unit_cost
			FROM purchase_order_items
			WHERE id = $1 AND purchase_order_id = $2
			FOR UPDATE`, r.POItemID, poID).Scan(&skuID, &qtyOrdered, &qtyReceived, &unitCost)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("PO line %d not found on purchase order %d", r.POItemID, poID)
			}
			return fmt.Errorf("failed to lock PO line: %w", err)
		}
		if qtyReceived.Add(r.QtyReceived).GreaterThan(qtyOrdered) {
			return fmt.Errorf("PO line %d: receiving %s exceeds ordered %s (already received %s)",
				r.POItemID, r.QtyReceived, qtyOrdered, qtyReceived)
		}

		_, err = tx.Exec(ctx, `UPDATE purchase_order_items SET quantity_received = quantity_received + $1 WHERE id = $2`,
			r.QtyReceived, r.POItemID)
		if err != nil {
			return fmt.Errorf("failed to update PO line: %w", err)
		}

		itemID := r.POItemID
		err = inv.AddStockTx(ctx, tx, skuID, po.warehouseID, r.QtyReceived, unitCost,
			MovementReceipt, MovementRef{POItemID: &itemID}, fmt.Sprintf("PO receipt line %d", r.POItemID))
		if err != nil {
			return err
		}
	}

	var outstanding bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchase_order_items WHERE purchase_order_id = $1 AND quantity_received < quantity_ordered)`,
		poID).Scan(&outstanding)
	if err != nil {
		return fmt.Errorf("failed to check outstanding lines: %w", err)
	}
	if !outstanding {
		next, err := po.status.Transition(POReceived)
		if err != nil {
			return fmt.Errorf("purchase order %d: %w", poID, err)
		}
		_, err = tx.Exec(ctx, `UPDATE purchase_orders SET status = $1, received_at = now(), updated_at = now() WHERE id = $2`, next, poID)
		if err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *purchaseOrderService) CancelPO(ctx context.Context, poID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := lockPO(ctx, tx, poID)
	if err != nil {
		return err
	}
	next, err := po.status.Transition(POCancelled)
	if err != nil {
		return fmt.Errorf("purchase order %d: %w", poID, err)
	}

	var anyReceived bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchase_order_items WHERE purchase_order_id = $1 AND quantity_received > 0)`,
		poID).Scan(&anyReceived)
	if err != nil {
		return fmt.Errorf("failed to check received lines: %w", err)
	}
	if anyReceived {
		return fmt.Errorf("purchase order %d has received stock and cannot be cancelled", poID)
	}

	_, err = tx.Exec(ctx, `UPDATE purchase_orders SET status = $1, cancelled_at = now(), updated_at = now() WHERE id = $2`, next, poID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order: %w", err)
	}
	return tx.Commit(ctx)
}

type lockedPO struct {
	status      POStatus
	warehouseID int
}

func lockPO(ctx context.Context, tx pgx.Tx, poID int) (lockedPO, error) {
	var po lockedPO
	err := tx.QueryRow(ctx, `SELECT status, warehouse_id FROM purchase_orders WHERE id = $1 FOR UPDATE`, poID).
		Scan(&po.status, &po.warehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lockedPO{}, fmt.Errorf("purchase order %d not found", poID)
		}
		return lockedPO{}, fmt.Errorf("failed to lock purchase order: %w", err)
	}
	return po, nil
}

const poColumns = `
	p.id, p.order_number, p.vendor_id, v.code, v.name, p.warehouse_id, p.status,
	p.order_date, p.expected_date, p.total_amount, p.notes, p.production_order_id,
	p.ordered_at, p.received_at, p.created_at`

func scanPO(row pgx.Row) (*PurchaseOrder, error) {
	var p PurchaseOrder
	err := row.Scan(&p.ID, &p.OrderNumber, &p.VendorID, &p.VendorCode, &p.VendorName, &p.WarehouseID, &p.Status,
		&p.OrderDate, &p.ExpectedDate, &p.TotalAmount, &p.Notes, &p.ProductionOrderID,
		&p.OrderedAt, &p.ReceivedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *purchaseOrderService) GetPO(ctx context.Context, poID int) (*PurchaseOrder, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+poColumns+`
		FROM purchase_orders p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.id = $1`, poID)
	p, err := scanPO(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d not found", poID)
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	if err := s.loadItems(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *purchaseOrderService) loadItems(ctx context.Context, p *PurchaseOrder) error {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.purchase_order_id, i.sku_id,
		       COALESCE(s.code, ''), COALESCE(s.name, ''),
		       i.quantity_ordered, i.quantity_received, i.unit_cost
		FROM purchase_order_items i
		LEFT JOIN skus s ON s.id = i.sku_id
		WHERE i.purchase_order_id = $1
		ORDER BY i.id`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load PO lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it PurchaseOrderItem
		err := rows.Scan(&it.ID, &it.POID, &it.SKUID, &it.SKUCode, &it.SKUName,
			&it.QtyOrdered, &it.QtyReceived, &it.UnitCost)
		if err != nil {
			return fmt.Errorf("failed to scan PO line: %w", err)
		}
		if it.SKUName == "" {
			it.SKUName = UnknownItemName
		}
		it.LineTotal = it.QtyOrdered.Mul(it.UnitCost)
		p.Items = append(p.Items, it)
	}
	return rows.Err()
}

func (s *purchaseOrderService) GetPOs(ctx context.Context, status POStatus) ([]PurchaseOrder, error) {
	query := `
		SELECT ` + poColumns + `
		FROM purchase_orders p
		JOIN vendors v ON v.id = p.vendor_id`
	args := []any{}
	if status != "" {
		query += ` WHERE p.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY p.id DESC`

	return s.queryPOs(ctx, query, args...)
}

func (s *purchaseOrderService) GetPOsForProductionOrder(ctx context.Context, productionOrderID int) ([]PurchaseOrder, error) {
	return s.queryPOs(ctx, `
		SELECT `+poColumns+`
		FROM purchase_orders p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.production_order_id = $1
		ORDER BY p.id`, productionOrderID)
}

func (s *purchaseOrderService) queryPOs(ctx context.Context, query string, args ...any) ([]PurchaseOrder, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		p, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := s.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}
