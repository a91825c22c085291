package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productionService struct {
	pool *pgxpool.Pool
	bom  BOMService
}

// NewProductionService creates a ProductionService backed by Postgres.
func NewProductionService(pool *pgxpool.Pool, bom BOMService) ProductionService {
	return &productionService{pool: pool, bom: bom}
}

func (s *productionService) Plan(ctx context.Context, input ProductionOrderInput) (*ProductionOrder, error) {
	if !input.Quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if input.WarehouseID == 0 {
		return nil, fmt.Errorf("warehouse is required")
	}

	template, err := s.bom.GetActiveTemplateForKit(ctx, input.KitSKUID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO production_orders (order_number, kit_sku_id, bom_template_id, warehouse_id,
		                               quantity_planned, status, unit_cost, sales_order_id, notes)
		VALUES ('', $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		input.KitSKUID, template.ID, input.WarehouseID, input.Quantity,
		ProductionPlanned, template.TotalCost, input.SalesOrderID, input.Notes,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create production order: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE production_orders SET order_number = $1 WHERE id = $2`,
		ProductionNumber(now.Year(), orderID), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.Get(ctx, orderID)
}

func (s *productionService) Start(ctx context.Context, orderID int, inv InventoryService) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockProductionOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	next, err := order.status.Transition(ProductionInProgress)
	if err != nil {
		return fmt.Errorf("production order %d: %w", orderID, err)
	}
	if order.status != ProductionPlanned {
		return fmt.Errorf("production order %d is %s, expected %s", orderID, order.status, ProductionPlanned)
	}

	components, err := loadTemplateComponents(ctx, tx, order.bomTemplateID)
	if err != nil {
		return err
	}

	// Re-check availability against the locked snapshot so a concurrent
	// consumer cannot leave us consuming stock that is no longer there.
	availability, err := availabilityTx(ctx, tx, componentSKUIDs(components))
	if err != nil {
		return err
	}
	checks := CheckComponents(components, order.qtyPlanned, availability)
	if !AllSufficient(checks) {
		return fmt.Errorf("production order %d: %s", orderID, shortageSummary(checks))
	}

	poID := orderID
	ref := MovementRef{ProductionOrderID: &poID}
	for _, c := range checks {
		err = inv.ConsumeStockTx(ctx, tx, c.ComponentSKUID, order.warehouseID, c.Required,
			MovementProductionOut, ref, fmt.Sprintf("consumed for %s", order.orderNumber))
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE production_orders SET status = $1, started_at = now(), updated_at = now() WHERE id = $2`,
		next, orderID)
	if err != nil {
		return fmt.Errorf("failed to update production order: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *productionService) Complete(ctx context.Context, orderID int, qtyCompleted decimal.Decimal, inv InventoryService) error {
	if !qtyCompleted.IsPositive() {
		return fmt.Errorf("completed quantity must be positive")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockProductionOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	next, err := order.status.Transition(ProductionCompleted)
	if err != nil {
		return fmt.Errorf("production order %d: %w", orderID, err)
	}
	if qtyCompleted.GreaterThan(order.qtyPlanned) {
		return fmt.Errorf("completed quantity %s exceeds planned %s", qtyCompleted, order.qtyPlanned)
	}

	poID := orderID
	err = inv.AddStockTx(ctx, tx, order.kitSKUID, order.warehouseID, qtyCompleted, order.unitCost,
		MovementProductionIn, MovementRef{ProductionOrderID: &poID},
		fmt.Sprintf("completed %s", order.orderNumber))
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE production_orders
		SET status = $1, quantity_completed = $2, completed_at = now(), updated_at = now()
		WHERE id = $3`,
		next, qtyCompleted, orderID)
	if err != nil {
		return fmt.Errorf("failed to update production order: %w", err)
	}

	// A build commissioned by a sales order fulfils it on completion. The
	// order stays PENDING if something already moved it elsewhere.
	if order.salesOrderID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE sales_orders
			SET status = $1, fulfilled_at = now(), updated_at = now()
			WHERE id = $2 AND status = $3`,
			SalesFulfilled, *order.salesOrderID, SalesPending)
		if err != nil {
			return fmt.Errorf("failed to fulfil sales order %d: %w", *order.salesOrderID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *productionService) Hold(ctx context.Context, orderID int, reason string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockProductionOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	next, err := order.status.Transition(ProductionOnHold)
	if err != nil {
		return fmt.Errorf("production order %d: %w", orderID, err)
	}

	note := ""
	if reason != "" {
		note = "On hold: " + reason
	}
	_, err = tx.Exec(ctx, `
		UPDATE production_orders
		SET status = $1, held_from = $2,
		    notes = TRIM(both E'\n' from notes || E'\n' || $3),
		    updated_at = now()
		WHERE id = $4`,
		next, order.status, note, orderID)
	if err != nil {
		return fmt.Errorf("failed to update production order: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *productionService) Resume(ctx context.Context, orderID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockProductionOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if order.status != ProductionOnHold {
		return fmt.Errorf("production order %d is %s, expected %s", orderID, order.status, ProductionOnHold)
	}
	if order.heldFrom == nil {
		return fmt.Errorf("production order %d has no held-from state", orderID)
	}
	next, err := order.status.Transition(*order.heldFrom)
	if err != nil {
		return fmt.Errorf("production order %d: %w", orderID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE production_orders SET status = $1, held_from = NULL, updated_at = now() WHERE id = $2`,
		next, orderID)
	if err != nil {
		return fmt.Errorf("failed to update production order: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *productionService) Cancel(ctx context.Context, orderID int, inv InventoryService) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockProductionOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	next, err := order.status.Transition(ProductionCancelled)
	if err != nil {
		return fmt.Errorf("production order %d: %w", orderID, err)
	}

	// If the build had started, put the consumed components back. The
	// consumption ledger tells us exactly what left which warehouse.
	started := order.status == ProductionInProgress ||
		(order.heldFrom != nil && *order.heldFrom == ProductionInProgress)
	if started {
		if err := s.returnConsumed(ctx, tx, orderID, inv); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE production_orders SET status = $1, held_from = NULL, cancelled_at = now(), updated_at = now() WHERE id = $2`,
		next, orderID)
	if err != nil {
		return fmt.Errorf("failed to update production order: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *productionService) returnConsumed(ctx context.Context, tx pgx.Tx, orderID int, inv InventoryService) error {
	rows, err := tx.Query(ctx, `
		SELECT ii.sku_id, ii.warehouse_id, SUM(-m.quantity), k.unit_cost
		FROM stock_movements m
		JOIN inventory_items ii ON ii.id = m.inventory_item_id
		JOIN skus k             ON k.id = ii.sku_id
		WHERE m.production_order_id = $1 AND m.movement_type = $2
		GROUP BY ii.sku_id, ii.warehouse_id, k.unit_cost`,
		orderID, MovementProductionOut)
	if err != nil {
		return fmt.Errorf("failed to load consumed components: %w", err)
	}

	type consumed struct {
		skuID       int
		warehouseID int
		qty         decimal.Decimal
		unitCost    decimal.Decimal
	}
	var lines []consumed
	for rows.Next() {
		var c consumed
		if err := rows.Scan(&c.skuID, &c.warehouseID, &c.qty, &c.unitCost); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan consumed component: %w", err)
		}
		lines = append(lines, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	poID := orderID
	ref := MovementRef{ProductionOrderID: &poID}
	for _, c := range lines {
		if !c.qty.IsPositive() {
			continue
		}
		err = inv.AddStockTx(ctx, tx, c.skuID, c.warehouseID, c.qty, c.unitCost,
			MovementProductionIn, ref, "returned on production cancel")
		if err != nil {
			return err
		}
	}
	return nil
}

type lockedProduction struct {
	orderNumber   string
	kitSKUID      int
	bomTemplateID int
	warehouseID   int
	qtyPlanned    decimal.Decimal
	unitCost      decimal.Decimal
	status        ProductionStatus
	heldFrom      *ProductionStatus
	salesOrderID  *int
}

func lockProductionOrder(ctx context.Context, tx pgx.Tx, orderID int) (lockedProduction, error) {
	var o lockedProduction
	err := tx.QueryRow(ctx, `
		SELECT order_number, kit_sku_id, bom_template_id, warehouse_id,
		       quantity_planned, unit_cost, status, held_from, sales_order_id
		FROM production_orders
		WHERE id = $1
		FOR UPDATE`, orderID).
		Scan(&o.orderNumber, &o.kitSKUID, &o.bomTemplateID, &o.warehouseID,
			&o.qtyPlanned, &o.unitCost, &o.status, &o.heldFrom, &o.salesOrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lockedProduction{}, fmt.Errorf("production order %d not found", orderID)
		}
		return lockedProduction{}, fmt.Errorf("failed to lock production order: %w", err)
	}
	return o, nil
}

func loadTemplateComponents(ctx context.Context, tx pgx.Tx, templateID int) ([]BOMComponent, error) {
	rows, err := tx.Query(ctx, `
		SELECT c.id, c.bom_template_id, c.component_sku_id,
		       COALESCE(s.code, ''), COALESCE(s.name, ''),
		       c.quantity_required, c.unit_cost, c.is_critical
		FROM bom_components c
		LEFT JOIN skus s ON s.id = c.component_sku_id
		WHERE c.bom_template_id = $1
		ORDER BY c.id`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM components: %w", err)
	}
	defer rows.Close()

	var components []BOMComponent
	for rows.Next() {
		var c BOMComponent
		err := rows.Scan(&c.ID, &c.BOMTemplateID, &c.ComponentSKUID,
			&c.ComponentSKUCode, &c.ComponentSKUName,
			&c.QuantityRequired, &c.UnitCost, &c.IsCritical)
		if err != nil {
			return nil, fmt.Errorf("failed to scan BOM component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func availabilityTx(ctx context.Context, tx pgx.Tx, skuIDs []int) (map[int]decimal.Decimal, error) {
	avail := make(map[int]decimal.Decimal, len(skuIDs))
	if len(skuIDs) == 0 {
		return avail, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT sku_id, SUM(qty_on_hand - qty_reserved)
		FROM inventory_items
		WHERE sku_id = ANY($1)
		GROUP BY sku_id`, skuIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var skuID int
		var qty decimal.Decimal
		if err := rows.Scan(&skuID, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		avail[skuID] = qty
	}
	return avail, rows.Err()
}

func componentSKUIDs(components []BOMComponent) []int {
	ids := make([]int, 0, len(components))
	for _, c := range components {
		ids = append(ids, c.ComponentSKUID)
	}
	return ids
}

func shortageSummary(checks []ComponentCheck) string {
	var parts []string
	for _, c := range checks {
		if c.Sufficient {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s short %s (need %s, have %s)",
			c.SKUCode, c.Shortage, c.Required, c.Available))
	}
	return "insufficient components: " + strings.Join(parts, "; ")
}

const productionColumns = `
	o.id, o.order_number, o.kit_sku_id, s.code, s.name, o.bom_template_id, o.warehouse_id,
	o.quantity_planned, o.quantity_completed, o.status, o.held_from, o.unit_cost,
	o.sales_order_id, o.notes, o.started_at, o.completed_at, o.created_at, o.updated_at`

func scanProductionOrder(row pgx.Row) (*ProductionOrder, error) {
	var o ProductionOrder
	err := row.Scan(&o.ID, &o.OrderNumber, &o.KitSKUID, &o.KitSKUCode, &o.KitSKUName,
		&o.BOMTemplateID, &o.WarehouseID, &o.QtyPlanned, &o.QtyCompleted,
		&o.Status, &o.HeldFrom, &o.UnitCost, &o.SalesOrderID, &o.Notes,
		&o.StartedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *productionService) Get(ctx context.Context, orderID int) (*ProductionOrder, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+productionColumns+`
		FROM production_orders o
		JOIN skus s ON s.id = o.kit_sku_id
		WHERE o.id = $1`, orderID)
	o, err := scanProductionOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("production order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to get production order: %w", err)
	}
	return o, nil
}

func (s *productionService) List(ctx context.Context, status ProductionStatus) ([]ProductionOrder, error) {
	query := `
		SELECT ` + productionColumns + `
		FROM production_orders o
		JOIN skus s ON s.id = o.kit_sku_id`
	args := []any{}
	if status != "" {
		query += ` WHERE o.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY o.id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list production orders: %w", err)
	}
	defer rows.Close()

	var orders []ProductionOrder
	for rows.Next() {
		o, err := scanProductionOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan production order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
