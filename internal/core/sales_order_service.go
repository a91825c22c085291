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

type salesOrderService struct {
	pool *pgxpool.Pool
}

// NewSalesOrderService creates a SalesOrderService backed by Postgres.
func NewSalesOrderService(pool *pgxpool.Pool) SalesOrderService {
	return &salesOrderService{pool: pool}
}

func (s *salesOrderService) CreateSalesOrder(ctx context.Context, input SalesOrderInput) (*SalesOrder, error) {
	if input.CustomerName == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("at least one line is required")
	}
	for _, it := range input.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("line quantity must be positive")
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	type lineSKU struct {
		skuType   SKUType
		unitPrice decimal.Decimal
	}
	skuInfo := make(map[int]lineSKU, len(input.Items))
	productionRequired := false
	var bomTemplateID *int

	for _, it := range input.Items {
		if _, ok := skuInfo[it.SKUID]; ok {
			continue
		}
		var info lineSKU
		err = tx.QueryRow(ctx, `SELECT sku_type, unit_price FROM skus WHERE id = $1 AND is_active = true`, it.SKUID).
			Scan(&info.skuType, &info.unitPrice)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("SKU %d not found", it.SKUID)
			}
			return nil, fmt.Errorf("failed to look up SKU: %w", err)
		}
		skuInfo[it.SKUID] = info

		// Kits are assembled to order, so a kit line always flags the order
		// for production against the kit's active template.
		if info.skuType == SKUKit && bomTemplateID == nil {
			var templateID int
			err = tx.QueryRow(ctx, `
				SELECT id FROM bom_templates
				WHERE kit_sku_id = $1 AND is_active = true
				ORDER BY version DESC
				LIMIT 1`, it.SKUID).Scan(&templateID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("no active BOM template for kit SKU %d", it.SKUID)
				}
				return nil, fmt.Errorf("failed to look up BOM template: %w", err)
			}
			productionRequired = true
			bomTemplateID = &templateID
		}
	}

	var total decimal.Decimal
	prices := make([]decimal.Decimal, len(input.Items))
	for i, it := range input.Items {
		price := it.UnitPrice
		if price.IsZero() {
			price = skuInfo[it.SKUID].unitPrice
		}
		prices[i] = price
		total = total.Add(it.Quantity.Mul(price))
	}

	now := time.Now()
	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO sales_orders (order_number, customer_name, customer_email, customer_phone,
		                          status, total_amount, production_required, bom_template_id, notes)
		VALUES ('', $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		input.CustomerName, input.CustomerEmail, input.CustomerPhone,
		SalesPending, total, productionRequired, bomTemplateID, input.Notes,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create sales order: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE sales_orders SET order_number = $1 WHERE id = $2`,
		SalesNumber(now.Year(), orderID), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	for i, it := range input.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO sales_order_items (sales_order_id, sku_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)`,
			orderID, it.SKUID, it.Quantity, prices[i])
		if err != nil {
			return nil, fmt.Errorf("failed to insert sales order line for SKU %d: %w", it.SKUID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.GetSalesOrder(ctx, orderID)
}

func (s *salesOrderService) FulfillSalesOrder(ctx context.Context, orderID, warehouseID int, inv InventoryService) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockSalesOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	next, err := status.Transition(SalesFulfilled)
	if err != nil {
		return fmt.Errorf("sales order %d: %w", orderID, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT sku_id, quantity FROM sales_order_items WHERE sales_order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return fmt.Errorf("failed to load sales order lines: %w", err)
	}
	type line struct {
		skuID int
		qty   decimal.Decimal
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.skuID, &l.qty); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan sales order line: %w", err)
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	soID := orderID
	ref := MovementRef{SalesOrderID: &soID}
	for _, l := range lines {
		err = inv.ConsumeStockTx(ctx, tx, l.skuID, warehouseID, l.qty,
			MovementShipment, ref, fmt.Sprintf("shipped for sales order %d", orderID))
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE sales_orders SET status = $1, fulfilled_at = now(), updated_at = now() WHERE id = $2`,
		next, orderID)
	if err != nil {
		return fmt.Errorf("failed to update sales order: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *salesOrderService) CancelSalesOrder(ctx context.Context, orderID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockSalesOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	next, err := status.Transition(SalesCancelled)
	if err != nil {
		return fmt.Errorf("sales order %d: %w", orderID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE sales_orders SET status = $1, cancelled_at = now(), updated_at = now() WHERE id = $2`,
		next, orderID)
	if err != nil {
		return fmt.Errorf("failed to update sales order: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *salesOrderService) RecordPayment(ctx context.Context, orderID int, status PaymentStatus) error {
	switch status {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
	default:
		return fmt.Errorf("invalid payment status %q", status)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE sales_orders SET payment_status = $1, updated_at = now() WHERE id = $2`,
		status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sales order %d not found", orderID)
	}
	return nil
}

func lockSalesOrder(ctx context.Context, tx pgx.Tx, orderID int) (SalesStatus, error) {
	var status SalesStatus
	err := tx.QueryRow(ctx, `SELECT status FROM sales_orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("sales order %d not found", orderID)
		}
		return "", fmt.Errorf("failed to lock sales order: %w", err)
	}
	return status, nil
}

const salesOrderColumns = `
	o.id, o.order_number, o.customer_name, o.customer_email, o.customer_phone,
	o.status, o.payment_status, o.total_amount, o.production_required,
	o.bom_template_id, o.notes, o.fulfilled_at, o.created_at`

func scanSalesOrder(row pgx.Row) (*SalesOrder, error) {
	var o SalesOrder
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.Status, &o.PaymentStatus, &o.TotalAmount, &o.ProductionRequired,
		&o.BOMTemplateID, &o.Notes, &o.FulfilledAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *salesOrderService) GetSalesOrder(ctx context.Context, orderID int) (*SalesOrder, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+salesOrderColumns+`
		FROM sales_orders o
		WHERE o.id = $1`, orderID)
	o, err := scanSalesOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sales order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to get sales order: %w", err)
	}
	if err := s.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *salesOrderService) loadItems(ctx context.Context, o *SalesOrder) error {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.sales_order_id, i.sku_id,
		       COALESCE(s.code, ''), COALESCE(s.name, ''), COALESCE(s.sku_type, 'SINGLE'),
		       i.quantity, i.unit_price
		FROM sales_order_items i
		LEFT JOIN skus s ON s.id = i.sku_id
		WHERE i.sales_order_id = $1
		ORDER BY i.id`, o.ID)
	if err != nil {
		return fmt.Errorf("failed to load sales order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it SalesOrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.SKUID, &it.SKUCode, &it.SKUName, &it.SKUType,
			&it.Quantity, &it.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to scan sales order line: %w", err)
		}
		if it.SKUName == "" {
			it.SKUName = UnknownItemName
		}
		it.LineTotal = it.Quantity.Mul(it.UnitPrice)
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (s *salesOrderService) GetSalesOrders(ctx context.Context, status SalesStatus) ([]SalesOrder, error) {
	query := `
		SELECT ` + salesOrderColumns + `
		FROM sales_orders o`
	args := []any{}
	if status != "" {
		query += ` WHERE o.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY o.id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales orders: %w", err)
	}
	defer rows.Close()

	var orders []SalesOrder
	for rows.Next() {
		o, err := scanSalesOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales order: %w", err)
		}
		orders = append(orders, *o)
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
