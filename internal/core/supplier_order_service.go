package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type supplierOrderService struct {
	pool *pgxpool.Pool
}

// NewSupplierOrderService creates a SupplierOrderService backed by Postgres.
func NewSupplierOrderService(pool *pgxpool.Pool) SupplierOrderService {
	return &supplierOrderService{pool: pool}
}

func (s *supplierOrderService) CreateSupplierOrder(ctx context.Context, input SupplierOrderInput) (*SupplierOrder, error) {
	if input.SKUID == 0 {
		return nil, fmt.Errorf("SKU is required")
	}
	if !input.Quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO supplier_orders (order_number, sku_id, vendor_id, quantity, workflow_status)
		VALUES ('', $1, $2, $3, $4)
		RETURNING id`,
		input.SKUID, input.VendorID, input.Quantity, WorkflowActive,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier order: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE supplier_orders SET order_number = $1 WHERE id = $2`,
		SupplierNumber(now.Year(), orderID), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.GetSupplierOrder(ctx, orderID)
}

func (s *supplierOrderService) Pause(ctx context.Context, orderID int, note string) (*SupplierOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	workflow, err := lockSupplierOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if workflow == WorkflowPaused {
		return nil, fmt.Errorf("supplier order %d is already paused", orderID)
	}

	reason := ClassifyPauseNote(note)
	_, err = tx.Exec(ctx, `
		UPDATE supplier_orders
		SET workflow_status = $1, pause_reason = $2, pause_note = $3,
		    paused_at = now(), resumed_at = NULL, resume_note = '', updated_at = now()
		WHERE id = $4`,
		WorkflowPaused, reason, note, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to pause supplier order: %w", err)
	}

	if reason == PauseVendorAssignmentNeeded {
		_, err = tx.Exec(ctx, `
			INSERT INTO workflow_alerts (supplier_order_id, message)
			VALUES ($1, $2)`,
			orderID, fmt.Sprintf("Supplier order %d needs a vendor assigned", orderID))
		if err != nil {
			return nil, fmt.Errorf("failed to raise workflow alert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.GetSupplierOrder(ctx, orderID)
}

func (s *supplierOrderService) Resume(ctx context.Context, orderID int, note string) (*SupplierOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := resumeTx(ctx, tx, orderID, note); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.GetSupplierOrder(ctx, orderID)
}

func resumeTx(ctx context.Context, tx pgx.Tx, orderID int, note string) error {
	workflow, err := lockSupplierOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if workflow != WorkflowPaused {
		return fmt.Errorf("supplier order %d is not paused", orderID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE supplier_orders
		SET workflow_status = $1, pause_reason = NULL, resume_note = $2,
		    resumed_at = now(), updated_at = now()
		WHERE id = $3`,
		WorkflowActive, note, orderID)
	if err != nil {
		return fmt.Errorf("failed to resume supplier order: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE workflow_alerts
		SET is_resolved = true, resolved_at = now()
		WHERE supplier_order_id = $1 AND is_resolved = false`, orderID)
	if err != nil {
		return fmt.Errorf("failed to resolve workflow alerts: %w", err)
	}
	return nil
}

func (s *supplierOrderService) AssignVendor(ctx context.Context, orderID, vendorID int) (*SupplierOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var vendorExists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1 AND is_active = true)`, vendorID).Scan(&vendorExists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up vendor: %w", err)
	}
	if !vendorExists {
		return nil, fmt.Errorf("vendor %d not found", vendorID)
	}

	workflow, err := lockSupplierOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	var skuID int
	var reason *PauseReason
	err = tx.QueryRow(ctx, `SELECT sku_id, pause_reason FROM supplier_orders WHERE id = $1`, orderID).
		Scan(&skuID, &reason)
	if err != nil {
		return nil, fmt.Errorf("failed to read supplier order: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE supplier_orders SET vendor_id = $1, updated_at = now() WHERE id = $2`,
		vendorID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign vendor: %w", err)
	}

	// The assignment becomes the SKU's sourcing default for future reorders.
	_, err = tx.Exec(ctx, `UPDATE skus SET preferred_vendor_id = $1, updated_at = now() WHERE id = $2`,
		vendorID, skuID)
	if err != nil {
		return nil, fmt.Errorf("failed to set preferred vendor: %w", err)
	}

	if workflow == WorkflowPaused && reason != nil && *reason == PauseVendorAssignmentNeeded {
		if err := resumeTx(ctx, tx, orderID, "vendor assigned"); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.GetSupplierOrder(ctx, orderID)
}

func lockSupplierOrder(ctx context.Context, tx pgx.Tx, orderID int) (WorkflowStatus, error) {
	var workflow WorkflowStatus
	err := tx.QueryRow(ctx, `SELECT workflow_status FROM supplier_orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&workflow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("supplier order %d not found", orderID)
		}
		return "", fmt.Errorf("failed to lock supplier order: %w", err)
	}
	return workflow, nil
}

const supplierOrderColumns = `
	o.id, o.order_number, o.sku_id, COALESCE(s.code, ''), COALESCE(s.name, ''),
	o.vendor_id, COALESCE(v.name, ''), o.quantity, o.status, o.workflow_status,
	o.pause_reason, o.pause_note, o.resume_note, o.paused_at, o.resumed_at, o.created_at`

func scanSupplierOrder(row pgx.Row) (*SupplierOrder, error) {
	var o SupplierOrder
	err := row.Scan(&o.ID, &o.OrderNumber, &o.SKUID, &o.SKUCode, &o.SKUName,
		&o.VendorID, &o.VendorName, &o.Quantity, &o.Status, &o.WorkflowStatus,
		&o.PauseReason, &o.PauseNote, &o.ResumeNote, &o.PausedAt, &o.ResumedAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if o.SKUName == "" {
		o.SKUName = UnknownItemName
	}
	return &o, nil
}

func (s *supplierOrderService) GetSupplierOrder(ctx context.Context, orderID int) (*SupplierOrder, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+supplierOrderColumns+`
		FROM supplier_orders o
		LEFT JOIN skus s    ON s.id = o.sku_id
		LEFT JOIN vendors v ON v.id = o.vendor_id
		WHERE o.id = $1`, orderID)
	o, err := scanSupplierOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to get supplier order: %w", err)
	}
	return o, nil
}

func (s *supplierOrderService) GetSupplierOrders(ctx context.Context, workflow WorkflowStatus) ([]SupplierOrder, error) {
	query := `
		SELECT ` + supplierOrderColumns + `
		FROM supplier_orders o
		LEFT JOIN skus s    ON s.id = o.sku_id
		LEFT JOIN vendors v ON v.id = o.vendor_id`
	args := []any{}
	if workflow != "" {
		query += ` WHERE o.workflow_status = $1`
		args = append(args, workflow)
	}
	query += ` ORDER BY o.id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier orders: %w", err)
	}
	defer rows.Close()

	var orders []SupplierOrder
	for rows.Next() {
		o, err := scanSupplierOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *supplierOrderService) OpenAlerts(ctx context.Context) ([]WorkflowAlert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, supplier_order_id, message, is_resolved, created_at, resolved_at
		FROM workflow_alerts
		WHERE is_resolved = false
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow alerts: %w", err)
	}
	defer rows.Close()

	var alerts []WorkflowAlert
	for rows.Next() {
		var a WorkflowAlert
		err := rows.Scan(&a.ID, &a.SupplierOrderID, &a.Message, &a.IsResolved, &a.CreatedAt, &a.ResolvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
