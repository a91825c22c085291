package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductionOrder is an order to assemble a quantity of a kit SKU from its
// BOM template's components.
type ProductionOrder struct {
	ID            int
	OrderNumber   string
	KitSKUID      int
	KitSKUCode    string
	KitSKUName    string
	BOMTemplateID int
	WarehouseID   int
	QtyPlanned    decimal.Decimal
	QtyCompleted  decimal.Decimal
	Status        ProductionStatus
	HeldFrom      *ProductionStatus // status the order was in when put on hold
	UnitCost      decimal.Decimal   // per-kit cost from the BOM template
	SalesOrderID  *int              // sales order this build fulfils, if any
	Notes         string
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductionOrderInput holds the fields required to plan a production order.
type ProductionOrderInput struct {
	KitSKUID     int
	Quantity     decimal.Decimal
	WarehouseID  int
	SalesOrderID *int
	Notes        string
}

// ProductionService drives the kit production lifecycle:
// PLANNED → IN_PROGRESS → COMPLETED, with ON_HOLD reachable from either
// pre-terminal state and CANCELLED reachable from any non-terminal state.
type ProductionService interface {
	// Plan creates a PLANNED production order against the kit's active BOM
	// template, with an order number derived from its ID. Planning does not
	// touch inventory.
	Plan(ctx context.Context, input ProductionOrderInput) (*ProductionOrder, error)

	// Start transitions PLANNED → IN_PROGRESS. It re-checks component
	// availability inside the transaction and consumes the required component
	// stock, recording PRODUCTION_OUT movements. If any component is short the
	// transition fails and no stock moves.
	Start(ctx context.Context, orderID int, inv InventoryService) error

	// Complete transitions IN_PROGRESS → COMPLETED with the quantity actually
	// completed (at most the planned quantity). Completed kits are added to
	// stock as PRODUCTION_IN at the order's per-kit cost, and a linked sales
	// order, when present, is fulfilled.
	Complete(ctx context.Context, orderID int, qtyCompleted decimal.Decimal, inv InventoryService) error

	// Hold transitions a PLANNED or IN_PROGRESS order to ON_HOLD, remembering
	// which state it came from.
	Hold(ctx context.Context, orderID int, reason string) error

	// Resume transitions ON_HOLD back to the state the order was held from.
	Resume(ctx context.Context, orderID int) error

	// Cancel transitions any non-terminal order to CANCELLED. If the order had
	// started, consumed components are returned to stock.
	Cancel(ctx context.Context, orderID int, inv InventoryService) error

	// Get returns a production order by ID.
	Get(ctx context.Context, orderID int) (*ProductionOrder, error)

	// List returns production orders, optionally filtered by status,
	// newest first.
	List(ctx context.Context, status ProductionStatus) ([]ProductionOrder, error)
}
