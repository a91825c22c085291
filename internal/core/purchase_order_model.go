package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder represents a purchase order header with its lines.
type PurchaseOrder struct {
	ID                int
	OrderNumber       string
	VendorID          int
	VendorCode        string
	VendorName        string
	WarehouseID       int
	Status            POStatus
	OrderDate         time.Time
	ExpectedDate      *time.Time
	TotalAmount       decimal.Decimal
	Notes             string
	ProductionOrderID *int // set when the PO was drafted to cover a kit build
	OrderedAt         *time.Time
	ReceivedAt        *time.Time
	CreatedAt         time.Time
	Items             []PurchaseOrderItem
}

// PurchaseOrderItem is a single SKU line on a purchase order.
type PurchaseOrderItem struct {
	ID          int
	POID        int
	SKUID       int
	SKUCode     string
	SKUName     string
	QtyOrdered  decimal.Decimal
	QtyReceived decimal.Decimal
	UnitCost    decimal.Decimal
	LineTotal   decimal.Decimal
}

// PurchaseOrderItemInput holds the fields required to create a PO line.
type PurchaseOrderItemInput struct {
	SKUID    int
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// PurchaseOrderInput holds the fields required to create a purchase order.
type PurchaseOrderInput struct {
	VendorID          int
	WarehouseID       int
	ExpectedDate      *time.Time
	Notes             string
	ProductionOrderID *int
	Items             []PurchaseOrderItemInput
}

// POReceipt is one PO line being received, possibly partially.
type POReceipt struct {
	POItemID    int
	QtyReceived decimal.Decimal
}

// PurchaseOrderService provides the purchase order lifecycle:
// PENDING → ORDERED → RECEIVED, with CANCELLED reachable before receipt.
type PurchaseOrderService interface {
	// CreatePO creates a PENDING purchase order with a computed total and an
	// order number derived from its ID.
	CreatePO(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrder, error)

	// MarkOrdered transitions a PENDING PO to ORDERED, stamping ordered_at.
	MarkOrdered(ctx context.Context, poID int) error

	// ReceivePO records goods received against an ORDERED purchase order into
	// the order's warehouse. Each receipt adds stock, records a RECEIPT
	// movement linked to the PO line, and updates the SKU's weighted-average
	// cost. When every line is fully received the PO transitions to RECEIVED.
	ReceivePO(ctx context.Context, poID int, receipts []POReceipt, inv InventoryService) error

	// CancelPO transitions a PENDING or ORDERED purchase order to CANCELLED.
	// Orders with received stock cannot be cancelled.
	CancelPO(ctx context.Context, poID int) error

	// GetPO returns a purchase order by ID, including its lines.
	GetPO(ctx context.Context, poID int) (*PurchaseOrder, error)

	// GetPOs returns purchase orders, optionally filtered by status.
	// An empty status returns all orders, newest first.
	GetPOs(ctx context.Context, status POStatus) ([]PurchaseOrder, error)

	// GetPOsForProductionOrder returns the purchase orders drafted to cover a
	// production order's component shortages.
	GetPOsForProductionOrder(ctx context.Context, productionOrderID int) ([]PurchaseOrder, error)
}
