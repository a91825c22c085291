package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder represents a customer order with its lines.
type SalesOrder struct {
	ID                 int
	OrderNumber        string
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	Status             SalesStatus
	PaymentStatus      PaymentStatus
	TotalAmount        decimal.Decimal
	ProductionRequired bool
	BOMTemplateID      *int // active template of the kit being built, when production is required
	Notes              string
	FulfilledAt        *time.Time
	CreatedAt          time.Time
	Items              []SalesOrderItem
}

// SalesOrderItem is a single SKU line on a sales order.
type SalesOrderItem struct {
	ID        int
	OrderID   int
	SKUID     int
	SKUCode   string
	SKUName   string
	SKUType   SKUType
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// SalesOrderItemInput holds the fields required to create a sales order line.
// A zero unit price falls back to the SKU's list price.
type SalesOrderItemInput struct {
	SKUID     int
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SalesOrderInput holds the fields required to create a sales order.
type SalesOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	Items         []SalesOrderItemInput
}

// SalesOrderService provides the sales order lifecycle:
// PENDING → FULFILLED or CANCELLED.
type SalesOrderService interface {
	// CreateSalesOrder creates a PENDING sales order with an order number
	// derived from its ID. When any line is a kit SKU the order is flagged
	// production-required and linked to the kit's active BOM template; kit
	// orders are always built to order, regardless of kit stock on hand.
	CreateSalesOrder(ctx context.Context, input SalesOrderInput) (*SalesOrder, error)

	// FulfillSalesOrder ships every line from the given warehouse, recording
	// SHIPMENT movements, and transitions the order to FULFILLED. Fails when
	// any line lacks stock; no stock moves on failure.
	FulfillSalesOrder(ctx context.Context, orderID, warehouseID int, inv InventoryService) error

	// CancelSalesOrder transitions a PENDING order to CANCELLED.
	CancelSalesOrder(ctx context.Context, orderID int) error

	// RecordPayment updates the order's payment status.
	RecordPayment(ctx context.Context, orderID int, status PaymentStatus) error

	// GetSalesOrder returns a sales order by ID, including its lines.
	GetSalesOrder(ctx context.Context, orderID int) (*SalesOrder, error)

	// GetSalesOrders returns sales orders, optionally filtered by status,
	// newest first.
	GetSalesOrders(ctx context.Context, status SalesStatus) ([]SalesOrder, error)
}
