package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse represents a physical storage location.
type Warehouse struct {
	ID        int
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// InventoryItem tracks stock for one SKU in one warehouse.
// Available quantity is OnHand − Reserved.
type InventoryItem struct {
	ID           int
	SKUID        int
	WarehouseID  int
	OnHand       decimal.Decimal
	Reserved     decimal.Decimal
	ReorderPoint decimal.Decimal
	ReorderQty   decimal.Decimal
	UpdatedAt    time.Time
}

// MovementType classifies a stock ledger entry.
type MovementType string

const (
	MovementReceipt       MovementType = "RECEIPT"
	MovementIssue         MovementType = "ISSUE"
	MovementProductionIn  MovementType = "PRODUCTION_IN"
	MovementProductionOut MovementType = "PRODUCTION_OUT"
	MovementAdjustment    MovementType = "ADJUSTMENT"
	MovementShipment      MovementType = "SHIPMENT"
)

// MovementRef links a stock movement to the business record that caused it.
// At most one field is set.
type MovementRef struct {
	POItemID          *int
	ProductionOrderID *int
	SalesOrderID      *int
}

// StockMovement is one append-only entry in the stock ledger. Quantity is
// signed: positive for stock coming in, negative for stock going out.
type StockMovement struct {
	ID                int
	InventoryItemID   int
	Type              MovementType
	Quantity          decimal.Decimal
	UnitCost          decimal.Decimal
	POItemID          *int
	ProductionOrderID *int
	SalesOrderID      *int
	MovementDate      string // YYYY-MM-DD
	Notes             string
	CreatedAt         time.Time
}

// StockLevel is a read view of an inventory item joined with SKU and warehouse info.
type StockLevel struct {
	SKUCode       string
	SKUName       string
	WarehouseCode string
	WarehouseName string
	OnHand        decimal.Decimal
	Reserved      decimal.Decimal
	Available     decimal.Decimal
	ReorderPoint  decimal.Decimal
	UnitCost      decimal.Decimal
}

// LowStockItem is one row of the low-stock report: an inventory item whose
// available quantity has fallen to or below its reorder point.
type LowStockItem struct {
	SKUID         int
	SKUCode       string
	SKUName       string
	VendorID      *int
	WarehouseID   int
	WarehouseCode string
	Available     decimal.Decimal
	ReorderPoint  decimal.Decimal
	ReorderQty    decimal.Decimal
	SuggestedQty  decimal.Decimal
}
