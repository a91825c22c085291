package app

import "partsdesk/internal/core"

// SKUListResult is returned by ListSKUs.
type SKUListResult struct {
	SKUs []core.SKU
}

// VendorListResult is returned by ListVendors.
type VendorListResult struct {
	Vendors []core.Vendor
}

// WarehouseListResult is returned by ListWarehouses.
type WarehouseListResult struct {
	Warehouses []core.Warehouse
}

// StockResult is returned by GetStockLevels.
type StockResult struct {
	Levels []core.StockLevel
}

// BOMListResult is returned by ListBOMTemplates.
type BOMListResult struct {
	Templates []core.BOMTemplate
}

// BuildabilityResult is returned by CheckBuildability.
type BuildabilityResult struct {
	Template  *core.BOMTemplate
	Checks    []core.ComponentCheck
	Buildable bool
}

// POResult is returned by purchase order lifecycle operations.
type POResult struct {
	Order *core.PurchaseOrder
}

// POListResult is returned by ListPurchaseOrders and ReorderLowStock.
type POListResult struct {
	Orders []core.PurchaseOrder
}

// KitBuildResult is returned by PlanKitBuild.
type KitBuildResult struct {
	Plan *core.KitBuildPlan
}

// ProductionResult is returned by production lifecycle operations.
type ProductionResult struct {
	Order *core.ProductionOrder
}

// ProductionListResult is returned by ListProductionOrders.
type ProductionListResult struct {
	Orders []core.ProductionOrder
}

// SalesOrderResult is returned by sales order lifecycle operations.
type SalesOrderResult struct {
	Order *core.SalesOrder
}

// SalesOrderListResult is returned by ListSalesOrders.
type SalesOrderListResult struct {
	Orders []core.SalesOrder
}

// SupplierOrderResult is returned by supplier order workflow operations.
type SupplierOrderResult struct {
	Order *core.SupplierOrder
}

// SupplierOrderListResult is returned by ListSupplierOrders.
type SupplierOrderListResult struct {
	Orders []core.SupplierOrder
}

// AlertListResult is returned by ListOpenAlerts.
type AlertListResult struct {
	Alerts []core.WorkflowAlert
}

// LowStockResult is returned by GetLowStock.
type LowStockResult struct {
	Items []core.LowStockItem
}

// LedgerResult is returned by GetStockLedger.
type LedgerResult struct {
	SKUCode string
	Lines   []core.LedgerLine
}

// RestockResult is returned by InterpretRestock.
type RestockResult struct {
	Proposal             *core.RestockProposal
	ClarificationMessage string
	IsClarification      bool
}
