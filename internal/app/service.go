package app

import (
	"context"
	"io"

	"partsdesk/internal/core"

	"github.com/shopspring/decimal"
)

// ApplicationService is the facade over the inventory and production engine.
// Both the HTTP handlers and the console tools depend on this interface,
// never on the core services directly. Methods take human-facing references
// (SKU codes, order numbers) and resolve them to internal IDs.
type ApplicationService interface {
	// ── Auth ──
	Login(ctx context.Context, username, password string) (*core.User, error)
	GetUser(ctx context.Context, userID int) (*core.User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*core.User, error)

	// ── Catalog ──
	ListSKUs(ctx context.Context) (*SKUListResult, error)
	CreateSKU(ctx context.Context, req CreateSKURequest) (*core.SKU, error)
	ListVendors(ctx context.Context) (*VendorListResult, error)
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*core.Vendor, error)
	ListWarehouses(ctx context.Context) (*WarehouseListResult, error)

	// ── Inventory ──
	GetStockLevels(ctx context.Context) (*StockResult, error)
	ReceiveStock(ctx context.Context, req ReceiveStockRequest) error
	AdjustStock(ctx context.Context, req AdjustStockRequest) error
	SetReorderLevels(ctx context.Context, req SetReorderLevelsRequest) error

	// ── Bill of materials ──
	ListBOMTemplates(ctx context.Context) (*BOMListResult, error)
	GetBOMTemplate(ctx context.Context, templateID int) (*core.BOMTemplate, error)
	CreateBOMTemplate(ctx context.Context, req CreateBOMTemplateRequest) (*core.BOMTemplate, error)
	DeactivateBOMTemplate(ctx context.Context, templateID int) error
	// CheckBuildability reports, for the kit's active template, whether qty
	// kits can be built from current stock and where the shortfalls are.
	CheckBuildability(ctx context.Context, kitSKUCode string, qty decimal.Decimal) (*BuildabilityResult, error)

	// ── Purchase orders ──
	ListPurchaseOrders(ctx context.Context, status string) (*POListResult, error)
	GetPurchaseOrder(ctx context.Context, ref string) (*POResult, error)
	CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*POResult, error)
	MarkPOOrdered(ctx context.Context, ref string) (*POResult, error)
	ReceivePurchaseOrder(ctx context.Context, req ReceivePORequest) (*POResult, error)
	CancelPurchaseOrder(ctx context.Context, ref string) (*POResult, error)

	// ── Production ──
	// PlanKitBuild creates a production order and, when components are short,
	// drafts replenishment purchase orders grouped by vendor.
	PlanKitBuild(ctx context.Context, req PlanKitBuildRequest) (*KitBuildResult, error)
	ListProductionOrders(ctx context.Context, status string) (*ProductionListResult, error)
	GetProductionOrder(ctx context.Context, ref string) (*ProductionResult, error)
	StartProduction(ctx context.Context, ref string) (*ProductionResult, error)
	CompleteProduction(ctx context.Context, ref string, qtyCompleted decimal.Decimal) (*ProductionResult, error)
	HoldProduction(ctx context.Context, ref, reason string) (*ProductionResult, error)
	ResumeProduction(ctx context.Context, ref string) (*ProductionResult, error)
	CancelProduction(ctx context.Context, ref string) (*ProductionResult, error)

	// ── Sales orders ──
	CreateSalesOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResult, error)
	ListSalesOrders(ctx context.Context, status string) (*SalesOrderListResult, error)
	GetSalesOrder(ctx context.Context, ref string) (*SalesOrderResult, error)
	FulfillSalesOrder(ctx context.Context, ref, warehouseCode string) (*SalesOrderResult, error)
	CancelSalesOrder(ctx context.Context, ref string) (*SalesOrderResult, error)
	RecordSalesPayment(ctx context.Context, ref, paymentStatus string) (*SalesOrderResult, error)

	// ── Supplier order workflow ──
	CreateSupplierOrder(ctx context.Context, req CreateSupplierOrderRequest) (*SupplierOrderResult, error)
	PauseSupplierOrder(ctx context.Context, orderID int, note string) (*SupplierOrderResult, error)
	ResumeSupplierOrder(ctx context.Context, orderID int, note string) (*SupplierOrderResult, error)
	AssignSupplierVendor(ctx context.Context, orderID int, vendorCode string) (*SupplierOrderResult, error)
	ListSupplierOrders(ctx context.Context, workflowStatus string) (*SupplierOrderListResult, error)
	ListOpenAlerts(ctx context.Context) (*AlertListResult, error)

	// ── Replenishment and reporting ──
	// ReorderLowStock drafts purchase orders for low items that have no open
	// PO coverage. Safe to call repeatedly.
	ReorderLowStock(ctx context.Context, warehouseCode string) (*POListResult, error)
	GetLowStock(ctx context.Context) (*LowStockResult, error)
	GetStockLedger(ctx context.Context, skuCode, fromDate, toDate string) (*LedgerResult, error)
	GetStockValue(ctx context.Context) (*core.StockValueReport, error)
	GetSalesPerformance(ctx context.Context, year, month int) (*core.SalesPerformanceReport, error)
	// ExportReports writes an xlsx workbook with the stock value, low stock
	// and sales performance reports.
	ExportReports(ctx context.Context, year, month int, w io.Writer) error

	// ── Restock assistant ──
	// InterpretRestock sends a natural language restock request to the
	// assistant and returns either a proposal or a clarification question.
	InterpretRestock(ctx context.Context, text string) (*RestockResult, error)
	// CommitRestockProposal turns a validated proposal into a PENDING
	// purchase order.
	CommitRestockProposal(ctx context.Context, proposal core.RestockProposal) (*POResult, error)
}
