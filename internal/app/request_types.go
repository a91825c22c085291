package app

import "github.com/shopspring/decimal"

// CreateUserRequest is the input for creating a login.
type CreateUserRequest struct {
	Username    string
	Password    string
	DisplayName string
	Role        string // empty means "staff"
}

// CreateSKURequest is the input for creating a catalog item.
type CreateSKURequest struct {
	Code                string
	Name                string
	Description         string
	Type                string // SINGLE or KIT
	PreferredVendorCode string
	UnitCost            decimal.Decimal
	UnitPrice           decimal.Decimal
}

// CreateVendorRequest is the input for creating a vendor.
type CreateVendorRequest struct {
	Code             string
	Name             string
	ContactPerson    string
	Email            string
	Phone            string
	Address          string
	PaymentTermsDays int
}

// ReceiveStockRequest is the input for recording a goods receipt outside of
// a purchase order (opening stock, found stock).
type ReceiveStockRequest struct {
	SKUCode       string
	WarehouseCode string // empty means the default warehouse
	MovementDate  string // YYYY-MM-DD; empty means today
	Qty           decimal.Decimal
	UnitCost      decimal.Decimal
}

// AdjustStockRequest is the input for a signed stock correction.
type AdjustStockRequest struct {
	SKUCode       string
	WarehouseCode string
	Notes         string
	Delta         decimal.Decimal
}

// SetReorderLevelsRequest configures reorder monitoring for a SKU in a
// warehouse.
type SetReorderLevelsRequest struct {
	SKUCode       string
	WarehouseCode string
	ReorderPoint  decimal.Decimal
	ReorderQty    decimal.Decimal
}

// BOMComponentRequest is a single component line within a
// CreateBOMTemplateRequest.
type BOMComponentRequest struct {
	SKUCode    string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal // zero means "use the SKU's recorded cost"
	IsCritical bool
}

// CreateBOMTemplateRequest is the input for creating a BOM template version.
type CreateBOMTemplateRequest struct {
	KitSKUCode   string
	Notes        string
	LaborCost    decimal.Decimal
	OverheadCost decimal.Decimal
	Components   []BOMComponentRequest
}

// POLineRequest is a single line within a CreatePurchaseOrderRequest.
type POLineRequest struct {
	SKUCode  string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal // zero means "use the SKU's recorded cost"
}

// CreatePurchaseOrderRequest is the input for creating a purchase order.
type CreatePurchaseOrderRequest struct {
	VendorCode    string
	WarehouseCode string // empty means the default warehouse
	ExpectedDate  string // YYYY-MM-DD; optional
	Notes         string
	Lines         []POLineRequest
}

// ReceivedLineRequest is a single line in a ReceivePORequest.
type ReceivedLineRequest struct {
	POItemID    int
	QtyReceived decimal.Decimal
}

// ReceivePORequest is the input for recording goods received against a PO.
// Lines may be a subset of the order; partial receipts keep the PO ORDERED.
type ReceivePORequest struct {
	Ref   string // numeric ID or order number
	Lines []ReceivedLineRequest
}

// PlanKitBuildRequest is the input for planning a kit production run.
type PlanKitBuildRequest struct {
	KitSKUCode    string
	WarehouseCode string // empty means the default warehouse
	Notes         string
	SalesOrderRef string // optional; numeric ID or order number
	Quantity      decimal.Decimal
}

// SalesLineRequest is a single line within a CreateSalesOrderRequest.
type SalesLineRequest struct {
	SKUCode   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal // zero means "use the SKU's list price"
}

// CreateSalesOrderRequest is the input for creating a sales order.
type CreateSalesOrderRequest struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	Lines         []SalesLineRequest
}

// CreateSupplierOrderRequest is the input for creating a supplier order.
type CreateSupplierOrderRequest struct {
	SKUCode    string
	VendorCode string // empty means no vendor assigned yet
	Quantity   decimal.Decimal
}
