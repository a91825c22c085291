package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"partsdesk/internal/ai"
	"partsdesk/internal/core"
	"partsdesk/internal/export"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type appService struct {
	pool       *pgxpool.Pool
	skus       core.SKUService
	vendors    core.VendorService
	inventory  core.InventoryService
	bom        core.BOMService
	purchasing core.PurchaseOrderService
	production core.ProductionService
	sales      core.SalesOrderService
	supplier   core.SupplierOrderService
	planner    core.PlannerService
	reports    core.ReportingService
	users      core.UserService
	agent      ai.AgentService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	skus core.SKUService,
	vendors core.VendorService,
	inventory core.InventoryService,
	bom core.BOMService,
	purchasing core.PurchaseOrderService,
	production core.ProductionService,
	sales core.SalesOrderService,
	supplier core.SupplierOrderService,
	planner core.PlannerService,
	reports core.ReportingService,
	users core.UserService,
	agent ai.AgentService,
) ApplicationService {
	return &appService{
		pool:       pool,
		skus:       skus,
		vendors:    vendors,
		inventory:  inventory,
		bom:        bom,
		purchasing: purchasing,
		production: production,
		sales:      sales,
		supplier:   supplier,
		planner:    planner,
		reports:    reports,
		users:      users,
		agent:      agent,
	}
}

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login verifies a username/password pair against the stored bcrypt hash.
func (s *appService) Login(ctx context.Context, username, password string) (*core.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *appService) CreateUser(ctx context.Context, req CreateUserRequest) (*core.User, error) {
	return s.users.CreateUser(ctx, req.Username, req.Password, req.DisplayName, req.Role)
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *appService) ListSKUs(ctx context.Context) (*SKUListResult, error) {
	skus, err := s.skus.GetSKUs(ctx)
	if err != nil {
		return nil, err
	}
	return &SKUListResult{SKUs: skus}, nil
}

func (s *appService) CreateSKU(ctx context.Context, req CreateSKURequest) (*core.SKU, error) {
	input := core.SKUInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Type:        core.SKUType(strings.ToUpper(req.Type)),
		UnitCost:    req.UnitCost,
		UnitPrice:   req.UnitPrice,
	}
	if req.PreferredVendorCode != "" {
		vendor, err := s.vendors.GetVendorByCode(ctx, req.PreferredVendorCode)
		if err != nil {
			return nil, fmt.Errorf("vendor %s not found: %w", req.PreferredVendorCode, err)
		}
		input.PreferredVendorID = &vendor.ID
	}
	return s.skus.CreateSKU(ctx, input)
}

func (s *appService) ListVendors(ctx context.Context) (*VendorListResult, error) {
	vendors, err := s.vendors.GetVendors(ctx)
	if err != nil {
		return nil, err
	}
	return &VendorListResult{Vendors: vendors}, nil
}

func (s *appService) CreateVendor(ctx context.Context, req CreateVendorRequest) (*core.Vendor, error) {
	return s.vendors.CreateVendor(ctx, core.VendorInput{
		Code:             req.Code,
		Name:             req.Name,
		ContactPerson:    req.ContactPerson,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		PaymentTermsDays: req.PaymentTermsDays,
	})
}

func (s *appService) ListWarehouses(ctx context.Context) (*WarehouseListResult, error) {
	warehouses, err := s.inventory.GetWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	return &WarehouseListResult{Warehouses: warehouses}, nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) GetStockLevels(ctx context.Context) (*StockResult, error) {
	levels, err := s.inventory.GetStockLevels(ctx)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels}, nil
}

func (s *appService) ReceiveStock(ctx context.Context, req ReceiveStockRequest) error {
	sku, err := s.skus.GetSKUByCode(ctx, req.SKUCode)
	if err != nil {
		return err
	}
	warehouse, err := s.resolveWarehouse(ctx, req.WarehouseCode)
	if err != nil {
		return err
	}
	movementDate := req.MovementDate
	if movementDate == "" {
		movementDate = time.Now().Format("2006-01-02")
	}
	return s.inventory.ReceiveStock(ctx, sku.ID, warehouse.ID, req.Qty, req.UnitCost, movementDate, nil)
}

func (s *appService) AdjustStock(ctx context.Context, req AdjustStockRequest) error {
	sku, err := s.skus.GetSKUByCode(ctx, req.SKUCode)
	if err != nil {
		return err
	}
	warehouse, err := s.resolveWarehouse(ctx, req.WarehouseCode)
	if err != nil {
		return err
	}
	return s.inventory.AdjustStock(ctx, sku.ID, warehouse.ID, req.Delta, req.Notes)
}

func (s *appService) SetReorderLevels(ctx context.Context, req SetReorderLevelsRequest) error {
	sku, err := s.skus.GetSKUByCode(ctx, req.SKUCode)
	if err != nil {
		return err
	}
	warehouse, err := s.resolveWarehouse(ctx, req.WarehouseCode)
	if err != nil {
		return err
	}
	return s.inventory.SetReorderLevels(ctx, sku.ID, warehouse.ID, req.ReorderPoint, req.ReorderQty)
}

// ── Bill of materials ─────────────────────────────────────────────────────────

func (s *appService) ListBOMTemplates(ctx context.Context) (*BOMListResult, error) {
	templates, err := s.bom.GetTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return &BOMListResult{Templates: templates}, nil
}

func (s *appService) GetBOMTemplate(ctx context.Context, templateID int) (*core.BOMTemplate, error) {
	return s.bom.GetTemplate(ctx, templateID)
}

func (s *appService) CreateBOMTemplate(ctx context.Context, req CreateBOMTemplateRequest) (*core.BOMTemplate, error) {
	kit, err := s.skus.GetSKUByCode(ctx, req.KitSKUCode)
	if err != nil {
		return nil, fmt.Errorf("kit SKU %s not found: %w", req.KitSKUCode, err)
	}

	components := make([]core.BOMComponentInput, len(req.Components))
	for i, c := range req.Components {
		sku, err := s.skus.GetSKUByCode(ctx, c.SKUCode)
		if err != nil {
			return nil, fmt.Errorf("component SKU %s not found: %w", c.SKUCode, err)
		}
		unitCost := c.UnitCost
		if unitCost.IsZero() {
			unitCost = sku.UnitCost
		}
		components[i] = core.BOMComponentInput{
			ComponentSKUID:   sku.ID,
			QuantityRequired: c.Quantity,
			UnitCost:         unitCost,
			IsCritical:       c.IsCritical,
		}
	}

	return s.bom.CreateTemplate(ctx, core.BOMTemplateInput{
		KitSKUID:     kit.ID,
		LaborCost:    req.LaborCost,
		OverheadCost: req.OverheadCost,
		Notes:        req.Notes,
		Components:   components,
	})
}

func (s *appService) DeactivateBOMTemplate(ctx context.Context, templateID int) error {
	return s.bom.DeactivateTemplate(ctx, templateID)
}

func (s *appService) CheckBuildability(ctx context.Context, kitSKUCode string, qty decimal.Decimal) (*BuildabilityResult, error) {
	kit, err := s.skus.GetSKUByCode(ctx, kitSKUCode)
	if err != nil {
		return nil, fmt.Errorf("kit SKU %s not found: %w", kitSKUCode, err)
	}
	template, err := s.bom.GetActiveTemplateForKit(ctx, kit.ID)
	if err != nil {
		return nil, err
	}
	checks, err := s.bom.CheckTemplate(ctx, template.ID, qty)
	if err != nil {
		return nil, err
	}
	return &BuildabilityResult{
		Template:  template,
		Checks:    checks,
		Buildable: core.AllSufficient(checks),
	}, nil
}

// ── Purchase orders ───────────────────────────────────────────────────────────

func (s *appService) ListPurchaseOrders(ctx context.Context, status string) (*POListResult, error) {
	orders, err := s.purchasing.GetPOs(ctx, core.POStatus(strings.ToUpper(status)))
	if err != nil {
		return nil, err
	}
	return &POListResult{Orders: orders}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, ref string) (*POResult, error) {
	poID, err := s.resolvePOID(ctx, ref)
	if err != nil {
		return nil, err
	}
	order, err := s.purchasing.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &POResult{Order: order}, nil
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*POResult, error) {
	vendor, err := s.vendors.GetVendorByCode(ctx, req.VendorCode)
	if err != nil {
		return nil, fmt.Errorf("vendor %s not found: %w", req.VendorCode, err)
	}
	warehouse, err := s.resolveWarehouse(ctx, req.WarehouseCode)
	if err != nil {
		return nil, err
	}

	var expectedDate *time.Time
	if req.ExpectedDate != "" {
		d, err := time.Parse("2006-01-02", req.ExpectedDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expected date %q: %w", req.ExpectedDate, err)
		}
		expectedDate = &d
	}

	items := make([]core.PurchaseOrderItemInput, len(req.Lines))
	for i, l := range req.Lines {
		sku, err := s.skus.GetSKUByCode(ctx, l.SKUCode)
		if err != nil {
			return nil, fmt.Errorf("SKU %s not found: %w", l.SKUCode, err)
		}
		unitCost := l.UnitCost
		if unitCost.IsZero() {
			unitCost = sku.UnitCost
		}
		items[i] = core.PurchaseOrderItemInput{SKUID: sku.ID, Quantity: l.Quantity, UnitCost: unitCost}
	}

	order, err := s.purchasing.CreatePO(ctx, core.PurchaseOrderInput{
		VendorID:     vendor.ID,
		WarehouseID:  warehouse.ID,
		ExpectedDate: expectedDate,
		Notes:        req.Notes,
		Items:        items,
	})
	if err != nil {
		return nil, err
	}
	return &POResult{Order: order}, nil
}

func (s *appService) MarkPOOrdered(ctx context.Context, ref string) (*POResult, error) {
	poID, err := s.resolvePOID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.purchasing.MarkOrdered(ctx, poID); err != nil {
		return nil, err
	}
	return s.refetchPO(ctx, poID)
}

func (s *appService) ReceivePurchaseOrder(ctx context.Context, req ReceivePORequest) (*POResult, error) {
	poID, err := s.resolvePOID(ctx, req.Ref)
	if err != nil {
		return nil, err
	}
	receipts := make([]core.POReceipt, len(req.Lines))
	for i, l := range req.Lines {
		receipts[i] = core.POReceipt{POItemID: l.POItemID, QtyReceived: l.QtyReceived}
	}
	if err := s.purchasing.ReceivePO(ctx, poID, receipts, s.inventory); err != nil {
		return nil, err
	}
	return s.refetchPO(ctx, poID)
}

func (s *appService) CancelPurchaseOrder(ctx context.Context, ref string) (*POResult, error) {
	poID, err := s.resolvePOID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.purchasing.CancelPO(ctx, poID); err != nil {
		return nil, err
	}
	return s.refetchPO(ctx, poID)
}

// ── Production ────────────────────────────────────────────────────────────────

func (s *appService) PlanKitBuild(ctx context.Context, req PlanKitBuildRequest) (*KitBuildResult, error) {
	kit, err := s.skus.GetSKUByCode(ctx, req.KitSKUCode)
	if err != nil {
		return nil, fmt.Errorf("kit SKU %s not found: %w", req.KitSKUCode, err)
	}
	warehouse, err := s.resolveWarehouse(ctx, req.WarehouseCode)
	if err != nil {
		return nil, err
	}

	var salesOrderID *int
	if req.SalesOrderRef != "" {
		id, err := s.resolveSalesOrderID(ctx, req.SalesOrderRef)
		if err != nil {
			return nil, err
		}
		salesOrderID = &id
	}

	plan, err := s.planner.PlanKitBuild(ctx, kit.ID, req.Quantity, warehouse.ID, salesOrderID)
	if err != nil {
		return nil, err
	}
	return &KitBuildResult{Plan: plan}, nil
}

func (s *appService) ListProductionOrders(ctx context.Context, status string) (*ProductionListResult, error) {
	orders, err := s.production.List(ctx, core.ProductionStatus(strings.ToUpper(status)))
	if err != nil {
		return nil, err
	}
	return &ProductionListResult{Orders: orders}, nil
}

func (s *appService) GetProductionOrder(ctx context.Context, ref string) (*ProductionResult, error) {
	orderID, err := s.resolveProductionID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.refetchProduction(ctx, orderID)
}

func (s *appService) StartProduction(ctx context.Context, ref string) (*ProductionResult, error) {
	orderID, err := s.resolveProductionID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.production.Start(ctx, orderID, s.inventory); err != nil {
		return nil, err
	}
	return s.refetchProduction(ctx, orderID)
}

func (s *appService) CompleteProduction(ctx context.Context, ref string, qtyCompleted decimal.Decimal) (*ProductionResult, error) {
	orderID, err := s.resolveProductionID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.production.Complete(ctx, orderID, qtyCompleted, s.inventory); err != nil {
		return nil, err
	}
	return s.refetchProduction(ctx, orderID)
}

func (s *appService) HoldProduction(ctx context.Context, ref, reason string) (*ProductionResult, error) {
	orderID, err := s.resolveProductionID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.production.Hold(ctx, orderID, reason); err != nil {
		return nil, err
	}
	return s.refetchProduction(ctx, orderID)
}

func (s *appService) ResumeProduction(ctx context.Context, ref string) (*ProductionResult, error) {
	orderID, err := s.resolveProductionID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.production.Resume(ctx, orderID); err != nil {
		return nil, err
	}
	return s.refetchProduction(ctx, orderID)
}

func (s *appService) CancelProduction(ctx context.Context, ref string) (*ProductionResult, error) {
	orderID, err := s.resolveProductionID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.production.Cancel(ctx, orderID, s.inventory); err != nil {
		return nil, err
	}
	return s.refetchProduction(ctx, orderID)
}

// ── Sales orders ──────────────────────────────────────────────────────────────

func (s *appService) CreateSalesOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResult, error) {
	items := make([]core.SalesOrderItemInput, len(req.Lines))
	for i, l := range req.Lines {
		sku, err := s.skus.GetSKUByCode(ctx, l.SKUCode)
		if err != nil {
			return nil, fmt.Errorf("SKU %s not found: %w", l.SKUCode, err)
		}
		items[i] = core.SalesOrderItemInput{SKUID: sku.ID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	order, err := s.sales.CreateSalesOrder(ctx, core.SalesOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Items:         items,
	})
	if err != nil {
		return nil, err
	}
	return &SalesOrderResult{Order: order}, nil
}

func (s *appService) ListSalesOrders(ctx context.Context, status string) (*SalesOrderListResult, error) {
	orders, err := s.sales.GetSalesOrders(ctx, core.SalesStatus(strings.ToUpper(status)))
	if err != nil {
		return nil, err
	}
	return &SalesOrderListResult{Orders: orders}, nil
}

func (s *appService) GetSalesOrder(ctx context.Context, ref string) (*SalesOrderResult, error) {
	orderID, err := s.resolveSalesOrderID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.refetchSalesOrder(ctx, orderID)
}

func (s *appService) FulfillSalesOrder(ctx context.Context, ref, warehouseCode string) (*SalesOrderResult, error) {
	orderID, err := s.resolveSalesOrderID(ctx, ref)
	if err != nil {
		return nil, err
	}
	warehouse, err := s.resolveWarehouse(ctx, warehouseCode)
	if err != nil {
		return nil, err
	}
	if err := s.sales.FulfillSalesOrder(ctx, orderID, warehouse.ID, s.inventory); err != nil {
		return nil, err
	}
	return s.refetchSalesOrder(ctx, orderID)
}

func (s *appService) CancelSalesOrder(ctx context.Context, ref string) (*SalesOrderResult, error) {
	orderID, err := s.resolveSalesOrderID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.sales.CancelSalesOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.refetchSalesOrder(ctx, orderID)
}

func (s *appService) RecordSalesPayment(ctx context.Context, ref, paymentStatus string) (*SalesOrderResult, error) {
	orderID, err := s.resolveSalesOrderID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.sales.RecordPayment(ctx, orderID, core.PaymentStatus(strings.ToUpper(paymentStatus))); err != nil {
		return nil, err
	}
	return s.refetchSalesOrder(ctx, orderID)
}

// ── Supplier order workflow ───────────────────────────────────────────────────

func (s *appService) CreateSupplierOrder(ctx context.Context, req CreateSupplierOrderRequest) (*SupplierOrderResult, error) {
	sku, err := s.skus.GetSKUByCode(ctx, req.SKUCode)
	if err != nil {
		return nil, fmt.Errorf("SKU %s not found: %w", req.SKUCode, err)
	}
	input := core.SupplierOrderInput{SKUID: sku.ID, Quantity: req.Quantity}
	if req.VendorCode != "" {
		vendor, err := s.vendors.GetVendorByCode(ctx, req.VendorCode)
		if err != nil {
			return nil, fmt.Errorf("vendor %s not found: %w", req.VendorCode, err)
		}
		input.VendorID = &vendor.ID
	}
	order, err := s.supplier.CreateSupplierOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	return &SupplierOrderResult{Order: order}, nil
}

func (s *appService) PauseSupplierOrder(ctx context.Context, orderID int, note string) (*SupplierOrderResult, error) {
	order, err := s.supplier.Pause(ctx, orderID, note)
	if err != nil {
		return nil, err
	}
	return &SupplierOrderResult{Order: order}, nil
}

func (s *appService) ResumeSupplierOrder(ctx context.Context, orderID int, note string) (*SupplierOrderResult, error) {
	order, err := s.supplier.Resume(ctx, orderID, note)
	if err != nil {
		return nil, err
	}
	return &SupplierOrderResult{Order: order}, nil
}

func (s *appService) AssignSupplierVendor(ctx context.Context, orderID int, vendorCode string) (*SupplierOrderResult, error) {
	vendor, err := s.vendors.GetVendorByCode(ctx, vendorCode)
	if err != nil {
		return nil, fmt.Errorf("vendor %s not found: %w", vendorCode, err)
	}
	order, err := s.supplier.AssignVendor(ctx, orderID, vendor.ID)
	if err != nil {
		return nil, err
	}
	return &SupplierOrderResult{Order: order}, nil
}

func (s *appService) ListSupplierOrders(ctx context.Context, workflowStatus string) (*SupplierOrderListResult, error) {
	orders, err := s.supplier.GetSupplierOrders(ctx, core.WorkflowStatus(strings.ToUpper(workflowStatus)))
	if err != nil {
		return nil, err
	}
	return &SupplierOrderListResult{Orders: orders}, nil
}

func (s *appService) ListOpenAlerts(ctx context.Context) (*AlertListResult, error) {
	alerts, err := s.supplier.OpenAlerts(ctx)
	if err != nil {
		return nil, err
	}
	return &AlertListResult{Alerts: alerts}, nil
}

// ── Replenishment and reporting ───────────────────────────────────────────────

func (s *appService) ReorderLowStock(ctx context.Context, warehouseCode string) (*POListResult, error) {
	warehouse, err := s.resolveWarehouse(ctx, warehouseCode)
	if err != nil {
		return nil, err
	}
	orders, err := s.planner.ReorderLowStock(ctx, warehouse.ID)
	if err != nil {
		return nil, err
	}
	return &POListResult{Orders: orders}, nil
}

func (s *appService) GetLowStock(ctx context.Context) (*LowStockResult, error) {
	items, err := s.reports.GetLowStockReport(ctx)
	if err != nil {
		return nil, err
	}
	return &LowStockResult{Items: items}, nil
}

func (s *appService) GetStockLedger(ctx context.Context, skuCode, fromDate, toDate string) (*LedgerResult, error) {
	lines, err := s.reports.GetStockLedger(ctx, skuCode, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return &LedgerResult{SKUCode: skuCode, Lines: lines}, nil
}

func (s *appService) GetStockValue(ctx context.Context) (*core.StockValueReport, error) {
	return s.reports.GetStockValue(ctx)
}

func (s *appService) GetSalesPerformance(ctx context.Context, year, month int) (*core.SalesPerformanceReport, error) {
	return s.reports.GetSalesPerformance(ctx, year, month)
}

func (s *appService) ExportReports(ctx context.Context, year, month int, w io.Writer) error {
	stockValue, err := s.reports.GetStockValue(ctx)
	if err != nil {
		return err
	}
	lowStock, err := s.reports.GetLowStockReport(ctx)
	if err != nil {
		return err
	}
	sales, err := s.reports.GetSalesPerformance(ctx, year, month)
	if err != nil {
		return err
	}

	book := export.NewReportBook()
	if err := book.AddStockValueSheet(stockValue); err != nil {
		return err
	}
	if err := book.AddLowStockSheet(lowStock); err != nil {
		return err
	}
	if err := book.AddSalesPerformanceSheet(sales); err != nil {
		return err
	}
	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ── Restock assistant ─────────────────────────────────────────────────────────

func (s *appService) InterpretRestock(ctx context.Context, text string) (*RestockResult, error) {
	catalog, err := s.fetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	response, err := s.agent.InterpretRestockRequest(ctx, text, catalog)
	if err != nil {
		return nil, err
	}

	if response.IsClarificationRequest {
		return &RestockResult{
			IsClarification:      true,
			ClarificationMessage: response.Clarification.Message,
		}, nil
	}
	return &RestockResult{Proposal: response.Proposal}, nil
}

func (s *appService) CommitRestockProposal(ctx context.Context, proposal core.RestockProposal) (*POResult, error) {
	proposal.Normalize()
	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	warehouse, err := s.inventory.GetDefaultWarehouse(ctx)
	if err != nil {
		return nil, fmt.Errorf("no active warehouse found: %w", err)
	}

	var vendorID int
	items := make([]core.PurchaseOrderItemInput, len(proposal.Lines))
	for i, line := range proposal.Lines {
		sku, err := s.skus.GetSKUByCode(ctx, line.SKUCode)
		if err != nil {
			return nil, fmt.Errorf("SKU %s not found: %w", line.SKUCode, err)
		}
		qty, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q for %s: %w", line.Quantity, line.SKUCode, err)
		}
		unitCost := sku.UnitCost
		if line.UnitCost != "" {
			if unitCost, err = decimal.NewFromString(line.UnitCost); err != nil {
				return nil, fmt.Errorf("invalid unit cost %q for %s: %w", line.UnitCost, line.SKUCode, err)
			}
		}
		items[i] = core.PurchaseOrderItemInput{SKUID: sku.ID, Quantity: qty, UnitCost: unitCost}
		if vendorID == 0 && sku.PreferredVendorID != nil {
			vendorID = *sku.PreferredVendorID
		}
	}

	if proposal.VendorCode != "" {
		vendor, err := s.vendors.GetVendorByCode(ctx, proposal.VendorCode)
		if err != nil {
			return nil, fmt.Errorf("vendor %s not found: %w", proposal.VendorCode, err)
		}
		vendorID = vendor.ID
	}
	if vendorID == 0 {
		return nil, fmt.Errorf("no vendor given and no preferred vendor on the proposed SKUs")
	}

	order, err := s.purchasing.CreatePO(ctx, core.PurchaseOrderInput{
		VendorID:    vendorID,
		WarehouseID: warehouse.ID,
		Notes:       proposal.Summary,
		Items:       items,
	})
	if err != nil {
		return nil, err
	}
	return &POResult{Order: order}, nil
}

// ── private helpers ───────────────────────────────────────────────────────────

// resolveWarehouse looks up a warehouse by code, falling back to the first
// active warehouse when the code is empty.
func (s *appService) resolveWarehouse(ctx context.Context, code string) (*core.Warehouse, error) {
	if code == "" {
		wh, err := s.inventory.GetDefaultWarehouse(ctx)
		if err != nil {
			return nil, fmt.Errorf("no active warehouse found: %w", err)
		}
		return wh, nil
	}
	return s.inventory.GetWarehouseByCode(ctx, code)
}

// resolvePOID resolves a purchase order by numeric ID or order number.
func (s *appService) resolvePOID(ctx context.Context, ref string) (int, error) {
	return s.resolveOrderID(ctx, "purchase_orders", "purchase order", ref)
}

// resolveProductionID resolves a production order by numeric ID or order number.
func (s *appService) resolveProductionID(ctx context.Context, ref string) (int, error) {
	return s.resolveOrderID(ctx, "production_orders", "production order", ref)
}

// resolveSalesOrderID resolves a sales order by numeric ID or order number.
func (s *appService) resolveSalesOrderID(ctx context.Context, ref string) (int, error) {
	return s.resolveOrderID(ctx, "sales_orders", "sales order", ref)
}

func (s *appService) resolveOrderID(ctx context.Context, table, kind, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return id, nil
	}
	var id int
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM "+table+" WHERE order_number = $1", strings.ToUpper(strings.TrimSpace(ref)),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s %s not found: %w", kind, ref, err)
	}
	return id, nil
}

func (s *appService) refetchPO(ctx context.Context, poID int) (*POResult, error) {
	order, err := s.purchasing.GetPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &POResult{Order: order}, nil
}

func (s *appService) refetchProduction(ctx context.Context, orderID int) (*ProductionResult, error) {
	order, err := s.production.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &ProductionResult{Order: order}, nil
}

func (s *appService) refetchSalesOrder(ctx context.Context, orderID int) (*SalesOrderResult, error) {
	order, err := s.sales.GetSalesOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &SalesOrderResult{Order: order}, nil
}

// fetchCatalog returns active SKUs and vendors as a formatted string for the
// assistant prompt.
func (s *appService) fetchCatalog(ctx context.Context) (string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.code, s.name, s.sku_type, s.unit_cost, COALESCE(v.code, '')
		FROM skus s
		LEFT JOIN vendors v ON v.id = s.preferred_vendor_id
		WHERE s.is_active = TRUE
		ORDER BY s.code
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var lines []string
	lines = append(lines, "SKUs:")
	for rows.Next() {
		var code, name, skuType, vendorCode string
		var unitCost decimal.Decimal
		if err := rows.Scan(&code, &name, &skuType, &unitCost, &vendorCode); err != nil {
			return "", err
		}
		line := fmt.Sprintf("- %s %s (%s, cost %s)", code, name, skuType, unitCost)
		if vendorCode != "" {
			line += fmt.Sprintf(" preferred vendor %s", vendorCode)
		}
		lines = append(lines, line)
	}
	if rows.Err() != nil {
		return "", rows.Err()
	}

	vendors, err := s.vendors.GetVendors(ctx)
	if err != nil {
		return "", err
	}
	lines = append(lines, "", "Vendors:")
	for _, v := range vendors {
		lines = append(lines, fmt.Sprintf("- %s: %s", v.Code, v.Name))
	}
	return strings.Join(lines, "\n"), nil
}
