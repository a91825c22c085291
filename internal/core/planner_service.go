package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// KitBuildPlan is the outcome of planning a kit build: the production order,
// the component availability snapshot it was planned against, and any
// purchase orders drafted to cover shortages.
type KitBuildPlan struct {
	Order          *ProductionOrder
	Checks         []ComponentCheck
	PurchaseOrders []PurchaseOrder
}

// PlannerService orchestrates the planning flows that span several services:
// kit builds that may need replenishment, and routine low-stock reordering.
type PlannerService interface {
	// PlanKitBuild plans a production order for a kit and, when components are
	// short, drafts one PENDING purchase order per vendor covering the
	// shortages. Drafted POs carry the production order's ID so their origin
	// stays traceable. With every component sufficient, no POs are created.
	PlanKitBuild(ctx context.Context, kitSKUID int, qty decimal.Decimal, warehouseID int, salesOrderID *int) (*KitBuildPlan, error)

	// ReorderLowStock drafts purchase orders for every low-stock item not
	// already covered by an open PO, grouped by vendor. Running it twice in a
	// row creates nothing the second time.
	ReorderLowStock(ctx context.Context, warehouseID int) ([]PurchaseOrder, error)
}

type plannerService struct {
	pool       *pgxpool.Pool
	bom        BOMService
	production ProductionService
	purchasing PurchaseOrderService
	defaults   ReplenishmentDefaults
}

// NewPlannerService creates a PlannerService. defaults supplies the fallback
// vendor and unit cost applied when a SKU carries no sourcing data.
func NewPlannerService(pool *pgxpool.Pool, bom BOMService, production ProductionService,
	purchasing PurchaseOrderService, defaults ReplenishmentDefaults) PlannerService {
	return &plannerService{
		pool:       pool,
		bom:        bom,
		production: production,
		purchasing: purchasing,
		defaults:   defaults,
	}
}

func (s *plannerService) PlanKitBuild(ctx context.Context, kitSKUID int, qty decimal.Decimal,
	warehouseID int, salesOrderID *int) (*KitBuildPlan, error) {

	order, err := s.production.Plan(ctx, ProductionOrderInput{
		KitSKUID:     kitSKUID,
		Quantity:     qty,
		WarehouseID:  warehouseID,
		SalesOrderID: salesOrderID,
	})
	if err != nil {
		return nil, err
	}

	checks, err := s.bom.CheckTemplate(ctx, order.BOMTemplateID, qty)
	if err != nil {
		return nil, err
	}

	plan := &KitBuildPlan{Order: order, Checks: checks}
	if AllSufficient(checks) {
		return plan, nil
	}

	sourcing, err := s.sourcingFor(ctx, checkSKUIDs(checks))
	if err != nil {
		return nil, err
	}

	orderID := order.ID
	for _, draft := range PlanReplenishment(checks, sourcing, s.defaults) {
		po, err := s.purchasing.CreatePO(ctx, PurchaseOrderInput{
			VendorID:          draft.VendorID,
			WarehouseID:       warehouseID,
			Notes:             fmt.Sprintf("Replenishment for %s", order.OrderNumber),
			ProductionOrderID: &orderID,
			Items:             draftItems(draft),
		})
		if err != nil {
			return nil, err
		}
		plan.PurchaseOrders = append(plan.PurchaseOrders, *po)
	}
	return plan, nil
}

func (s *plannerService) ReorderLowStock(ctx context.Context, warehouseID int) ([]PurchaseOrder, error) {
	low, err := s.lowStockUncovered(ctx)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return nil, nil
	}

	skuIDs := make([]int, 0, len(low))
	for _, it := range low {
		skuIDs = append(skuIDs, it.SKUID)
	}
	sourcing, err := s.sourcingFor(ctx, skuIDs)
	if err != nil {
		return nil, err
	}

	// Reuse the replenishment planner by presenting each low item as a
	// shortage of its suggested reorder quantity.
	checks := make([]ComponentCheck, 0, len(low))
	for _, it := range low {
		checks = append(checks, ComponentCheck{
			ComponentSKUID: it.SKUID,
			SKUCode:        it.SKUCode,
			SKUName:        it.SKUName,
			Required:       it.SuggestedQty,
			Available:      decimal.Zero,
			Shortage:       it.SuggestedQty,
			Sufficient:     false,
		})
	}

	var created []PurchaseOrder
	for _, draft := range PlanReplenishment(checks, sourcing, s.defaults) {
		po, err := s.purchasing.CreatePO(ctx, PurchaseOrderInput{
			VendorID:    draft.VendorID,
			WarehouseID: warehouseID,
			Notes:       "Low stock reorder",
			Items:       draftItems(draft),
		})
		if err != nil {
			return nil, err
		}
		created = append(created, *po)
	}
	return created, nil
}

// lowStockUncovered returns low-stock items with no open PO line for the SKU,
// so repeated runs do not stack duplicate orders.
func (s *plannerService) lowStockUncovered(ctx context.Context) ([]LowStockItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT k.id, k.code, k.name, k.preferred_vendor_id,
		       w.id, w.code,
		       ii.qty_on_hand - ii.qty_reserved AS qty_available,
		       ii.reorder_point, ii.reorder_qty
		FROM inventory_items ii
		JOIN skus k       ON k.id = ii.sku_id AND k.is_active = true
		JOIN warehouses w ON w.id = ii.warehouse_id AND w.is_active = true
		WHERE ii.reorder_point > 0
		  AND ii.qty_on_hand - ii.qty_reserved <= ii.reorder_point
		  AND NOT EXISTS (
		      SELECT 1
		      FROM purchase_order_items poi
		      JOIN purchase_orders po ON po.id = poi.purchase_order_id
		      WHERE poi.sku_id = k.id AND po.status IN ($1, $2))
		ORDER BY k.code, w.code`,
		POPending, POOrdered)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	defer rows.Close()

	var items []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.SKUID, &it.SKUCode, &it.SKUName, &it.VendorID,
			&it.WarehouseID, &it.WarehouseCode,
			&it.Available, &it.ReorderPoint, &it.ReorderQty); err != nil {
			return nil, fmt.Errorf("failed to scan low stock item: %w", err)
		}
		it.SuggestedQty = SuggestedReorderQty(it.Available, it.ReorderPoint, it.ReorderQty)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *plannerService) sourcingFor(ctx context.Context, skuIDs []int) (map[int]SKUSourcing, error) {
	sourcing := make(map[int]SKUSourcing, len(skuIDs))
	if len(skuIDs) == 0 {
		return sourcing, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, COALESCE(preferred_vendor_id, 0), unit_cost
		FROM skus
		WHERE id = ANY($1)`, skuIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query SKU sourcing: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var skuID int
		var src SKUSourcing
		if err := rows.Scan(&skuID, &src.VendorID, &src.UnitCost); err != nil {
			return nil, fmt.Errorf("failed to scan SKU sourcing: %w", err)
		}
		sourcing[skuID] = src
	}
	return sourcing, rows.Err()
}

func checkSKUIDs(checks []ComponentCheck) []int {
	ids := make([]int, 0, len(checks))
	for _, c := range checks {
		ids = append(ids, c.ComponentSKUID)
	}
	return ids
}

func draftItems(draft PODraft) []PurchaseOrderItemInput {
	items := make([]PurchaseOrderItemInput, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		items = append(items, PurchaseOrderItemInput{
			SKUID:    l.SKUID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	return items
}
