// demo walks the end-to-end scenario against a seeded database: deplete a
// component below its reorder point, run the low-stock reorder, receive the
// resulting POs, then sell a brake kit, plan and run the build, and print
// the closing stock position. Useful as a smoke test for the whole stack
// after schema or service changes.
//
// Usage: go run ./cmd/demo
package main

import (
	"context"
	"fmt"
	"log"

	"partsdesk/internal/ai"
	"partsdesk/internal/app"
	"partsdesk/internal/config"
	"partsdesk/internal/core"
	"partsdesk/internal/db"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	skuService := core.NewSKUService(pool)
	vendorService := core.NewVendorService(pool)
	inventoryService := core.NewInventoryService(pool)
	bomService := core.NewBOMService(pool, inventoryService)
	poService := core.NewPurchaseOrderService(pool)
	productionService := core.NewProductionService(pool, bomService)
	salesService := core.NewSalesOrderService(pool)
	supplierService := core.NewSupplierOrderService(pool)
	reportingService := core.NewReportingService(pool, inventoryService)
	userService := core.NewUserService(pool)

	defaults := core.ReplenishmentDefaults{UnitCost: cfg.FallbackUnitCost}
	if vendor, err := vendorService.GetVendorByCode(ctx, cfg.DefaultVendorCode); err == nil {
		defaults.VendorID = vendor.ID
	}
	plannerService := core.NewPlannerService(pool, bomService, productionService, poService, defaults)

	svc := app.NewAppService(pool, skuService, vendorService, inventoryService, bomService,
		poService, productionService, salesService, supplierService, plannerService,
		reportingService, userService, ai.NewAgent(""))

	step("Deplete BRK-FLUID below its reorder point")
	levels := mustStock(ctx, svc)
	if fluid := findLevel(levels, "BRK-FLUID"); fluid != nil && fluid.Available.GreaterThan(decimal.NewFromInt(2)) {
		delta := fluid.Available.Sub(decimal.NewFromInt(2)).Neg()
		err := svc.AdjustStock(ctx, app.AdjustStockRequest{
			SKUCode: "BRK-FLUID", WarehouseCode: "MAIN",
			Delta: delta, Notes: "demo depletion",
		})
		if err != nil {
			log.Fatalf("Adjust failed: %v", err)
		}
		fmt.Printf("Adjusted BRK-FLUID by %s.\n", delta.StringFixed(2))
	} else {
		fmt.Println("BRK-FLUID already low; skipping depletion.")
	}

	step("Run the low-stock reorder")
	reordered, err := svc.ReorderLowStock(ctx, "MAIN")
	if err != nil {
		log.Fatalf("Reorder failed: %v", err)
	}
	fmt.Printf("%d purchase order(s) drafted.\n", len(reordered.Orders))
	receiveAll(ctx, svc, reordered.Orders)

	step("Sell 2 BRAKE-KIT to Demo Garage")
	so, err := svc.CreateSalesOrder(ctx, app.CreateSalesOrderRequest{
		CustomerName: "Demo Garage",
		Lines: []app.SalesLineRequest{
			{SKUCode: "BRAKE-KIT", Quantity: decimal.NewFromInt(2)},
		},
	})
	if err != nil {
		log.Fatalf("Sales order failed: %v", err)
	}
	fmt.Printf("%s created; production required: %t.\n",
		so.Order.OrderNumber, so.Order.ProductionRequired)

	step("Plan the kit build against that order")
	plan, err := svc.PlanKitBuild(ctx, app.PlanKitBuildRequest{
		KitSKUCode:    "BRAKE-KIT",
		Quantity:      decimal.NewFromInt(2),
		SalesOrderRef: so.Order.OrderNumber,
		Notes:         "demo run",
	})
	if err != nil {
		log.Fatalf("Plan failed: %v", err)
	}
	build := plan.Plan.Order.OrderNumber
	fmt.Printf("Planned %s; %d replenishment PO(s) drafted.\n", build, len(plan.Plan.PurchaseOrders))
	receiveAll(ctx, svc, plan.Plan.PurchaseOrders)

	step("Run the build")
	if _, err := svc.StartProduction(ctx, build); err != nil {
		log.Fatalf("Start failed: %v", err)
	}
	done, err := svc.CompleteProduction(ctx, build, decimal.NewFromInt(2))
	if err != nil {
		log.Fatalf("Complete failed: %v", err)
	}
	fmt.Printf("%s COMPLETED; %s kits at cost %s each.\n",
		build, done.Order.QtyCompleted.StringFixed(0), done.Order.UnitCost.StringFixed(2))

	shipped, err := svc.GetSalesOrder(ctx, so.Order.OrderNumber)
	if err != nil {
		log.Fatalf("Sales order lookup failed: %v", err)
	}
	fmt.Printf("%s is now %s.\n", shipped.Order.OrderNumber, shipped.Order.Status)

	step("Closing stock position")
	for _, l := range mustStock(ctx, svc) {
		fmt.Printf("  %-12s %-8s on hand %s\n", l.SKUCode, l.WarehouseCode, l.OnHand.StringFixed(2))
	}
}

// receiveAll marks each PO as ordered and receives every line in full.
func receiveAll(ctx context.Context, svc app.ApplicationService, orders []core.PurchaseOrder) {
	for _, po := range orders {
		if _, err := svc.MarkPOOrdered(ctx, po.OrderNumber); err != nil {
			log.Fatalf("Order %s failed: %v", po.OrderNumber, err)
		}
		var lines []app.ReceivedLineRequest
		for _, it := range po.Items {
			lines = append(lines, app.ReceivedLineRequest{POItemID: it.ID, QtyReceived: it.QtyOrdered})
		}
		received, err := svc.ReceivePurchaseOrder(ctx, app.ReceivePORequest{Ref: po.OrderNumber, Lines: lines})
		if err != nil {
			log.Fatalf("Receive %s failed: %v", po.OrderNumber, err)
		}
		fmt.Printf("%s received (%s).\n", received.Order.OrderNumber, received.Order.Status)
	}
}

func mustStock(ctx context.Context, svc app.ApplicationService) []core.StockLevel {
	stock, err := svc.GetStockLevels(ctx)
	if err != nil {
		log.Fatalf("Stock query failed: %v", err)
	}
	return stock.Levels
}

func findLevel(levels []core.StockLevel, skuCode string) *core.StockLevel {
	for i := range levels {
		if levels[i].SKUCode == skuCode {
			return &levels[i]
		}
	}
	return nil
}

func step(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}
