package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"partsdesk/internal/adapters/cli"
	"partsdesk/internal/adapters/repl"
	"partsdesk/internal/ai"
	"partsdesk/internal/app"
	"partsdesk/internal/config"
	"partsdesk/internal/core"
	"partsdesk/internal/db"
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
	if vendor, err := vendorService.GetVendorByCode(ctx, cfg.DefaultVendorCode); err != nil {
		log.Printf("Warning: default vendor %q not found; replenishment falls back to preferred vendors only", cfg.DefaultVendorCode)
	} else {
		defaults.VendorID = vendor.ID
	}
	plannerService := core.NewPlannerService(pool, bomService, productionService, poService, defaults)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; the restock assistant will not work")
	}
	agent := ai.NewAgent(apiKey)

	svc := app.NewAppService(pool, skuService, vendorService, inventoryService, bomService,
		poService, productionService, salesService, supplierService, plannerService,
		reportingService, userService, agent)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
