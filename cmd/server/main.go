package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	webAdapter "partsdesk/internal/adapters/web"
	"partsdesk/internal/ai"
	"partsdesk/internal/app"
	"partsdesk/internal/config"
	"partsdesk/internal/core"
	"partsdesk/internal/db"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
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
		logger.Warn("default vendor not found; replenishment falls back to preferred vendors only",
			zap.String("code", cfg.DefaultVendorCode))
	} else {
		defaults.VendorID = vendor.ID
	}
	plannerService := core.NewPlannerService(pool, bomService, productionService, poService, defaults)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; restock assistant disabled")
	}
	agent := ai.NewAgent(apiKey)

	svc := app.NewAppService(pool, skuService, vendorService, inventoryService, bomService,
		poService, productionService, salesService, supplierService, plannerService,
		reportingService, userService, agent)

	handler := webAdapter.NewHandler(svc, logger, cfg.AllowedOrigins, cfg.JWTSecret)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	logger.Info("server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
