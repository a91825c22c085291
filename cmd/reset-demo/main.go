// reset-demo clears the transactional collections (orders, movements,
// alerts, stock positions) while preserving master data: SKUs, vendors,
// warehouses, BOM templates, and users. Reorder levels are kept; on-hand
// and reserved quantities are zeroed. Run it to replay ./cmd/demo from a
// clean state.
//
// Usage: go run ./cmd/reset-demo
package main

import (
	"context"
	"log"
	"os"

	"partsdesk/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Clearing transactional data...")
	_, err = tx.Exec(ctx, `
		DELETE FROM workflow_alerts;
		DELETE FROM supplier_orders;
		DELETE FROM stock_movements;
		DELETE FROM sales_order_items;
		DELETE FROM purchase_order_items;
		DELETE FROM purchase_orders;
		DELETE FROM production_orders;
		DELETE FROM sales_orders;
	`)
	if err != nil {
		log.Fatalf("Failed to clear orders: %v", err)
	}

	log.Println("Zeroing stock positions (reorder levels kept)...")
	_, err = tx.Exec(ctx, `
		UPDATE inventory_items
		SET qty_on_hand = 0, qty_reserved = 0, updated_at = now();
	`)
	if err != nil {
		log.Fatalf("Failed to zero stock: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Demo state reset; master data preserved.")
}
