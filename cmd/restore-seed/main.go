// restore-seed is a one-shot tool to restore the demo master data.
// Run it against a fresh database after applying the schema, or to put
// vendors, SKUs, and the brake kit BOM back after they have been wiped.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"partsdesk/internal/core"
	"partsdesk/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
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

	log.Println("Restoring warehouse...")
	_, err = tx.Exec(ctx, `
		INSERT INTO warehouses (code, name)
		VALUES ('MAIN', 'Main Warehouse')
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, is_active = true;
	`)
	if err != nil {
		log.Fatalf("Failed to restore warehouse: %v", err)
	}

	log.Println("Restoring vendors...")
	_, err = tx.Exec(ctx, `
		INSERT INTO vendors (code, name, contact_person, payment_terms_days)
		VALUES
		  ('ACME',  'Acme Auto Components', 'Ravi Menon',   30),
		  ('BOSCH', 'Bosch Distribution',   'Meera Shah',   45),
		  ('LOCAL', 'Local Parts Supply',   NULL,           15)
		ON CONFLICT (code) DO UPDATE
		  SET name = EXCLUDED.name,
		      contact_person = EXCLUDED.contact_person,
		      payment_terms_days = EXCLUDED.payment_terms_days,
		      is_active = true;
	`)
	if err != nil {
		log.Fatalf("Failed to restore vendors: %v", err)
	}

	log.Println("Restoring SKUs...")
	_, err = tx.Exec(ctx, `
		INSERT INTO skus (code, name, sku_type, unit_cost, unit_price, preferred_vendor_id)
		SELECT s.code, s.name, s.sku_type, s.unit_cost, s.unit_price, v.id
		FROM (VALUES
		    ('BRK-PAD',   'Brake Pad Set',        'SINGLE',  42.50,   65.00, 'BOSCH'),
		    ('BRK-DISC',  'Brake Disc',           'SINGLE',  78.00,  118.00, 'BOSCH'),
		    ('BRK-FLUID', 'Brake Fluid DOT4 1L',  'SINGLE',   6.20,   11.50, 'ACME'),
		    ('CLIP-STD',  'Standard Clip Pack',   'SINGLE',   1.10,    2.40, 'LOCAL'),
		    ('BRAKE-KIT', 'Front Brake Kit',      'KIT',      0,     430.00, NULL)
		) AS s(code, name, sku_type, unit_cost, unit_price, vendor_code)
		LEFT JOIN vendors v ON v.code = s.vendor_code
		ON CONFLICT (code) DO UPDATE
		  SET name = EXCLUDED.name,
		      sku_type = EXCLUDED.sku_type,
		      unit_cost = EXCLUDED.unit_cost,
		      unit_price = EXCLUDED.unit_price,
		      preferred_vendor_id = EXCLUDED.preferred_vendor_id,
		      is_active = true;
	`)
	if err != nil {
		log.Fatalf("Failed to restore SKUs: %v", err)
	}

	log.Println("Restoring reorder levels...")
	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_items (sku_id, warehouse_id, reorder_point, reorder_qty)
		SELECT s.id, w.id, r.reorder_point, r.reorder_qty
		FROM (VALUES
		    ('BRK-PAD',   20, 50),
		    ('BRK-DISC',  10, 30),
		    ('BRK-FLUID', 24, 48),
		    ('CLIP-STD',  100, 500)
		) AS r(sku_code, reorder_point, reorder_qty)
		JOIN skus s ON s.code = r.sku_code
		JOIN warehouses w ON w.code = 'MAIN'
		ON CONFLICT (sku_id, warehouse_id) DO UPDATE
		  SET reorder_point = EXCLUDED.reorder_point,
		      reorder_qty = EXCLUDED.reorder_qty;
	`)
	if err != nil {
		log.Fatalf("Failed to restore reorder levels: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	// The BOM goes through the service so total cost and versioning stay
	// consistent with templates created through the app.
	inventory := core.NewInventoryService(pool)
	bom := core.NewBOMService(pool, inventory)
	if err := seedBrakeKitBOM(ctx, pool, bom); err != nil {
		log.Fatalf("Failed to restore brake kit BOM: %v", err)
	}

	users := core.NewUserService(pool)
	if _, err := users.CreateUser(ctx, "admin", "partsdesk-admin", "Administrator", "admin"); err != nil {
		log.Printf("Admin user not created (may already exist): %v", err)
	} else {
		log.Println("Admin user created (username: admin).")
	}

	log.Println("Seed data restored successfully.")
}

// seedBrakeKitBOM creates the BRAKE-KIT template if no active one exists.
func seedBrakeKitBOM(ctx context.Context, pool *pgxpool.Pool, bom core.BOMService) error {
	ids := map[string]int{}
	costs := map[string]decimal.Decimal{}
	rows, err := pool.Query(ctx,
		`SELECT code, id, unit_cost FROM skus WHERE code = ANY($1)`,
		[]string{"BRAKE-KIT", "BRK-PAD", "BRK-DISC", "BRK-FLUID", "CLIP-STD"})
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var id int
		var cost decimal.Decimal
		if err := rows.Scan(&code, &id, &cost); err != nil {
			return err
		}
		ids[code] = id
		costs[code] = cost
	}
	if len(ids) < 5 {
		return fmt.Errorf("expected 5 seed SKUs, found %d", len(ids))
	}

	var existing int
	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bom_templates WHERE kit_sku_id = $1 AND is_active`,
		ids["BRAKE-KIT"]).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		log.Println("Brake kit BOM already present; leaving it alone.")
		return nil
	}

	component := func(code string, qty int64, critical bool) core.BOMComponentInput {
		return core.BOMComponentInput{
			ComponentSKUID:   ids[code],
			QuantityRequired: decimal.NewFromInt(qty),
			UnitCost:         costs[code],
			IsCritical:       critical,
		}
	}
	_, err = bom.CreateTemplate(ctx, core.BOMTemplateInput{
		KitSKUID:     ids["BRAKE-KIT"],
		LaborCost:    decimal.NewFromInt(25),
		OverheadCost: decimal.NewFromInt(10),
		Notes:        "Front brake kit, standard fitment",
		Components: []core.BOMComponentInput{
			component("BRK-PAD", 1, true),
			component("BRK-DISC", 2, true),
			component("BRK-FLUID", 1, false),
			component("CLIP-STD", 4, false),
		},
	})
	if err != nil {
		return err
	}
	log.Println("Brake kit BOM created.")
	return nil
}
