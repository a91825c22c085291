package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type bomService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

// NewBOMService creates a BOMService backed by Postgres. The inventory
// service is used for availability lookups in CheckTemplate.
func NewBOMService(pool *pgxpool.Pool, inventory InventoryService) BOMService {
	return &bomService{pool: pool, inventory: inventory}
}

func (s *bomService) CreateTemplate(ctx context.Context, input BOMTemplateInput) (*BOMTemplate, error) {
	if input.KitSKUID == 0 {
		return nil, fmt.Errorf("kit SKU is required")
	}
	if len(input.Components) == 0 {
		return nil, fmt.Errorf("at least one component is required")
	}
	for _, c := range input.Components {
		if c.ComponentSKUID == input.KitSKUID {
			return nil, fmt.Errorf("kit cannot be a component of itself")
		}
		if !c.QuantityRequired.IsPositive() {
			return nil, fmt.Errorf("component quantity must be positive")
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var kitType string
	err = tx.QueryRow(ctx, `SELECT sku_type FROM skus WHERE id = $1 AND is_active = true`, input.KitSKUID).Scan(&kitType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("kit SKU %d not found", input.KitSKUID)
		}
		return nil, fmt.Errorf("failed to look up kit SKU: %w", err)
	}
	if kitType != string(SKUKit) {
		return nil, fmt.Errorf("SKU %d is not a kit", input.KitSKUID)
	}

	totalCost := TemplateTotalCost(input.Components, input.LaborCost, input.OverheadCost)

	var templateID, version int
	err = tx.QueryRow(ctx, `
		INSERT INTO bom_templates (kit_sku_id, version, labor_cost, overhead_cost, total_cost, notes)
		VALUES ($1, COALESCE((SELECT MAX(version) FROM bom_templates WHERE kit_sku_id = $1), 0) + 1, $2, $3, $4, $5)
		RETURNING id, version`,
		input.KitSKUID, input.LaborCost, input.OverheadCost, totalCost, input.Notes,
	).Scan(&templateID, &version)
	if err != nil {
		return nil, fmt.Errorf("failed to create BOM template: %w", err)
	}

	for _, c := range input.Components {
		_, err = tx.Exec(ctx, `
			INSERT INTO bom_components (bom_template_id, component_sku_id, quantity_required, unit_cost, is_critical)
			VALUES ($1, $2, $3, $4, $5)`,
			templateID, c.ComponentSKUID, c.QuantityRequired, c.UnitCost, c.IsCritical)
		if err != nil {
			return nil, fmt.Errorf("failed to insert component %d: %w", c.ComponentSKUID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.GetTemplate(ctx, templateID)
}

func (s *bomService) DeactivateTemplate(ctx context.Context, templateID int) error {
	tag, err := s.pool.Exec(ctx, `UPDATE bom_templates SET is_active = false, updated_at = now() WHERE id = $1`, templateID)
	if err != nil {
		return fmt.Errorf("failed to deactivate BOM template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("BOM template %d not found", templateID)
	}
	return nil
}

const bomTemplateColumns = `
	t.id, t.kit_sku_id, s.code, s.name, t.version,
	t.labor_cost, t.overhead_cost, t.total_cost, t.is_active, t.notes,
	t.created_at, t.updated_at`

func scanBOMTemplate(row pgx.Row) (*BOMTemplate, error) {
	var t BOMTemplate
	err := row.Scan(&t.ID, &t.KitSKUID, &t.KitSKUCode, &t.KitSKUName, &t.Version,
		&t.LaborCost, &t.OverheadCost, &t.TotalCost, &t.IsActive, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *bomService) GetTemplate(ctx context.Context, templateID int) (*BOMTemplate, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+bomTemplateColumns+`
		FROM bom_templates t
		JOIN skus s ON s.id = t.kit_sku_id
		WHERE t.id = $1`, templateID)
	t, err := scanBOMTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("BOM template %d not found", templateID)
		}
		return nil, fmt.Errorf("failed to get BOM template: %w", err)
	}
	if err := s.loadComponents(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *bomService) GetActiveTemplateForKit(ctx context.Context, kitSKUID int) (*BOMTemplate, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+bomTemplateColumns+`
		FROM bom_templates t
		JOIN skus s ON s.id = t.kit_sku_id
		WHERE t.kit_sku_id = $1 AND t.is_active = true
		ORDER BY t.version DESC
		LIMIT 1`, kitSKUID)
	t, err := scanBOMTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no active BOM template for kit SKU %d", kitSKUID)
		}
		return nil, fmt.Errorf("failed to get BOM template: %w", err)
	}
	if err := s.loadComponents(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *bomService) loadComponents(ctx context.Context, t *BOMTemplate) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.bom_template_id, c.component_sku_id,
		       COALESCE(s.code, ''), COALESCE(s.name, ''),
		       c.quantity_required, c.unit_cost, c.is_critical
		FROM bom_components c
		LEFT JOIN skus s ON s.id = c.component_sku_id
		WHERE c.bom_template_id = $1
		ORDER BY c.id`, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load BOM components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c BOMComponent
		err := rows.Scan(&c.ID, &c.BOMTemplateID, &c.ComponentSKUID,
			&c.ComponentSKUCode, &c.ComponentSKUName,
			&c.QuantityRequired, &c.UnitCost, &c.IsCritical)
		if err != nil {
			return fmt.Errorf("failed to scan BOM component: %w", err)
		}
		if c.ComponentSKUName == "" {
			c.ComponentSKUName = UnknownItemName
		}
		t.Components = append(t.Components, c)
	}
	return rows.Err()
}

func (s *bomService) GetTemplates(ctx context.Context) ([]BOMTemplate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bomTemplateColumns+`
		FROM bom_templates t
		JOIN skus s ON s.id = t.kit_sku_id
		WHERE t.is_active = true
		ORDER BY s.code, t.version DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list BOM templates: %w", err)
	}
	defer rows.Close()

	var templates []BOMTemplate
	for rows.Next() {
		t, err := scanBOMTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan BOM template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *bomService) CheckTemplate(ctx context.Context, templateID int, kitQty decimal.Decimal) ([]ComponentCheck, error) {
	if !kitQty.IsPositive() {
		return nil, fmt.Errorf("kit quantity must be positive")
	}
	t, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	skuIDs := make([]int, 0, len(t.Components))
	for _, c := range t.Components {
		skuIDs = append(skuIDs, c.ComponentSKUID)
	}
	availability, err := s.inventory.Availability(ctx, skuIDs)
	if err != nil {
		return nil, err
	}
	return CheckComponents(t.Components, kitQty, availability), nil
}
