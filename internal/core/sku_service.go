package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type skuService struct {
	pool *pgxpool.Pool
}

// NewSKUService constructs a SKUService backed by PostgreSQL.
func NewSKUService(pool *pgxpool.Pool) SKUService {
	return &skuService{pool: pool}
}

const skuColumns = `id, code, name, description, sku_type, unit_cost, unit_price,
	preferred_vendor_id, is_active, created_at, updated_at`

func scanSKU(row pgx.Row) (*SKU, error) {
	s := &SKU{}
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Description, &s.Type, &s.UnitCost,
		&s.UnitPrice, &s.PreferredVendorID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *skuService) CreateSKU(ctx context.Context, input SKUInput) (*SKU, error) {
	if input.Code == "" {
		return nil, fmt.Errorf("sku code is required")
	}
	if input.Name == "" {
		return nil, fmt.Errorf("sku name is required")
	}
	if input.Type == "" {
		input.Type = SKUSingle
	}
	if input.Type != SKUSingle && input.Type != SKUKit {
		return nil, fmt.Errorf("invalid sku type %q", input.Type)
	}

	sku, err := scanSKU(s.pool.QueryRow(ctx, `
		INSERT INTO skus (code, name, description, sku_type, unit_cost, unit_price, preferred_vendor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+skuColumns,
		input.Code, input.Name, input.Description, input.Type,
		input.UnitCost, input.UnitPrice, input.PreferredVendorID,
	))
	if err != nil {
		return nil, fmt.Errorf("create sku %s: %w", input.Code, err)
	}
	return sku, nil
}

func (s *skuService) UpdateSKU(ctx context.Context, skuID int, input SKUInput) (*SKU, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("sku name is required")
	}

	sku, err := scanSKU(s.pool.QueryRow(ctx, `
		UPDATE skus
		SET name = $1, description = $2, unit_cost = $3, unit_price = $4,
		    preferred_vendor_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+skuColumns,
		input.Name, input.Description, input.UnitCost, input.UnitPrice,
		input.PreferredVendorID, skuID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sku %d not found", skuID)
		}
		return nil, fmt.Errorf("update sku %d: %w", skuID, err)
	}
	return sku, nil
}

func (s *skuService) DeactivateSKU(ctx context.Context, skuID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE skus SET is_active = false, updated_at = NOW() WHERE id = $1", skuID)
	if err != nil {
		return fmt.Errorf("deactivate sku %d: %w", skuID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sku %d not found", skuID)
	}
	return nil
}

func (s *skuService) SetPreferredVendor(ctx context.Context, skuID, vendorID int) error {
	var vendorExists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM vendors WHERE id = $1 AND is_active = true)", vendorID,
	).Scan(&vendorExists); err != nil {
		return fmt.Errorf("validate vendor %d: %w", vendorID, err)
	}
	if !vendorExists {
		return fmt.Errorf("vendor %d not found", vendorID)
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE skus SET preferred_vendor_id = $1, updated_at = NOW() WHERE id = $2",
		vendorID, skuID)
	if err != nil {
		return fmt.Errorf("set preferred vendor on sku %d: %w", skuID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sku %d not found", skuID)
	}
	return nil
}

func (s *skuService) GetSKU(ctx context.Context, skuID int) (*SKU, error) {
	sku, err := scanSKU(s.pool.QueryRow(ctx,
		"SELECT "+skuColumns+" FROM skus WHERE id = $1", skuID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sku %d not found", skuID)
		}
		return nil, fmt.Errorf("get sku %d: %w", skuID, err)
	}
	return sku, nil
}

func (s *skuService) GetSKUByCode(ctx context.Context, code string) (*SKU, error) {
	sku, err := scanSKU(s.pool.QueryRow(ctx,
		"SELECT "+skuColumns+" FROM skus WHERE code = $1", code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sku %q not found", code)
		}
		return nil, fmt.Errorf("get sku %q: %w", code, err)
	}
	return sku, nil
}

func (s *skuService) GetSKUs(ctx context.Context) ([]SKU, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+skuColumns+" FROM skus WHERE is_active = true ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()

	var skus []SKU
	for rows.Next() {
		var s SKU
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Description, &s.Type, &s.UnitCost,
			&s.UnitPrice, &s.PreferredVendorID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		skus = append(skus, s)
	}
	return skus, nil
}
