package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SKUType distinguishes purchasable single parts from kits assembled per a BOM template.
type SKUType string

const (
	SKUSingle SKUType = "SINGLE"
	SKUKit    SKUType = "KIT"
)

// UnknownItemName is the display fallback used when a referenced SKU no longer
// resolves. Lookup misses on display paths are never hard failures.
const UnknownItemName = "Unknown Item"

// SKU is a stock-keeping unit in the parts catalog — either a single item or a
// kit composed of components per a BOM template. SKUs are deactivated, never
// hard-deleted.
type SKU struct {
	ID                int
	Code              string
	Name              string
	Description       string
	Type              SKUType
	UnitCost          decimal.Decimal
	UnitPrice         decimal.Decimal
	PreferredVendorID *int
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SKUInput holds the fields required to create or update a SKU.
type SKUInput struct {
	Code              string
	Name              string
	Description       string
	Type              SKUType
	UnitCost          decimal.Decimal
	UnitPrice         decimal.Decimal
	PreferredVendorID *int
}

// SKUService provides catalog master data operations.
type SKUService interface {
	// CreateSKU creates a new catalog record. Code must be unique.
	CreateSKU(ctx context.Context, input SKUInput) (*SKU, error)

	// UpdateSKU replaces the mutable fields of an existing SKU and bumps updated_at.
	UpdateSKU(ctx context.Context, skuID int, input SKUInput) (*SKU, error)

	// DeactivateSKU soft-deletes a SKU. Existing references keep resolving.
	DeactivateSKU(ctx context.Context, skuID int) error

	// SetPreferredVendor writes the vendor onto the SKU record.
	SetPreferredVendor(ctx context.Context, skuID, vendorID int) error

	// GetSKU returns a SKU by its internal ID.
	GetSKU(ctx context.Context, skuID int) (*SKU, error)

	// GetSKUByCode returns a SKU by its unique code.
	GetSKUByCode(ctx context.Context, code string) (*SKU, error)

	// GetSKUs returns all active SKUs ordered by code.
	GetSKUs(ctx context.Context) ([]SKU, error)
}
