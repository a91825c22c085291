package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BOMTemplate is a versioned recipe mapping a kit SKU to its required
// component SKUs, quantities, and costs. Templates are deactivated, never
// physically removed, so historical production orders keep resolving.
type BOMTemplate struct {
	ID           int
	KitSKUID     int
	KitSKUCode   string
	KitSKUName   string
	Version      int
	LaborCost    decimal.Decimal
	OverheadCost decimal.Decimal
	TotalCost    decimal.Decimal
	IsActive     bool
	Notes        string
	Components   []BOMComponent
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BOMComponent is one line of a template: a component SKU, the quantity
// required per kit, and the unit cost assumed at template creation.
type BOMComponent struct {
	ID               int
	BOMTemplateID    int
	ComponentSKUID   int
	ComponentSKUCode string
	ComponentSKUName string
	QuantityRequired decimal.Decimal
	UnitCost         decimal.Decimal
	IsCritical       bool
}

// BOMComponentInput is one component line when creating a template.
type BOMComponentInput struct {
	ComponentSKUID   int
	QuantityRequired decimal.Decimal
	UnitCost         decimal.Decimal
	IsCritical       bool
}

// BOMTemplateInput holds the fields required to create a BOM template.
type BOMTemplateInput struct {
	KitSKUID     int
	LaborCost    decimal.Decimal
	OverheadCost decimal.Decimal
	Notes        string
	Components   []BOMComponentInput
}

// ComponentsCost sums quantity × unit cost over the component lines.
func ComponentsCost(components []BOMComponentInput) decimal.Decimal {
	var total decimal.Decimal
	for _, c := range components {
		total = total.Add(c.QuantityRequired.Mul(c.UnitCost))
	}
	return total
}

// TemplateTotalCost computes the template cost identity:
// sum(component qty × unit cost) + labor + overhead.
func TemplateTotalCost(components []BOMComponentInput, labor, overhead decimal.Decimal) decimal.Decimal {
	return ComponentsCost(components).Add(labor).Add(overhead)
}

// BOMService manages the BOM template catalog and component availability checks.
type BOMService interface {
	// CreateTemplate creates a template with its component lines in one
	// transaction. Version is assigned as the next version for the kit SKU and
	// total_cost is computed from the inputs.
	CreateTemplate(ctx context.Context, input BOMTemplateInput) (*BOMTemplate, error)

	// DeactivateTemplate soft-deletes a template.
	DeactivateTemplate(ctx context.Context, templateID int) error

	// GetTemplate returns a template with its component lines. Component lines
	// whose SKU no longer resolves carry the fallback display name.
	GetTemplate(ctx context.Context, templateID int) (*BOMTemplate, error)

	// GetActiveTemplateForKit returns the highest-version active template for a kit SKU.
	GetActiveTemplateForKit(ctx context.Context, kitSKUID int) (*BOMTemplate, error)

	// GetTemplates returns all active templates (without component lines).
	GetTemplates(ctx context.Context) ([]BOMTemplate, error)

	// CheckTemplate compares each component's required quantity against
	// available inventory summed across warehouses. Missing inventory rows
	// count as zero availability; the check never fails on lookup misses.
	CheckTemplate(ctx context.Context, templateID int, kitQty decimal.Decimal) ([]ComponentCheck, error)
}
