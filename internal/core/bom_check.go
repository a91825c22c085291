package core

import "github.com/shopspring/decimal"

// ComponentCheck is the per-component result of an inventory check against a
// BOM template: required vs. available quantity and the non-negative shortage.
type ComponentCheck struct {
	ComponentSKUID int
	SKUCode        string
	SKUName        string // UnknownItemName when the SKU no longer resolves
	IsCritical     bool
	Required       decimal.Decimal
	Available      decimal.Decimal
	Shortage       decimal.Decimal
	Sufficient     bool
}

// CheckComponents computes per-component availability for building kitQty kits
// from the given component lines. availability maps component SKU ID to the
// quantity available across all warehouses; SKUs absent from the map are
// treated as zero availability, not as errors. The result is deterministic for
// a fixed snapshot: shortage = max(0, required − available) and a component is
// sufficient exactly when its shortage is zero.
func CheckComponents(components []BOMComponent, kitQty decimal.Decimal, availability map[int]decimal.Decimal) []ComponentCheck {
	checks := make([]ComponentCheck, 0, len(components))
	for _, c := range components {
		required := c.QuantityRequired.Mul(kitQty)
		available := availability[c.ComponentSKUID]

		shortage := required.Sub(available)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}

		name := c.ComponentSKUName
		if name == "" {
			name = UnknownItemName
		}

		checks = append(checks, ComponentCheck{
			ComponentSKUID: c.ComponentSKUID,
			SKUCode:        c.ComponentSKUCode,
			SKUName:        name,
			IsCritical:     c.IsCritical,
			Required:       required,
			Available:      available,
			Shortage:       shortage,
			Sufficient:     shortage.IsZero(),
		})
	}
	return checks
}

// AllSufficient reports whether every component check passed.
func AllSufficient(checks []ComponentCheck) bool {
	for _, c := range checks {
		if !c.Sufficient {
			return false
		}
	}
	return true
}
