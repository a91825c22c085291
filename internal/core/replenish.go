package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Order number prefixes. Numbers are derived from the row's identity-column
// ID, so they are unique even under concurrent creation.
const (
	poNumberPrefix         = "PO"
	productionNumberPrefix = "KP"
	salesNumberPrefix      = "SO"
	supplierNumberPrefix   = "SUP"
)

func formatOrderNumber(prefix string, year, id int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, id)
}

// PONumber formats a purchase order number, e.g. PO-2026-0001.
func PONumber(year, id int) string { return formatOrderNumber(poNumberPrefix, year, id) }

// ProductionNumber formats a production order number, e.g. KP-2026-0001.
func ProductionNumber(year, id int) string {
	return formatOrderNumber(productionNumberPrefix, year, id)
}

// SalesNumber formats a sales order number, e.g. SO-2026-0001.
func SalesNumber(year, id int) string { return formatOrderNumber(salesNumberPrefix, year, id) }

// SupplierNumber formats a supplier order number, e.g. SUP-2026-0001.
func SupplierNumber(year, id int) string { return formatOrderNumber(supplierNumberPrefix, year, id) }

// ReplenishmentDefaults carries the fallbacks applied when a component SKU has
// no preferred vendor or no recorded unit cost. Values come from configuration,
// never from literals scattered through the planner.
type ReplenishmentDefaults struct {
	VendorID int
	UnitCost decimal.Decimal
}

// SKUSourcing describes how a component SKU is procured: its preferred vendor
// (zero when unset) and its current unit cost (zero when unknown).
type SKUSourcing struct {
	VendorID int
	UnitCost decimal.Decimal
}

// POLineDraft is one line of a drafted purchase order.
type POLineDraft struct {
	SKUID    int
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// PODraft is a drafted purchase order for one vendor, covering every shortage
// sourced from that vendor.
type PODraft struct {
	VendorID int
	Lines    []POLineDraft
}

// Total returns the sum of quantity × unit cost over the draft's lines.
func (d PODraft) Total() decimal.Decimal {
	var total decimal.Decimal
	for _, l := range d.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitCost))
	}
	return total
}

// PlanReplenishment turns component shortages into purchase order drafts, one
// per vendor. Components without a shortage are skipped, so running the
// planner twice over the same snapshot yields the same drafts. Each shortage
// resolves to the SKU's preferred vendor and unit cost, falling back to the
// configured defaults when sourcing data is missing. Draft ordering is
// deterministic: vendors ascend by ID, lines keep check order.
func PlanReplenishment(checks []ComponentCheck, sourcing map[int]SKUSourcing, defaults ReplenishmentDefaults) []PODraft {
	byVendor := make(map[int]*PODraft)
	for _, c := range checks {
		if c.Sufficient {
			continue
		}

		src := sourcing[c.ComponentSKUID]
		vendorID := src.VendorID
		if vendorID == 0 {
			vendorID = defaults.VendorID
		}
		unitCost := src.UnitCost
		if unitCost.IsZero() {
			unitCost = defaults.UnitCost
		}

		draft, ok := byVendor[vendorID]
		if !ok {
			draft = &PODraft{VendorID: vendorID}
			byVendor[vendorID] = draft
		}
		draft.Lines = append(draft.Lines, POLineDraft{
			SKUID:    c.ComponentSKUID,
			Quantity: c.Shortage,
			UnitCost: unitCost,
		})
	}

	drafts := make([]PODraft, 0, len(byVendor))
	for _, d := range byVendor {
		drafts = append(drafts, *d)
	}
	sort.Slice(drafts, func(i, j int) bool { return drafts[i].VendorID < drafts[j].VendorID })
	return drafts
}
