package repl

import (
	"fmt"
	"strings"

	"partsdesk/internal/app"
	"partsdesk/internal/core"
)

func printSKUs(result *app.SKUListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Println("  CATALOG")
	fmt.Println(strings.Repeat("=", 76))
	if len(result.SKUs) == 0 {
		fmt.Println("  No SKUs found.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-12s %-30s %-7s %10s %10s\n", "CODE", "NAME", "TYPE", "COST", "PRICE")
	fmt.Println(strings.Repeat("-", 76))
	for _, s := range result.SKUs {
		fmt.Printf("  %-12s %-30s %-7s %10s %10s\n",
			s.Code, s.Name, s.Type, s.UnitCost.StringFixed(2), s.UnitPrice.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 76))
}

func printVendors(result *app.VendorListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  VENDORS")
	fmt.Println(strings.Repeat("=", 72))
	if len(result.Vendors) == 0 {
		fmt.Println("  No vendors found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-12s %-30s %s\n", "CODE", "NAME", "TERMS")
	fmt.Println(strings.Repeat("-", 72))
	for _, v := range result.Vendors {
		fmt.Printf("  %-12s %-30s %d days\n", v.Code, v.Name, v.PaymentTermsDays)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printStockLevels(result *app.StockResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 86))
	fmt.Println("  STOCK LEVELS")
	fmt.Println(strings.Repeat("=", 86))
	if len(result.Levels) == 0 {
		fmt.Println("  No stock on record.")
		fmt.Println(strings.Repeat("=", 86))
		return
	}
	fmt.Printf("  %-12s %-26s %-8s %10s %10s %10s\n",
		"SKU", "NAME", "WHSE", "ON HAND", "AVAILABLE", "UNIT COST")
	fmt.Println(strings.Repeat("-", 86))
	for _, l := range result.Levels {
		fmt.Printf("  %-12s %-26s %-8s %10s %10s %10s\n",
			l.SKUCode, l.SKUName, l.WarehouseCode,
			l.OnHand.StringFixed(2), l.Available.StringFixed(2), l.UnitCost.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 86))
}

func printLowStock(result *app.LowStockResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("  LOW STOCK")
	fmt.Println(strings.Repeat("=", 80))
	if len(result.Items) == 0 {
		fmt.Println("  Nothing at or below its reorder point.")
		fmt.Println(strings.Repeat("=", 80))
		return
	}
	fmt.Printf("  %-12s %-26s %-8s %10s %10s %10s\n",
		"SKU", "NAME", "WHSE", "AVAILABLE", "REORDER AT", "SUGGESTED")
	fmt.Println(strings.Repeat("-", 80))
	for _, it := range result.Items {
		fmt.Printf("  %-12s %-26s %-8s %10s %10s %10s\n",
			it.SKUCode, it.SKUName, it.WarehouseCode,
			it.Available.StringFixed(2), it.ReorderPoint.StringFixed(2), it.SuggestedQty.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 80))
}

func printLedger(result *app.LedgerResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 84))
	fmt.Printf("  STOCK LEDGER — %s\n", result.SKUCode)
	fmt.Println(strings.Repeat("=", 84))
	if len(result.Lines) == 0 {
		fmt.Println("  No movements in range.")
		fmt.Println(strings.Repeat("=", 84))
		return
	}
	fmt.Printf("  %-12s %-16s %-8s %10s %10s %10s\n",
		"DATE", "TYPE", "WHSE", "QTY", "UNIT COST", "BALANCE")
	fmt.Println(strings.Repeat("-", 84))
	for _, l := range result.Lines {
		fmt.Printf("  %-12s %-16s %-8s %10s %10s %10s\n",
			l.MovementDate, l.MovementType, l.WarehouseCode,
			l.Quantity.StringFixed(2), l.UnitCost.StringFixed(2), l.RunningBalance.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 84))
}

func printBuildability(result *app.BuildabilityResult) {
	fmt.Println()
	if result.Buildable {
		fmt.Println("BUILDABLE — all components in stock.")
	} else {
		fmt.Println("NOT BUILDABLE — shortfalls below.")
	}
	printChecks(result.Checks)
	fmt.Printf("Template v%d, kit cost %s\n", result.Template.Version, result.Template.TotalCost.StringFixed(2))
}

func printChecks(checks []core.ComponentCheck) {
	fmt.Printf("  %-12s %-26s %10s %10s %10s\n", "COMPONENT", "NAME", "REQUIRED", "AVAILABLE", "SHORT")
	fmt.Println(strings.Repeat("-", 76))
	for _, c := range checks {
		marker := ""
		if !c.Sufficient {
			marker = "  <-- short"
		}
		fmt.Printf("  %-12s %-26s %10s %10s %10s%s\n",
			c.SKUCode, c.SKUName, c.Required.StringFixed(2),
			c.Available.StringFixed(2), c.Shortage.StringFixed(2), marker)
	}
}

func printKitBuildPlan(result *app.KitBuildResult) {
	plan := result.Plan
	fmt.Printf("\nBuild %s planned: %s x %s (per-kit cost %s)\n",
		plan.Order.OrderNumber, plan.Order.QtyPlanned.StringFixed(0),
		plan.Order.KitSKUCode, plan.Order.UnitCost.StringFixed(2))
	printChecks(plan.Checks)
	if len(plan.PurchaseOrders) == 0 {
		fmt.Println("All components in stock; no replenishment needed.")
		return
	}
	fmt.Printf("Drafted %d replenishment PO(s):\n", len(plan.PurchaseOrders))
	for i := range plan.PurchaseOrders {
		printPODetail(&plan.PurchaseOrders[i])
	}
}

func printProductionOrders(result *app.ProductionListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("  PRODUCTION ORDERS")
	fmt.Println(strings.Repeat("=", 80))
	if len(result.Orders) == 0 {
		fmt.Println("  No production orders.")
		fmt.Println(strings.Repeat("=", 80))
		return
	}
	fmt.Printf("  %-14s %-12s %10s %10s %-12s\n", "NUMBER", "KIT", "PLANNED", "DONE", "STATUS")
	fmt.Println(strings.Repeat("-", 80))
	for _, o := range result.Orders {
		fmt.Printf("  %-14s %-12s %10s %10s %-12s\n",
			o.OrderNumber, o.KitSKUCode,
			o.QtyPlanned.StringFixed(0), o.QtyCompleted.StringFixed(0), o.Status)
	}
	fmt.Println(strings.Repeat("=", 80))
}

func printPurchaseOrders(result *app.POListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Println("  PURCHASE ORDERS")
	fmt.Println(strings.Repeat("=", 76))
	if len(result.Orders) == 0 {
		fmt.Println("  No purchase orders.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-14s %-12s %-24s %12s %-10s\n", "NUMBER", "VENDOR", "VENDOR NAME", "TOTAL", "STATUS")
	fmt.Println(strings.Repeat("-", 76))
	for _, o := range result.Orders {
		fmt.Printf("  %-14s %-12s %-24s %12s %-10s\n",
			o.OrderNumber, o.VendorCode, o.VendorName, o.TotalAmount.StringFixed(2), o.Status)
	}
	fmt.Println(strings.Repeat("=", 76))
}

func printPODetail(o *core.PurchaseOrder) {
	fmt.Printf("\n%s — %s (%s), total %s\n", o.OrderNumber, o.VendorName, o.Status, o.TotalAmount.StringFixed(2))
	for _, it := range o.Items {
		fmt.Printf("  %-12s %-26s %8s @ %8s = %10s (received %s)\n",
			it.SKUCode, it.SKUName, it.QtyOrdered.StringFixed(2),
			it.UnitCost.StringFixed(2), it.LineTotal.StringFixed(2), it.QtyReceived.StringFixed(2))
	}
}

func printAlerts(result *app.AlertListResult) {
	fmt.Println()
	if len(result.Alerts) == 0 {
		fmt.Println("No open alerts.")
		return
	}
	for _, a := range result.Alerts {
		fmt.Printf("  [#%d] supplier order %d: %s\n", a.ID, a.SupplierOrderID, a.Message)
	}
}

func printRestockProposal(p *core.RestockProposal) {
	fmt.Printf("\nSUMMARY:    %s\n", p.Summary)
	if p.VendorCode != "" {
		fmt.Printf("VENDOR:     %s\n", p.VendorCode)
	}
	fmt.Printf("REASONING:  %s\n", p.Reasoning)
	fmt.Printf("CONFIDENCE: %.2f\n", p.Confidence)
	fmt.Println("LINES:")
	for _, l := range p.Lines {
		cost := l.UnitCost
		if cost == "" {
			cost = "(recorded cost)"
		}
		fmt.Printf("  %-12s qty %-8s @ %s\n", l.SKUCode, l.Quantity, cost)
	}
}
