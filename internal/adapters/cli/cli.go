package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"partsdesk/internal/app"
	"partsdesk/internal/core"

	"github.com/shopspring/decimal"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "restock", "r":
		if len(args) < 2 {
			log.Fatal("Usage: app restock \"<restock request>\"")
		}
		result, err := svc.InterpretRestock(ctx, args[1])
		if err != nil {
			log.Fatalf("Agent error: %v", err)
		}
		if result.IsClarification {
			fmt.Fprintln(os.Stderr, "Assistant needs clarification:", result.ClarificationMessage)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Proposal)

	case "commit", "c":
		var proposal core.RestockProposal
		if err := json.NewDecoder(os.Stdin).Decode(&proposal); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.CommitRestockProposal(ctx, proposal)
		if err != nil {
			log.Fatalf("Commit failed: %v", err)
		}
		fmt.Printf("Purchase order %s created (PENDING).\n", result.Order.OrderNumber)

	case "stock", "s":
		result, err := svc.GetStockLevels(ctx)
		if err != nil {
			log.Fatalf("Failed to get stock levels: %v", err)
		}
		printStockTable(result)

	case "low", "l":
		result, err := svc.GetLowStock(ctx)
		if err != nil {
			log.Fatalf("Failed to get low stock: %v", err)
		}
		printLowStockTable(result)

	case "reorder":
		warehouse := ""
		if len(args) >= 2 {
			warehouse = args[1]
		}
		result, err := svc.ReorderLowStock(ctx, warehouse)
		if err != nil {
			log.Fatalf("Reorder failed: %v", err)
		}
		if len(result.Orders) == 0 {
			fmt.Println("Nothing below its reorder point; no orders created.")
			return
		}
		for _, o := range result.Orders {
			fmt.Printf("Created %s for %s (%s), total %s\n",
				o.OrderNumber, o.VendorCode, o.VendorName, o.TotalAmount.StringFixed(2))
		}

	case "check":
		if len(args) < 3 {
			log.Fatal("Usage: app check <kit-code> <qty>")
		}
		qty, err := decimal.NewFromString(args[2])
		if err != nil || !qty.IsPositive() {
			log.Fatalf("Invalid quantity: %s", args[2])
		}
		result, err := svc.CheckBuildability(ctx, args[1], qty)
		if err != nil {
			log.Fatalf("Buildability check failed: %v", err)
		}
		printBuildabilityTable(result)
		if !result.Buildable {
			os.Exit(1)
		}

	default:
		log.Fatalf("Unknown command: %s\nAvailable: restock, commit, stock, low, reorder, check", args[0])
	}
}

func printStockTable(result *app.StockResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 86))
	fmt.Printf("  %-82s\n", "STOCK LEVELS")
	fmt.Println(strings.Repeat("=", 86))
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

func printLowStockTable(result *app.LowStockResult) {
	if len(result.Items) == 0 {
		fmt.Println("Nothing at or below its reorder point.")
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
}

func printBuildabilityTable(result *app.BuildabilityResult) {
	if result.Buildable {
		fmt.Println("BUILDABLE — all components in stock.")
	} else {
		fmt.Println("NOT BUILDABLE — shortfalls below.")
	}
	fmt.Printf("  %-12s %-26s %10s %10s %10s\n", "COMPONENT", "NAME", "REQUIRED", "AVAILABLE", "SHORT")
	fmt.Println(strings.Repeat("-", 76))
	for _, c := range result.Checks {
		fmt.Printf("  %-12s %-26s %10s %10s %10s\n",
			c.SKUCode, c.SKUName, c.Required.StringFixed(2),
			c.Available.StringFixed(2), c.Shortage.StringFixed(2))
	}
}
