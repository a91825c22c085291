package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"partsdesk/internal/app"

	"github.com/shopspring/decimal"
)

// handleNewSalesOrder runs an interactive sales order creation session.
func handleNewSalesOrder(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, customerName string) {
	fmt.Printf("Creating sales order for: %s\n", customerName)
	fmt.Println("Enter order lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Println("Format per line: <sku-code> <quantity> [unit-price]")
	fmt.Println("  Example: BRK-PAD 10")
	fmt.Println("  Example: BRAKE-KIT 2 430.00   (overrides the list price)")

	var lines []app.SalesLineRequest
	lineNum := 1
	for {
		fmt.Printf("  Line %d: ", lineNum)
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.ToLower(raw) == "cancel" {
			fmt.Println("Order creation cancelled.")
			return
		}
		if strings.ToLower(raw) == "done" {
			break
		}
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		if len(parts) < 2 {
			fmt.Println("  Invalid format. Use: <sku-code> <quantity> [unit-price]")
			continue
		}

		qty, err := decimal.NewFromString(parts[1])
		if err != nil || !qty.IsPositive() {
			fmt.Println("  Invalid quantity.")
			continue
		}

		var price decimal.Decimal
		if len(parts) >= 3 {
			price, err = decimal.NewFromString(parts[2])
			if err != nil || price.IsNegative() {
				fmt.Println("  Invalid price.")
				continue
			}
		}

		lines = append(lines, app.SalesLineRequest{
			SKUCode:   strings.ToUpper(parts[0]),
			Quantity:  qty,
			UnitPrice: price,
		})
		lineNum++
	}

	if len(lines) == 0 {
		fmt.Println("No lines entered. Order not created.")
		return
	}

	fmt.Print("Notes (optional): ")
	notes, _ := reader.ReadString('\n')
	notes = strings.TrimSpace(notes)

	result, err := svc.CreateSalesOrder(ctx, app.CreateSalesOrderRequest{
		CustomerName: customerName,
		Notes:        notes,
		Lines:        lines,
	})
	if err != nil {
		fmt.Printf("Error creating order: %v\n", err)
		return
	}

	order := result.Order
	fmt.Printf("\nSales order %s created (PENDING), total %s\n", order.OrderNumber, order.TotalAmount.StringFixed(2))
	if order.ProductionRequired {
		fmt.Println("Kit lines present: this order needs a production run before it can ship.")
		fmt.Println("Use '/plan <kit-code> <qty>' to plan the build.")
	} else {
		fmt.Printf("Use '/fulfill %d' to ship from stock.\n", order.ID)
	}
}

// handleReceivePO receives every outstanding line of a PO in full.
func handleReceivePO(ctx context.Context, svc app.ApplicationService, ref string) {
	current, err := svc.GetPurchaseOrder(ctx, ref)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	var lines []app.ReceivedLineRequest
	for _, it := range current.Order.Items {
		outstanding := it.QtyOrdered.Sub(it.QtyReceived)
		if outstanding.IsPositive() {
			lines = append(lines, app.ReceivedLineRequest{POItemID: it.ID, QtyReceived: outstanding})
		}
	}
	if len(lines) == 0 {
		fmt.Println("Nothing outstanding on this order.")
		return
	}

	result, err := svc.ReceivePurchaseOrder(ctx, app.ReceivePORequest{Ref: ref, Lines: lines})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("PO %s received in full; stock and costs updated.\n", result.Order.OrderNumber)
}
