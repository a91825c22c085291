package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"partsdesk/internal/app"

	"github.com/shopspring/decimal"
)

// Run starts the interactive ops console loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes natural language input through the restock assistant.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Parts Desk")
	fmt.Println("Describe a restock in plain language, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "skus":
			result, err := svc.ListSKUs(ctx)
			if err != nil {
				return err
			}
			printSKUs(result)

		case "vendors":
			result, err := svc.ListVendors(ctx)
			if err != nil {
				return err
			}
			printVendors(result)

		case "stock":
			result, err := svc.GetStockLevels(ctx)
			if err != nil {
				return err
			}
			printStockLevels(result)

		case "low":
			result, err := svc.GetLowStock(ctx)
			if err != nil {
				return err
			}
			printLowStock(result)

		case "reorder":
			warehouseCode := ""
			if len(args) > 0 {
				warehouseCode = strings.ToUpper(args[0])
			}
			result, err := svc.ReorderLowStock(ctx, warehouseCode)
			if err != nil {
				return err
			}
			if len(result.Orders) == 0 {
				fmt.Println("Nothing to reorder; all low items have open PO coverage.")
				return nil
			}
			for i := range result.Orders {
				printPODetail(&result.Orders[i])
			}

		case "ledger":
			if len(args) < 1 {
				fmt.Println("Usage: /ledger <sku-code> [from] [to]")
				return nil
			}
			from, to := "", ""
			if len(args) >= 2 {
				from = args[1]
			}
			if len(args) >= 3 {
				to = args[2]
			}
			result, err := svc.GetStockLedger(ctx, strings.ToUpper(args[0]), from, to)
			if err != nil {
				return err
			}
			printLedger(result)

		case "check":
			// Usage: /check <kit-code> <qty>
			if len(args) < 2 {
				fmt.Println("Usage: /check <kit-code> <qty>")
				return nil
			}
			qty, err := decimal.NewFromString(args[1])
			if err != nil || !qty.IsPositive() {
				fmt.Printf("Invalid quantity: %s\n", args[1])
				return nil
			}
			result, err := svc.CheckBuildability(ctx, strings.ToUpper(args[0]), qty)
			if err != nil {
				return err
			}
			printBuildability(result)

		case "plan":
			// Usage: /plan <kit-code> <qty>
			if len(args) < 2 {
				fmt.Println("Usage: /plan <kit-code> <qty>")
				return nil
			}
			qty, err := decimal.NewFromString(args[1])
			if err != nil || !qty.IsPositive() {
				fmt.Printf("Invalid quantity: %s\n", args[1])
				return nil
			}
			result, err := svc.PlanKitBuild(ctx, app.PlanKitBuildRequest{
				KitSKUCode: strings.ToUpper(args[0]),
				Quantity:   qty,
			})
			if err != nil {
				return err
			}
			printKitBuildPlan(result)

		case "builds":
			result, err := svc.ListProductionOrders(ctx, "")
			if err != nil {
				return err
			}
			printProductionOrders(result)

		case "start":
			if len(args) < 1 {
				fmt.Println("Usage: /start <build-ref>")
				return nil
			}
			result, err := svc.StartProduction(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Build %s is IN_PROGRESS; components consumed.\n", result.Order.OrderNumber)

		case "complete":
			// Usage: /complete <build-ref> [qty]
			if len(args) < 1 {
				fmt.Println("Usage: /complete <build-ref> [qty-completed]")
				return nil
			}
			ref := args[0]
			current, err := svc.GetProductionOrder(ctx, ref)
			if err != nil {
				return err
			}
			qty := current.Order.QtyPlanned
			if len(args) >= 2 {
				if qty, err = decimal.NewFromString(args[1]); err != nil {
					fmt.Printf("Invalid quantity: %s\n", args[1])
					return nil
				}
			}
			result, err := svc.CompleteProduction(ctx, ref, qty)
			if err != nil {
				return err
			}
			fmt.Printf("Build %s COMPLETED: %s kits added to stock.\n",
				result.Order.OrderNumber, result.Order.QtyCompleted.String())

		case "hold":
			if len(args) < 2 {
				fmt.Println("Usage: /hold <build-ref> <reason...>")
				return nil
			}
			result, err := svc.HoldProduction(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Build %s is ON_HOLD.\n", result.Order.OrderNumber)

		case "resume":
			if len(args) < 1 {
				fmt.Println("Usage: /resume <build-ref>")
				return nil
			}
			result, err := svc.ResumeProduction(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Build %s resumed to %s.\n", result.Order.OrderNumber, result.Order.Status)

		case "pos":
			result, err := svc.ListPurchaseOrders(ctx, "")
			if err != nil {
				return err
			}
			printPurchaseOrders(result)

		case "po":
			if len(args) < 1 {
				fmt.Println("Usage: /po <po-ref>")
				return nil
			}
			result, err := svc.GetPurchaseOrder(ctx, args[0])
			if err != nil {
				return err
			}
			printPODetail(result.Order)

		case "order":
			if len(args) < 1 {
				fmt.Println("Usage: /order <po-ref>")
				return nil
			}
			result, err := svc.MarkPOOrdered(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("PO %s marked ORDERED.\n", result.Order.OrderNumber)

		case "receive":
			// Receives every line of the PO in full.
			if len(args) < 1 {
				fmt.Println("Usage: /receive <po-ref>")
				return nil
			}
			handleReceivePO(ctx, svc, args[0])

		case "sell":
			if len(args) < 1 {
				fmt.Println("Usage: /sell <customer-name>")
				return nil
			}
			handleNewSalesOrder(ctx, reader, svc, strings.Join(args, " "))

		case "fulfill":
			if len(args) < 1 {
				fmt.Println("Usage: /fulfill <sales-ref>")
				return nil
			}
			result, err := svc.FulfillSalesOrder(ctx, args[0], "")
			if err != nil {
				return err
			}
			fmt.Printf("Sales order %s FULFILLED.\n", result.Order.OrderNumber)

		case "alerts":
			result, err := svc.ListOpenAlerts(ctx)
			if err != nil {
				return err
			}
			printAlerts(result)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// Slash prefix → deterministic command dispatcher, no assistant invoked.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					fmt.Println("Goodbye!")
					break
				}
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		// No slash prefix → route to the restock assistant.
		fmt.Println("[assistant] Processing...")
		accumulatedInput := input

		rounds := 0
		for {
			rounds++
			if rounds > 3 {
				fmt.Println("Could not produce a proposal. Try a slash command instead — type /help.")
				break
			}

			result, err := svc.InterpretRestock(ctx, accumulatedInput)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}

			if result.IsClarification {
				fmt.Printf("\n[assistant]: %s\n", result.ClarificationMessage)
				fmt.Print("> ")
				userFollowUp, _ := reader.ReadString('\n')
				userFollowUp = strings.TrimSpace(userFollowUp)

				// Slash command during clarification — cancel the assistant flow.
				if strings.HasPrefix(userFollowUp, "/") {
					fmt.Println("(assistant session cancelled)")
					if dispErr := dispatchSlash(userFollowUp); dispErr != nil {
						if dispErr == errExit {
							fmt.Println("Goodbye!")
							return
						}
						fmt.Printf("Error: %v\n", dispErr)
					}
					break
				}

				if userFollowUp == "" || strings.ToLower(userFollowUp) == "cancel" {
					fmt.Println("Cancelled.")
					break
				}
				accumulatedInput = fmt.Sprintf("Original request: %s\nClarification requested: %s\nUser response: %s",
					accumulatedInput, result.ClarificationMessage, userFollowUp)
				fmt.Println("[assistant] Thinking...")
				continue
			}

			proposal := result.Proposal
			printRestockProposal(proposal)

			if proposal.Confidence < 0.6 {
				fmt.Println("\nWARNING: Low confidence proposal.")
			}

			fmt.Print("\nCreate this purchase order? (y/n): ")
			choice, _ := reader.ReadString('\n')
			choice = strings.TrimSpace(strings.ToLower(choice))

			if choice == "y" || choice == "yes" {
				poResult, err := svc.CommitRestockProposal(ctx, *proposal)
				if err != nil {
					fmt.Printf("Order FAILED: %v\n", err)
				} else {
					fmt.Printf("Purchase order %s created (PENDING).\n", poResult.Order.OrderNumber)
				}
			} else {
				fmt.Println("Cancelled.")
			}
			break
		}
	}
}

func printHelp() {
	fmt.Println(`Commands:
  /skus                      list catalog items
  /vendors                   list vendors
  /stock                     current stock levels
  /low                       items at or below reorder point
  /reorder [warehouse]       draft POs for uncovered low items
  /ledger <sku> [from] [to]  stock movement history
  /check <kit> <qty>         can we build qty kits right now?
  /plan <kit> <qty>          plan a build, drafting POs for shortfalls
  /builds                    list production orders
  /start <ref>               start a build (consumes components)
  /complete <ref> [qty]      complete a build (adds finished kits)
  /hold <ref> <reason>       put a build on hold
  /resume <ref>              resume a held build
  /pos                       list purchase orders
  /po <ref>                  purchase order detail
  /order <ref>               mark a PO as placed with the vendor
  /receive <ref>             receive a PO in full
  /sell <customer>           create a sales order interactively
  /fulfill <ref>             ship a sales order from stock
  /alerts                    open workflow alerts
  /exit

Anything without a leading slash goes to the restock assistant.`)
}
