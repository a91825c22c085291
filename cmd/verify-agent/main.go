package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"partsdesk/internal/ai"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // Load .env if present

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(apiKey)
	ctx := context.Background()

	catalog := `SKUs:
- BRK-PAD Brake Pad Set (SINGLE, cost 42.50, preferred vendor BOSCH)
- BRK-DISC Brake Disc (SINGLE, cost 78.00, preferred vendor BOSCH)
- BRK-FLUID Brake Fluid DOT4 1L (SINGLE, cost 6.20, preferred vendor ACME)
- CLIP-STD Standard Clip Pack (SINGLE, cost 1.10, preferred vendor LOCAL)
Vendors:
- ACME Acme Auto Components
- BOSCH Bosch Distribution
- LOCAL Local Parts Supply`

	request := "Order 50 brake pad sets and 20 discs from Bosch."

	fmt.Printf("INTERPRETING REQUEST: %s\n", request)
	response, err := agent.InterpretRestockRequest(ctx, request, catalog)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if response.IsClarificationRequest {
		fmt.Printf("\n--- CLARIFICATION ---\n%s\n", response.Clarification.Message)
		return
	}

	proposal := response.Proposal
	fmt.Printf("\n--- PROPOSAL ---\n")
	fmt.Printf("Vendor: %s\n", proposal.VendorCode)
	fmt.Printf("Confidence: %.2f\n", proposal.Confidence)
	fmt.Printf("Reasoning: %s\n", proposal.Reasoning)

	fmt.Printf("\nLines:\n")
	for _, line := range proposal.Lines {
		fmt.Printf("- SKU: %s, Qty: %s, Unit cost: %s\n", line.SKUCode, line.Quantity, line.UnitCost)
	}
}
