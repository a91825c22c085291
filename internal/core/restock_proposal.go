package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RestockProposal is the structured output of the restock assistant: a
// natural-language request ("order 50 more brake pads from the usual vendor")
// interpreted into concrete purchase order lines.
type RestockProposal struct {
	VendorCode string                `json:"vendor_code" jsonschema_description:"The code of the vendor to order from. Must be one of the provided vendor codes, or empty to use each SKU's preferred vendor."`
	Summary    string                `json:"summary" jsonschema_description:"A brief summary of the restock request"`
	Confidence float64               `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning  string                `json:"reasoning" jsonschema_description:"Explanation for the proposed restock"`
	Lines      []RestockProposalLine `json:"lines" jsonschema_description:"The SKUs and quantities to order"`
}

// RestockProposalLine is one SKU line in a restock proposal.
type RestockProposalLine struct {
	SKUCode  string `json:"sku_code" jsonschema_description:"The SKU code to restock. Must be one of the provided SKU codes."`
	Quantity string `json:"quantity" jsonschema_description:"The quantity to order as an exact decimal string (e.g. '50')."`
	UnitCost string `json:"unit_cost" jsonschema_description:"The unit cost as an exact decimal string, or empty to use the SKU's recorded cost."`
}

// Normalize cleans up common formatting issues in model output before
// validation.
func (p *RestockProposal) Normalize() {
	p.VendorCode = strings.ToUpper(strings.TrimSpace(p.VendorCode))
	for i := range p.Lines {
		line := &p.Lines[i]
		line.SKUCode = strings.ToUpper(strings.TrimSpace(line.SKUCode))
		if strings.TrimSpace(line.Quantity) == "" || strings.ToLower(line.Quantity) == "null" {
			line.Quantity = "0"
		}
		if strings.ToLower(strings.TrimSpace(line.UnitCost)) == "null" {
			line.UnitCost = ""
		}
	}
}

// Validate enforces the restock rules: at least one line, positive decimal
// quantities, and non-negative costs where given.
func (p *RestockProposal) Validate() error {
	if len(p.Lines) == 0 {
		return errors.New("restock proposal must have at least one line")
	}

	for _, line := range p.Lines {
		if line.SKUCode == "" {
			return errors.New("restock line must specify a SKU code")
		}

		qty, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			return fmt.Errorf("invalid quantity %q for SKU %s: %v", line.Quantity, line.SKUCode, err)
		}
		if !qty.IsPositive() {
			return fmt.Errorf("quantity must be > 0 for SKU %s", line.SKUCode)
		}

		if line.UnitCost != "" {
			cost, err := decimal.NewFromString(line.UnitCost)
			if err != nil {
				return fmt.Errorf("invalid unit cost %q for SKU %s: %v", line.UnitCost, line.SKUCode, err)
			}
			if cost.IsNegative() {
				return fmt.Errorf("unit cost cannot be negative for SKU %s", line.SKUCode)
			}
		}
	}
	return nil
}

// RestockClarification is returned when the request is too vague to act on.
type RestockClarification struct {
	Message string `json:"message" jsonschema_description:"A message asking the user for missing details (e.g. 'Which brake pad SKU did you mean, and how many?')."`
}

// RestockResponse wraps the assistant output to branch between a usable
// proposal and a clarification request. Exactly one branch is populated.
type RestockResponse struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information to create a confident proposal."`
	Clarification          *RestockClarification `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true."`
	Proposal               *RestockProposal      `json:"proposal,omitempty" jsonschema_description:"Required if is_clarification_request is false."`
}
