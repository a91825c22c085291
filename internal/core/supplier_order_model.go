package core

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PauseReason classifies why a supplier order's workflow is paused.
type PauseReason string

const (
	PauseVendorAssignmentNeeded PauseReason = "VENDOR_ASSIGNMENT_NEEDED"
	PauseShippingDelay          PauseReason = "SHIPPING_DELAY"
	PauseQualityHold            PauseReason = "QUALITY_HOLD"
	PauseOther                  PauseReason = "OTHER"
)

// ClassifyPauseNote maps a free-text pause note to a reason. Notes mentioning
// a vendor or supplier classify as needing vendor assignment; shipping and
// quality phrases map to their holds; anything else is OTHER.
func ClassifyPauseNote(note string) PauseReason {
	lower := strings.ToLower(note)
	switch {
	case strings.Contains(lower, "vendor") || strings.Contains(lower, "supplier"):
		return PauseVendorAssignmentNeeded
	case strings.Contains(lower, "ship") || strings.Contains(lower, "delivery") || strings.Contains(lower, "delay"):
		return PauseShippingDelay
	case strings.Contains(lower, "quality") || strings.Contains(lower, "defect") || strings.Contains(lower, "damage"):
		return PauseQualityHold
	default:
		return PauseOther
	}
}

// SupplierOrder tracks a replenishment request through its workflow gate.
// The workflow status rides alongside the order's own status: a PAUSED order
// keeps its order status but must not progress until resumed.
type SupplierOrder struct {
	ID             int
	OrderNumber    string
	SKUID          int
	SKUCode        string
	SKUName        string
	VendorID       *int
	VendorName     string
	Quantity       decimal.Decimal
	Status         string
	WorkflowStatus WorkflowStatus
	PauseReason    *PauseReason
	PauseNote      string
	ResumeNote     string
	PausedAt       *time.Time
	ResumedAt      *time.Time
	CreatedAt      time.Time
}

// WorkflowAlert is a to-do raised when a paused order needs human action,
// such as assigning a vendor.
type WorkflowAlert struct {
	ID              int
	SupplierOrderID int
	Message         string
	IsResolved      bool
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}

// SupplierOrderInput holds the fields required to create a supplier order.
// VendorID may be nil when no vendor has been chosen yet.
type SupplierOrderInput struct {
	SKUID    int
	VendorID *int
	Quantity decimal.Decimal
}

// SupplierOrderService manages the pause/resume workflow on supplier orders.
type SupplierOrderService interface {
	// CreateSupplierOrder creates an ACTIVE supplier order.
	CreateSupplierOrder(ctx context.Context, input SupplierOrderInput) (*SupplierOrder, error)

	// Pause marks an ACTIVE order PAUSED, classifying the note into a reason.
	// When the reason is VENDOR_ASSIGNMENT_NEEDED an unresolved alert is
	// raised. Pausing an already-paused order fails.
	Pause(ctx context.Context, orderID int, note string) (*SupplierOrder, error)

	// Resume marks a PAUSED order ACTIVE again, clearing the pause reason and
	// resolving its open alerts.
	Resume(ctx context.Context, orderID int, note string) (*SupplierOrder, error)

	// AssignVendor sets the order's vendor, records it as the SKU's preferred
	// vendor, and resumes the order if it was paused for vendor assignment.
	AssignVendor(ctx context.Context, orderID, vendorID int) (*SupplierOrder, error)

	// GetSupplierOrder returns a supplier order by ID.
	GetSupplierOrder(ctx context.Context, orderID int) (*SupplierOrder, error)

	// GetSupplierOrders returns supplier orders, optionally filtered by
	// workflow status, newest first.
	GetSupplierOrders(ctx context.Context, workflow WorkflowStatus) ([]SupplierOrder, error)

	// OpenAlerts returns unresolved workflow alerts, oldest first.
	OpenAlerts(ctx context.Context) ([]WorkflowAlert, error)
}
