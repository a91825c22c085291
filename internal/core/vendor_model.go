package core

import (
	"context"
	"time"
)

// Vendor represents a parts supplier.
type Vendor struct {
	ID               int
	Code             string
	Name             string
	ContactPerson    *string
	Email            *string
	Phone            *string
	Address          *string
	PaymentTermsDays int
	IsActive         bool
	CreatedAt        time.Time
}

// VendorInput holds the fields required to create a new vendor.
type VendorInput struct {
	Code             string
	Name             string
	ContactPerson    string
	Email            string
	Phone            string
	Address          string
	PaymentTermsDays int
}

// VendorService provides vendor master data operations.
type VendorService interface {
	// CreateVendor creates a new vendor record.
	CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error)

	// GetVendors returns all active vendors.
	GetVendors(ctx context.Context) ([]Vendor, error)

	// GetVendor returns a vendor by its internal ID.
	GetVendor(ctx context.Context, vendorID int) (*Vendor, error)

	// GetVendorByCode returns a specific vendor by its code.
	GetVendorByCode(ctx context.Context, code string) (*Vendor, error)
}
