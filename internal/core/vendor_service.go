package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vendorService struct {
	pool *pgxpool.Pool
}

// NewVendorService constructs a VendorService backed by PostgreSQL.
func NewVendorService(pool *pgxpool.Pool) VendorService {
	return &vendorService{pool: pool}
}

func (s *vendorService) CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error) {
	if input.Code == "" {
		return nil, fmt.Errorf("vendor code is required")
	}
	if input.Name == "" {
		return nil, fmt.Errorf("vendor name is required")
	}
	if input.PaymentTermsDays < 0 {
		return nil, fmt.Errorf("payment terms days cannot be negative")
	}
	if input.PaymentTermsDays == 0 {
		input.PaymentTermsDays = 30
	}

	toPtr := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO vendors (code, name, contact_person, email, phone, address, payment_terms_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, code, name, contact_person, email, phone, address,
		          payment_terms_days, is_active, created_at`,
		input.Code, input.Name, toPtr(input.ContactPerson), toPtr(input.Email),
		toPtr(input.Phone), toPtr(input.Address), input.PaymentTermsDays,
	).Scan(&v.ID, &v.Code, &v.Name, &v.ContactPerson, &v.Email, &v.Phone, &v.Address,
		&v.PaymentTermsDays, &v.IsActive, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create vendor %s: %w", input.Code, err)
	}
	return v, nil
}

func (s *vendorService) GetVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, contact_person, email, phone, address,
		       payment_terms_days, is_active, created_at
		FROM vendors
		WHERE is_active = true
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Code, &v.Name, &v.ContactPerson, &v.Email, &v.Phone,
			&v.Address, &v.PaymentTermsDays, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}

func (s *vendorService) GetVendor(ctx context.Context, vendorID int) (*Vendor, error) {
	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, contact_person, email, phone, address,
		       payment_terms_days, is_active, created_at
		FROM vendors
		WHERE id = $1`,
		vendorID,
	).Scan(&v.ID, &v.Code, &v.Name, &v.ContactPerson, &v.Email, &v.Phone, &v.Address,
		&v.PaymentTermsDays, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %d not found", vendorID)
		}
		return nil, fmt.Errorf("get vendor %d: %w", vendorID, err)
	}
	return v, nil
}

func (s *vendorService) GetVendorByCode(ctx context.Context, code string) (*Vendor, error) {
	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, contact_person, email, phone, address,
		       payment_terms_days, is_active, created_at
		FROM vendors
		WHERE code = $1 AND is_active = true`,
		code,
	).Scan(&v.ID, &v.Code, &v.Name, &v.ContactPerson, &v.Email, &v.Phone, &v.Address,
		&v.PaymentTermsDays, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %q not found", code)
		}
		return nil, fmt.Errorf("get vendor %q: %w", code, err)
	}
	return v, nil
}
