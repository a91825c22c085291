package web

import (
	"net/http"

	"partsdesk/internal/app"

	"github.com/shopspring/decimal"
)

// parseDecimal parses a required decimal string from a request body field,
// writing a 400 response on failure.
func parseDecimal(w http.ResponseWriter, r *http.Request, name, value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		writeError(w, r, "invalid "+name+": "+value, "BAD_REQUEST", http.StatusBadRequest)
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseOptionalDecimal parses a decimal string that may be empty; empty means
// zero, which downstream code treats as "use the recorded default".
func parseOptionalDecimal(w http.ResponseWriter, r *http.Request, name, value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Decimal{}, true
	}
	return parseDecimal(w, r, name, value)
}

// apiListSKUs handles GET /api/skus.
func (h *Handler) apiListSKUs(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSKUs(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.SKUs)
}

// apiCreateSKU handles POST /api/skus.
// Body: { code, name, description?, type, unit_cost?, unit_price?, preferred_vendor_code? }
func (h *Handler) apiCreateSKU(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code                string `json:"code"`
		Name                string `json:"name"`
		Description         string `json:"description"`
		Type                string `json:"type"`
		UnitCost            string `json:"unit_cost"`
		UnitPrice           string `json:"unit_price"`
		PreferredVendorCode string `json:"preferred_vendor_code"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Code == "" {
		writeError(w, r, "code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	unitCost, ok := parseOptionalDecimal(w, r, "unit_cost", body.UnitCost)
	if !ok {
		return
	}
	unitPrice, ok := parseOptionalDecimal(w, r, "unit_price", body.UnitPrice)
	if !ok {
		return
	}

	sku, err := h.svc.CreateSKU(r.Context(), app.CreateSKURequest{
		Code:                body.Code,
		Name:                body.Name,
		Description:         body.Description,
		Type:                body.Type,
		UnitCost:            unitCost,
		UnitPrice:           unitPrice,
		PreferredVendorCode: body.PreferredVendorCode,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, sku)
}

// apiListVendors handles GET /api/vendors.
func (h *Handler) apiListVendors(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListVendors(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Vendors)
}

// apiCreateVendor handles POST /api/vendors.
// Body: { code, name, contact_person?, email?, phone?, address?, payment_terms_days? }
func (h *Handler) apiCreateVendor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code             string `json:"code"`
		Name             string `json:"name"`
		ContactPerson    string `json:"contact_person"`
		Email            string `json:"email"`
		Phone            string `json:"phone"`
		Address          string `json:"address"`
		PaymentTermsDays int    `json:"payment_terms_days"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Code == "" {
		writeError(w, r, "code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	vendor, err := h.svc.CreateVendor(r.Context(), app.CreateVendorRequest{
		Code:             body.Code,
		Name:             body.Name,
		ContactPerson:    body.ContactPerson,
		Email:            body.Email,
		Phone:            body.Phone,
		Address:          body.Address,
		PaymentTermsDays: body.PaymentTermsDays,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, vendor)
}

// apiListWarehouses handles GET /api/warehouses.
func (h *Handler) apiListWarehouses(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListWarehouses(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Warehouses)
}
