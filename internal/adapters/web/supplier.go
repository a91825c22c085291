package web

import (
	"net/http"
	"strconv"

	"partsdesk/internal/app"

	"github.com/go-chi/chi/v5"
)

func supplierOrderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid supplier order id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// apiListSupplierOrders handles GET /api/supplier-orders?workflow_status=PAUSED.
func (h *Handler) apiListSupplierOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSupplierOrders(r.Context(), r.URL.Query().Get("workflow_status"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Orders)
}

// apiCreateSupplierOrder handles POST /api/supplier-orders.
// Body: { sku_code, vendor_code?, quantity }
func (h *Handler) apiCreateSupplierOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKUCode    string `json:"sku_code"`
		VendorCode string `json:"vendor_code"`
		Quantity   string `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	qty, ok := parseDecimal(w, r, "quantity", body.Quantity)
	if !ok {
		return
	}

	result, err := h.svc.CreateSupplierOrder(r.Context(), app.CreateSupplierOrderRequest{
		SKUCode:    body.SKUCode,
		VendorCode: body.VendorCode,
		Quantity:   qty,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// apiPauseSupplierOrder handles POST /api/supplier-orders/{id}/pause.
// Body: { note } — the note text drives the pause reason classification.
func (h *Handler) apiPauseSupplierOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := supplierOrderID(w, r)
	if !ok {
		return
	}
	var body struct {
		Note string `json:"note"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.PauseSupplierOrder(r.Context(), id, body.Note)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiResumeSupplierOrder handles POST /api/supplier-orders/{id}/resume.
// Body: { note? }
func (h *Handler) apiResumeSupplierOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := supplierOrderID(w, r)
	if !ok {
		return
	}
	var body struct {
		Note string `json:"note"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.ResumeSupplierOrder(r.Context(), id, body.Note)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiAssignSupplierVendor handles POST /api/supplier-orders/{id}/assign-vendor.
// Body: { vendor_code }. Assignment resolves a vendor-assignment pause.
func (h *Handler) apiAssignSupplierVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := supplierOrderID(w, r)
	if !ok {
		return
	}
	var body struct {
		VendorCode string `json:"vendor_code"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.VendorCode == "" {
		writeError(w, r, "vendor_code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AssignSupplierVendor(r.Context(), id, body.VendorCode)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiListOpenAlerts handles GET /api/alerts.
func (h *Handler) apiListOpenAlerts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListOpenAlerts(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Alerts)
}
