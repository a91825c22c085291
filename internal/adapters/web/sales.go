package web

import (
	"net/http"

	"partsdesk/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiListSalesOrders handles GET /api/sales-orders?status=PENDING.
func (h *Handler) apiListSalesOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSalesOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Orders)
}

// apiGetSalesOrder handles GET /api/sales-orders/{ref}.
func (h *Handler) apiGetSalesOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSalesOrder(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Order)
}

// apiCreateSalesOrder handles POST /api/sales-orders.
// Body: { customer_name, customer_email?, customer_phone?, notes?,
//
//	lines: [{ sku_code, quantity, unit_price? }] }
func (h *Handler) apiCreateSalesOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email"`
		CustomerPhone string `json:"customer_phone"`
		Notes         string `json:"notes"`
		Lines         []struct {
			SKUCode   string `json:"sku_code"`
			Quantity  string `json:"quantity"`
			UnitPrice string `json:"unit_price"`
		} `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.CustomerName == "" {
		writeError(w, r, "customer_name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(body.Lines) == 0 {
		writeError(w, r, "at least one line is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	lines := make([]app.SalesLineRequest, len(body.Lines))
	for i, l := range body.Lines {
		qty, ok := parseDecimal(w, r, "quantity", l.Quantity)
		if !ok {
			return
		}
		unitPrice, ok := parseOptionalDecimal(w, r, "unit_price", l.UnitPrice)
		if !ok {
			return
		}
		lines[i] = app.SalesLineRequest{SKUCode: l.SKUCode, Quantity: qty, UnitPrice: unitPrice}
	}

	result, err := h.svc.CreateSalesOrder(r.Context(), app.CreateSalesOrderRequest{
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerPhone: body.CustomerPhone,
		Notes:         body.Notes,
		Lines:         lines,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// apiFulfillSalesOrder handles POST /api/sales-orders/{ref}/fulfill.
// Body: { warehouse_code? }
func (h *Handler) apiFulfillSalesOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WarehouseCode string `json:"warehouse_code"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.FulfillSalesOrder(r.Context(), chi.URLParam(r, "ref"), body.WarehouseCode)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiCancelSalesOrder handles POST /api/sales-orders/{ref}/cancel.
func (h *Handler) apiCancelSalesOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CancelSalesOrder(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiRecordSalesPayment handles POST /api/sales-orders/{ref}/payment.
// Body: { payment_status } — UNPAID, PARTIAL or PAID.
func (h *Handler) apiRecordSalesPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentStatus string `json:"payment_status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.RecordSalesPayment(r.Context(), chi.URLParam(r, "ref"), body.PaymentStatus)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}
