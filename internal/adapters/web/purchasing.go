package web

import (
	"net/http"

	"partsdesk/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiListPurchaseOrders handles GET /api/purchase-orders?status=PENDING.
func (h *Handler) apiListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPurchaseOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Orders)
}

// apiGetPurchaseOrder handles GET /api/purchase-orders/{ref}.
func (h *Handler) apiGetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetPurchaseOrder(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Order)
}

// apiCreatePurchaseOrder handles POST /api/purchase-orders.
// Body: { vendor_code, warehouse_code?, expected_date?, notes?,
//
//	lines: [{ sku_code, quantity, unit_cost? }] }
func (h *Handler) apiCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VendorCode    string `json:"vendor_code"`
		WarehouseCode string `json:"warehouse_code"`
		ExpectedDate  string `json:"expected_date"`
		Notes         string `json:"notes"`
		Lines         []struct {
			SKUCode  string `json:"sku_code"`
			Quantity string `json:"quantity"`
			UnitCost string `json:"unit_cost"`
		} `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.VendorCode == "" {
		writeError(w, r, "vendor_code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(body.Lines) == 0 {
		writeError(w, r, "at least one line is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	lines := make([]app.POLineRequest, len(body.Lines))
	for i, l := range body.Lines {
		qty, ok := parseDecimal(w, r, "quantity", l.Quantity)
		if !ok {
			return
		}
		unitCost, ok := parseOptionalDecimal(w, r, "unit_cost", l.UnitCost)
		if !ok {
			return
		}
		lines[i] = app.POLineRequest{SKUCode: l.SKUCode, Quantity: qty, UnitCost: unitCost}
	}

	result, err := h.svc.CreatePurchaseOrder(r.Context(), app.CreatePurchaseOrderRequest{
		VendorCode:    body.VendorCode,
		WarehouseCode: body.WarehouseCode,
		ExpectedDate:  body.ExpectedDate,
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

// apiMarkPOOrdered handles POST /api/purchase-orders/{ref}/order.
func (h *Handler) apiMarkPOOrdered(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.MarkPOOrdered(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiReceivePO handles POST /api/purchase-orders/{ref}/receive.
// Body: { lines: [{ po_item_id, qty_received }] }. Lines may be a subset;
// partial receipts keep the order ORDERED.
func (h *Handler) apiReceivePO(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lines []struct {
			POItemID    int    `json:"po_item_id"`
			QtyReceived string `json:"qty_received"`
		} `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.Lines) == 0 {
		writeError(w, r, "at least one line is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	lines := make([]app.ReceivedLineRequest, len(body.Lines))
	for i, l := range body.Lines {
		qty, ok := parseDecimal(w, r, "qty_received", l.QtyReceived)
		if !ok {
			return
		}
		lines[i] = app.ReceivedLineRequest{POItemID: l.POItemID, QtyReceived: qty}
	}

	result, err := h.svc.ReceivePurchaseOrder(r.Context(), app.ReceivePORequest{
		Ref:   chi.URLParam(r, "ref"),
		Lines: lines,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiCancelPO handles POST /api/purchase-orders/{ref}/cancel.
func (h *Handler) apiCancelPO(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CancelPurchaseOrder(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}
