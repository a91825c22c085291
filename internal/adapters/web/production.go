package web

import (
	"net/http"

	"partsdesk/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiPlanKitBuild handles POST /api/production-orders/plan.
// Body: { kit_sku_code, quantity, warehouse_code?, sales_order_ref?, notes? }
// Returns the production order plus any replenishment POs drafted for
// component shortfalls.
func (h *Handler) apiPlanKitBuild(w http.ResponseWriter, r *http.Request) {
	var body struct {
		KitSKUCode    string `json:"kit_sku_code"`
		Quantity      string `json:"quantity"`
		WarehouseCode string `json:"warehouse_code"`
		SalesOrderRef string `json:"sales_order_ref"`
		Notes         string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.KitSKUCode == "" {
		writeError(w, r, "kit_sku_code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	qty, ok := parseDecimal(w, r, "quantity", body.Quantity)
	if !ok {
		return
	}

	result, err := h.svc.PlanKitBuild(r.Context(), app.PlanKitBuildRequest{
		KitSKUCode:    body.KitSKUCode,
		Quantity:      qty,
		WarehouseCode: body.WarehouseCode,
		SalesOrderRef: body.SalesOrderRef,
		Notes:         body.Notes,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Plan)
}

// apiListProductionOrders handles GET /api/production-orders?status=PLANNED.
func (h *Handler) apiListProductionOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProductionOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Orders)
}

// apiGetProductionOrder handles GET /api/production-orders/{ref}.
func (h *Handler) apiGetProductionOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetProductionOrder(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Order)
}

// apiStartProduction handles POST /api/production-orders/{ref}/start.
func (h *Handler) apiStartProduction(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.StartProduction(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiCompleteProduction handles POST /api/production-orders/{ref}/complete.
// Body: { qty_completed } — may be less than planned for scrapped builds.
func (h *Handler) apiCompleteProduction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		QtyCompleted string `json:"qty_completed"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	qty, ok := parseDecimal(w, r, "qty_completed", body.QtyCompleted)
	if !ok {
		return
	}

	result, err := h.svc.CompleteProduction(r.Context(), chi.URLParam(r, "ref"), qty)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiHoldProduction handles POST /api/production-orders/{ref}/hold.
// Body: { reason }
func (h *Handler) apiHoldProduction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.HoldProduction(r.Context(), chi.URLParam(r, "ref"), body.Reason)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiResumeProduction handles POST /api/production-orders/{ref}/resume.
func (h *Handler) apiResumeProduction(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ResumeProduction(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}

// apiCancelProduction handles POST /api/production-orders/{ref}/cancel.
func (h *Handler) apiCancelProduction(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CancelProduction(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Order)
}
