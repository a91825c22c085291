package web

import (
	"net/http"

	"partsdesk/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiStockLevels handles GET /api/stock.
func (h *Handler) apiStockLevels(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStockLevels(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Levels)
}

// apiReceiveStock handles POST /api/stock/receive.
// Body: { sku_code, warehouse_code?, movement_date?, qty, unit_cost }
func (h *Handler) apiReceiveStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKUCode       string `json:"sku_code"`
		WarehouseCode string `json:"warehouse_code"`
		MovementDate  string `json:"movement_date"`
		Qty           string `json:"qty"`
		UnitCost      string `json:"unit_cost"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	qty, ok := parseDecimal(w, r, "qty", body.Qty)
	if !ok {
		return
	}
	unitCost, ok := parseDecimal(w, r, "unit_cost", body.UnitCost)
	if !ok {
		return
	}

	err := h.svc.ReceiveStock(r.Context(), app.ReceiveStockRequest{
		SKUCode:       body.SKUCode,
		WarehouseCode: body.WarehouseCode,
		MovementDate:  body.MovementDate,
		Qty:           qty,
		UnitCost:      unitCost,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// apiAdjustStock handles POST /api/stock/adjust.
// Body: { sku_code, warehouse_code?, delta, notes? }
func (h *Handler) apiAdjustStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKUCode       string `json:"sku_code"`
		WarehouseCode string `json:"warehouse_code"`
		Delta         string `json:"delta"`
		Notes         string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	delta, ok := parseDecimal(w, r, "delta", body.Delta)
	if !ok {
		return
	}

	err := h.svc.AdjustStock(r.Context(), app.AdjustStockRequest{
		SKUCode:       body.SKUCode,
		WarehouseCode: body.WarehouseCode,
		Delta:         delta,
		Notes:         body.Notes,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// apiSetReorderLevels handles POST /api/stock/reorder-levels.
// Body: { sku_code, warehouse_code?, reorder_point, reorder_qty }
func (h *Handler) apiSetReorderLevels(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKUCode       string `json:"sku_code"`
		WarehouseCode string `json:"warehouse_code"`
		ReorderPoint  string `json:"reorder_point"`
		ReorderQty    string `json:"reorder_qty"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	reorderPoint, ok := parseDecimal(w, r, "reorder_point", body.ReorderPoint)
	if !ok {
		return
	}
	reorderQty, ok := parseDecimal(w, r, "reorder_qty", body.ReorderQty)
	if !ok {
		return
	}

	err := h.svc.SetReorderLevels(r.Context(), app.SetReorderLevelsRequest{
		SKUCode:       body.SKUCode,
		WarehouseCode: body.WarehouseCode,
		ReorderPoint:  reorderPoint,
		ReorderQty:    reorderQty,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// apiLowStock handles GET /api/stock/low.
func (h *Handler) apiLowStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetLowStock(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Items)
}

// apiReorderLowStock handles POST /api/stock/reorder.
// Body: { warehouse_code? }
func (h *Handler) apiReorderLowStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WarehouseCode string `json:"warehouse_code"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.ReorderLowStock(r.Context(), body.WarehouseCode)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Orders)
}

// apiStockLedger handles GET /api/stock/ledger/{sku}?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) apiStockLedger(w http.ResponseWriter, r *http.Request) {
	skuCode := chi.URLParam(r, "sku")
	result, err := h.svc.GetStockLedger(r.Context(), skuCode,
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Lines)
}
