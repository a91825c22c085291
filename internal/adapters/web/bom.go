package web

import (
	"net/http"
	"strconv"

	"partsdesk/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// apiListBOMTemplates handles GET /api/bom-templates.
func (h *Handler) apiListBOMTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListBOMTemplates(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Templates)
}

// apiGetBOMTemplate handles GET /api/bom-templates/{id}.
func (h *Handler) apiGetBOMTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid template id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	template, err := h.svc.GetBOMTemplate(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, template)
}

// apiCreateBOMTemplate handles POST /api/bom-templates.
// Body: { kit_sku_code, labor_cost?, overhead_cost?, notes?,
//
//	components: [{ sku_code, quantity, unit_cost?, is_critical? }] }
func (h *Handler) apiCreateBOMTemplate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		KitSKUCode   string `json:"kit_sku_code"`
		LaborCost    string `json:"labor_cost"`
		OverheadCost string `json:"overhead_cost"`
		Notes        string `json:"notes"`
		Components   []struct {
			SKUCode    string `json:"sku_code"`
			Quantity   string `json:"quantity"`
			UnitCost   string `json:"unit_cost"`
			IsCritical bool   `json:"is_critical"`
		} `json:"components"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.KitSKUCode == "" {
		writeError(w, r, "kit_sku_code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	laborCost, ok := parseOptionalDecimal(w, r, "labor_cost", body.LaborCost)
	if !ok {
		return
	}
	overheadCost, ok := parseOptionalDecimal(w, r, "overhead_cost", body.OverheadCost)
	if !ok {
		return
	}

	components := make([]app.BOMComponentRequest, len(body.Components))
	for i, c := range body.Components {
		qty, ok := parseDecimal(w, r, "quantity", c.Quantity)
		if !ok {
			return
		}
		unitCost, ok := parseOptionalDecimal(w, r, "unit_cost", c.UnitCost)
		if !ok {
			return
		}
		components[i] = app.BOMComponentRequest{
			SKUCode:    c.SKUCode,
			Quantity:   qty,
			UnitCost:   unitCost,
			IsCritical: c.IsCritical,
		}
	}

	template, err := h.svc.CreateBOMTemplate(r.Context(), app.CreateBOMTemplateRequest{
		KitSKUCode:   body.KitSKUCode,
		LaborCost:    laborCost,
		OverheadCost: overheadCost,
		Notes:        body.Notes,
		Components:   components,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, template)
}

// apiDeactivateBOMTemplate handles POST /api/bom-templates/{id}/deactivate.
func (h *Handler) apiDeactivateBOMTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid template id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeactivateBOMTemplate(r.Context(), id); err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// apiCheckBuildability handles GET /api/kits/{code}/buildability?qty=N.
func (h *Handler) apiCheckBuildability(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	qtyParam := r.URL.Query().Get("qty")
	if qtyParam == "" {
		qtyParam = "1"
	}
	qty, err := decimal.NewFromString(qtyParam)
	if err != nil || !qty.IsPositive() {
		writeError(w, r, "qty must be a positive number", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CheckBuildability(r.Context(), code, qty)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}
