package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"partsdesk/internal/app"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the ApplicationService, the chi router, and the pending
// restock proposal store.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	pending   *pendingStore
	jwtSecret string
	logger    *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, logger *zap.Logger, allowedOrigins []string, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		pending:   newPendingStore(),
		jwtSecret: jwtSecret,
		logger:    logger,
	}

	h.pending.startPurge(context.Background())

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// ── Catalog ───────────────────────────────────────────────────────────
		r.Get("/api/skus", h.apiListSKUs)
		r.Post("/api/skus", h.apiCreateSKU)
		r.Get("/api/vendors", h.apiListVendors)
		r.Post("/api/vendors", h.apiCreateVendor)
		r.Get("/api/warehouses", h.apiListWarehouses)

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Get("/api/stock", h.apiStockLevels)
		r.Post("/api/stock/receive", h.apiReceiveStock)
		r.Post("/api/stock/adjust", h.apiAdjustStock)
		r.Post("/api/stock/reorder-levels", h.apiSetReorderLevels)
		r.Get("/api/stock/low", h.apiLowStock)
		r.Post("/api/stock/reorder", h.apiReorderLowStock)
		r.Get("/api/stock/ledger/{sku}", h.apiStockLedger)

		// ── Bill of materials ─────────────────────────────────────────────────
		r.Get("/api/bom-templates", h.apiListBOMTemplates)
		r.Post("/api/bom-templates", h.apiCreateBOMTemplate)
		r.Get("/api/bom-templates/{id}", h.apiGetBOMTemplate)
		r.Post("/api/bom-templates/{id}/deactivate", h.apiDeactivateBOMTemplate)
		r.Get("/api/kits/{code}/buildability", h.apiCheckBuildability)

		// ── Purchase orders ───────────────────────────────────────────────────
		r.Get("/api/purchase-orders", h.apiListPurchaseOrders)
		r.Post("/api/purchase-orders", h.apiCreatePurchaseOrder)
		r.Get("/api/purchase-orders/{ref}", h.apiGetPurchaseOrder)
		r.Post("/api/purchase-orders/{ref}/order", h.apiMarkPOOrdered)
		r.Post("/api/purchase-orders/{ref}/receive", h.apiReceivePO)
		r.Post("/api/purchase-orders/{ref}/cancel", h.apiCancelPO)

		// ── Production ────────────────────────────────────────────────────────
		r.Post("/api/production-orders/plan", h.apiPlanKitBuild)
		r.Get("/api/production-orders", h.apiListProductionOrders)
		r.Get("/api/production-orders/{ref}", h.apiGetProductionOrder)
		r.Post("/api/production-orders/{ref}/start", h.apiStartProduction)
		r.Post("/api/production-orders/{ref}/complete", h.apiCompleteProduction)
		r.Post("/api/production-orders/{ref}/hold", h.apiHoldProduction)
		r.Post("/api/production-orders/{ref}/resume", h.apiResumeProduction)
		r.Post("/api/production-orders/{ref}/cancel", h.apiCancelProduction)

		// ── Sales orders ──────────────────────────────────────────────────────
		r.Get("/api/sales-orders", h.apiListSalesOrders)
		r.Post("/api/sales-orders", h.apiCreateSalesOrder)
		r.Get("/api/sales-orders/{ref}", h.apiGetSalesOrder)
		r.Post("/api/sales-orders/{ref}/fulfill", h.apiFulfillSalesOrder)
		r.Post("/api/sales-orders/{ref}/cancel", h.apiCancelSalesOrder)
		r.Post("/api/sales-orders/{ref}/payment", h.apiRecordSalesPayment)

		// ── Supplier order workflow ───────────────────────────────────────────
		r.Get("/api/supplier-orders", h.apiListSupplierOrders)
		r.Post("/api/supplier-orders", h.apiCreateSupplierOrder)
		r.Post("/api/supplier-orders/{id}/pause", h.apiPauseSupplierOrder)
		r.Post("/api/supplier-orders/{id}/resume", h.apiResumeSupplierOrder)
		r.Post("/api/supplier-orders/{id}/assign-vendor", h.apiAssignSupplierVendor)
		r.Get("/api/alerts", h.apiListOpenAlerts)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/stock-value", h.apiStockValue)
		r.Get("/api/reports/sales-performance", h.apiSalesPerformance)
		r.Get("/api/reports/export", h.apiExportReports)

		// ── Restock assistant ─────────────────────────────────────────────────
		r.Post("/api/assistant/interpret", h.apiInterpretRestock)
		r.Post("/api/assistant/confirm", h.apiConfirmRestock)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
