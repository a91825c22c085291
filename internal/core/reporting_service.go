package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// LedgerLine is a single stock movement in a SKU's ledger. RunningBalance is
// the cumulative on-hand quantity after this movement (receipts and production
// inflows positive, issues and shipments negative).
type LedgerLine struct {
	MovementDate   string
	MovementType   MovementType
	WarehouseCode  string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	Notes          string
	RunningBalance decimal.Decimal
}

// StockValueLine is one SKU's position in the stock valuation report.
type StockValueLine struct {
	SKUCode    string
	SKUName    string
	SKUType    SKUType
	OnHand     decimal.Decimal
	UnitCost   decimal.Decimal
	TotalValue decimal.Decimal
}

// StockValueReport values all on-hand stock at current weighted-average cost.
type StockValueReport struct {
	Lines      []StockValueLine
	TotalValue decimal.Decimal
}

// SalesPerformanceLine aggregates fulfilled sales for one SKU in a period.
type SalesPerformanceLine struct {
	SKUCode    string
	SKUName    string
	QtySold    decimal.Decimal
	Revenue    decimal.Decimal
	OrderCount int
}

// SalesPerformanceReport summarizes fulfilled sales orders for one
// calendar period.
type SalesPerformanceReport struct {
	Year         int
	Month        int
	Lines        []SalesPerformanceLine
	TotalRevenue decimal.Decimal
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only reporting queries over stock and sales.
type ReportingService interface {
	// GetStockLedger returns a SKU's stock movements within the given date
	// range, oldest first, with a running on-hand balance. fromDate and toDate
	// are optional; pass empty string for no bound.
	GetStockLedger(ctx context.Context, skuCode, fromDate, toDate string) ([]LedgerLine, error)

	// GetStockValue values all on-hand stock at current weighted-average cost,
	// ordered by SKU code.
	GetStockValue(ctx context.Context) (*StockValueReport, error)

	// GetLowStockReport returns every item at or below its reorder point with
	// the suggested reorder quantity.
	GetLowStockReport(ctx context.Context) ([]LowStockItem, error)

	// GetSalesPerformance aggregates fulfilled sales orders for the given year
	// and month per SKU, ordered by revenue descending.
	GetSalesPerformance(ctx context.Context, year, month int) (*SalesPerformanceReport, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool, inventory InventoryService) ReportingService {
	return &reportingService{pool: pool, inventory: inventory}
}

func (s *reportingService) GetStockLedger(ctx context.Context, skuCode, fromDate, toDate string) ([]LedgerLine, error) {
	var skuID int
	if err := s.pool.QueryRow(ctx,
		"SELECT id FROM skus WHERE code = $1", skuCode,
	).Scan(&skuID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("SKU %s not found", skuCode)
		}
		return nil, fmt.Errorf("failed to resolve SKU: %w", err)
	}

	q := `
		SELECT m.movement_date::text, m.movement_type, w.code,
		       m.quantity, m.unit_cost, m.notes
		FROM stock_movements m
		JOIN inventory_items ii ON ii.id = m.inventory_item_id
		JOIN warehouses w       ON w.id  = ii.warehouse_id
		WHERE ii.sku_id = $1`

	args := []any{skuID}
	if fromDate != "" {
		args = append(args, fromDate)
		q += fmt.Sprintf(" AND m.movement_date >= $%d::date", len(args))
	}
	if toDate != "" {
		args = append(args, toDate)
		q += fmt.Sprintf(" AND m.movement_date <= $%d::date", len(args))
	}
	q += " ORDER BY m.movement_date ASC, m.id ASC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock ledger: %w", err)
	}
	defer rows.Close()

	var lines []LedgerLine
	running := decimal.Zero
	for rows.Next() {
		var ll LedgerLine
		if err := rows.Scan(
			&ll.MovementDate, &ll.MovementType, &ll.WarehouseCode,
			&ll.Quantity, &ll.UnitCost, &ll.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		running = running.Add(ll.Quantity)
		ll.RunningBalance = running
		lines = append(lines, ll)
	}
	return lines, rows.Err()
}

func (s *reportingService) GetStockValue(ctx context.Context) (*StockValueReport, error) {
	const q = `
		SELECT k.code, k.name, k.sku_type,
		       COALESCE(SUM(ii.qty_on_hand), 0) AS on_hand,
		       k.unit_cost
		FROM skus k
		LEFT JOIN inventory_items ii ON ii.sku_id = k.id
		WHERE k.is_active = true
		GROUP BY k.id, k.code, k.name, k.sku_type, k.unit_cost
		HAVING COALESCE(SUM(ii.qty_on_hand), 0) > 0
		ORDER BY k.code`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock value: %w", err)
	}
	defer rows.Close()

	report := &StockValueReport{}
	for rows.Next() {
		var l StockValueLine
		if err := rows.Scan(&l.SKUCode, &l.SKUName, &l.SKUType, &l.OnHand, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("failed to scan stock value line: %w", err)
		}
		l.TotalValue = l.OnHand.Mul(l.UnitCost)
		report.Lines = append(report.Lines, l)
		report.TotalValue = report.TotalValue.Add(l.TotalValue)
	}
	return report, rows.Err()
}

func (s *reportingService) GetLowStockReport(ctx context.Context) ([]LowStockItem, error) {
	return s.inventory.LowStock(ctx)
}

func (s *reportingService) GetSalesPerformance(ctx context.Context, year, month int) (*SalesPerformanceReport, error) {
	const q = `
		SELECT COALESCE(k.code, ''), COALESCE(k.name, ''),
		       SUM(i.quantity) AS qty_sold,
		       SUM(i.quantity * i.unit_price) AS revenue,
		       COUNT(DISTINCT o.id) AS order_count
		FROM sales_order_items i
		JOIN sales_orders o ON o.id = i.sales_order_id
		LEFT JOIN skus k    ON k.id = i.sku_id
		WHERE o.status = $1
		  AND EXTRACT(YEAR  FROM o.fulfilled_at)::int = $2
		  AND EXTRACT(MONTH FROM o.fulfilled_at)::int = $3
		GROUP BY k.code, k.name
		ORDER BY revenue DESC`

	rows, err := s.pool.Query(ctx, q, SalesFulfilled, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales performance: %w", err)
	}
	defer rows.Close()

	report := &SalesPerformanceReport{Year: year, Month: month}
	for rows.Next() {
		var l SalesPerformanceLine
		if err := rows.Scan(&l.SKUCode, &l.SKUName, &l.QtySold, &l.Revenue, &l.OrderCount); err != nil {
			return nil, fmt.Errorf("failed to scan sales performance line: %w", err)
		}
		if l.SKUName == "" {
			l.SKUName = UnknownItemName
		}
		report.Lines = append(report.Lines, l)
		report.TotalRevenue = report.TotalRevenue.Add(l.Revenue)
	}
	return report, rows.Err()
}
