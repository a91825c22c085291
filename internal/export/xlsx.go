package export

import (
	"fmt"
	"io"

	"partsdesk/internal/core"

	"github.com/xuri/excelize/v2"
)

// ReportBook renders reports into a spreadsheet, one sheet per report.
type ReportBook struct {
	file *excelize.File
}

func NewReportBook() *ReportBook {
	return &ReportBook{file: excelize.NewFile()}
}

// AddStockValueSheet writes the stock valuation report.
func (b *ReportBook) AddStockValueSheet(report *core.StockValueReport) error {
	const sheet = "Stock Value"
	if _, err := b.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"SKU", "Name", "Type", "On Hand", "Unit Cost", "Total Value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := b.file.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, l := range report.Lines {
		values := []any{l.SKUCode, l.SKUName, string(l.SKUType),
			l.OnHand.InexactFloat64(), l.UnitCost.InexactFloat64(), l.TotalValue.InexactFloat64()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := b.file.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	totalRow := len(report.Lines) + 2
	cell, _ := excelize.CoordinatesToCellName(5, totalRow)
	_ = b.file.SetCellValue(sheet, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(6, totalRow)
	_ = b.file.SetCellValue(sheet, cell, report.TotalValue.InexactFloat64())
	return nil
}

// AddLowStockSheet writes the low stock report with suggested reorder
// quantities.
func (b *ReportBook) AddLowStockSheet(items []core.LowStockItem) error {
	const sheet = "Low Stock"
	if _, err := b.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"SKU", "Name", "Warehouse", "Available", "Reorder Point", "Suggested Qty"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := b.file.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, it := range items {
		values := []any{it.SKUCode, it.SKUName, it.WarehouseCode,
			it.Available.InexactFloat64(), it.ReorderPoint.InexactFloat64(), it.SuggestedQty.InexactFloat64()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := b.file.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}
	return nil
}

// AddSalesPerformanceSheet writes the monthly sales performance report.
func (b *ReportBook) AddSalesPerformanceSheet(report *core.SalesPerformanceReport) error {
	sheet := fmt.Sprintf("Sales %d-%02d", report.Year, report.Month)
	if _, err := b.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"SKU", "Name", "Qty Sold", "Revenue", "Orders"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := b.file.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, l := range report.Lines {
		values := []any{l.SKUCode, l.SKUName, l.QtySold.InexactFloat64(),
			l.Revenue.InexactFloat64(), l.OrderCount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := b.file.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	totalRow := len(report.Lines) + 2
	cell, _ := excelize.CoordinatesToCellName(3, totalRow)
	_ = b.file.SetCellValue(sheet, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(4, totalRow)
	_ = b.file.SetCellValue(sheet, cell, report.TotalRevenue.InexactFloat64())
	return nil
}

// WriteTo streams the workbook, dropping the default empty sheet first.
func (b *ReportBook) WriteTo(w io.Writer) (int64, error) {
	// excelize seeds every file with "Sheet1"; remove it if any real sheet
	// was added.
	if len(b.file.GetSheetList()) > 1 {
		_ = b.file.DeleteSheet("Sheet1")
	}
	return b.file.WriteTo(w)
}
