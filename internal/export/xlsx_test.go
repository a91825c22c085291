package export_test

import (
	"bytes"
	"testing"

	"partsdesk/internal/core"
	"partsdesk/internal/export"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReportBook(t *testing.T) {
	book := export.NewReportBook()

	err := book.AddStockValueSheet(&core.StockValueReport{
		Lines: []core.StockValueLine{
			{SKUCode: "BRK-PAD", SKUName: "Brake Pad Set", SKUType: core.SKUSingle,
				OnHand: d("10"), UnitCost: d("42.50"), TotalValue: d("425.00")},
			{SKUCode: "BRAKE-KIT", SKUName: "Front Brake Kit", SKUType: core.SKUKit,
				OnHand: d("3"), UnitCost: d("233.60"), TotalValue: d("700.80")},
		},
		TotalValue: d("1125.80"),
	})
	if err != nil {
		t.Fatalf("AddStockValueSheet: %v", err)
	}

	err = book.AddLowStockSheet([]core.LowStockItem{
		{SKUCode: "BRK-FLUID", SKUName: "Brake Fluid DOT4 1L", WarehouseCode: "MAIN",
			Available: d("4"), ReorderPoint: d("24"), SuggestedQty: d("48")},
	})
	if err != nil {
		t.Fatalf("AddLowStockSheet: %v", err)
	}

	err = book.AddSalesPerformanceSheet(&core.SalesPerformanceReport{
		Year: 2026, Month: 8,
		Lines: []core.SalesPerformanceLine{
			{SKUCode: "BRAKE-KIT", SKUName: "Front Brake Kit",
				QtySold: d("2"), Revenue: d("860.00"), OrderCount: 1},
		},
		TotalRevenue: d("860.00"),
	})
	if err != nil {
		t.Fatalf("AddSalesPerformanceSheet: %v", err)
	}

	var buf bytes.Buffer
	if _, err := book.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	wantSheets := []string{"Stock Value", "Low Stock", "Sales 2026-08"}
	got := f.GetSheetList()
	if len(got) != len(wantSheets) {
		t.Fatalf("sheets = %v, want %v", got, wantSheets)
	}
	for _, s := range wantSheets {
		if idx, _ := f.GetSheetIndex(s); idx < 0 {
			t.Errorf("missing sheet %q", s)
		}
	}

	cell, err := f.GetCellValue("Stock Value", "A2")
	if err != nil || cell != "BRK-PAD" {
		t.Errorf("Stock Value A2 = %q (err %v), want BRK-PAD", cell, err)
	}
	cell, _ = f.GetCellValue("Stock Value", "F4")
	if cell != "1125.8" {
		t.Errorf("Stock Value total = %q, want 1125.8", cell)
	}
	cell, _ = f.GetCellValue("Low Stock", "D2")
	if cell != "4" {
		t.Errorf("Low Stock available = %q, want 4", cell)
	}
	cell, _ = f.GetCellValue("Sales 2026-08", "D3")
	if cell != "860" {
		t.Errorf("Sales total = %q, want 860", cell)
	}
}

func TestReportBookEmptyReports(t *testing.T) {
	book := export.NewReportBook()
	if err := book.AddStockValueSheet(&core.StockValueReport{}); err != nil {
		t.Fatalf("AddStockValueSheet: %v", err)
	}
	if err := book.AddLowStockSheet(nil); err != nil {
		t.Fatalf("AddLowStockSheet: %v", err)
	}

	var buf bytes.Buffer
	if _, err := book.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	// Header row still present, total row directly under it.
	cell, _ := f.GetCellValue("Stock Value", "E2")
	if cell != "Total" {
		t.Errorf("empty stock value sheet total label = %q, want Total", cell)
	}
}
