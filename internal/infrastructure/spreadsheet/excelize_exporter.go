// Package spreadsheet exporta el inventario como planilla .xlsx.
package spreadsheet

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/bodega/internal/application/dto"
)

const (
	SheetInventory = "Inventario"
	SheetSummary   = "Resumen"
)

var inventoryHeader = []interface{}{
	"Código", "Descripción", "Cantidad", "Unidad", "Ubicación", "Lote",
	"Vencimiento", "Stock mínimo", "Proveedor", "Estado",
}

// ExcelizeExporter implementa inventory.SpreadsheetExporter.
type ExcelizeExporter struct{}

// NewExcelizeExporter construye el exportador.
func NewExcelizeExporter() *ExcelizeExporter { return &ExcelizeExporter{} }

// ExportInventory escribe un libro con la hoja Inventario (una fila por lote) y la hoja Resumen.
func (e *ExcelizeExporter) ExportInventory(ctx context.Context, w io.Writer, rows []dto.InventoryRow, summary dto.ReportSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInventory); err != nil {
		return fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := writeInventory(f, rows); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("xlsx: crear hoja resumen: %w", err)
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return nil
}

func writeInventory(f *excelize.File, rows []dto.InventoryRow) error {
	if err := f.SetSheetRow(SheetInventory, "A1", &inventoryHeader); err != nil {
		return fmt.Errorf("xlsx: encabezado: %w", err)
	}
	if err := boldRow(f, SheetInventory, 1, len(inventoryHeader)); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Code, r.Description, r.Quantity.InexactFloat64(), r.Unit, r.Location, r.Lot,
			r.ExpiryDate, r.MinimumStock.InexactFloat64(), r.Supplier, r.Health,
		}
		if err := f.SetSheetRow(SheetInventory, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetInventory, "A", "A", 14); err != nil {
		return err
	}
	return f.SetColWidth(SheetInventory, "B", "B", 36)
}

func writeSummary(f *excelize.File, s dto.ReportSummary) error {
	healthy := "Sí"
	if !s.Healthy {
		healthy = "No"
	}
	pairs := [][2]interface{}{
		{"Generado", s.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total de lotes", s.TotalSKUs},
		{"Total de unidades", s.TotalUnits.InexactFloat64()},
		{"Lotes críticos", s.CriticalCount},
		{"Lotes por vencer", s.NearExpiryCount},
		{"Inventario saludable", healthy},
	}
	for i, p := range pairs {
		if err := setPair(f, i+1, p[0], p[1]); err != nil {
			return err
		}
	}
	next := len(pairs) + 2
	if err := setPair(f, next, "Unidad", "Cantidad"); err != nil {
		return err
	}
	if err := boldRow(f, SheetSummary, next, 2); err != nil {
		return err
	}
	for i, u := range s.UnitDistribution {
		if err := setPair(f, next+1+i, u.Unit, u.Quantity.InexactFloat64()); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 24)
}

func setPair(f *excelize.File, row int, label, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetSummary, cell, label); err != nil {
		return err
	}
	cell, err = excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetSummary, cell, value)
}

func boldRow(f *excelize.File, sheet string, row, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
