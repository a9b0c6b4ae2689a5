package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/bodega/internal/domain/entity"
)

// ExportInventory escribe en w la planilla con el inventario ordenado por ubicación y el resumen.
func (l *Ledger) ExportInventory(ctx context.Context, user string, w io.Writer, exporter SpreadsheetExporter) error {
	if exporter == nil {
		return errors.New("exportar inventario: exportador no configurado")
	}
	rows, err := l.ListInventory(ctx)
	if err != nil {
		return err
	}
	summary, err := l.Reports(ctx)
	if err != nil {
		return err
	}
	if err := exporter.ExportInventory(ctx, w, rows, summary); err != nil {
		return fmt.Errorf("exportar inventario: %w", err)
	}
	return l.record(ctx, user, entity.ActionExportInventory, fmt.Sprintf("Inventario exportado (%d lotes)", len(rows)))
}
