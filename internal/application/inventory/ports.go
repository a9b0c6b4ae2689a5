package inventory

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/bodega/internal/application/dto"
)

// Clock fuente de la hora actual; inyectable para tests.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// AuditTrail registra acciones que cambian estado. Lo implementa audit.AuditLog.
type AuditTrail interface {
	Record(ctx context.Context, user, action, description string) error
}

// VoucherGenerator genera el comprobante de salida de un pedido confirmado.
type VoucherGenerator interface {
	GenerateOrderVoucher(ctx context.Context, order dto.OrderSummary) ([]byte, error)
}

// SpreadsheetExporter escribe el inventario y su resumen como planilla.
type SpreadsheetExporter interface {
	ExportInventory(ctx context.Context, w io.Writer, rows []dto.InventoryRow, summary dto.ReportSummary) error
}
