package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveLotRequest especificación completa de un lote a ingresar (ya validada por la capa de entrada).
type ReceiveLotRequest struct {
	Code            string          `json:"codigo" validate:"required,max=100"`
	Description     string          `json:"descripcion" validate:"required,max=200"`
	Unit            string          `json:"unidad" validate:"omitempty,oneof=unidad ml gr"`
	Brand           string          `json:"marca"`
	Supplier        string          `json:"proveedor"`
	Quantity        decimal.Decimal `json:"cantidad" validate:"gte=0"`
	Lot             string          `json:"lote" validate:"required,max=100"`
	Location        string          `json:"ubicacion"`
	ManufactureDate string          `json:"fecha_elaboracion" validate:"omitempty,calendardate"`
	ExpiryDate      string          `json:"fecha_vencimiento" validate:"omitempty,calendardate"`
	MinimumStock    decimal.Decimal `json:"stock_minimo" validate:"gte=0"`
	DispatchNote    string          `json:"guia_despacho"`
	Status          string          `json:"estado" validate:"omitempty,oneof='Conforme' 'Conforme c/Obs' 'Rechazo'"`
	Observations    string          `json:"observaciones"`
	Hazard          string          `json:"peligrosidad"`
	Temperature     string          `json:"temperatura"`
}

// InventoryRow fila del listado de inventario con su clasificación de stock.
type InventoryRow struct {
	Code         string          `json:"codigo"`
	Description  string          `json:"descripcion"`
	Quantity     decimal.Decimal `json:"cantidad"`
	Unit         string          `json:"unidad"`
	Location     string          `json:"ubicacion"`
	Lot          string          `json:"lote"`
	ExpiryDate   string          `json:"fecha_vencimiento"`
	MinimumStock decimal.Decimal `json:"stock_minimo"`
	Supplier     string          `json:"proveedor"`
	Health       string          `json:"estado_stock"` // critico | atencion | normal
}

// CriticalRow lote con cantidad <= stock mínimo.
type CriticalRow struct {
	Code         string          `json:"codigo"`
	Description  string          `json:"descripcion"`
	Lot          string          `json:"lote"`
	Quantity     decimal.Decimal `json:"cantidad"`
	MinimumStock decimal.Decimal `json:"stock_minimo"`
	Difference   decimal.Decimal `json:"diferencia"` // cantidad - mínimo (<= 0)
	Unit         string          `json:"unidad"`
	Location     string          `json:"ubicacion"`
}

// ExpiryRow lote que vence dentro de la ventana de alerta (o ya vencido).
type ExpiryRow struct {
	Code          string          `json:"codigo"`
	Description   string          `json:"descripcion"`
	Lot           string          `json:"lote"`
	ExpiryDate    string          `json:"fecha_vencimiento"`
	DaysRemaining int             `json:"dias_restantes"`
	Expired       bool            `json:"vencido"`
	Quantity      decimal.Decimal `json:"cantidad"`
	Unit          string          `json:"unidad"`
	Location      string          `json:"ubicacion"`
}

// PendingReceptionRow lote ingresado que aún no fue verificado como recibido.
type PendingReceptionRow struct {
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
	Lot         string `json:"lote"`
	Supplier    string `json:"proveedor"`
	Status      string `json:"estado"`
}

// UnitTotal suma de cantidades de una unidad de medida.
type UnitTotal struct {
	Unit     string          `json:"unidad"`
	Quantity decimal.Decimal `json:"cantidad"`
}

// ReportSummary resumen consolidado del inventario.
// TotalUnits suma cantidades de todas las unidades sin convertir (simplificación intencional).
type ReportSummary struct {
	TotalSKUs        int             `json:"total_skus"`
	TotalUnits       decimal.Decimal `json:"total_unidades"`
	CriticalCount    int             `json:"criticos"`
	NearExpiryCount  int             `json:"por_vencer"`
	UnitDistribution []UnitTotal     `json:"distribucion_unidades"`
	Healthy          bool            `json:"saludable"`
	GeneratedAt      time.Time       `json:"generado"`
}
