package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineDTO línea de pedido tal como se tomó al seleccionar el lote.
type OrderLineDTO struct {
	Code        string          `json:"codigo"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Unit        string          `json:"unidad"`
	Lot         string          `json:"lote"`
	Location    string          `json:"ubicacion"`
}

// OrderSummary vista del pedido en curso o cerrado.
type OrderSummary struct {
	Number    string         `json:"numero"`
	CreatedAt time.Time      `json:"fecha"`
	User      string         `json:"usuario"`
	Status    string         `json:"estado"`
	Items     []OrderLineDTO `json:"items"`
}

// CommitResult resultado de confirmar un pedido.
type CommitResult struct {
	Order       OrderSummary `json:"pedido"`
	Committed   bool         `json:"procesado"` // false si el pedido estaba vacío
	VoucherPath string       `json:"comprobante,omitempty"`
}
