package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido en construcción.
const (
	OrderStatusInProgress = "En proceso"
	OrderStatusCompleted  = "Completado"
	OrderStatusCancelled  = "Cancelado"
)

// Order pedido efímero: no se persiste, su efecto queda en los movimientos de los lotes.
type Order struct {
	Number    string
	CreatedAt time.Time
	User      string
	Items     []OrderLine
	Status    string
}

// OrderLine instantánea del lote tomada al seleccionarlo; no se actualiza si el catálogo cambia.
type OrderLine struct {
	Code        string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	Lot         string
	Location    string
}

// Key clave (código, lote) con la que la línea se resuelve al confirmar.
func (l OrderLine) Key() LotKey {
	return LotKey{Code: l.Code, Lot: l.Lot}
}
