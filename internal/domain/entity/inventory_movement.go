package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento sobre un lote.
const (
	MovementTypeOrderExit    = "Salida pedido" // salida por pedido confirmado
	MovementTypeManualEgress = "Egreso"        // egreso manual con motivo
)

// Movement registro inmutable de un cambio de cantidad aplicado a un lote.
// Reference es el número de pedido (salida pedido) o el motivo (egreso).
type Movement struct {
	ID        string
	Type      string
	Timestamp time.Time
	Quantity  decimal.Decimal
	User      string
	Reference string
	Extra     map[string]json.RawMessage // atributos persistidos no interpretados
}
