package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas para un lote.
const (
	UnitPiece = "unidad"
	UnitML    = "ml"
	UnitGram  = "gr"
)

// Estados de conformidad registrados al ingresar mercancía.
const (
	ReceiptStatusConforming         = "Conforme"
	ReceiptStatusConformingWithNote = "Conforme c/Obs"
	ReceiptStatusRejected           = "Rechazo"
)

// Estados de la verificación de recepción en bodega.
const (
	ReceptionReceived      = "Recibido"
	ReceptionNonConforming = "No conforme"
)

// ProductLot representa un lote recibido de un producto. Cada ingreso genera su propio
// registro; el código no es único entre lotes, el par (Code, Lot) sí.
type ProductLot struct {
	Code            string
	Description     string
	Unit            string
	Brand           string
	Supplier        string
	Quantity        decimal.Decimal // cantidad remanente en Unit, nunca negativa
	Lot             string
	Location        string
	ManufactureDate string // fecha calendario, ISO cuando la genera este módulo
	ExpiryDate      string
	MinimumStock    decimal.Decimal
	Movements       []Movement // nil hasta la primera mutación
	Receipt         ReceiptInfo
	Reception       *ReceptionCheck

	// Extra atributos persistidos que este módulo no interpreta (claves desconocidas o
	// valores que no se pudieron leer). Se escriben de vuelta sin cambios.
	Extra map[string]json.RawMessage
}

// ReceiptInfo metadatos del ingreso de mercancía (guía de despacho, usuario, estado).
type ReceiptInfo struct {
	DispatchNote string
	ReceivedBy   string
	ReceivedAt   time.Time
	Status       string
	Observations string
	Hazard       string
	Temperature  string
}

// ReceptionCheck resultado de la verificación física del lote por el bodeguero.
type ReceptionCheck struct {
	Status       string
	Observations string
	CheckedAt    time.Time
	CheckedBy    string
}

// Key identifica el lote dentro del catálogo.
func (p *ProductLot) Key() LotKey {
	return LotKey{Code: p.Code, Lot: p.Lot}
}

// Health clasifica el lote según su stock mínimo.
func (p *ProductLot) Health() StockHealth {
	return HealthOf(p.Quantity, p.MinimumStock)
}

// IsCritical indica si la cantidad cayó al mínimo o por debajo.
func (p *ProductLot) IsCritical() bool {
	return p.Quantity.LessThanOrEqual(p.MinimumStock)
}

// Clone devuelve una copia profunda; los movimientos y la recepción no se comparten.
func (p *ProductLot) Clone() *ProductLot {
	c := *p
	if p.Movements != nil {
		c.Movements = make([]Movement, len(p.Movements))
		for i, m := range p.Movements {
			m.Extra = CloneExtra(m.Extra)
			c.Movements[i] = m
		}
	}
	c.Extra = CloneExtra(p.Extra)
	if p.Reception != nil {
		r := *p.Reception
		c.Reception = &r
	}
	return &c
}

// CloneExtra copia el mapa de atributos no interpretados; nil se mantiene nil.
func CloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// LotKey clave estable (código, lote) usada para resolver lotes entre cargas del catálogo.
type LotKey struct {
	Code string
	Lot  string
}

func (k LotKey) String() string {
	return k.Code + "/" + k.Lot
}
