package entity

import "github.com/shopspring/decimal"

// StockHealth clasificación del stock de un lote respecto a su mínimo.
type StockHealth string

const (
	HealthCritical  StockHealth = "critico"
	HealthAttention StockHealth = "atencion"
	HealthNormal    StockHealth = "normal"
)

// attentionFactor margen sobre el stock mínimo a partir del cual se deja de alertar.
var attentionFactor = decimal.NewFromFloat(1.5)

// HealthOf: critico si q <= min, atencion si q <= 1.5*min, normal en otro caso.
func HealthOf(quantity, minimum decimal.Decimal) StockHealth {
	switch {
	case quantity.LessThanOrEqual(minimum):
		return HealthCritical
	case quantity.LessThanOrEqual(minimum.Mul(attentionFactor)):
		return HealthAttention
	default:
		return HealthNormal
	}
}
