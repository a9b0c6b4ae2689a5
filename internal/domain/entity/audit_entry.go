package entity

import "time"

// Códigos de acción registrados en auditoría.
const (
	ActionReceiveGoods    = "INGRESO_MERCANCIA"
	ActionConfirmReceipt  = "RECEPCION_MERCANCIA"
	ActionMarkEgress      = "MARCAR_EGRESO"
	ActionProcessOrder    = "PROCESAR_PEDIDO"
	ActionExportInventory = "EXPORTAR_INVENTARIO"
)

// AuditEntry línea inmutable de auditoría: quién hizo qué y cuándo.
type AuditEntry struct {
	Timestamp   time.Time
	User        string
	Action      string
	Description string
}
