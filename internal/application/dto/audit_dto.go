package dto

import "time"

// AuditEntryDTO línea de auditoría para mostrar.
type AuditEntryDTO struct {
	Timestamp   time.Time `json:"timestamp"`
	User        string    `json:"usuario"`
	Action      string    `json:"accion"`
	Description string    `json:"descripcion"`
}

// AuditDayResponse entradas de un día de auditoría.
type AuditDayResponse struct {
	Day     string          `json:"dia"`
	Entries []AuditEntryDTO `json:"entradas"`
	Skipped int             `json:"descartadas"`
}
