package repository

import (
	"context"

	"github.com/jhoicas/bodega/internal/domain/entity"
)

// AuditDay entradas de un día junto con el estado de lectura del archivo.
type AuditDay struct {
	Day     string // YYYY-MM-DD
	Entries []entity.AuditEntry
	Status  LoadStatus
	Skipped int // líneas mal formadas descartadas
}

// AuditRepository define el puerto de persistencia del log de auditoría particionado por día.
type AuditRepository interface {
	// Append agrega la entrada al día de su Timestamp reescribiendo el archivo del día.
	Append(ctx context.Context, entry entity.AuditEntry) error
	// Days devuelve los días presentes, del más reciente al más antiguo.
	Days(ctx context.Context) ([]string, error)
	// Read devuelve las entradas de day en orden de escritura.
	Read(ctx context.Context, day string) (AuditDay, error)
}
