package repository

import (
	"context"

	"github.com/jhoicas/bodega/internal/domain/entity"
)

// LoadStatus describe cómo terminó la lectura del catálogo persistido.
type LoadStatus int

const (
	LoadOK      LoadStatus = iota // archivo leído y decodificado
	LoadMissing                   // no existe archivo todavía
	LoadCorrupt                   // archivo ilegible o JSON inválido
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// CatalogLoad resultado etiquetado de Load: el llamador puede distinguir "vacío" de "corrupto".
type CatalogLoad struct {
	Lots   []*entity.ProductLot
	Status LoadStatus
}

// CatalogStore define el puerto de persistencia del catálogo completo de lotes (DIP).
// Save sobrescribe la colección entera; no hay bloqueo ni versionado entre escritores.
type CatalogStore interface {
	Load(ctx context.Context) (CatalogLoad, error)
	Save(ctx context.Context, lots []*entity.ProductLot) error
}
