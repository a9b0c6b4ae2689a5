// Package jsonstore implementa la persistencia en archivos: el catálogo de lotes como
// un arreglo JSON indentado y la auditoría como JSON por línea, un archivo por día.
//
// Ningún store usa bloqueo de archivos. Se asume un único operador escribiendo a la vez:
// dos sesiones superpuestas pierden los cambios de la primera (gana el último Save).
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/internal/domain/repository"
	"github.com/jhoicas/bodega/pkg/logger"
)

// Ensure CatalogStore implements repository.CatalogStore.
var _ repository.CatalogStore = (*CatalogStore)(nil)

// CatalogStore guarda el catálogo completo en un único archivo JSON.
type CatalogStore struct {
	path   string
	policy CorruptionPolicy
	log    *logger.Logger
}

// NewCatalogStore construye el store sobre path con la política de corrupción indicada.
func NewCatalogStore(path string, policy CorruptionPolicy, log *logger.Logger) *CatalogStore {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogStore{path: path, policy: policy, log: log.Component("catalog_store")}
}

// Path ruta del archivo de catálogo.
func (s *CatalogStore) Path() string { return s.path }

// Load lee el archivo completo. Archivo inexistente = colección vacía con estado LoadMissing.
// Archivo ilegible o JSON inválido = LoadCorrupt; según la política se devuelve vacío o error.
func (s *CatalogStore) Load(ctx context.Context) (repository.CatalogLoad, error) {
	if err := ctx.Err(); err != nil {
		return repository.CatalogLoad{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return repository.CatalogLoad{Lots: []*entity.ProductLot{}, Status: repository.LoadMissing}, nil
	}
	if err != nil {
		return s.corrupt(fmt.Errorf("leer %s: %w", s.path, err))
	}

	var docs []lotDocument
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &docs); err != nil {
			return s.corrupt(fmt.Errorf("decodificar %s: %w", s.path, err))
		}
	}

	lots := make([]*entity.ProductLot, 0, len(docs))
	for i := range docs {
		lots = append(lots, docs[i].toEntity())
	}
	return repository.CatalogLoad{Lots: lots, Status: repository.LoadOK}, nil
}

func (s *CatalogStore) corrupt(cause error) (repository.CatalogLoad, error) {
	if s.policy == PolicyFail {
		return repository.CatalogLoad{Status: repository.LoadCorrupt}, fmt.Errorf("%w: %v", domain.ErrCorruptData, cause)
	}
	s.log.Warn().Err(cause).Str("path", s.path).Msg("catálogo ilegible, se usa colección vacía")
	return repository.CatalogLoad{Lots: []*entity.ProductLot{}, Status: repository.LoadCorrupt}, nil
}

// Save reescribe el archivo completo con indentación de 2 espacios y UTF-8 sin escapar.
func (s *CatalogStore) Save(ctx context.Context, lots []*entity.ProductLot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	docs := make([]lotDocument, 0, len(lots))
	for _, l := range lots {
		docs = append(docs, fromEntity(l))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("codificar catálogo: %w", err)
	}
	if err := writeFileReplace(s.path, buf.Bytes()); err != nil {
		return err
	}
	s.log.Debug().Int("lotes", len(lots)).Str("path", s.path).Msg("catálogo guardado")
	return nil
}
