// Package memory implementa los puertos de persistencia en memoria, para tests y
// para ejecutar casos de uso sin tocar disco.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/internal/domain/repository"
)

var _ repository.CatalogStore = (*CatalogStore)(nil)

// CatalogStore catálogo en memoria. Load y Save copian en profundidad para que el
// llamador nunca comparta punteros con el estado guardado.
type CatalogStore struct {
	mu      sync.Mutex
	lots    []*entity.ProductLot
	status  repository.LoadStatus
	failErr bool
	saves   int
	saveErr error
}

// NewCatalogStore crea el store con los lotes iniciales (copiados).
func NewCatalogStore(lots ...*entity.ProductLot) *CatalogStore {
	s := &CatalogStore{status: repository.LoadMissing}
	if len(lots) > 0 {
		s.lots = cloneAll(lots)
		s.status = repository.LoadOK
	}
	return s
}

// MarkCorrupt simula un archivo ilegible. Con fail=true Load devuelve domain.ErrCorruptData.
func (s *CatalogStore) MarkCorrupt(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = repository.LoadCorrupt
	s.failErr = fail
	s.lots = nil
}

// FailSaves hace que los siguientes Save devuelvan err.
func (s *CatalogStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *CatalogStore) Load(ctx context.Context) (repository.CatalogLoad, error) {
	if err := ctx.Err(); err != nil {
		return repository.CatalogLoad{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == repository.LoadCorrupt && s.failErr {
		return repository.CatalogLoad{Status: s.status}, fmt.Errorf("%w: catálogo en memoria marcado corrupto", domain.ErrCorruptData)
	}
	lots := cloneAll(s.lots)
	if lots == nil {
		lots = []*entity.ProductLot{}
	}
	return repository.CatalogLoad{Lots: lots, Status: s.status}, nil
}

func (s *CatalogStore) Save(ctx context.Context, lots []*entity.ProductLot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.lots = cloneAll(lots)
	s.status = repository.LoadOK
	s.failErr = false
	s.saves++
	return nil
}

// Saves cantidad de Save exitosos.
func (s *CatalogStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Snapshot copia del estado guardado.
func (s *CatalogStore) Snapshot() []*entity.ProductLot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.lots)
}

// Remove elimina el lote (code, lot) del estado guardado, simulando otro escritor.
func (s *CatalogStore) Remove(key entity.LotKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.lots[:0]
	for _, l := range s.lots {
		if l.Key() != key {
			kept = append(kept, l)
		}
	}
	s.lots = kept
}

func cloneAll(lots []*entity.ProductLot) []*entity.ProductLot {
	if lots == nil {
		return nil
	}
	out := make([]*entity.ProductLot, 0, len(lots))
	for _, l := range lots {
		out = append(out, l.Clone())
	}
	return out
}
