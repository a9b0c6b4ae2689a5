package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditStore)(nil)

// AuditStore log de auditoría en memoria, un mapa día -> entradas.
type AuditStore struct {
	mu   sync.Mutex
	days map[string][]entity.AuditEntry
}

// NewAuditStore construye un log vacío.
func NewAuditStore() *AuditStore {
	return &AuditStore{days: make(map[string][]entity.AuditEntry)}
}

// Append agrega entry al día de su timestamp.
func (s *AuditStore) Append(ctx context.Context, entry entity.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	day := entry.Timestamp.Format("2006-01-02")
	s.days[day] = append(s.days[day], entry)
	return nil
}

// Days devuelve los días con entradas, del más reciente al más antiguo.
func (s *AuditStore) Days(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make([]string, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}

// Read devuelve una copia de las entradas de day; LoadMissing si el día no tiene entradas.
func (s *AuditStore) Read(ctx context.Context, day string) (repository.AuditDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.days[day]
	out := repository.AuditDay{Day: day, Entries: make([]entity.AuditEntry, len(entries)), Status: repository.LoadOK}
	copy(out.Entries, entries)
	if !ok {
		out.Status = repository.LoadMissing
	}
	return out, nil
}

// All todas las entradas en orden cronológico de días.
func (s *AuditStore) All() []entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make([]string, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Strings(days)
	var out []entity.AuditEntry
	for _, d := range days {
		out = append(out, s.days[d]...)
	}
	return out
}
