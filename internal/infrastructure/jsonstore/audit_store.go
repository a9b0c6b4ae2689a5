package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/internal/domain/repository"
	"github.com/jhoicas/bodega/pkg/logger"
)

const (
	auditPrefix    = "auditoria_"
	auditSuffix    = ".log"
	auditDayLayout = "2006-01-02"
)

// Ensure AuditStore implements repository.AuditRepository.
var _ repository.AuditRepository = (*AuditStore)(nil)

type auditDocument struct {
	Timestamp   string `json:"timestamp"`
	Usuario     string `json:"usuario"`
	Accion      string `json:"accion"`
	Descripcion string `json:"descripcion"`
}

// AuditStore log de auditoría en dir, un archivo auditoria_YYYY-MM-DD.log por día con
// un objeto JSON por línea. Una línea mal formada solo pierde esa línea.
type AuditStore struct {
	dir    string
	policy CorruptionPolicy
	log    *logger.Logger
}

// NewAuditStore construye el store sobre el directorio dir.
func NewAuditStore(dir string, policy CorruptionPolicy, log *logger.Logger) *AuditStore {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditStore{dir: dir, policy: policy, log: log.Component("audit_store")}
}

// DayFile ruta del archivo correspondiente a day (YYYY-MM-DD).
func (s *AuditStore) DayFile(day string) string {
	return filepath.Join(s.dir, auditPrefix+day+auditSuffix)
}

// Append lee el día de entry y reescribe el archivo con la entrada nueva al final. Las
// líneas válidas existentes se copian byte a byte; las mal formadas se descartan.
func (s *AuditStore) Append(ctx context.Context, entry entity.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	day := entry.Timestamp.In(time.Local).Format(auditDayLayout)
	current, lines, err := s.readDay(ctx, day)
	if err != nil {
		return err
	}
	if s.policy == PolicyFail && current.Skipped > 0 {
		return fmt.Errorf("%w: %d línea(s) ilegibles en %s", domain.ErrCorruptData, current.Skipped, s.DayFile(day))
	}

	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toAuditDocument(entry)); err != nil {
		return fmt.Errorf("codificar auditoría: %w", err)
	}
	return writeFileReplace(s.DayFile(day), buf.Bytes())
}

// Days devuelve los días con archivo en disco, del más reciente al más antiguo.
func (s *AuditStore) Days(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", s.dir, err)
	}
	days := make([]string, 0, len(items))
	for _, it := range items {
		name := it.Name()
		if it.IsDir() || !strings.HasPrefix(name, auditPrefix) || !strings.HasSuffix(name, auditSuffix) {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, auditPrefix), auditSuffix)
		if _, err := time.Parse(auditDayLayout, day); err != nil {
			continue
		}
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}

// Read devuelve las entradas de day. Un día sin archivo devuelve una lista vacía.
func (s *AuditStore) Read(ctx context.Context, day string) (repository.AuditDay, error) {
	out, _, err := s.readDay(ctx, day)
	return out, err
}

// readDay además de las entradas devuelve el texto original de cada línea válida.
func (s *AuditStore) readDay(ctx context.Context, day string) (repository.AuditDay, [][]byte, error) {
	if err := ctx.Err(); err != nil {
		return repository.AuditDay{}, nil, err
	}
	if _, err := time.Parse(auditDayLayout, day); err != nil {
		return repository.AuditDay{}, nil, fmt.Errorf("%w: día %q", domain.ErrInvalidInput, day)
	}
	out := repository.AuditDay{Day: day, Entries: []entity.AuditEntry{}}

	data, err := os.ReadFile(s.DayFile(day))
	if errors.Is(err, fs.ErrNotExist) {
		out.Status = repository.LoadMissing
		return out, nil, nil
	}
	if err != nil {
		if s.policy == PolicyFail {
			return out, nil, fmt.Errorf("%w: %v", domain.ErrCorruptData, err)
		}
		s.log.Warn().Err(err).Str("day", day).Msg("log de auditoría ilegible, se trata como vacío")
		out.Status = repository.LoadCorrupt
		return out, nil, nil
	}

	// sin tope de longitud: una línea enorme no arrastra a las siguientes
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var doc auditDocument
		if err := json.Unmarshal(line, &doc); err != nil {
			out.Skipped++
			continue
		}
		lines = append(lines, line)
		out.Entries = append(out.Entries, entity.AuditEntry{
			Timestamp:   parseAuditTimestamp(doc.Timestamp),
			User:        doc.Usuario,
			Action:      doc.Accion,
			Description: doc.Descripcion,
		})
	}
	out.Status = repository.LoadOK
	if out.Skipped > 0 {
		out.Status = repository.LoadCorrupt
		s.log.Warn().Int("descartadas", out.Skipped).Str("day", day).Msg("líneas de auditoría mal formadas")
	}
	return out, lines, nil
}

// parseAuditTimestamp solo afecta la lectura; la línea en disco no se reescribe.
func parseAuditTimestamp(s string) time.Time {
	if t := parseTimestamp(s); !t.IsZero() {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(time.Local)
	}
	return time.Time{}
}

func toAuditDocument(e entity.AuditEntry) auditDocument {
	return auditDocument{
		Timestamp:   formatTimestamp(e.Timestamp),
		Usuario:     e.User,
		Accion:      e.Action,
		Descripcion: e.Description,
	}
}
