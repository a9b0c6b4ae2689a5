package jsonstore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/internal/domain/repository"
	"github.com/jhoicas/bodega/internal/infrastructure/jsonstore"
	"github.com/jhoicas/bodega/pkg/logger"
)

func entryAt(day, clock, action string) entity.AuditEntry {
	ts, _ := time.ParseInLocation("2006-01-02 15:04:05", day+" "+clock, time.Local)
	return entity.AuditEntry{Timestamp: ts, User: "admin", Action: action, Description: "desc " + action}
}

func TestAuditStore_AppendYRead(t *testing.T) {
	dir := t.TempDir()
	store := jsonstore.NewAuditStore(dir, jsonstore.PolicyFallbackEmpty, logger.Nop())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, entryAt("2026-01-01", "09:00:00", "A")))
	require.NoError(t, store.Append(ctx, entryAt("2026-01-01", "09:05:00", "B")))
	require.NoError(t, store.Append(ctx, entryAt("2026-01-02", "10:00:00", "C")))

	day, err := store.Read(ctx, "2026-01-01")
	require.NoError(t, err)
	require.Len(t, day.Entries, 2)
	assert.Equal(t, "A", day.Entries[0].Action)
	assert.Equal(t, "B", day.Entries[1].Action)
	assert.Equal(t, repository.LoadOK, day.Status)

	raw, err := os.ReadFile(filepath.Join(dir, "auditoria_2026-01-01.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"timestamp":"2026-01-01 09:00:00","usuario":"admin","accion":"A","descripcion":"desc A"}`, lines[0])
}

func TestAuditStore_LecturaIdempotente(t *testing.T) {
	store := jsonstore.NewAuditStore(t.TempDir(), jsonstore.PolicyFallbackEmpty, logger.Nop())
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, entryAt("2026-02-10", "08:00:00", "X")))

	first, err := store.Read(ctx, "2026-02-10")
	require.NoError(t, err)
	second, err := store.Read(ctx, "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAuditStore_LineasMalFormadasSePierdenSolas(t *testing.T) {
	dir := t.TempDir()
	store := jsonstore.NewAuditStore(dir, jsonstore.PolicyFallbackEmpty, logger.Nop())
	content := `{"timestamp":"2026-01-01 09:00:00","usuario":"u","accion":"A","descripcion":"ok"}
{"timestamp": roto
{"timestamp":"2026-01-01 09:10:00","usuario":"u","accion":"B","descripcion":"ok"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auditoria_2026-01-01.log"), []byte(content), 0o644))
	ctx := context.Background()

	day, err := store.Read(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, day.Skipped)
	assert.Equal(t, repository.LoadCorrupt, day.Status)
	require.Len(t, day.Entries, 2)

	// el append reescribe el día sin la línea rota
	require.NoError(t, store.Append(ctx, entryAt("2026-01-01", "09:20:00", "C")))
	day, err = store.Read(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Zero(t, day.Skipped)
	assert.Len(t, day.Entries, 3)
}

func TestAuditStore_PolicyFailNoReescribeDiaCorrupto(t *testing.T) {
	dir := t.TempDir()
	store := jsonstore.NewAuditStore(dir, jsonstore.PolicyFail, logger.Nop())
	path := filepath.Join(dir, "auditoria_2026-01-01.log")
	require.NoError(t, os.WriteFile(path, []byte("basura\n"), 0o644))

	err := store.Append(context.Background(), entryAt("2026-01-01", "09:00:00", "A"))
	require.ErrorIs(t, err, domain.ErrCorruptData)

	raw, _ := os.ReadFile(path)
	assert.Equal(t, "basura\n", string(raw))
}

func TestAuditStore_DaysMasRecientePrimero(t *testing.T) {
	dir := t.TempDir()
	store := jsonstore.NewAuditStore(dir, jsonstore.PolicyFallbackEmpty, logger.Nop())
	ctx := context.Background()

	days, err := store.Days(ctx)
	require.NoError(t, err)
	assert.Empty(t, days)

	for _, d := range []string{"2026-01-03", "2025-12-31", "2026-01-01"} {
		require.NoError(t, store.Append(ctx, entryAt(d, "12:00:00", "A")))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auditoria_hoy.log"), []byte("x"), 0o644))

	days, err = store.Days(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-03", "2026-01-01", "2025-12-31"}, days)
}

func TestAuditStore_ReadDiaSinArchivoYDiaInvalido(t *testing.T) {
	store := jsonstore.NewAuditStore(t.TempDir(), jsonstore.PolicyFail, logger.Nop())
	ctx := context.Background()

	day, err := store.Read(ctx, "2026-05-05")
	require.NoError(t, err)
	assert.Equal(t, repository.LoadMissing, day.Status)
	assert.Empty(t, day.Entries)

	_, err = store.Read(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuditStore_AppendConservaLineasExistentesByteAByte(t *testing.T) {
	dir := t.TempDir()
	store := jsonstore.NewAuditStore(dir, jsonstore.PolicyFail, logger.Nop())
	path := filepath.Join(dir, "auditoria_2026-01-01.log")
	existing := `{"timestamp":"2026-01-01T09:00:00", "usuario":"u","accion":"A","descripcion":"<ok>","ip":"10.0.0.1"}`
	require.NoError(t, os.WriteFile(path, []byte(existing+"\n"), 0o644))
	ctx := context.Background()

	day, err := store.Read(ctx, "2026-01-01")
	require.NoError(t, err)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, time.Date(2026, 1, 1, 9, 0, 0, 0, time.Local), day.Entries[0].Timestamp)

	require.NoError(t, store.Append(ctx, entryAt("2026-01-01", "09:30:00", "B")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, existing, lines[0])
	assert.Equal(t, `{"timestamp":"2026-01-01 09:30:00","usuario":"admin","accion":"B","descripcion":"desc B"}`, lines[1])
}

func TestAuditStore_LineaEnormeNoDescartaLasSiguientes(t *testing.T) {
	dir := t.TempDir()
	store := jsonstore.NewAuditStore(dir, jsonstore.PolicyFallbackEmpty, logger.Nop())
	big := `{"timestamp":"2026-01-01 08:00:00","usuario":"u","accion":"A","descripcion":"` + strings.Repeat("x", 2*1024*1024) + `"}`
	content := big + "\n" + `{"timestamp": roto` + "\n" +
		`{"timestamp":"2026-01-01 09:00:00","usuario":"u","accion":"B","descripcion":"ok"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auditoria_2026-01-01.log"), []byte(content), 0o644))

	day, err := store.Read(context.Background(), "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, day.Skipped)
	require.Len(t, day.Entries, 2)
	assert.Len(t, day.Entries[0].Description, 2*1024*1024)
	assert.Equal(t, "B", day.Entries[1].Action)
}
