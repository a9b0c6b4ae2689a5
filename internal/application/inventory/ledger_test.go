package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega/internal/application/audit"
	"github.com/jhoicas/bodega/internal/application/dto"
	"github.com/jhoicas/bodega/internal/application/inventory"
	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/internal/infrastructure/memory"
	"github.com/jhoicas/bodega/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, time.January, 1, 10, 15, 30, 0, time.Local)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

type fixture struct {
	store  *memory.CatalogStore
	audits *memory.AuditStore
	ledger *inventory.Ledger
	now    time.Time
}

func newFixture(t *testing.T, lots ...*entity.ProductLot) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewCatalogStore(lots...), audits: memory.NewAuditStore(), now: testNow}
	clock := func() time.Time { return f.now }
	auditLog := audit.NewAuditLog(f.audits, clock, logger.Nop(), 0)
	f.ledger = inventory.NewLedger(f.store, auditLog, clock, logger.Nop(), inventory.LedgerOptions{})
	return f
}

func lot(code, lotID string, qty, min float64) *entity.ProductLot {
	return &entity.ProductLot{
		Code:         code,
		Description:  "Producto " + code,
		Unit:         entity.UnitPiece,
		Quantity:     d(qty),
		Lot:          lotID,
		MinimumStock: d(min),
	}
}

func validRequest(code, lotID string) dto.ReceiveLotRequest {
	return dto.ReceiveLotRequest{
		Code:            code,
		Description:     "Queso fresco",
		Unit:            entity.UnitGram,
		Quantity:        d(500),
		Lot:             lotID,
		Location:        "C1",
		ManufactureDate: "28/12/25",
		ExpiryDate:      "2026-02-15",
		MinimumStock:    d(100),
		DispatchNote:    "GD-1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ingreso
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveLots_AgregaYAudita(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 10, 5))
	ctx := context.Background()

	n, err := f.ledger.ReceiveLots(ctx, "digitador", []dto.ReceiveLotRequest{validRequest("Q1", "L7"), validRequest("Q1", "L8")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	saved := f.store.Snapshot()
	require.Len(t, saved, 3)
	q := saved[1]
	assert.Equal(t, "2025-12-28", q.ManufactureDate, "la fecha se normaliza a ISO")
	assert.Equal(t, "digitador", q.Receipt.ReceivedBy)
	assert.Equal(t, testNow, q.Receipt.ReceivedAt)
	assert.Equal(t, entity.ReceiptStatusConforming, q.Receipt.Status)
	assert.Nil(t, q.Movements)

	entries := f.audits.All()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ActionReceiveGoods, entries[0].Action)
	assert.Contains(t, entries[0].Description, "2 producto(s)")
}

func TestReceiveLots_TodoONada(t *testing.T) {
	f := newFixture(t)
	bad := validRequest("Q2", "")
	bad.Quantity = d(-1)

	_, err := f.ledger.ReceiveLots(context.Background(), "u", []dto.ReceiveLotRequest{validRequest("Q1", "L1"), bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "producto 2")
	assert.Contains(t, err.Error(), "lote es obligatorio")
	assert.Contains(t, err.Error(), "cantidad no puede ser negativo")
	assert.Zero(t, f.store.Saves())
	assert.Empty(t, f.audits.All())
}

func TestReceiveLots_FechaYUnidadInvalidas(t *testing.T) {
	f := newFixture(t)
	r := validRequest("Q1", "L1")
	r.ExpiryDate = "mañana"
	r.Unit = "kg"

	_, err := f.ledger.ReceiveLots(context.Background(), "u", []dto.ReceiveLotRequest{r})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "fecha_vencimiento")
	assert.Contains(t, err.Error(), "unidad")
}

func TestReceiveLots_LoteDuplicado(t *testing.T) {
	f := newFixture(t, lot("Q1", "L1", 1, 0))
	_, err := f.ledger.ReceiveLots(context.Background(), "u", []dto.ReceiveLotRequest{validRequest("Q1", "L1")})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Zero(t, f.store.Saves())
}

func TestReceiveLots_VacioNoEscribe(t *testing.T) {
	f := newFixture(t)
	n, err := f.ledger.ReceiveLots(context.Background(), "u", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, f.store.Saves())
}

func TestConfirmReception_YPendientes(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 10, 5), lot("B2", "L2", 3, 1))
	ctx := context.Background()

	pending, err := f.ledger.PendingReceptions(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, f.ledger.ConfirmReception(ctx, "bodeguero", "A1", "L1", true, "ok"))
	require.NoError(t, f.ledger.ConfirmReception(ctx, "bodeguero", "B2", "L2", false, "envase roto"))

	pending, err = f.ledger.PendingReceptions(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "B2", pending[0].Code)
	assert.Equal(t, entity.ReceptionNonConforming, pending[0].Status)

	err = f.ledger.ConfirmReception(ctx, "bodeguero", "ZZ", "L9", true, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.audits.All(), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListInventory_OrdenEstablePorUbicacionYEstado(t *testing.T) {
	a := lot("A", "1", 4, 5)
	a.Location = "B-02"
	b := lot("B", "1", 7, 5)
	b.Location = "A-01"
	c := lot("C", "1", 100, 5)
	c.Location = "B-02"
	f := newFixture(t, a, b, c)

	rows, err := f.ledger.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{rows[0].Code, rows[1].Code, rows[2].Code})
	assert.Equal(t, "atencion", rows[0].Health)
	assert.Equal(t, "critico", rows[1].Health)
	assert.Equal(t, "normal", rows[2].Health)
}

func TestStockAlerts_ExactamenteCantidadMenorOIgualAlMinimo(t *testing.T) {
	f := newFixture(t,
		lot("A", "1", 5, 5),
		lot("B", "1", 5.01, 5),
		lot("C", "1", 0, 0),
		lot("D", "1", 2, 10),
	)
	rows, err := f.ledger.StockAlerts(context.Background())
	require.NoError(t, err)

	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.Code)
		assert.True(t, r.Quantity.LessThanOrEqual(r.MinimumStock))
	}
	assert.Equal(t, []string{"A", "C", "D"}, codes)
	assert.True(t, rows[2].Difference.Equal(d(-8)))
}

func TestExpiryAlerts_Ventana30Dias(t *testing.T) {
	soon := lot("A", "1", 1, 0)
	soon.ExpiryDate = "2026-01-20"
	later := lot("B", "1", 1, 0)
	later.ExpiryDate = "2026-03-01"
	expired := lot("C", "1", 1, 0)
	expired.ExpiryDate = "25/12/2025"
	none := lot("D", "1", 1, 0)
	garbage := lot("E", "1", 1, 0)
	garbage.ExpiryDate = "pronto"
	f := newFixture(t, soon, later, expired, none, garbage)

	rows, err := f.ledger.ExpiryAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C", rows[0].Code)
	assert.Equal(t, -7, rows[0].DaysRemaining)
	assert.True(t, rows[0].Expired)

	assert.Equal(t, "A", rows[1].Code)
	assert.Equal(t, 19, rows[1].DaysRemaining)
	assert.False(t, rows[1].Expired)
}

func TestSearch_CriteriosYMayusculas(t *testing.T) {
	a := lot("LAC-01", "L1", 1, 0)
	a.Description = "Leche Descremada"
	b := lot("QSO-02", "L2", 1, 0)
	b.Description = "Queso Crema"
	c := lot("CRM-03", "lac", 1, 0)
	c.Description = "Crème fraîche"
	f := newFixture(t, a, b, c)
	ctx := context.Background()

	codes := func(rows []dto.InventoryRow) []string {
		out := []string{}
		for _, r := range rows {
			out = append(out, r.Code)
		}
		return out
	}

	rows, err := f.ledger.Search(ctx, inventory.SearchByCode, "lac")
	require.NoError(t, err)
	assert.Equal(t, []string{"LAC-01"}, codes(rows))

	rows, err = f.ledger.Search(ctx, inventory.SearchByCodeOrDescription, "CREM")
	require.NoError(t, err)
	assert.Equal(t, []string{"LAC-01", "QSO-02"}, codes(rows))

	rows, err = f.ledger.Search(ctx, inventory.SearchByDescription, "CRÈME")
	require.NoError(t, err)
	assert.Equal(t, []string{"CRM-03"}, codes(rows))

	rows, err = f.ledger.Search(ctx, inventory.SearchByLot, "LAC")
	require.NoError(t, err)
	assert.Equal(t, []string{"CRM-03"}, codes(rows))

	_, err = f.ledger.Search(ctx, inventory.SearchCriterion("marca"), "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseSearchCriterion(t *testing.T) {
	c, err := inventory.ParseSearchCriterion("3")
	require.NoError(t, err)
	assert.Equal(t, inventory.SearchByLot, c)

	c, err = inventory.ParseSearchCriterion("")
	require.NoError(t, err)
	assert.Equal(t, inventory.SearchByCodeOrDescription, c)

	_, err = inventory.ParseSearchCriterion("9")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReviewStock_PorUbicacion(t *testing.T) {
	a := lot("A", "1", 1, 0)
	a.Location = "Pasillo 1"
	b := lot("B", "1", 1, 0)
	b.Location = "Cámara fría"
	f := newFixture(t, a, b)

	rows, err := f.ledger.ReviewStock(context.Background(), "CÁMARA")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].Code)

	rows, err = f.ledger.ReviewStock(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReports_Consolidado(t *testing.T) {
	a := lot("A", "1", 10, 5)
	a.ExpiryDate = "15-01-26"
	b := lot("B", "1", 250, 100)
	b.Unit = entity.UnitML
	b.ExpiryDate = "no-es-fecha"
	c := lot("C", "1", 3, 5)
	c.ExpiryDate = "2027-01-01"
	e := lot("E", "1", 0.5, 0)
	f := newFixture(t, a, b, c, e)

	r, err := f.ledger.Reports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, r.TotalSKUs)
	assert.True(t, r.TotalUnits.Equal(d(263.5)), r.TotalUnits.String())
	assert.Equal(t, 1, r.CriticalCount)
	assert.Equal(t, 1, r.NearExpiryCount)
	assert.False(t, r.Healthy)
	require.Len(t, r.UnitDistribution, 2)
	assert.Equal(t, entity.UnitPiece, r.UnitDistribution[0].Unit)
	assert.True(t, r.UnitDistribution[0].Quantity.Equal(d(13.5)))
	assert.Equal(t, entity.UnitML, r.UnitDistribution[1].Unit)
}

func TestReports_CatalogoVacioSaludable(t *testing.T) {
	f := newFixture(t)
	r, err := f.ledger.Reports(context.Background())
	require.NoError(t, err)
	assert.Zero(t, r.TotalSKUs)
	assert.True(t, r.TotalUnits.IsZero())
	assert.True(t, r.Healthy)
}

// ──────────────────────────────────────────────────────────────────────────────
// Egreso manual
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkEgress_DescuentaYRegistraMovimiento(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 10, 5))
	ctx := context.Background()

	row, err := f.ledger.MarkEgress(ctx, inventory.EgressInput{User: "digitador", Code: "A1", Lot: "L1", Quantity: d(2.5), Reason: "merma"})
	require.NoError(t, err)
	assert.True(t, row.Quantity.Equal(d(7.5)))
	assert.Equal(t, "atencion", row.Health)

	saved := f.store.Snapshot()[0]
	require.Len(t, saved.Movements, 1)
	m := saved.Movements[0]
	assert.Equal(t, entity.MovementTypeManualEgress, m.Type)
	assert.Equal(t, "merma", m.Reference)
	assert.True(t, m.Quantity.Equal(d(2.5)))
	assert.NotEmpty(t, m.ID)

	entries := f.audits.All()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ActionMarkEgress, entries[0].Action)
}

func TestMarkEgress_InsuficienteNoModifica(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 10, 5))
	_, err := f.ledger.MarkEgress(context.Background(), inventory.EgressInput{User: "u", Code: "A1", Lot: "L1", Quantity: d(10.01), Reason: "x"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Zero(t, f.store.Saves())
	saved := f.store.Snapshot()[0]
	assert.True(t, saved.Quantity.Equal(d(10)))
	assert.Nil(t, saved.Movements)
	assert.Empty(t, f.audits.All())
}

func TestMarkEgress_EntradasInvalidas(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 10, 5))
	ctx := context.Background()

	_, err := f.ledger.MarkEgress(ctx, inventory.EgressInput{User: "u", Code: "A1", Lot: "L1", Quantity: d(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.MarkEgress(ctx, inventory.EgressInput{User: "u", Code: "A1", Lot: "L1", Quantity: d(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.MarkEgress(ctx, inventory.EgressInput{User: "u", Code: "A1", Lot: "L2", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.MarkEgress(ctx, inventory.EgressInput{Code: "A1", Lot: "L1", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkEgress_ErrorAlGuardar(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 10, 5))
	f.store.FailSaves(errors.New("disco lleno"))

	_, err := f.ledger.MarkEgress(context.Background(), inventory.EgressInput{User: "u", Code: "A1", Lot: "L1", Quantity: d(1), Reason: "x"})
	require.Error(t, err)
	assert.Empty(t, f.audits.All())
	assert.True(t, f.store.Snapshot()[0].Quantity.Equal(d(10)))
}

func TestLedger_CatalogoCorrupto(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 10, 5))
	f.store.MarkCorrupt(false)

	rows, err := f.ledger.ListInventory(context.Background())
	require.NoError(t, err, "la política por defecto trata el catálogo corrupto como vacío")
	assert.Empty(t, rows)

	f.store.MarkCorrupt(true)
	_, err = f.ledger.ListInventory(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptData)
}

func TestQuantityNuncaNegativa_SecuenciaDeOperaciones(t *testing.T) {
	f := newFixture(t, lot("A1", "L1", 3, 1))
	ctx := context.Background()
	amounts := []float64{1, 1.5, 2, 0.5, 0.25, 5, 0.25}

	for _, a := range amounts {
		_, _ = f.ledger.MarkEgress(ctx, inventory.EgressInput{User: "u", Code: "A1", Lot: "L1", Quantity: d(a), Reason: "x"})
		q := f.store.Snapshot()[0].Quantity
		assert.False(t, q.IsNegative(), "cantidad negativa tras egreso de %v: %s", a, q)
	}
	assert.True(t, f.store.Snapshot()[0].Quantity.IsZero())
}
