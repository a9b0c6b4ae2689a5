// Package inventory contiene los casos de uso del libro de inventario (ingreso, egreso,
// consultas y alertas) y el procesador de pedidos.
//
// Precondición de diseño: un único operador escribe el catálogo a la vez. Cada operación
// carga el catálogo, lo muta en memoria y lo guarda completo; no hay bloqueo ni control
// de versiones, así que dos sesiones superpuestas pierden los cambios de la primera.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/bodega/internal/application/dto"
	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	domaininv "github.com/jhoicas/bodega/internal/domain/inventory"
	"github.com/jhoicas/bodega/internal/domain/repository"
	"github.com/jhoicas/bodega/pkg/logger"
)

// DefaultExpiryWindowDays días hacia adelante considerados "por vencer".
const DefaultExpiryWindowDays = 30

// LedgerOptions parámetros opcionales del libro.
type LedgerOptions struct {
	ExpiryWindowDays int
}

// Ledger libro de inventario sobre el catálogo de lotes.
// No guarda estado entre llamadas: cada operación parte de una carga fresca del store.
type Ledger struct {
	store    repository.CatalogStore
	audit    AuditTrail
	clock    Clock
	log      *logger.Logger
	validate *validator.Validate
	window   int
}

// NewLedger construye el libro de inventario.
func NewLedger(
	store repository.CatalogStore,
	audit AuditTrail,
	clock Clock,
	log *logger.Logger,
	opts LedgerOptions,
) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	window := opts.ExpiryWindowDays
	if window <= 0 {
		window = DefaultExpiryWindowDays
	}
	return &Ledger{
		store:    store,
		audit:    audit,
		clock:    clock,
		log:      log.Component("ledger"),
		validate: newValidator(),
		window:   window,
	}
}

// ExpiryWindowDays ventana de alerta de vencimiento en días.
func (l *Ledger) ExpiryWindowDays() int { return l.window }

func (l *Ledger) load(ctx context.Context) ([]*entity.ProductLot, error) {
	res, err := l.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar catálogo: %w", err)
	}
	if res.Status == repository.LoadCorrupt {
		l.log.Warn().Msg("catálogo corrupto tratado como vacío")
	}
	return res.Lots, nil
}

func (l *Ledger) save(ctx context.Context, lots []*entity.ProductLot) error {
	if err := l.store.Save(ctx, lots); err != nil {
		return fmt.Errorf("guardar catálogo: %w", err)
	}
	return nil
}

// record agrega la entrada de auditoría. El catálogo ya está guardado cuando se llama,
// por eso un fallo aquí se informa pero no deshace la mutación.
func (l *Ledger) record(ctx context.Context, user, action, description string) error {
	if l.audit == nil {
		return nil
	}
	if err := l.audit.Record(ctx, user, action, description); err != nil {
		l.log.Error().Err(err).Str("action", action).Msg("no se pudo registrar auditoría")
		return fmt.Errorf("registrar auditoría: %w", err)
	}
	return nil
}

// find devuelve el primer lote con la clave dada, o nil.
func find(lots []*entity.ProductLot, key entity.LotKey) *entity.ProductLot {
	for _, lot := range lots {
		if lot.Key() == key {
			return lot
		}
	}
	return nil
}

// ReceiveLots agrega los lotes al catálogo. Todo o nada: si una especificación es inválida
// o repite un (código, lote) existente no se guarda ninguna. Devuelve cuántos se ingresaron.
func (l *Ledger) ReceiveLots(ctx context.Context, user string, reqs []dto.ReceiveLotRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}
	if strings.TrimSpace(user) == "" {
		return 0, fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}

	now := l.clock.now()
	incoming := make([]*entity.ProductLot, 0, len(reqs))
	for i, r := range reqs {
		if err := l.validate.Struct(r); err != nil {
			return 0, validationError(fmt.Sprintf("producto %d", i+1), err)
		}
		incoming = append(incoming, newLot(r, user, now))
	}

	lots, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	for _, lot := range incoming {
		if find(lots, lot.Key()) != nil {
			return 0, fmt.Errorf("%w: el lote %s ya existe", domain.ErrDuplicate, lot.Key())
		}
		lots = append(lots, lot)
	}
	if err := l.save(ctx, lots); err != nil {
		return 0, err
	}

	l.log.Info().Int("lotes", len(incoming)).Str("user", user).Msg("mercancía ingresada")
	desc := fmt.Sprintf("%d producto(s) ingresado(s)", len(incoming))
	if note := reqs[0].DispatchNote; note != "" {
		desc += ", guía de despacho " + note
	}
	return len(incoming), l.record(ctx, user, entity.ActionReceiveGoods, desc)
}

func newLot(r dto.ReceiveLotRequest, user string, now time.Time) *entity.ProductLot {
	unit := r.Unit
	if unit == "" {
		unit = entity.UnitPiece
	}
	status := r.Status
	if status == "" {
		status = entity.ReceiptStatusConforming
	}
	manufacture, _ := domaininv.NormalizeCalendarDate(r.ManufactureDate)
	expiry, _ := domaininv.NormalizeCalendarDate(r.ExpiryDate)
	return &entity.ProductLot{
		Code:            strings.TrimSpace(r.Code),
		Description:     strings.TrimSpace(r.Description),
		Unit:            unit,
		Brand:           r.Brand,
		Supplier:        r.Supplier,
		Quantity:        r.Quantity,
		Lot:             strings.TrimSpace(r.Lot),
		Location:        r.Location,
		ManufactureDate: manufacture,
		ExpiryDate:      expiry,
		MinimumStock:    r.MinimumStock,
		Receipt: entity.ReceiptInfo{
			DispatchNote: r.DispatchNote,
			ReceivedBy:   user,
			ReceivedAt:   now.Truncate(time.Second),
			Status:       status,
			Observations: r.Observations,
			Hazard:       r.Hazard,
			Temperature:  r.Temperature,
		},
	}
}

// ConfirmReception registra la verificación física de un lote ingresado.
func (l *Ledger) ConfirmReception(ctx context.Context, user, code, lotID string, conforming bool, observations string) error {
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	lots, err := l.load(ctx)
	if err != nil {
		return err
	}
	lot := find(lots, entity.LotKey{Code: code, Lot: lotID})
	if lot == nil {
		return fmt.Errorf("%w: lote %s/%s", domain.ErrNotFound, code, lotID)
	}
	status := entity.ReceptionNonConforming
	if conforming {
		status = entity.ReceptionReceived
	}
	lot.Reception = &entity.ReceptionCheck{
		Status:       status,
		Observations: observations,
		CheckedAt:    l.clock.now().Truncate(time.Second),
		CheckedBy:    user,
	}
	if err := l.save(ctx, lots); err != nil {
		return err
	}
	return l.record(ctx, user, entity.ActionConfirmReceipt,
		fmt.Sprintf("Lote %s de %s marcado como %s", lot.Lot, lot.Code, status))
}

// PendingReceptions lotes que todavía no fueron marcados como recibidos.
func (l *Ledger) PendingReceptions(ctx context.Context) ([]dto.PendingReceptionRow, error) {
	lots, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingReceptionRow, 0)
	for _, lot := range lots {
		if lot.Reception != nil && lot.Reception.Status == entity.ReceptionReceived {
			continue
		}
		status := lot.Receipt.Status
		if lot.Reception != nil {
			status = lot.Reception.Status
		}
		if status == "" {
			status = "Pendiente"
		}
		out = append(out, dto.PendingReceptionRow{
			Code:        lot.Code,
			Description: lot.Description,
			Lot:         lot.Lot,
			Supplier:    lot.Supplier,
			Status:      status,
		})
	}
	return out, nil
}
