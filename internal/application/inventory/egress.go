package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega/internal/application/dto"
	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
)

// EgressInput egreso manual de un lote.
type EgressInput struct {
	User     string
	Code     string
	Lot      string
	Quantity decimal.Decimal
	Reason   string
}

// MarkEgress descuenta cantidad de un lote por un motivo libre (merma, muestra, ajuste).
// La suficiencia se verifica contra el valor recién cargado; si no alcanza no se modifica nada.
func (l *Ledger) MarkEgress(ctx context.Context, in EgressInput) (dto.InventoryRow, error) {
	if strings.TrimSpace(in.User) == "" {
		return dto.InventoryRow{}, fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return dto.InventoryRow{}, fmt.Errorf("%w: la cantidad a egresar debe ser positiva", domain.ErrInvalidInput)
	}

	lots, err := l.load(ctx)
	if err != nil {
		return dto.InventoryRow{}, err
	}
	key := entity.LotKey{Code: in.Code, Lot: in.Lot}
	lot := find(lots, key)
	if lot == nil {
		return dto.InventoryRow{}, fmt.Errorf("%w: lote %s", domain.ErrNotFound, key)
	}
	if err := consume(lot, in.Quantity, entity.Movement{
		ID:        uuid.New().String(),
		Type:      entity.MovementTypeManualEgress,
		Timestamp: l.clock.now().Truncate(time.Second),
		User:      in.User,
		Reference: in.Reason,
	}); err != nil {
		return dto.InventoryRow{}, err
	}
	if err := l.save(ctx, lots); err != nil {
		return dto.InventoryRow{}, err
	}

	l.log.Info().Str("lote", key.String()).Str("cantidad", in.Quantity.String()).Msg("egreso registrado")
	desc := fmt.Sprintf("Egreso de %s %s del lote %s (%s): %s", in.Quantity, lot.Unit, lot.Lot, lot.Code, in.Reason)
	return toRow(lot), l.record(ctx, in.User, entity.ActionMarkEgress, desc)
}

// consume verifica stock, resta qty y agrega el movimiento. No toca el lote si no alcanza.
func consume(lot *entity.ProductLot, qty decimal.Decimal, mov entity.Movement) error {
	if lot.Quantity.LessThan(qty) {
		return fmt.Errorf("%w: lote %s tiene %s %s, se solicitan %s",
			domain.ErrInsufficientStock, lot.Key(), lot.Quantity, lot.Unit, qty)
	}
	lot.Quantity = lot.Quantity.Sub(qty)
	mov.Quantity = qty
	lot.Movements = append(lot.Movements, mov)
	return nil
}
