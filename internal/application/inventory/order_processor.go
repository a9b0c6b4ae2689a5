package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega/internal/application/dto"
	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/pkg/logger"
)

const orderNumberLayout = "20060102-150405"

// OrderProcessorOptions parámetros opcionales del procesador.
type OrderProcessorOptions struct {
	VoucherDir string // si no está vacío y hay generador, se escribe <dir>/<numero>.pdf al confirmar
}

// OrderProcessor abre sesiones de pedido sobre el libro de inventario.
// Los números de pedido se derivan del reloj con resolución de segundos; dos pedidos
// del mismo segundo reciben sufijo -2, -3...
type OrderProcessor struct {
	ledger     *Ledger
	voucher    VoucherGenerator
	voucherDir string
	log        *logger.Logger

	lastBase string
	seq      int
}

// NewOrderProcessor construye el procesador. voucher puede ser nil.
func NewOrderProcessor(ledger *Ledger, voucher VoucherGenerator, log *logger.Logger, opts OrderProcessorOptions) *OrderProcessor {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderProcessor{
		ledger:     ledger,
		voucher:    voucher,
		voucherDir: opts.VoucherDir,
		log:        log.Component("order_processor"),
	}
}

func (p *OrderProcessor) nextNumber(now time.Time) string {
	base := "PED-" + now.Format(orderNumberLayout)
	if base == p.lastBase {
		p.seq++
		return fmt.Sprintf("%s-%d", base, p.seq)
	}
	p.lastBase = base
	p.seq = 1
	return base
}

// Begin abre un pedido vacío en estado "En proceso".
func (p *OrderProcessor) Begin(ctx context.Context, user string) (*OrderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	now := p.ledger.clock.now().Truncate(time.Second)
	s := &OrderSession{
		p: p,
		order: entity.Order{
			Number:    p.nextNumber(now),
			CreatedAt: now,
			User:      user,
			Items:     []entity.OrderLine{},
			Status:    entity.OrderStatusInProgress,
		},
	}
	p.log.Debug().Str("pedido", s.order.Number).Str("user", user).Msg("pedido abierto")
	return s, nil
}

// OrderSession pedido en construcción. Las líneas solo se agregan, nunca se quitan.
// Confirmar o cancelar lo cierra; después cualquier operación devuelve domain.ErrOrderClosed.
// No es seguro para uso concurrente.
type OrderSession struct {
	p     *OrderProcessor
	order entity.Order
}

func (s *OrderSession) Number() string { return s.order.Number }
func (s *OrderSession) Status() string { return s.order.Status }

func (s *OrderSession) building() error {
	if s.order.Status != entity.OrderStatusInProgress {
		return fmt.Errorf("%w: pedido %s %s", domain.ErrOrderClosed, s.order.Number, strings.ToLower(s.order.Status))
	}
	return nil
}

// Search busca candidatos por código o descripción.
func (s *OrderSession) Search(ctx context.Context, text string) ([]dto.InventoryRow, error) {
	if err := s.building(); err != nil {
		return nil, err
	}
	return s.p.ledger.Search(ctx, SearchByCodeOrDescription, text)
}

func (s *OrderSession) reserved(key entity.LotKey) decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.order.Items {
		if it.Key() == key {
			total = total.Add(it.Quantity)
		}
	}
	return total
}

// AddItem valida qty contra la cantidad actual del lote (menos lo ya pedido del mismo lote
// en esta sesión) y agrega una línea con la instantánea del lote. Si no alcanza, el pedido
// queda igual y el llamador puede reintentar.
func (s *OrderSession) AddItem(ctx context.Context, code, lotID string, qty decimal.Decimal) (dto.OrderLineDTO, error) {
	if err := s.building(); err != nil {
		return dto.OrderLineDTO{}, err
	}
	if !qty.GreaterThan(decimal.Zero) {
		return dto.OrderLineDTO{}, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	lots, err := s.p.ledger.load(ctx)
	if err != nil {
		return dto.OrderLineDTO{}, err
	}
	key := entity.LotKey{Code: code, Lot: lotID}
	lot := find(lots, key)
	if lot == nil {
		return dto.OrderLineDTO{}, fmt.Errorf("%w: lote %s", domain.ErrNotFound, key)
	}
	available := lot.Quantity.Sub(s.reserved(key))
	if available.LessThan(qty) {
		return dto.OrderLineDTO{}, fmt.Errorf("%w: solo hay %s %s disponibles del lote %s",
			domain.ErrInsufficientStock, available, lot.Unit, key)
	}
	line := entity.OrderLine{
		Code:        lot.Code,
		Description: lot.Description,
		Quantity:    qty,
		Unit:        lot.Unit,
		Lot:         lot.Lot,
		Location:    lot.Location,
	}
	s.order.Items = append(s.order.Items, line)
	return toLineDTO(line), nil
}

// Summary vista del pedido.
func (s *OrderSession) Summary() dto.OrderSummary {
	items := make([]dto.OrderLineDTO, 0, len(s.order.Items))
	for _, it := range s.order.Items {
		items = append(items, toLineDTO(it))
	}
	return dto.OrderSummary{
		Number:    s.order.Number,
		CreatedAt: s.order.CreatedAt,
		User:      s.order.User,
		Status:    s.order.Status,
		Items:     items,
	}
}

// Commit confirma el pedido. Sin líneas no escribe nada. Con líneas resuelve cada una por
// (código, lote) sobre el catálogo recién cargado, valida todas antes de aplicar ninguna y
// guarda una sola vez. Si un lote ya no existe o no alcanza, no se modifica nada y el
// pedido sigue abierto.
func (s *OrderSession) Commit(ctx context.Context) (dto.CommitResult, error) {
	if err := s.building(); err != nil {
		return dto.CommitResult{}, err
	}
	if len(s.order.Items) == 0 {
		s.order.Status = entity.OrderStatusCompleted
		return dto.CommitResult{Order: s.Summary()}, nil
	}

	ledger := s.p.ledger
	lots, err := ledger.load(ctx)
	if err != nil {
		return dto.CommitResult{}, err
	}

	need := make(map[entity.LotKey]decimal.Decimal)
	keys := make([]entity.LotKey, 0)
	for _, it := range s.order.Items {
		k := it.Key()
		if _, ok := need[k]; !ok {
			keys = append(keys, k)
			need[k] = decimal.Zero
		}
		need[k] = need[k].Add(it.Quantity)
	}
	for _, k := range keys {
		lot := find(lots, k)
		if lot == nil {
			return dto.CommitResult{}, fmt.Errorf("%w: %s", domain.ErrLotVanished, k)
		}
		if lot.Quantity.LessThan(need[k]) {
			return dto.CommitResult{}, fmt.Errorf("%w: lote %s tiene %s %s, el pedido requiere %s",
				domain.ErrInsufficientStock, k, lot.Quantity, lot.Unit, need[k])
		}
	}

	now := ledger.clock.now().Truncate(time.Second)
	for _, it := range s.order.Items {
		mov := entity.Movement{
			ID:        uuid.New().String(),
			Type:      entity.MovementTypeOrderExit,
			Timestamp: now,
			User:      s.order.User,
			Reference: s.order.Number,
		}
		if err := consume(find(lots, it.Key()), it.Quantity, mov); err != nil {
			return dto.CommitResult{}, err
		}
	}
	if err := ledger.save(ctx, lots); err != nil {
		return dto.CommitResult{}, err
	}
	s.order.Status = entity.OrderStatusCompleted
	s.p.log.Info().Str("pedido", s.order.Number).Int("items", len(s.order.Items)).Msg("pedido procesado")

	result := dto.CommitResult{Order: s.Summary(), Committed: true}
	auditErr := ledger.record(ctx, s.order.User, entity.ActionProcessOrder,
		fmt.Sprintf("Pedido %s procesado", s.order.Number))
	result.VoucherPath = s.writeVoucher(ctx, result.Order)
	return result, auditErr
}

// writeVoucher genera el comprobante si hay generador y directorio. Un fallo se registra
// en el log y no invalida el pedido ya guardado.
func (s *OrderSession) writeVoucher(ctx context.Context, order dto.OrderSummary) string {
	if s.p.voucher == nil || s.p.voucherDir == "" {
		return ""
	}
	pdf, err := s.p.voucher.GenerateOrderVoucher(ctx, order)
	if err != nil {
		s.p.log.Warn().Err(err).Str("pedido", order.Number).Msg("no se pudo generar el comprobante")
		return ""
	}
	if err := os.MkdirAll(s.p.voucherDir, 0o755); err != nil {
		s.p.log.Warn().Err(err).Msg("no se pudo crear el directorio de comprobantes")
		return ""
	}
	path := filepath.Join(s.p.voucherDir, order.Number+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		s.p.log.Warn().Err(err).Str("path", path).Msg("no se pudo escribir el comprobante")
		return ""
	}
	return path
}

// Cancel descarta el pedido sin tocar el catálogo ni la auditoría.
func (s *OrderSession) Cancel() error {
	if err := s.building(); err != nil {
		return err
	}
	s.order.Status = entity.OrderStatusCancelled
	s.order.Items = nil
	return nil
}

func toLineDTO(l entity.OrderLine) dto.OrderLineDTO {
	return dto.OrderLineDTO{
		Code:        l.Code,
		Description: l.Description,
		Quantity:    l.Quantity,
		Unit:        l.Unit,
		Lot:         l.Lot,
		Location:    l.Location,
	}
}
