package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/bodega/internal/application/dto"
	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	domaininv "github.com/jhoicas/bodega/internal/domain/inventory"
)

// SearchCriterion campo(s) contra los que se compara el texto de búsqueda.
type SearchCriterion string

const (
	SearchByCode              SearchCriterion = "codigo"
	SearchByDescription       SearchCriterion = "descripcion"
	SearchByLot               SearchCriterion = "lote"
	SearchByCodeOrDescription SearchCriterion = "codigo_descripcion"
)

// ParseSearchCriterion acepta el nombre del criterio o su número de menú (1 código, 2 descripción, 3 lote).
func ParseSearchCriterion(s string) (SearchCriterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", string(SearchByCode):
		return SearchByCode, nil
	case "2", string(SearchByDescription):
		return SearchByDescription, nil
	case "3", string(SearchByLot):
		return SearchByLot, nil
	case "", string(SearchByCodeOrDescription):
		return SearchByCodeOrDescription, nil
	default:
		return "", fmt.Errorf("%w: criterio de búsqueda %q", domain.ErrInvalidInput, s)
	}
}

func toRow(lot *entity.ProductLot) dto.InventoryRow {
	return dto.InventoryRow{
		Code:         lot.Code,
		Description:  lot.Description,
		Quantity:     lot.Quantity,
		Unit:         lot.Unit,
		Location:     lot.Location,
		Lot:          lot.Lot,
		ExpiryDate:   lot.ExpiryDate,
		MinimumStock: lot.MinimumStock,
		Supplier:     lot.Supplier,
		Health:       string(lot.Health()),
	}
}

// ListInventory todos los lotes ordenados (estable) por ubicación, con su estado de stock.
func (l *Ledger) ListInventory(ctx context.Context) ([]dto.InventoryRow, error) {
	lots, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lots, func(i, j int) bool { return lots[i].Location < lots[j].Location })
	rows := make([]dto.InventoryRow, 0, len(lots))
	for _, lot := range lots {
		rows = append(rows, toRow(lot))
	}
	return rows, nil
}

// StockAlerts lotes con cantidad <= stock mínimo, en orden de catálogo.
func (l *Ledger) StockAlerts(ctx context.Context) ([]dto.CriticalRow, error) {
	lots, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CriticalRow, 0)
	for _, lot := range lots {
		if !lot.IsCritical() {
			continue
		}
		out = append(out, dto.CriticalRow{
			Code:         lot.Code,
			Description:  lot.Description,
			Lot:          lot.Lot,
			Quantity:     lot.Quantity,
			MinimumStock: lot.MinimumStock,
			Difference:   lot.Quantity.Sub(lot.MinimumStock),
			Unit:         lot.Unit,
			Location:     lot.Location,
		})
	}
	return out, nil
}

// ExpiryAlerts lotes que vencen dentro de la ventana (o ya vencidos), del más urgente al menos.
// Los lotes sin fecha de vencimiento legible no aparecen.
func (l *Ledger) ExpiryAlerts(ctx context.Context) ([]dto.ExpiryRow, error) {
	lots, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	today := l.clock.now()
	out := make([]dto.ExpiryRow, 0)
	for _, lot := range lots {
		days, ok := domaininv.ExpiryWithin(today, lot.ExpiryDate, l.window)
		if !ok {
			continue
		}
		out = append(out, dto.ExpiryRow{
			Code:          lot.Code,
			Description:   lot.Description,
			Lot:           lot.Lot,
			ExpiryDate:    lot.ExpiryDate,
			DaysRemaining: days,
			Expired:       days < 0,
			Quantity:      lot.Quantity,
			Unit:          lot.Unit,
			Location:      lot.Location,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysRemaining < out[j].DaysRemaining })
	return out, nil
}

// Search coincidencia por subcadena sin distinguir mayúsculas. Con SearchByCodeOrDescription
// basta que coincida uno de los dos campos. Texto vacío devuelve todo el catálogo.
func (l *Ledger) Search(ctx context.Context, criterion SearchCriterion, text string) ([]dto.InventoryRow, error) {
	switch criterion {
	case SearchByCode, SearchByDescription, SearchByLot, SearchByCodeOrDescription:
	default:
		return nil, fmt.Errorf("%w: criterio de búsqueda %q", domain.ErrInvalidInput, criterion)
	}
	lots, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(text))
	contains := func(field string) bool {
		return strings.Contains(fold.String(field), needle)
	}

	out := make([]dto.InventoryRow, 0)
	for _, lot := range lots {
		var match bool
		switch criterion {
		case SearchByCode:
			match = contains(lot.Code)
		case SearchByDescription:
			match = contains(lot.Description)
		case SearchByLot:
			match = contains(lot.Lot)
		case SearchByCodeOrDescription:
			match = contains(lot.Code) || contains(lot.Description)
		}
		if match {
			out = append(out, toRow(lot))
		}
	}
	return out, nil
}

// ReviewStock lotes cuya ubicación contiene location (vacío = todos), en orden de catálogo.
func (l *Ledger) ReviewStock(ctx context.Context, location string) ([]dto.InventoryRow, error) {
	lots, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(location))
	out := make([]dto.InventoryRow, 0)
	for _, lot := range lots {
		if needle == "" || strings.Contains(fold.String(lot.Location), needle) {
			out = append(out, toRow(lot))
		}
	}
	return out, nil
}

// Reports resumen consolidado: total de lotes, suma de cantidades (sin convertir unidades),
// críticos, por vencer y distribución por unidad en orden de aparición.
func (l *Ledger) Reports(ctx context.Context) (dto.ReportSummary, error) {
	lots, err := l.load(ctx)
	if err != nil {
		return dto.ReportSummary{}, err
	}
	now := l.clock.now()
	summary := dto.ReportSummary{
		TotalSKUs:        len(lots),
		TotalUnits:       decimal.Zero,
		UnitDistribution: []dto.UnitTotal{},
		GeneratedAt:      now,
	}
	index := make(map[string]int)
	for _, lot := range lots {
		summary.TotalUnits = summary.TotalUnits.Add(lot.Quantity)
		if lot.IsCritical() {
			summary.CriticalCount++
		}
		if _, ok := domaininv.ExpiryWithin(now, lot.ExpiryDate, l.window); ok {
			summary.NearExpiryCount++
		}
		unit := lot.Unit
		if unit == "" {
			unit = entity.UnitPiece
		}
		i, ok := index[unit]
		if !ok {
			i = len(summary.UnitDistribution)
			index[unit] = i
			summary.UnitDistribution = append(summary.UnitDistribution, dto.UnitTotal{Unit: unit, Quantity: decimal.Zero})
		}
		summary.UnitDistribution[i].Quantity = summary.UnitDistribution[i].Quantity.Add(lot.Quantity)
	}
	summary.Healthy = summary.CriticalCount == 0 && summary.NearExpiryCount == 0
	return summary, nil
}
