// Package pdf genera el comprobante de salida de bodega de un pedido confirmado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega  │  N° Pedido + Fecha                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESPONSABLE: usuario + estado                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Lote | Ubicación | Cantidad  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el número + firmas                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/bodega/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoVoucherGenerator implementa inventory.VoucherGenerator usando Maroto v2.
type MarotoVoucherGenerator struct {
	warehouse string
}

// NewMarotoVoucherGenerator construye el generador; warehouse es el nombre impreso en el encabezado.
func NewMarotoVoucherGenerator(warehouse string) *MarotoVoucherGenerator {
	return &MarotoVoucherGenerator{warehouse: nonEmpty(warehouse, "Bodega")}
}

// GenerateOrderVoucher genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateOrderVoucher(ctx context.Context, order dto.OrderSummary) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if order.Number == "" {
		return nil, fmt.Errorf("pdf: pedido sin número")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de salida "+order.Number, true).
		WithAuthor(nonEmpty(order.User, g.warehouse), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(responsibleRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(order.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la bodega (izq) y N° de pedido + fecha (der).
func (g *MarotoVoucherGenerator) headerRow(order dto.OrderSummary) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.warehouse, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Salida de mercancía perecible", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE SALIDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(order.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func responsibleRow(order dto.OrderSummary) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RESPONSABLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Usuario: %s   |   Estado: %s",
				nonEmpty(order.User, "—"),
				nonEmpty(order.Status, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Lote", 2, align.Left),
		h("Ubicación", 2, align.Left),
		h("Cantidad", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea del pedido.
func tableDetailRows(items []dto.OrderLineDTO) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			cell(it.Code, 2, align.Left),
			cell(it.Description, 4, align.Left),
			cell(it.Lot, 2, align.Left),
			cell(nonEmpty(it.Location, "—"), 2, align.Left),
			cell(it.Quantity.String()+" "+it.Unit, 2, align.Right),
		))
	}
	return result
}

// totalsRow: cantidad de líneas del pedido.
func totalsRow(order dto.OrderSummary) core.Row {
	return row.New(8).Add(
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("Líneas: %d", len(order.Items)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1, Top: 1,
		})),
	)
}

// footerRow: QR con el número de pedido y espacio para firmas.
func footerRow(order dto.OrderSummary) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(order.Number, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Entregado por: ______________________", props.Text{
				Size: 9, Top: 8, Left: 5,
			}),
			text.New("Recibido por:  ______________________", props.Text{
				Size: 9, Top: 20, Left: 5,
			}),
			text.New("Conserve este comprobante como respaldo de la salida de bodega.", props.Text{
				Size: 6.5, Top: 32, Left: 5, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
