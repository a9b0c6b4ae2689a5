package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/bodega/internal/application/dto"
)

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func renderInventory(w io.Writer, rows []dto.InventoryRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no hay lotes")
		return
	}
	tw := table(w, "CÓDIGO", "DESCRIPCIÓN", "CANTIDAD", "UNIDAD", "UBICACIÓN", "LOTE", "VENCE", "ESTADO")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Code, r.Description, r.Quantity, r.Unit, r.Location, r.Lot, r.ExpiryDate, r.Health)
	}
	tw.Flush()
}

func renderCritical(w io.Writer, rows []dto.CriticalRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no hay productos en estado crítico")
		return
	}
	tw := table(w, "CÓDIGO", "DESCRIPCIÓN", "LOTE", "CANTIDAD", "MÍNIMO", "DIFERENCIA", "UNIDAD")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Code, r.Description, r.Lot, r.Quantity, r.MinimumStock, r.Difference, r.Unit)
	}
	tw.Flush()
}

func renderExpiry(w io.Writer, rows []dto.ExpiryRow, window int) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "no hay productos que venzan en los próximos %d días\n", window)
		return
	}
	tw := table(w, "CÓDIGO", "DESCRIPCIÓN", "LOTE", "VENCE", "DÍAS", "CANTIDAD")
	for _, r := range rows {
		days := fmt.Sprintf("%d", r.DaysRemaining)
		if r.Expired {
			days += " (vencido)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s %s\n",
			r.Code, r.Description, r.Lot, r.ExpiryDate, days, r.Quantity, r.Unit)
	}
	tw.Flush()
}

func renderPending(w io.Writer, rows []dto.PendingReceptionRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no hay recepciones pendientes")
		return
	}
	tw := table(w, "CÓDIGO", "DESCRIPCIÓN", "LOTE", "PROVEEDOR", "ESTADO")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Code, r.Description, r.Lot, r.Supplier, r.Status)
	}
	tw.Flush()
}

func renderReport(w io.Writer, r dto.ReportSummary) {
	fmt.Fprintf(w, "Total de lotes:     %d\n", r.TotalSKUs)
	fmt.Fprintf(w, "Total de unidades:  %s\n", r.TotalUnits)
	fmt.Fprintf(w, "Lotes críticos:     %d\n", r.CriticalCount)
	fmt.Fprintf(w, "Lotes por vencer:   %d\n", r.NearExpiryCount)
	if len(r.UnitDistribution) > 0 {
		tw := table(w, "UNIDAD", "CANTIDAD")
		for _, u := range r.UnitDistribution {
			fmt.Fprintf(tw, "%s\t%s\n", u.Unit, u.Quantity)
		}
		tw.Flush()
	}
	if r.Healthy {
		fmt.Fprintln(w, "inventario saludable")
	}
}

func renderOrder(w io.Writer, o dto.OrderSummary) {
	fmt.Fprintf(w, "Pedido %s (%s) - %s\n", o.Number, o.Status, o.User)
	if len(o.Items) == 0 {
		return
	}
	tw := table(w, "CÓDIGO", "DESCRIPCIÓN", "LOTE", "UBICACIÓN", "CANTIDAD")
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\n", it.Code, it.Description, it.Lot, it.Location, it.Quantity, it.Unit)
	}
	tw.Flush()
}

func renderAudit(w io.Writer, res dto.AuditDayResponse) {
	if len(res.Entries) == 0 {
		fmt.Fprintf(w, "sin registros para %s\n", res.Day)
		return
	}
	tw := table(w, "HORA", "USUARIO", "ACCIÓN", "DESCRIPCIÓN")
	for _, e := range res.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Format("15:04:05"), e.User, e.Action, e.Description)
	}
	tw.Flush()
	if res.Skipped > 0 {
		fmt.Fprintf(w, "%d línea(s) ilegible(s) omitida(s)\n", res.Skipped)
	}
}
