package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/bodega/internal/application/dto"
	"github.com/jhoicas/bodega/internal/application/inventory"
)

type command struct {
	help string
	run  func(ctx context.Context, args []string) error
}

func (a *app) commands() map[string]command {
	return map[string]command{
		"inventario":   {"lista todos los lotes por ubicación", a.cmdInventory},
		"criticos":     {"lotes con cantidad <= stock mínimo", a.cmdCritical},
		"vencimientos": {"lotes vencidos o por vencer", a.cmdExpiry},
		"buscar":       {"busca por código, descripción o lote", a.cmdSearch},
		"revisar":      {"revisa stock por ubicación", a.cmdReview},
		"reportes":     {"resumen consolidado", a.cmdReports},
		"ingresar":     {"ingresa lotes desde un archivo JSON", a.cmdReceive},
		"recepcion":    {"lista o marca la recepción física de lotes", a.cmdReception},
		"egreso":       {"egreso manual de un lote", a.cmdEgress},
		"pedido":       {"arma y confirma un pedido", a.cmdOrder},
		"auditoria":    {"muestra el log de auditoría de un día", a.cmdAudit},
		"dias":         {"días con registro de auditoría", a.cmdAuditDays},
		"exportar":     {"exporta el inventario a .xlsx", a.cmdExport},
	}
}

func usage(w io.Writer) {
	names := make([]string, 0)
	cmds := (&app{}).commands()
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "uso: bodega <comando> [flags]")
	for _, n := range names {
		fmt.Fprintf(w, "  %-13s %s\n", n, cmds[n].help)
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (a *app) cmdInventory(ctx context.Context, args []string) error {
	if err := newFlagSet("inventario", a.out).Parse(args); err != nil {
		return err
	}
	rows, err := a.ledger.ListInventory(ctx)
	if err != nil {
		return err
	}
	renderInventory(a.out, rows)
	return nil
}

func (a *app) cmdCritical(ctx context.Context, args []string) error {
	if err := newFlagSet("criticos", a.out).Parse(args); err != nil {
		return err
	}
	rows, err := a.ledger.StockAlerts(ctx)
	if err != nil {
		return err
	}
	renderCritical(a.out, rows)
	return nil
}

func (a *app) cmdExpiry(ctx context.Context, args []string) error {
	if err := newFlagSet("vencimientos", a.out).Parse(args); err != nil {
		return err
	}
	rows, err := a.ledger.ExpiryAlerts(ctx)
	if err != nil {
		return err
	}
	renderExpiry(a.out, rows, a.ledger.ExpiryWindowDays())
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	fs := newFlagSet("buscar", a.out)
	criterion := fs.String("criterio", "codigo_descripcion", "codigo | descripcion | lote | codigo_descripcion (o 1, 2, 3)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := inventory.ParseSearchCriterion(*criterion)
	if err != nil {
		return err
	}
	rows, err := a.ledger.Search(ctx, c, strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	renderInventory(a.out, rows)
	return nil
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	fs := newFlagSet("revisar", a.out)
	location := fs.String("ubicacion", "", "texto contenido en la ubicación (vacío = todas)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := a.ledger.ReviewStock(ctx, *location)
	if err != nil {
		return err
	}
	renderInventory(a.out, rows)
	return nil
}

func (a *app) cmdReports(ctx context.Context, args []string) error {
	if err := newFlagSet("reportes", a.out).Parse(args); err != nil {
		return err
	}
	r, err := a.ledger.Reports(ctx)
	if err != nil {
		return err
	}
	renderReport(a.out, r)
	return nil
}

// ── Mutaciones ───────────────────────────────────────────────────────────────

func (a *app) cmdReceive(ctx context.Context, args []string) error {
	fs := newFlagSet("ingresar", a.out)
	user := fs.String("usuario", "", "usuario que ingresa la mercancía")
	path := fs.String("archivo", "", "archivo JSON con el arreglo de lotes")
	latin1 := fs.Bool("latin1", false, "el archivo está codificado en ISO-8859-1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("ingresar: -archivo es obligatorio")
	}
	reqs, err := readLotFile(*path, *latin1)
	if err != nil {
		return err
	}
	n, err := a.ledger.ReceiveLots(ctx, *user, reqs)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d lote(s) ingresado(s)\n", n)
	return nil
}

// readLotFile decodifica el arreglo de lotes; con latin1 convierte ISO-8859-1 a UTF-8.
func readLotFile(path string, latin1 bool) ([]dto.ReceiveLotRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	var reqs []dto.ReceiveLotRequest
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", path, err)
	}
	return reqs, nil
}

func (a *app) cmdReception(ctx context.Context, args []string) error {
	fs := newFlagSet("recepcion", a.out)
	user := fs.String("usuario", "", "usuario que verifica")
	code := fs.String("codigo", "", "código del producto (vacío = listar pendientes)")
	lot := fs.String("lote", "", "lote")
	conforming := fs.Bool("conforme", true, "false marca el lote como no conforme")
	obs := fs.String("obs", "", "observaciones")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" {
		rows, err := a.ledger.PendingReceptions(ctx)
		if err != nil {
			return err
		}
		renderPending(a.out, rows)
		return nil
	}
	if err := a.ledger.ConfirmReception(ctx, *user, *code, *lot, *conforming, *obs); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "recepción de %s/%s registrada\n", *code, *lot)
	return nil
}

func (a *app) cmdEgress(ctx context.Context, args []string) error {
	fs := newFlagSet("egreso", a.out)
	in := inventory.EgressInput{}
	fs.StringVar(&in.User, "usuario", "", "usuario responsable")
	fs.StringVar(&in.Code, "codigo", "", "código del producto")
	fs.StringVar(&in.Lot, "lote", "", "lote")
	fs.StringVar(&in.Reason, "motivo", "", "motivo del egreso")
	qty := fs.String("cantidad", "", "cantidad a egresar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := decimal.NewFromString(*qty)
	if err != nil {
		return fmt.Errorf("egreso: cantidad inválida %q", *qty)
	}
	in.Quantity = q
	row, err := a.ledger.MarkEgress(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "egreso registrado; quedan %s %s (%s)\n", row.Quantity, row.Unit, row.Health)
	return nil
}

func (a *app) cmdOrder(ctx context.Context, args []string) error {
	fs := newFlagSet("pedido", a.out)
	user := fs.String("usuario", "", "usuario que arma el pedido")
	var items itemList
	fs.Var(&items, "item", "codigo:lote:cantidad (repetible)")
	confirm := fs.Bool("confirmar", false, "confirma el pedido; sin este flag solo se muestra")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := a.orders.Begin(ctx, *user)
	if err != nil {
		return err
	}
	for _, it := range items {
		if _, err := session.AddItem(ctx, it.code, it.lot, it.qty); err != nil {
			_ = session.Cancel()
			return fmt.Errorf("item %s:%s: %w", it.code, it.lot, err)
		}
	}
	if !*confirm {
		renderOrder(a.out, session.Summary())
		fmt.Fprintln(a.out, "pedido no confirmado (use -confirmar)")
		return session.Cancel()
	}
	res, err := session.Commit(ctx)
	if res.Committed {
		renderOrder(a.out, res.Order)
		if res.VoucherPath != "" {
			fmt.Fprintf(a.out, "comprobante: %s\n", res.VoucherPath)
		}
	}
	if err != nil {
		return err
	}
	if !res.Committed {
		fmt.Fprintln(a.out, "pedido vacío, no se modificó el inventario")
	}
	return nil
}

type orderItem struct {
	code string
	lot  string
	qty  decimal.Decimal
}

// itemList flag repetible -item codigo:lote:cantidad.
type itemList []orderItem

func (l *itemList) String() string {
	parts := make([]string, 0, len(*l))
	for _, it := range *l {
		parts = append(parts, it.code+":"+it.lot+":"+it.qty.String())
	}
	return strings.Join(parts, ",")
}

func (l *itemList) Set(s string) error {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("se espera codigo:lote:cantidad, se recibió %q", s)
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return fmt.Errorf("cantidad inválida %q", parts[2])
	}
	*l = append(*l, orderItem{code: strings.TrimSpace(parts[0]), lot: strings.TrimSpace(parts[1]), qty: qty})
	return nil
}

// ── Auditoría y exportación ──────────────────────────────────────────────────

func (a *app) cmdAudit(ctx context.Context, args []string) error {
	fs := newFlagSet("auditoria", a.out)
	day := fs.String("dia", "hoy", "día YYYY-MM-DD u hoy")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := a.audit.Read(ctx, *day)
	if err != nil {
		return err
	}
	renderAudit(a.out, res)
	return nil
}

func (a *app) cmdAuditDays(ctx context.Context, args []string) error {
	fs := newFlagSet("dias", a.out)
	all := fs.Bool("todos", false, "lista todos los días, no solo los recientes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var (
		days []string
		err  error
	)
	if *all {
		days, err = a.audit.Days(ctx)
	} else {
		days, err = a.audit.RecentDays(ctx)
	}
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Fprintln(a.out, "sin registros de auditoría")
	}
	for _, d := range days {
		fmt.Fprintln(a.out, d)
	}
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := newFlagSet("exportar", a.out)
	user := fs.String("usuario", "", "usuario que exporta")
	path := fs.String("salida", "inventario.xlsx", "archivo .xlsx de salida")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("crear %s: %w", *path, err)
	}
	if err := a.ledger.ExportInventory(ctx, *user, f, a.exporter); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "inventario exportado a %s\n", *path)
	return nil
}
