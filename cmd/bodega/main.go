// bodega es la consola de operación del inventario perecible: consultas, ingreso de
// mercancía, egresos, pedidos y auditoría sobre el catálogo JSON local.
//
// Uso: bodega <comando> [flags]
//
// Precondición: un único operador escribe el catálogo y los logs a la vez.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/bodega/internal/application/audit"
	"github.com/jhoicas/bodega/internal/application/inventory"
	"github.com/jhoicas/bodega/internal/infrastructure/jsonstore"
	infrapdf "github.com/jhoicas/bodega/internal/infrastructure/pdf"
	"github.com/jhoicas/bodega/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/bodega/pkg/config"
	"github.com/jhoicas/bodega/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, time.Now, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app servicios de aplicación construidos a partir de la configuración.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	ledger   *inventory.Ledger
	orders   *inventory.OrderProcessor
	audit    *audit.AuditLog
	exporter *spreadsheet.ExcelizeExporter
	out      io.Writer
}

func newApp(cfg *config.Config, log *logger.Logger, clock func() time.Time, out io.Writer) (*app, error) {
	policy, err := jsonstore.ParsePolicy(cfg.Storage.CorruptionPolicy)
	if err != nil {
		return nil, err
	}
	catalog := jsonstore.NewCatalogStore(cfg.Storage.CatalogPath, policy, log)
	auditRepo := jsonstore.NewAuditStore(cfg.Storage.AuditDir, policy, log)

	auditLog := audit.NewAuditLog(auditRepo, clock, log, cfg.Inventory.AuditRecentDays)
	ledger := inventory.NewLedger(catalog, auditLog, clock, log, inventory.LedgerOptions{
		ExpiryWindowDays: cfg.Inventory.ExpiryWindowDays,
	})
	orders := inventory.NewOrderProcessor(ledger, infrapdf.NewMarotoVoucherGenerator(cfg.App.Name), log,
		inventory.OrderProcessorOptions{VoucherDir: cfg.Storage.VoucherDir})

	return &app{
		cfg:      cfg,
		log:      log,
		ledger:   ledger,
		orders:   orders,
		audit:    auditLog,
		exporter: spreadsheet.NewExcelizeExporter(),
		out:      out,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, clock func() time.Time, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return fmt.Errorf("falta el comando")
	}
	a, err := newApp(cfg, log, clock, out)
	if err != nil {
		return err
	}
	cmd, ok := a.commands()[args[0]]
	if !ok {
		usage(out)
		return fmt.Errorf("comando desconocido %q", args[0])
	}
	return cmd.run(ctx, args[1:])
}
