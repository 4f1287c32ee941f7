package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/inventario-sedes/internal/application/analytics"
	"github.com/jhoicas/inventario-sedes/internal/application/billing"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/internal/application/transfers"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/export"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/invoice"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/inventario-sedes/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/redisdb"
	httpRouter "github.com/jhoicas/inventario-sedes/internal/interfaces/http"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Persistencia: PostgreSQL o memoria (desarrollo).
	var (
		repos    inventory.Stores
		txRunner inventory.TxRunner
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		repos = store.Repos()
		txRunner = memory.NewTxRunner(store)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de base de datos")
		}
		repos = postgres.NewStores(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	// Redis opcional: notificaciones por PUBLISH y locks del generador de recibos.
	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible, notificaciones solo en log")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}
	notifier := notify.New(rdb, cfg.Redis.Channel, log)

	// Recibos PDF: generación bajo demanda y en segundo plano tras ventas/compras.
	receiptUC := billing.NewReceiptUseCase(
		repos.Sales, repos.Purchases, repos.Sedes, repos.Suppliers, repos.Products,
		infrapdf.NewMarotoReceiptGenerator(),
	)
	invoiceWorker := invoice.NewWorker(receiptUC, redisdb.Locker(rdb), cfg.Invoice, log)
	invoiceWorker.Start(ctx)

	engine := inventory.NewEngine()
	sedeUC := usecase.NewSedeUseCase(repos.Sedes)
	productUC := usecase.NewProductUseCase(repos.Products)
	supplierUC := usecase.NewSupplierUseCase(repos.Suppliers)
	stockUC := inventory.NewStockUseCase(txRunner, repos.Stock)
	movementUC := inventory.NewMovementUseCase(
		txRunner, engine, repos.Products, repos.Sedes, repos.Movements, export.NewXLSXExporter(),
	)
	purchaseUC := purchasing.NewUseCase(
		txRunner, engine, repos.Purchases, repos.Suppliers, repos.Sedes, repos.Products,
		notifier, invoiceWorker, log,
	)
	saleUC := sales.NewUseCase(txRunner, engine, repos.Sales, repos.Sedes, notifier, invoiceWorker, log)
	transferUC := transfers.NewUseCase(
		txRunner, engine, repos.Transfers, repos.Products, repos.Sedes, repos.Stock, notifier, log,
	)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Sales, repos.Transfers, repos.Stock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Inventario Sedes API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SedeUC:      sedeUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		StockUC:     stockUC,
		MovementUC:  movementUC,
		PurchaseUC:  purchaseUC,
		SaleUC:      saleUC,
		TransferUC:  transferUC,
		DashboardUC: dashboardUC,
		ReceiptUC:   receiptUC,
		Logger:      log,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	invoiceWorker.Stop()

	log.Info().Msg("aplicación detenida")
}
