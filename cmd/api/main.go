package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	"github.com/jhoicas/stock-ledger/docs"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/events"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// @title                       Stock Ledger API
// @version                     1.0
// @description                 Libro de movimientos y motor de transacciones de inventario por variante.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer

// storage repositorios del motor según STORAGE_DRIVER.
type storage struct {
	txRunner  inventory.TxRunner
	variants  repository.VariantRepository
	movements repository.MovementRepository
	sales     repository.SaleRepository
	defects   repository.DefectiveItemRepository
	products  repository.ProductRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Inventory.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	ledgerMetrics := metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	listeners := []inventory.CommitListener{inventory.NewLogListener(log), ledgerMetrics}
	var publisher *events.Publisher
	if cfg.Events.Enabled() {
		publisher = events.NewPublisher(events.NewKafkaWriter(cfg.Events.KafkaBrokers), events.Config{
			TopicPrefix:       cfg.Events.TopicPrefix,
			LowStockThreshold: cfg.Inventory.LowStockThreshold,
			BufferSize:        cfg.Events.BufferSize,
		}, log)
		listeners = append(listeners, publisher)
		log.Info().Strs("brokers", cfg.Events.KafkaBrokers).Msg("publicación de eventos habilitada")
	}

	processor := inventory.NewTransactionProcessor(store.txRunner, store.variants, listeners...).
		WithCommitTimeout(cfg.Inventory.CommitTimeout)

	saleUC := inventory.NewSaleUseCase(processor, store.sales)
	reversalUC := inventory.NewReversalProcessor(processor, store.sales)
	adjustmentUC := inventory.NewAdjustmentUseCase(processor, store.variants)
	defectUC := inventory.NewDefectUseCase(processor, store.defects, log)
	queryFacade := inventory.NewQueryFacade(store.variants, store.movements, cfg.Inventory.LowStockThreshold, cfg.Inventory.HistoryPageSize)
	receiptUC := inventory.NewReceiptUseCase(store.sales, infrapdf.NewReceiptGenerator(), cfg.App.Name)
	productUC := usecase.NewProductUseCase(store.products)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	})
	app.Use(recover.New())
	app.Use(httpMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return fiber.ErrNotFound
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Inventory.StorageDriver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:       saleUC,
		Reversals:   reversalUC,
		Adjustments: adjustmentUC,
		Defects:     defectUC,
		Queries:     queryFacade,
		Receipts:    receiptUC,
		Products:    productUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
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
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador de eventos")
		}
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones) o el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Inventory.StorageDriver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		st := memory.NewStore()
		return &storage{
			txRunner:  st,
			variants:  st.Variants(),
			movements: st.Movements(),
			sales:     st.Sales(),
			defects:   st.Defects(),
			products:  st.Products(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.RunMigrations {
		if err := postgres.RunMigrations(ctx, pool, postgres.Migrations(), log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	prometheus.MustRegister(metrics.NewPoolCollector(pool))

	return &storage{
		txRunner:  postgres.NewTxRunner(pool).WithPageSize(cfg.Inventory.HistoryPageSize),
		variants:  postgres.NewVariantRepository(pool),
		movements: postgres.NewMovementRepository(pool).WithPageSize(cfg.Inventory.HistoryPageSize),
		sales:     postgres.NewSaleRepository(pool),
		defects:   postgres.NewDefectiveItemRepository(pool),
		products:  postgres.NewProductRepository(pool),
		close:     pool.Close,
	}, nil
}
